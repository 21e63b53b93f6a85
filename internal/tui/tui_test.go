package tui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/outfiles/internal/config"
	"github.com/handiism/outfiles/internal/project"
)

func testSettings(t *testing.T, policy project.Policy) *config.Settings {
	t.Helper()

	header := "step,energy"
	settings := config.DefaultSettings()
	settings.Project.Path = t.TempDir()
	settings.Project.OverwriteType = policy.String()
	settings.Files = []config.FileSettings{
		{OutputPath: "results", Name: "energy", Header: &header},
	}
	return settings
}

func quiet() Option {
	return WithManagerOptions(project.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

// runBatch performs the run the model just scheduled.
func runBatch(t *testing.T, m Model) Model {
	t.Helper()
	require.Equal(t, StateInitializing, m.State())
	return update(t, m, m.run()())
}

func writeExisting(t *testing.T, settings *config.Settings) string {
	t.Helper()
	path := filepath.Join(settings.Project.Path, "results", "energy.dat")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("old data\n"), 0644))
	return path
}

func TestModel_ReviewShowsPlan(t *testing.T) {
	settings := testSettings(t, project.PolicyPanic)
	m := NewModel(settings, quiet())

	assert.Equal(t, StateReview, m.State())
	require.NotNil(t, m.plan)
	require.Len(t, m.plan.Outcomes, 1)
	assert.Contains(t, m.View(), "energy.dat")

	_, err := os.Stat(filepath.Join(settings.Project.Path, "results"))
	assert.True(t, os.IsNotExist(err), "review must not touch the filesystem")
}

func TestModel_InitializeFresh(t *testing.T) {
	settings := testSettings(t, project.PolicyPanic)
	m := NewModel(settings, quiet())

	m = update(t, m, key("enter"))
	m = runBatch(t, m)

	assert.Equal(t, StateComplete, m.State())
	res := m.Result()
	require.NotNil(t, res.Report)
	assert.Equal(t, 1, res.Report.Count(project.ActionCreated))
	assert.False(t, res.Aborted)
	assert.NoError(t, res.Err)

	data, err := os.ReadFile(filepath.Join(settings.Project.Path, "results", "energy.dat"))
	require.NoError(t, err)
	assert.Equal(t, "step,energy\n", string(data))
	assert.Contains(t, m.View(), "Output files ready")
}

func TestModel_CollisionThenArchive(t *testing.T) {
	settings := testSettings(t, project.PolicyPanic)
	existing := writeExisting(t, settings)
	m := NewModel(settings, quiet())

	m = update(t, m, key("enter"))
	m = runBatch(t, m)
	require.Equal(t, StateCollision, m.State())
	assert.NotEmpty(t, m.collision)
	assert.Contains(t, m.View(), "a: archive")

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "old data\n", string(data), "a denied run must not modify the file")

	m = update(t, m, key("a"))
	assert.Equal(t, project.PolicyArchive, m.Result().Policy)
	m = runBatch(t, m)
	require.Equal(t, StateComplete, m.State())

	archived, err := os.ReadFile(filepath.Join(settings.Project.Path, project.ArchiveDir, "results", "energy.dat"))
	require.NoError(t, err)
	assert.Equal(t, "old data\n", string(archived))

	data, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "step,energy\n", string(data))
}

func TestModel_CollisionIgnore(t *testing.T) {
	settings := testSettings(t, project.PolicyPanic)
	existing := writeExisting(t, settings)
	m := NewModel(settings, quiet(), WithCollision(existing))

	require.Equal(t, StateCollision, m.State())
	assert.Contains(t, m.View(), existing)

	m = update(t, m, key("i"))
	m = runBatch(t, m)
	require.Equal(t, StateComplete, m.State())
	assert.Equal(t, 1, m.Result().Report.Count(project.ActionIgnored))

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "old data\n", string(data))
}

func TestModel_CollisionAbort(t *testing.T) {
	settings := testSettings(t, project.PolicyPanic)
	existing := writeExisting(t, settings)
	m := NewModel(settings, quiet(), WithCollision(existing))

	next, cmd := m.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).Result().Aborted)
}

func TestModel_InvalidPolicy(t *testing.T) {
	settings := testSettings(t, project.PolicyPanic)
	settings.Project.OverwriteType = "Delete"

	m := NewModel(settings)
	assert.Equal(t, StateError, m.State())
	assert.Error(t, m.Result().Err)
	assert.Contains(t, m.View(), "Error occurred")
}

func TestModel_ReplanAfterComplete(t *testing.T) {
	settings := testSettings(t, project.PolicyOverwrite)
	m := NewModel(settings, quiet())

	m = update(t, m, key("enter"))
	m = runBatch(t, m)
	require.Equal(t, StateComplete, m.State())

	m = update(t, m, key("r"))
	assert.Equal(t, StateReview, m.State())
	require.NotNil(t, m.plan)
	assert.True(t, m.plan.Outcomes[0].Collision)
	assert.Equal(t, project.ActionOverwritten, m.plan.Outcomes[0].Action)
}

func logMessages(m Model) []string {
	messages := make([]string, len(m.logs))
	for i, entry := range m.logs {
		messages[i] = entry.Message
	}
	return messages
}

func TestModel_VerboseFilter(t *testing.T) {
	settings := testSettings(t, project.PolicyPanic)
	m := NewModel(settings, quiet())

	m = update(t, m, key("enter"))
	m = runBatch(t, m)
	require.Equal(t, StateComplete, m.State())
	require.Len(t, m.logs, 1)
	assert.Equal(t, project.LevelSuccess, m.logs[0].Level)

	m = update(t, m, key("r"))
	m = update(t, m, key("v"))
	m = update(t, m, key("enter"))
	m = runBatch(t, m)
	require.Equal(t, StateCollision, m.State())

	messages := logMessages(m)
	require.Len(t, messages, 3)
	assert.Contains(t, messages[0], "Resolved")
	assert.Contains(t, messages[1], "existing file(s)")
	assert.Contains(t, messages[2], "Refused to overwrite")
}
