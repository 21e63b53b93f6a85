package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/outfiles/internal/config"
	"github.com/handiism/outfiles/internal/errors"
	"github.com/handiism/outfiles/internal/project"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateReview State = iota
	StateInitializing
	StateCollision
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   project.ProgressLevel
}

// Result is what the user ended up doing.
type Result struct {
	// Report of the last batch run, nil if nothing ran.
	Report *project.Report
	// Policy the last batch ran with.
	Policy project.Policy
	// Aborted is set when the user quit before a batch completed.
	Aborted bool
	// Err is the error of the last batch run, if any.
	Err error
}

// Option configures a Model.
type Option func(*Model)

// WithManagerOptions passes options to every Manager the UI creates.
func WithManagerOptions(opts ...project.Option) Option {
	return func(m *Model) {
		m.managerOpts = append(m.managerOpts, opts...)
	}
}

// WithCollision starts the UI at the collision prompt for path.
func WithCollision(path string) Option {
	return func(m *Model) {
		m.state = StateCollision
		m.collision = path
	}
}

// WithVerbose shows verbose progress messages.
func WithVerbose(verbose bool) Option {
	return func(m *Model) {
		m.verbose = verbose
	}
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	policy   project.Policy

	managerOpts []project.Option

	plan      *project.Report
	report    *project.Report
	logs      []LogEntry
	collision string
	aborted   bool
	verbose   bool
	err       error

	width  int
	height int
}

// NewModel creates a new TUI model for the configured batch.
func NewModel(settings *config.Settings, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	m := Model{
		state:    StateReview,
		spinner:  sp,
		progress: prog,
		settings: settings,
		logs:     make([]LogEntry, 0),
	}
	for _, opt := range opts {
		opt(&m)
	}

	policy, err := settings.Policy()
	if err != nil {
		m.state = StateError
		m.err = err
		return m
	}
	m.policy = policy

	if m.state == StateReview {
		m.plan = m.planFiles()
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message types
type (
	// RunDoneMsg is sent when a batch run finishes.
	RunDoneMsg struct {
		Report *project.Report
		Events []project.ProgressEvent
		Err    error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RunDoneMsg:
		m.report = msg.Report
		m.err = msg.Err
		for _, event := range msg.Events {
			m.addLog(event)
		}

		switch {
		case msg.Err == nil:
			m.state = StateComplete
		case errors.KindOf(msg.Err) == errors.KindCollision:
			m.state = StateCollision
			m.collision = collisionPath(msg.Err)
		default:
			m.state = StateError
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.aborted = m.state != StateComplete
		return m, tea.Quit

	case "esc", "q":
		switch m.state {
		case StateReview, StateCollision:
			m.aborted = true
			return m, tea.Quit
		case StateComplete, StateError:
			return m, tea.Quit
		}

	case "enter":
		if m.state == StateReview {
			return m.start()
		}

	case "a", "o", "i":
		if m.state == StateCollision {
			m.policy = map[string]project.Policy{
				"a": project.PolicyArchive,
				"o": project.PolicyOverwrite,
				"i": project.PolicyIgnore,
			}[msg.String()]
			m.collision = ""
			return m.start()
		}

	case "v":
		if m.state == StateReview {
			m.verbose = !m.verbose
		}

	case "r":
		if m.state == StateComplete || m.state == StateError {
			// Plan again from the configured policy
			if policy, err := m.settings.Policy(); err == nil {
				m.policy = policy
			}
			m.state = StateReview
			m.logs = nil
			m.report = nil
			m.err = nil
			m.plan = m.planFiles()
		}
	}

	return m, nil
}

func (m Model) start() (tea.Model, tea.Cmd) {
	m.state = StateInitializing
	return m, tea.Batch(m.run(), m.spinner.Tick)
}

func (m *Model) addLog(event project.ProgressEvent) {
	if event.Level == project.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	// Keep only last 10 logs
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// manager builds a Manager for the configured project running policy.
func (m Model) manager(policy project.Policy, extra ...project.Option) (*project.Manager, error) {
	settings := *m.settings
	settings.Project.OverwriteType = policy.String()

	opts := append(append([]project.Option{}, m.managerOpts...), extra...)
	return settings.ToManager(opts...)
}

func (m Model) planFiles() *project.Report {
	mgr, err := m.manager(m.policy)
	if err != nil {
		return nil
	}
	return mgr.Plan(m.settings.ToFiles()...)
}

// run initializes fresh descriptors from the settings with the current
// policy. Descriptors from an earlier denied run are never reused.
func (m Model) run() tea.Cmd {
	policy := m.policy
	return func() tea.Msg {
		var events []project.ProgressEvent
		mgr, err := m.manager(policy, project.WithProgress(func(e project.ProgressEvent) {
			events = append(events, e)
		}))
		if err != nil {
			return RunDoneMsg{Err: err}
		}

		rep, err := mgr.Run(m.settings.ToFiles()...)
		return RunDoneMsg{Report: rep, Events: events, Err: err}
	}
}

func collisionPath(err error) string {
	var e *errors.Error
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}

// Result returns what the user ended up doing.
func (m Model) Result() Result {
	return Result{
		Report:  m.report,
		Policy:  m.policy,
		Aborted: m.aborted,
		Err:     m.err,
	}
}

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("outfiles"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Project %s (policy %s)", m.settings.Project.Path, m.policy)))
	b.WriteString("\n\n")

	switch m.state {
	case StateReview:
		b.WriteString(m.viewReview())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateCollision:
		b.WriteString(m.viewCollision())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewReview() string {
	var b strings.Builder

	if m.plan == nil || len(m.plan.Outcomes) == 0 {
		b.WriteString(subtitleStyle.Render("No output files configured."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Planned output files (%d):", len(m.plan.Outcomes))))
	b.WriteString("\n")
	for _, o := range m.plan.Outcomes {
		marker := successStyle.Render("  + ")
		if o.Collision {
			marker = warningStyle.Render("  ! ")
		}
		b.WriteString(marker)
		b.WriteString(pathStyle.Render(o.Path))
		if n := len(o.Members); n > 1 {
			b.WriteString(dimStyle.Render(fmt.Sprintf(" (%d files)", n)))
		}
		b.WriteString("\n")
	}

	if collisions := countCollisions(m.plan); collisions > 0 {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("%d file(s) already exist (policy %s).", collisions, m.policy)))
		b.WriteString("\n")
	}

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}
	b.WriteString("\n")
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))

	return b.String()
}

func countCollisions(rep *project.Report) int {
	n := 0
	for _, o := range rep.Outcomes {
		if o.Collision {
			n++
		}
	}
	return n
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Initializing output files..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewCollision() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("Output file already exists:"))
	b.WriteString("\n\n")
	b.WriteString("  ")
	b.WriteString(pathStyle.Render(m.collision))
	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("How should existing output files be handled?"))
	b.WriteString("\n")
	b.WriteString("  (a) Archive: copy into the archive tree, then truncate\n")
	b.WriteString("  (o) Overwrite: truncate in place\n")
	b.WriteString("  (i) Ignore: leave untouched and read-only\n")
	b.WriteString("\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	var percent float64
	if total := len(m.settings.Files); total > 0 && m.report != nil {
		percent = float64(len(m.report.Outcomes)) / float64(total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n\n")

	var created, archived, overwritten, ignored int
	if m.report != nil {
		created = m.report.Count(project.ActionCreated)
		archived = m.report.Count(project.ActionArchived)
		overwritten = m.report.Count(project.ActionOverwritten)
		ignored = m.report.Count(project.ActionIgnored)
	}

	box := boxStyle.Render(fmt.Sprintf(
		"Output files ready\n\n"+
			"Created: %d\n"+
			"Archived: %d\n"+
			"Overwritten: %d\n"+
			"Ignored: %d",
		created, archived, overwritten, ignored,
	))
	b.WriteString(box)
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case project.LevelError:
			style = errorStyle
			prefix = "✗"
		case project.LevelWarning:
			style = warningStyle
			prefix = "!"
		case project.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case project.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateReview:
		return "enter: initialize • v: verbose • esc: quit"
	case StateInitializing:
		return "working..."
	case StateCollision:
		return "a: archive • o: overwrite • i: ignore • esc: abort"
	case StateComplete, StateError:
		return "r: plan again • q: quit"
	}
	return ""
}

// Run starts the TUI application and returns what the user ended up doing.
func Run(settings *config.Settings, opts ...Option) (Result, error) {
	p := tea.NewProgram(NewModel(settings, opts...), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return Result{}, err
	}
	return final.(Model).Result(), nil
}
