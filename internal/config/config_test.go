package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/outfiles/internal/errors"
	ioutils "github.com/handiism/outfiles/internal/io"
	"github.com/handiism/outfiles/internal/project"
)

type testStruct struct {
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
	Z uint32 `json:"z"`
}

const tomlConfig = `
[project]
path = "proj"
extension = "csv"
overwrite_type = "Archive"

[[files]]
output_path = "results"
name = "energy"
header = "step,energy"

[[files]]
output_path = "snapshots"
name = "frame"
extension = "xyz"
series = 3
`

const jsonConfig = `{
  "project": {"path": "proj", "extension": "csv", "overwrite_type": "Archive"},
  "files": [
    {"output_path": "results", "name": "energy", "header": "step,energy"},
    {"output_path": "snapshots", "name": "frame", "extension": "xyz", "series": 3}
  ]
}`

const yamlConfig = `
project:
  path: proj
  extension: csv
  overwrite_type: Archive
files:
  - output_path: results
    name: energy
    header: step,energy
  - output_path: snapshots
    name: frame
    extension: xyz
    series: 3
`

func TestSource_StructFromConfig(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) (*Source, error)
		doc   string
	}{
		{"toml", ParseTOML, "[data]\nx = 1\ny = 2\nz = 3\n"},
		{"json", ParseJSON, `{"data": {"x": 1, "y": 2, "z": 3}}`},
		{"yaml", ParseYAML, "data:\n  x: 1\n  y: 2\n  z: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := tt.parse(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.name, src.Format().String())

			var got testStruct
			require.NoError(t, src.Decode("data", &got))
			assert.Equal(t, testStruct{X: 1, Y: 2, Z: 3}, got)
		})
	}
}

func TestSource_DecodeMissingTable(t *testing.T) {
	src, err := ParseTOML("[data]\nx = 1\n")
	require.NoError(t, err)

	var got testStruct
	err = src.Decode("other", &got)
	assert.Equal(t, errors.KindInvalidConfig, errors.KindOf(err))
	assert.False(t, src.Has("other"))
	assert.True(t, src.Has("data"))
}

func TestSource_DecodeTypeMismatch(t *testing.T) {
	src, err := ParseJSON(`{"data": {"x": "not a number"}}`)
	require.NoError(t, err)

	var got testStruct
	assert.Error(t, src.Decode("data", &got))
}

func TestParse_Invalid(t *testing.T) {
	_, err := ParseTOML("this is = = not toml")
	assert.Error(t, err)

	_, err = ParseJSON(`[1, 2, 3]`)
	assert.Error(t, err)

	_, err = ParseYAML("- a\n- b\n")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"outfiles.toml", FormatTOML, false},
		{"outfiles.json", FormatJSON, false},
		{"outfiles.yaml", FormatYAML, false},
		{"outfiles.YML", FormatYAML, false},
		{"file_with_wrong_extension.dat", 0, true},
		{"no_extension", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.Equal(t, errors.KindInvalidConfig, errors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.toml")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	src, err := Load(empty)
	require.NoError(t, err)
	assert.False(t, src.Has("project"))

	_, err = Load(filepath.Join(dir, "this_file_doesnt_exist.json"))
	assert.Equal(t, errors.KindInvalidConfig, errors.KindOf(err))
}

func TestLoadSettings_AllFormats(t *testing.T) {
	docs := map[string]string{
		"outfiles.toml": tomlConfig,
		"outfiles.json": jsonConfig,
		"outfiles.yaml": yamlConfig,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

			settings, err := LoadSettings(path)
			require.NoError(t, err)

			assert.Equal(t, ProjectSettings{Path: "proj", Extension: "csv", OverwriteType: "Archive"}, settings.Project)
			require.Len(t, settings.Files, 2)

			energy := settings.Files[0]
			assert.Equal(t, "results", energy.OutputPath)
			assert.Equal(t, "energy", energy.Name)
			require.NotNil(t, energy.Header)
			assert.Equal(t, "step,energy", *energy.Header)
			assert.Nil(t, energy.Extension)
			assert.Nil(t, energy.Series)

			frame := settings.Files[1]
			require.NotNil(t, frame.Series)
			assert.Equal(t, uint(3), *frame.Series)
			require.NotNil(t, frame.Extension)
			assert.Equal(t, "xyz", *frame.Extension)
		})
	}
}

func TestFromSource_Defaults(t *testing.T) {
	src, err := ParseTOML("[project]\npath = \"proj\"\n")
	require.NoError(t, err)

	settings, err := FromSource(src)
	require.NoError(t, err)
	assert.Equal(t, "dat", settings.Project.Extension)
	assert.Equal(t, "Panic", settings.Project.OverwriteType)
	assert.Empty(t, settings.Files)
}

func TestFromSource_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing project table", `{"files": []}`},
		{"unknown policy", `{"project": {"path": "p", "overwrite_type": "Delete"}}`},
		{"empty path", `{"project": {"path": "", "overwrite_type": "Panic"}}`},
		{"file without name", `{"project": {"path": "p", "overwrite_type": "Panic"}, "files": [{"output_path": "d"}]}`},
		{"file without output path", `{"project": {"path": "p", "overwrite_type": "Panic"}, "files": [{"name": "n"}]}`},
		{"empty series", `{"project": {"path": "p", "overwrite_type": "Panic"}, "files": [{"output_path": "d", "name": "n", "series": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := ParseJSON(tt.doc)
			require.NoError(t, err)

			_, err = FromSource(src)
			assert.Equal(t, errors.KindInvalidConfig, errors.KindOf(err))
			assert.True(t, errors.IsInvalid(err))
		})
	}
}

func TestFromSource_PolicyCaseInsensitive(t *testing.T) {
	src, err := ParseYAML("project:\n  path: p\n  overwrite_type: overwrite\n")
	require.NoError(t, err)

	settings, err := FromSource(src)
	require.NoError(t, err)

	policy, err := settings.Policy()
	require.NoError(t, err)
	assert.Equal(t, project.PolicyOverwrite, policy)
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	header := "id,value"
	count := uint(4)
	want := DefaultSettings()
	want.Project.Path = "proj"
	want.Project.OverwriteType = "Ignore"
	want.Files = []FileSettings{
		{OutputPath: "dir", Name: "out", Header: &header},
		{OutputPath: "runs", Name: "run", Series: &count},
	}

	for _, name := range []string{"cfg.toml", "cfg.json", "cfg.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, want.Save(path))

			got, err := LoadSettings(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	assert.Error(t, want.Save(filepath.Join(t.TempDir(), "cfg.ini")))
}

func TestSettings_SaveModes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "cfg.toml")
	require.NoError(t, DefaultSettings().Save(path))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, ioutils.FileMode, info.Mode().Perm()&ioutils.FileMode)
}

func TestSettings_ToManagerAndFiles(t *testing.T) {
	src, err := ParseTOML(tomlConfig)
	require.NoError(t, err)
	settings, err := FromSource(src)
	require.NoError(t, err)

	mgr, err := settings.ToManager()
	require.NoError(t, err)
	assert.Equal(t, "proj", mgr.Root())
	assert.Equal(t, "csv", mgr.Extension())
	assert.Equal(t, project.PolicyArchive, mgr.Policy())

	files := settings.ToFiles()
	require.Len(t, files, 2)
	mgr.ApplyDefaults(files...)

	p, ok := files[0].Resolve()
	require.True(t, ok)
	assert.Equal(t, filepath.Join("proj", "results", "energy.csv"), p)

	p, ok = files[1].Resolve()
	require.True(t, ok)
	assert.Equal(t, filepath.Join("proj", "snapshots", "frame_0.xyz"), p)
}
