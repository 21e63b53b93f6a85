package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	ioutils "github.com/handiism/outfiles/internal/io"
	"github.com/handiism/outfiles/internal/output"
	"github.com/handiism/outfiles/internal/project"
)

// Table names read from a config source.
const (
	ProjectTable = "project"
	FilesTable   = "files"
)

// Settings holds all configuration options.
type Settings struct {
	Project ProjectSettings `json:"project" toml:"project" yaml:"project"`
	Files   []FileSettings  `json:"files,omitempty" toml:"files,omitempty" yaml:"files,omitempty" validate:"dive"`
}

// ProjectSettings configures the project coordinator.
type ProjectSettings struct {
	// Path to the project directory
	Path string `json:"path" toml:"path" yaml:"path" validate:"required"`
	// Default output file extension
	Extension string `json:"extension" toml:"extension" yaml:"extension"`
	// Behaviour if project files already exist: Panic, Archive, Overwrite or Ignore
	OverwriteType string `json:"overwrite_type" toml:"overwrite_type" yaml:"overwrite_type" validate:"required,policy"`
}

// FileSettings configures one output file descriptor.
type FileSettings struct {
	Header     *string `json:"header,omitempty" toml:"header,omitempty" yaml:"header,omitempty"`
	OutputPath string  `json:"output_path" toml:"output_path" yaml:"output_path" validate:"required"`
	Name       string  `json:"name" toml:"name" yaml:"name" validate:"required"`
	Extension  *string `json:"extension,omitempty" toml:"extension,omitempty" yaml:"extension,omitempty"`
	// Series is the number of numbered sibling files, if any.
	Series *uint `json:"series,omitempty" toml:"series,omitempty" yaml:"series,omitempty" validate:"omitempty,min=1"`
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("policy", validatePolicy)
}

func validatePolicy(fl validator.FieldLevel) bool {
	_, err := project.ParsePolicy(fl.Field().String())
	return err == nil
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Project: ProjectSettings{
			Path:          ".",
			Extension:     "dat",
			OverwriteType: project.PolicyPanic.String(),
		},
	}
}

// FromSource decodes settings from a parsed source. The project table is
// required; the files table is optional.
func FromSource(src *Source) (*Settings, error) {
	settings := DefaultSettings()

	if err := src.Decode(ProjectTable, &settings.Project); err != nil {
		return nil, err
	}
	if src.Has(FilesTable) {
		if err := src.Decode(FilesTable, &settings.Files); err != nil {
			return nil, err
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// LoadSettings reads settings from a TOML, JSON or YAML file.
func LoadSettings(path string) (*Settings, error) {
	src, err := Load(path)
	if err != nil {
		return nil, err
	}
	settings, err := FromSource(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// Validate checks required fields and the overwrite policy name.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return invalid("validate", "", err)
	}
	return nil
}

// Save writes settings to a file in the format implied by its extension.
func (s *Settings) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatTOML:
		data, err = toml.Marshal(s)
	case FormatJSON:
		data, err = json.MarshalIndent(s, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(s); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	}
	if err != nil {
		return err
	}

	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, ioutils.FileMode)
}

// Policy returns the parsed overwrite policy.
func (s *Settings) Policy() (project.Policy, error) {
	policy, err := project.ParsePolicy(s.Project.OverwriteType)
	if err != nil {
		return 0, invalid("policy", "", err)
	}
	return policy, nil
}

// ToManager converts settings to a project Manager.
func (s *Settings) ToManager(opts ...project.Option) (*project.Manager, error) {
	policy, err := s.Policy()
	if err != nil {
		return nil, err
	}
	return project.NewManager(s.Project.Path, s.Project.Extension, policy, opts...), nil
}

// ToFiles converts every file entry to a fresh descriptor.
func (s *Settings) ToFiles() []*output.File {
	files := make([]*output.File, len(s.Files))
	for i := range s.Files {
		files[i] = s.Files[i].ToFile()
	}
	return files
}

// ToFile converts a file entry to a descriptor in the builder state. The
// project path and default extension are left for the Manager to inject.
func (fs *FileSettings) ToFile() *output.File {
	f := output.New().
		SetOutputPath(fs.OutputPath).
		SetFileName(fs.Name)

	if fs.Header != nil {
		f.SetHeader(*fs.Header)
	}
	if fs.Extension != nil {
		f.SetExtension(*fs.Extension)
	}
	if fs.Series != nil {
		f.SetSeries(*fs.Series)
	}
	return f
}
