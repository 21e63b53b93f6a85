package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/handiism/outfiles/internal/errors"
)

// Format is the text format a Source was parsed from.
type Format int

const (
	FormatTOML Format = iota
	FormatJSON
	FormatYAML
)

// String returns the string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch strings.ToLower(ext) {
	case "toml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "":
		return 0, invalid("load", path, fmt.Errorf("no extension found for config file"))
	default:
		return 0, invalid("load", path, fmt.Errorf("config files with .%s extension are not supported", ext))
	}
}

// Source is a parsed configuration tree addressed by top-level table name.
type Source struct {
	format Format
	tree   map[string]any
}

// Load reads and parses a config file, choosing the parser by extension.
func Load(path string) (*Source, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalid("load", path, err)
	}

	src, err := Parse(format, data)
	if err != nil {
		return nil, invalid("load", path, err)
	}
	return src, nil
}

// Parse parses data in the given format. The document must be a table
// (TOML) or an object/mapping (JSON, YAML).
func Parse(format Format, data []byte) (*Source, error) {
	tree := map[string]any{}
	var err error

	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &tree)
	case FormatJSON:
		err = json.Unmarshal(data, &tree)
	case FormatYAML:
		err = yaml.Unmarshal(data, &tree)
	default:
		err = fmt.Errorf("unknown config format %d", int(format))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s config: %w", format, err)
	}
	if tree == nil {
		tree = map[string]any{}
	}

	return &Source{format: format, tree: tree}, nil
}

// ParseTOML parses a TOML document.
func ParseTOML(s string) (*Source, error) { return Parse(FormatTOML, []byte(s)) }

// ParseJSON parses a JSON object.
func ParseJSON(s string) (*Source, error) { return Parse(FormatJSON, []byte(s)) }

// ParseYAML parses a YAML mapping.
func ParseYAML(s string) (*Source, error) { return Parse(FormatYAML, []byte(s)) }

// Format returns the format the source was parsed from.
func (s *Source) Format() Format {
	return s.format
}

// Has reports whether a top-level table exists.
func (s *Source) Has(table string) bool {
	_, ok := s.tree[table]
	return ok
}

// Decode extracts the named top-level table into out, which must be a
// pointer. Fields are matched by their json tags whatever the source
// format; fields already set in out are kept when the table omits them.
func (s *Source) Decode(table string, out any) error {
	value, ok := s.tree[table]
	if !ok {
		return invalid("decode", table, fmt.Errorf("no sub-table named %q", table))
	}

	data, err := json.Marshal(value)
	if err != nil {
		return invalid("decode", table, fmt.Errorf("failed to re-encode sub-table: %w", err))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return invalid("decode", table, fmt.Errorf("failed to initialize the structure for sub-table %s: %w", table, err))
	}
	return nil
}

func invalid(op, path string, err error) error {
	return errors.New(errors.KindInvalidConfig, op, path, err)
}
