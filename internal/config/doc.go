// Package config provides configuration management for outfiles.
//
// This package handles:
//   - Parsing TOML, JSON and YAML documents into a generic Source tree
//   - Typed extraction of named sub-tables (Source.Decode)
//   - Validation of the project and file settings
//   - Conversion to a project.Manager and output.File descriptors
//
// # Configuration File
//
//	[project]
//	path = "proj"
//	extension = "dat"
//	overwrite_type = "Archive"   # Panic, Archive, Overwrite or Ignore
//
//	[[files]]
//	output_path = "results"
//	name = "energy"
//	header = "step,energy"
//
//	[[files]]
//	output_path = "snapshots"
//	name = "frame"
//	extension = "xyz"
//	series = 10
//
// The same layout works as a JSON object or a YAML mapping.
//
// # Loading
//
//	settings, err := config.LoadSettings("outfiles.toml")
//	if err != nil {
//	    return err
//	}
//	mgr, err := settings.ToManager()
//	files := settings.ToFiles()
//
// # Generic Extraction
//
// Any sub-table can be decoded into a struct with json tags:
//
//	src, _ := config.ParseTOML("[data]\nx = 1\n")
//	var data struct{ X int `json:"x"` }
//	err := src.Decode("data", &data)
package config
