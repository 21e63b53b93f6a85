package main

import (
	"log/slog"

	"github.com/handiism/outfiles/internal/config"
	"github.com/handiism/outfiles/internal/project"
)

// loadSettings reads the config file and applies the command-line overrides.
func loadSettings() (*config.Settings, error) {
	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return nil, err
	}

	if rootFlag != "" {
		settings.Project.Path = rootFlag
	}
	if policyFlag != "" {
		policy, err := project.ParsePolicy(policyFlag)
		if err != nil {
			return nil, err
		}
		settings.Project.OverwriteType = policy.String()
	}

	slog.Debug("loaded settings",
		"config", configPath,
		"root", settings.Project.Path,
		"policy", settings.Project.OverwriteType,
		"files", len(settings.Files))
	return settings, nil
}
