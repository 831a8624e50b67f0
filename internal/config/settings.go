package config

import (
	"github.com/popsearch/popsearch/internal/models"
)

// LoadSettings loads the global settings from ~/.popsearch/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	settings.Normalize()
	return settings, nil
}

// SaveSettings saves the global settings to ~/.popsearch/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}
