package config

import (
	"fmt"
	"strings"

	"github.com/popsearch/popsearch/internal/models"
)

// Bundle is a portable copy of the settings and catalog.
type Bundle struct {
	Version  int              `yaml:"version"`
	Settings *models.Settings `yaml:"settings,omitempty"`
	Catalog  *models.Catalog  `yaml:"catalog"`
}

// ExportBundle writes the current settings and catalog to path.
func ExportBundle(path string) (*Bundle, error) {
	settings, err := LoadSettings()
	if err != nil {
		return nil, err
	}
	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}
	b := &Bundle{Version: 1, Settings: settings, Catalog: catalog}
	if err := SaveYAML(path, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadBundle reads an exported bundle. A bare catalog file, as found in
// ~/.popsearch, is accepted too. JSON parses as YAML.
func ReadBundle(path string) (*Bundle, error) {
	var b Bundle
	if err := LoadYAML(path, &b); err != nil {
		return nil, err
	}
	if b.Catalog == nil {
		var catalog models.Catalog
		if err := LoadYAML(path, &catalog); err != nil {
			return nil, err
		}
		if catalog.Destinations == nil {
			return nil, fmt.Errorf("%s has no catalog", path)
		}
		b.Catalog = &catalog
	}
	if err := validateCatalog(b.Catalog); err != nil {
		return nil, fmt.Errorf("invalid catalog in %s: %w", path, err)
	}
	return &b, nil
}

// ImportBundle replaces the catalog, and the settings when present, with
// the contents of path. Nothing is written if the bundle is invalid.
func ImportBundle(path string) (*Bundle, error) {
	b, err := ReadBundle(path)
	if err != nil {
		return nil, err
	}
	if err := SaveCatalog(b.Catalog); err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	if b.Settings != nil {
		b.Settings.Normalize()
		if err := SaveSettings(b.Settings); err != nil {
			return nil, fmt.Errorf("failed to save settings: %w", err)
		}
	}
	return b, nil
}

func validateCatalog(c *models.Catalog) error {
	ids := make(map[string]bool)
	for i, d := range c.Destinations {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("destination %d has no name", i+1)
		}
		if strings.TrimSpace(d.Target) == "" {
			return fmt.Errorf("destination %q has no target", d.Name)
		}
		if d.ID == "" {
			continue
		}
		if ids[d.ID] {
			return fmt.Errorf("duplicate destination ID %q", d.ID)
		}
		ids[d.ID] = true
	}
	return nil
}
