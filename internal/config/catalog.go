package config

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/popsearch/popsearch/internal/models"
)

// LoadCatalog loads the destination catalog from ~/.popsearch/catalog.yaml.
// If the file doesn't exist, the default catalog is written once and
// returned; concurrent first loads agree on one file. Destinations
// without an ID are given one and the catalog is written back so IDs stay
// stable across loads.
func LoadCatalog() (*models.Catalog, error) {
	path, err := GlobalCatalogFile()
	if err != nil {
		return nil, err
	}
	if !FileExists(path) {
		catalog := models.NewCatalog()
		AssignIDs(catalog)
		created, err := CreateYAML(path, catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to write default catalog: %w", err)
		}
		if created {
			return catalog, nil
		}
		// Another process wrote the default first; use its IDs.
	}
	catalog, err := LoadYAMLOrDefault(path, models.NewCatalog)
	if err != nil {
		return nil, err
	}
	if AssignIDs(catalog) {
		if err := SaveYAML(path, catalog); err != nil {
			return nil, fmt.Errorf("failed to persist destination IDs: %w", err)
		}
	}
	return catalog, nil
}

// SaveCatalog saves the catalog to ~/.popsearch/catalog.yaml.
// The whole file is replaced; concurrent editors are last-write-wins.
func SaveCatalog(catalog *models.Catalog) error {
	path, err := GlobalCatalogFile()
	if err != nil {
		return err
	}
	AssignIDs(catalog)
	return SaveYAML(path, catalog)
}

// AssignIDs gives every destination without an ID a new one.
// It reports whether any ID was assigned.
func AssignIDs(catalog *models.Catalog) bool {
	changed := false
	for i := range catalog.Destinations {
		if catalog.Destinations[i].ID == "" {
			catalog.Destinations[i].ID = uuid.NewString()[:8]
			changed = true
		}
	}
	return changed
}
