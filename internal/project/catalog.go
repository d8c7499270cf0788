package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/SlabCost/internal/model"
)

// DefaultCatalogPath returns ~/.slabcost/catalog.yaml.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "catalog.yaml")
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// SaveCatalog writes the variable catalog, calculation logics and process
// templates to path. A .yaml or .yml extension selects YAML, anything else
// JSON.
func SaveCatalog(path string, catalog model.Catalog) error {
	if !isYAML(path) {
		return writeJSON(path, catalog)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(catalog)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCatalog reads and validates a catalog. If the file does not exist, it
// returns the default catalog.
func LoadCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultCatalog(), nil
		}
		return model.Catalog{}, err
	}

	var catalog model.Catalog
	if isYAML(path) {
		err = yaml.Unmarshal(data, &catalog)
	} else {
		err = json.Unmarshal(data, &catalog)
	}
	if err != nil {
		return model.Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	if catalog.Templates == nil {
		catalog.Templates = []model.ProcessTemplate{}
	}
	if err := catalog.Validate(); err != nil {
		return model.Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalog, nil
}
