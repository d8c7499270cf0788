package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/SlabCost/internal/model"
)

// DefaultPriceBookPath returns ~/.slabcost/pricebook.json.
func DefaultPriceBookPath() string {
	return filepath.Join(DefaultConfigDir(), "pricebook.json")
}

// SavePriceBook writes the price book to the specified JSON file.
// It creates parent directories if they do not exist.
func SavePriceBook(path string, pb model.PriceBook) error {
	return writeJSON(path, pb)
}

// LoadPriceBook reads the price book from the specified JSON file.
// If the file does not exist, it returns the default price book and saves it.
func LoadPriceBook(path string) (model.PriceBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			pb := model.DefaultPriceBook()
			if saveErr := SavePriceBook(path, pb); saveErr != nil {
				return pb, saveErr
			}
			return pb, nil
		}
		return model.PriceBook{}, err
	}
	var pb model.PriceBook
	if err := json.Unmarshal(data, &pb); err != nil {
		return model.PriceBook{}, err
	}
	if pb.Materials == nil {
		pb.Materials = []model.MaterialPrice{}
	}
	if pb.Equipment == nil {
		pb.Equipment = []model.EquipmentRate{}
	}
	return pb, nil
}

// ImportPriceBook merges the price book at path into existing. Entries whose
// name is already present (case-insensitive) are skipped.
func ImportPriceBook(path string, existing model.PriceBook) (model.PriceBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.PriceBook
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}

	materials := make(map[string]bool, len(existing.Materials))
	for _, m := range existing.Materials {
		materials[strings.ToLower(m.Name)] = true
	}
	equipment := make(map[string]bool, len(existing.Equipment))
	for _, e := range existing.Equipment {
		equipment[strings.ToLower(e.Name)] = true
	}

	for _, m := range imported.Materials {
		key := strings.ToLower(m.Name)
		if !materials[key] {
			existing.Materials = append(existing.Materials, m)
			materials[key] = true
		}
	}
	for _, e := range imported.Equipment {
		key := strings.ToLower(e.Name)
		if !equipment[key] {
			existing.Equipment = append(existing.Equipment, e)
			equipment[key] = true
		}
	}

	return existing, nil
}
