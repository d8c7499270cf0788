package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SlabCost/internal/model"
)

func TestSaveAndLoadPriceBook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricebook.json")

	pb := model.DefaultPriceBook()
	pb.Materials = append(pb.Materials, model.NewMaterialPrice("Walnut", 210, "walnut veneer"))

	if err := SavePriceBook(path, pb); err != nil {
		t.Fatalf("SavePriceBook failed: %v", err)
	}
	loaded, err := LoadPriceBook(path)
	if err != nil {
		t.Fatalf("LoadPriceBook failed: %v", err)
	}

	if len(loaded.Materials) != len(pb.Materials) {
		t.Fatalf("expected %d materials, got %d", len(pb.Materials), len(loaded.Materials))
	}
	if got := loaded.MaterialUnitPrice("WALNUT VENEER"); got != 210 {
		t.Errorf("expected alias lookup 210, got %f", got)
	}
	if got := loaded.EquipmentHourlyRate(model.EquipmentCNCCutter); got != 120 {
		t.Errorf("expected CNC rate 120, got %f", got)
	}
}

func TestLoadPriceBookCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "pricebook.json")

	pb, err := LoadPriceBook(path)
	if err != nil {
		t.Fatalf("LoadPriceBook failed: %v", err)
	}
	if len(pb.Materials) != len(model.DefaultPriceBook().Materials) {
		t.Errorf("expected default materials, got %d", len(pb.Materials))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default price book to be saved: %v", err)
	}
}

func TestLoadPriceBookInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricebook.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPriceBook(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportPriceBook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.json")
	imported := model.PriceBook{
		Materials: []model.MaterialPrice{
			model.NewMaterialPrice("mdf", 999),
			model.NewMaterialPrice("Bamboo", 95),
		},
		Equipment: []model.EquipmentRate{
			model.NewEquipmentRate("Laser Engraver", 140),
		},
	}
	if err := SavePriceBook(path, imported); err != nil {
		t.Fatal(err)
	}

	existing := model.DefaultPriceBook()
	merged, err := ImportPriceBook(path, existing)
	if err != nil {
		t.Fatalf("ImportPriceBook failed: %v", err)
	}

	if len(merged.Materials) != len(existing.Materials)+1 {
		t.Errorf("expected one new material, got %d total", len(merged.Materials))
	}
	if got := merged.MaterialUnitPrice(model.MaterialMDF); got != 45 {
		t.Errorf("existing MDF price must win, got %f", got)
	}
	if got := merged.EquipmentHourlyRate("laser engraver"); got != 140 {
		t.Errorf("expected imported rate 140, got %f", got)
	}
}

func TestImportPriceBookMissingFile(t *testing.T) {
	existing := model.DefaultPriceBook()
	merged, err := ImportPriceBook(filepath.Join(t.TempDir(), "nope.json"), existing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(merged.Materials) != len(existing.Materials) {
		t.Error("existing price book must be returned unchanged")
	}
}
