package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/SlabCost/internal/model"
)

func TestSaveAndLoadCatalog(t *testing.T) {
	for _, name := range []string{"catalog.json", "catalog.yaml", "catalog.YML"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			catalog := model.DefaultCatalog()

			if err := SaveCatalog(path, catalog); err != nil {
				t.Fatalf("SaveCatalog failed: %v", err)
			}
			loaded, err := LoadCatalog(path)
			if err != nil {
				t.Fatalf("LoadCatalog failed: %v", err)
			}

			if loaded.Version != catalog.Version {
				t.Errorf("expected version %s, got %s", catalog.Version, loaded.Version)
			}
			if len(loaded.Variables) != len(catalog.Variables) {
				t.Errorf("expected %d variables, got %d", len(catalog.Variables), len(loaded.Variables))
			}
			if len(loaded.Logics) != len(catalog.Logics) {
				t.Errorf("expected %d logics, got %d", len(catalog.Logics), len(loaded.Logics))
			}
			if len(loaded.Templates) != len(catalog.Templates) {
				t.Fatalf("expected %d templates, got %d", len(catalog.Templates), len(loaded.Templates))
			}

			cut := loaded.FindByCode("CUT")
			if cut == nil || cut.CalculationLogic == nil {
				t.Fatal("expected CUT template with calculation logic")
			}
			want := catalog.FindByCode("CUT").CalculationLogic.Formula
			if cut.CalculationLogic.Formula != want {
				t.Errorf("expected formula %q, got %q", want, cut.CalculationLogic.Formula)
			}
			if v := loaded.Variables.Find("complexity"); v == nil || v.MaxValue == nil || *v.MaxValue != 1.8 {
				t.Error("expected complexity bounds to survive the round trip")
			}
		})
	}
}

func TestSaveCatalogYAMLIsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := SaveCatalog(path, model.DefaultCatalog()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		t.Error("expected YAML output, got JSON")
	}
	if !strings.Contains(string(data), "templates:") {
		t.Error("expected inline templates key")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	catalog, err := LoadCatalog(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if len(catalog.Templates) != len(model.DefaultTemplateStore().Templates) {
		t.Errorf("expected default templates, got %d", len(catalog.Templates))
	}
}

func TestLoadCatalogRejectsUnknownVariable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `version: "1"
variables:
  - name: length
    kind: dimension
logics:
  - id: x
    name: Broken
    formula: length * speed
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadCatalog(path)
	if !errors.Is(err, model.ErrUnknownVariable) {
		t.Fatalf("expected ErrUnknownVariable, got %v", err)
	}
}

func TestLoadCatalogInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	if err := os.WriteFile(path, []byte("variables: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}
