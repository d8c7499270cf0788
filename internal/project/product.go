package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/piwi3910/SlabCost/internal/model"
)

// ProductExt is the file extension for saved products.
const ProductExt = ".slabcost.json"

// DefaultProductsDir returns ~/.slabcost/products.
func DefaultProductsDir() string {
	return filepath.Join(DefaultConfigDir(), "products")
}

// ProductPath returns the file a product is stored under in dir.
func ProductPath(dir string, p model.Product) string {
	return filepath.Join(dir, p.ID+ProductExt)
}

// SaveProduct writes a product to the given path as JSON.
func SaveProduct(path string, p model.Product) error {
	return writeJSON(path, p)
}

// LoadProduct reads a product from the given path.
func LoadProduct(path string) (model.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Product{}, err
	}
	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Product{}, fmt.Errorf("parse product %s: %w", path, err)
	}
	if p.Name == "" {
		return model.Product{}, fmt.Errorf("invalid product file %s: missing name", path)
	}
	if p.Components == nil {
		p.Components = []model.ProductComponent{}
	}
	if p.AssemblyProcesses == nil {
		p.AssemblyProcesses = []model.AssemblyProcess{}
	}
	return p, nil
}

// ListProducts loads every product file in dir, sorted by name.
// A missing directory yields an empty list.
func ListProducts(dir string) ([]model.Product, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Product{}, nil
		}
		return nil, err
	}

	products := []model.Product{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ProductExt) {
			continue
		}
		p, err := LoadProduct(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}
