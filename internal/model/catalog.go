package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/piwi3910/SlabCost/internal/formula"
)

// VariableKind groups formula variables for display.
type VariableKind string

const (
	KindDimension  VariableKind = "dimension"
	KindCount      VariableKind = "count"
	KindArea       VariableKind = "area"
	KindVolume     VariableKind = "volume"
	KindComplexity VariableKind = "complexity"
	KindCustom     VariableKind = "custom"
)

// Variable is a named input that formulas may reference.
type Variable struct {
	Name         string       `json:"name" yaml:"name"`
	Kind         VariableKind `json:"kind" yaml:"kind"`
	Unit         string       `json:"unit,omitempty" yaml:"unit,omitempty"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultValue *float64     `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	MinValue     *float64     `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue     *float64     `json:"max_value,omitempty" yaml:"max_value,omitempty"`
}

func ptr(v float64) *float64 { return &v }

// VariableCatalog is the ordered list of variables formulas can use.
type VariableCatalog []Variable

// DefaultVariableCatalog returns the variables every component environment binds.
func DefaultVariableCatalog() VariableCatalog {
	return VariableCatalog{
		{Name: "length", Kind: KindDimension, Unit: "mm", Description: "Component length", DefaultValue: ptr(0)},
		{Name: "width", Kind: KindDimension, Unit: "mm", Description: "Component width", DefaultValue: ptr(0)},
		{Name: "thickness", Kind: KindDimension, Unit: "mm", Description: "Component thickness", DefaultValue: ptr(0)},
		{Name: "area", Kind: KindArea, Unit: "mm²", Description: "length × width", DefaultValue: ptr(0)},
		{Name: "volume", Kind: KindVolume, Unit: "mm³", Description: "length × width × thickness", DefaultValue: ptr(0)},
		{Name: "complexity", Kind: KindComplexity, Description: "Complexity factor (simple 1.0, medium 1.3, complex 1.8)",
			DefaultValue: ptr(1), MinValue: ptr(1), MaxValue: ptr(1.8)},
		{Name: "holeCount", Kind: KindCount, Unit: "pcs", Description: "Number of holes", DefaultValue: ptr(0), MinValue: ptr(0)},
		{Name: "grooveCount", Kind: KindCount, Unit: "pcs", Description: "Number of grooves", DefaultValue: ptr(0), MinValue: ptr(0)},
		{Name: "chamferCount", Kind: KindCount, Unit: "pcs", Description: "Number of chamfers", DefaultValue: ptr(0), MinValue: ptr(0)},
		{Name: "roundingCount", Kind: KindCount, Unit: "pcs", Description: "Number of roundings", DefaultValue: ptr(0), MinValue: ptr(0)},
		{Name: "featureFactor", Kind: KindCustom, Description: "1 + weighted feature counts", DefaultValue: ptr(1), MinValue: ptr(1)},
		{Name: "quantity", Kind: KindCount, Unit: "pcs", Description: "Component quantity", DefaultValue: ptr(1), MinValue: ptr(1)},
		{Name: "edgeCount", Kind: KindCount, Unit: "edges", Description: "Number of banded edges", DefaultValue: ptr(0), MinValue: ptr(0), MaxValue: ptr(4)},
		{Name: "perimeter", Kind: KindDimension, Unit: "mm", Description: "2 × (length + width)", DefaultValue: ptr(0)},
	}
}

// Find returns a pointer to the variable with the given name, or nil.
func (vc VariableCatalog) Find(name string) *Variable {
	for i := range vc {
		if vc[i].Name == name {
			return &vc[i]
		}
	}
	return nil
}

// Names returns the variable names in catalog order.
func (vc VariableCatalog) Names() []string {
	names := make([]string, len(vc))
	for i, v := range vc {
		names[i] = v.Name
	}
	return names
}

// Defaults returns the declared default of every variable that has one.
func (vc VariableCatalog) Defaults() map[string]float64 {
	out := make(map[string]float64, len(vc))
	for _, v := range vc {
		if v.DefaultValue != nil {
			out[v.Name] = *v.DefaultValue
		}
	}
	return out
}

// Unknown returns the names that are not in the catalog, in input order.
func (vc VariableCatalog) Unknown(names []string) []string {
	var out []string
	for _, n := range names {
		if vc.Find(n) == nil {
			out = append(out, n)
		}
	}
	return out
}

// Clamp limits v to the declared range of the named variable.
func (vc VariableCatalog) Clamp(name string, v float64) float64 {
	def := vc.Find(name)
	if def == nil {
		return v
	}
	if def.MinValue != nil && v < *def.MinValue {
		v = *def.MinValue
	}
	if def.MaxValue != nil && v > *def.MaxValue {
		v = *def.MaxValue
	}
	return v
}

// CalculationLogic is a named, user-editable duration formula. The formula
// yields minutes.
type CalculationLogic struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Formula     string     `json:"formula" yaml:"formula"`
	Variables   []Variable `json:"variables" yaml:"variables"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	IsDefault   bool       `json:"is_default" yaml:"is_default"`
}

// NewCalculationLogic checks expr and binds its identifiers to catalog
// variables. Formulas with syntax errors or unknown identifiers are rejected.
func NewCalculationLogic(name, expr, description string, catalog VariableCatalog) (CalculationLogic, error) {
	vars, err := bindVariables(expr, catalog)
	if err != nil {
		return CalculationLogic{}, fmt.Errorf("calculation logic %q: %w", name, err)
	}
	return CalculationLogic{
		ID:          newID(),
		Name:        name,
		Formula:     expr,
		Variables:   vars,
		Description: description,
	}, nil
}

func bindVariables(expr string, catalog VariableCatalog) ([]Variable, error) {
	if err := formula.Check(expr); err != nil {
		return nil, err
	}
	names := formula.Variables(expr)
	if unknown := catalog.Unknown(names); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, strings.Join(unknown, ", "))
	}
	vars := make([]Variable, 0, len(names))
	for _, n := range names {
		vars = append(vars, *catalog.Find(n))
	}
	return vars, nil
}

// Validate checks the formula against the catalog.
func (l CalculationLogic) Validate(catalog VariableCatalog) error {
	if _, err := bindVariables(l.Formula, catalog); err != nil {
		return fmt.Errorf("calculation logic %q: %w", l.Name, err)
	}
	return nil
}

// DefaultCalculationLogics returns the stock duration formulas.
func DefaultCalculationLogics() LogicLibrary {
	catalog := DefaultVariableCatalog()
	stock := []struct {
		id, name, expr, desc string
	}{
		{"1", "Panel cutting", "5 + (area / 10000) * 0.5 * complexity * featureFactor",
			"Setup plus area-driven cutting time, scaled by complexity and features"},
		{"2", "Drilling", "2 + holeCount * 0.5 * complexity",
			"Setup plus half a minute per hole"},
		{"3", "Edge banding", "3 + (length + width) * 2 / 1000 * complexity",
			"Setup plus perimeter-driven banding time"},
		{"4", "Grooving", "4 + grooveCount * 1.5 * complexity",
			"Setup plus one and a half minutes per groove"},
		{"5", "Sanding", "4 + (area / 10000) * 0.4 * complexity",
			"Setup plus area-driven sanding time"},
		{"6", "Assembly", "8 + (length + width) / 1000 * 0.5 * complexity",
			"Base assembly time plus size allowance"},
		{"7", "Painting", "15 + (area / 10000) * 0.8 * complexity",
			"Booth setup plus area-driven coating time"},
		{"8", "Inspection", "3 + (area / 10000) * 0.1",
			"Visual and dimensional check"},
	}

	lib := make(LogicLibrary, 0, len(stock))
	for _, s := range stock {
		vars, err := bindVariables(s.expr, catalog)
		if err != nil {
			panic(fmt.Sprintf("stock formula %s: %v", s.id, err))
		}
		lib = append(lib, CalculationLogic{
			ID:          s.id,
			Name:        s.name,
			Formula:     s.expr,
			Variables:   vars,
			Description: s.desc,
			IsDefault:   true,
		})
	}
	return lib
}

// LogicLibrary is the list of saved calculation logics.
type LogicLibrary []CalculationLogic

// FindByID returns a pointer to the logic with the given ID, or nil.
func (lib LogicLibrary) FindByID(id string) *CalculationLogic {
	for i := range lib {
		if lib[i].ID == id {
			return &lib[i]
		}
	}
	return nil
}

// Add validates l against catalog and appends it.
func (lib *LogicLibrary) Add(l CalculationLogic, catalog VariableCatalog) error {
	if err := l.Validate(catalog); err != nil {
		return err
	}
	if lib.FindByID(l.ID) != nil {
		return fmt.Errorf("calculation logic %s: %w", l.ID, ErrDuplicateCode)
	}
	*lib = append(*lib, l)
	return nil
}

// Remove removes a logic by ID. Returns true if found and removed.
func (lib *LogicLibrary) Remove(id string) bool {
	for i, l := range *lib {
		if l.ID == id {
			*lib = append((*lib)[:i], (*lib)[i+1:]...)
			return true
		}
	}
	return false
}

// DefaultConflicts reports process categories in which templates use more
// than one logic flagged as default. The flag is advisory and never enforced.
func DefaultConflicts(templates []ProcessTemplate) map[ProcessCategory][]string {
	byCategory := make(map[ProcessCategory][]string)
	for _, t := range templates {
		if t.CalculationLogic == nil || !t.CalculationLogic.IsDefault {
			continue
		}
		ids := byCategory[t.Category]
		if !lo.Contains(ids, t.CalculationLogic.ID) {
			byCategory[t.Category] = append(ids, t.CalculationLogic.ID)
		}
	}
	out := make(map[ProcessCategory][]string)
	for cat, ids := range byCategory {
		if len(ids) > 1 {
			out[cat] = ids
		}
	}
	return out
}

// CatalogVersion is written into saved catalogs.
const CatalogVersion = "1"

// Catalog bundles the editable reference data used for estimation.
type Catalog struct {
	Version       string          `json:"version" yaml:"version"`
	Variables     VariableCatalog `json:"variables" yaml:"variables"`
	Logics        LogicLibrary    `json:"logics" yaml:"logics"`
	TemplateStore `yaml:",inline"`
}

// DefaultCatalog returns the stock variables, logics and templates.
func DefaultCatalog() Catalog {
	return Catalog{
		Version:       CatalogVersion,
		Variables:     DefaultVariableCatalog(),
		Logics:        DefaultCalculationLogics(),
		TemplateStore: DefaultTemplateStore(),
	}
}

// Validate checks every logic and template against the variable catalog and
// rejects duplicate template codes.
func (c Catalog) Validate() error {
	for _, v := range c.Variables {
		if !formula.IsIdentifier(v.Name) {
			return fmt.Errorf("variable %q: %w: not a valid identifier", v.Name, ErrUnknownVariable)
		}
	}
	for _, l := range c.Logics {
		if err := l.Validate(c.Variables); err != nil {
			return err
		}
	}
	seen := make(map[string]bool)
	for _, t := range c.Templates {
		code := strings.ToUpper(t.Code)
		if seen[code] {
			return fmt.Errorf("template %s: %w", t.Code, ErrDuplicateCode)
		}
		seen[code] = true
		if err := t.Validate(c.Variables); err != nil {
			return err
		}
	}
	return nil
}
