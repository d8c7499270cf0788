package model

import (
	"fmt"
	"strings"
	"time"
)

// ProcessCategory groups process templates.
type ProcessCategory string

const (
	CategoryCutting    ProcessCategory = "cutting"
	CategoryDrilling   ProcessCategory = "drilling"
	CategoryEdging     ProcessCategory = "edging"
	CategorySanding    ProcessCategory = "sanding"
	CategoryAssembly   ProcessCategory = "assembly"
	CategoryFinishing  ProcessCategory = "finishing"
	CategoryInspection ProcessCategory = "inspection"
)

// StrategyKind selects how a template's duration is computed.
type StrategyKind string

const (
	StrategyFormula    StrategyKind = "formula"
	StrategyHeuristic  StrategyKind = "heuristic"
	StrategyEfficiency StrategyKind = "efficiency"
)

// ParseStrategyKind parses a strategy name.
func ParseStrategyKind(s string) (StrategyKind, error) {
	k := StrategyKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case StrategyFormula, StrategyHeuristic, StrategyEfficiency:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// TimeUnit is the unit an EfficiencyConfig is expressed in.
type TimeUnit string

const (
	UnitMinute TimeUnit = "minute"
	UnitHour   TimeUnit = "hour"
)

// EfficiencyConfig is the table-driven duration model:
// base + area/10000 × size factor × complexity × complexity factor.
type EfficiencyConfig struct {
	ID               string   `json:"id" yaml:"id"`
	ProcessName      string   `json:"process_name" yaml:"process_name"`
	BaseTime         float64  `json:"base_time" yaml:"base_time"`
	SizeFactor       float64  `json:"size_factor" yaml:"size_factor"`
	ComplexityFactor float64  `json:"complexity_factor" yaml:"complexity_factor"`
	Unit             TimeUnit `json:"unit" yaml:"unit"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// DefaultEfficiencyConfigs returns the stock efficiency table (minutes).
func DefaultEfficiencyConfigs() []EfficiencyConfig {
	return []EfficiencyConfig{
		{ID: "e1", ProcessName: "Cutting", BaseTime: 5, SizeFactor: 0.5, ComplexityFactor: 1, Unit: UnitMinute, Description: "Panel saw cutting"},
		{ID: "e2", ProcessName: "Edge banding", BaseTime: 3, SizeFactor: 0.3, ComplexityFactor: 1, Unit: UnitMinute, Description: "Edge bander pass"},
		{ID: "e3", ProcessName: "Drilling", BaseTime: 2, SizeFactor: 0.1, ComplexityFactor: 1, Unit: UnitMinute, Description: "Drill press"},
		{ID: "e4", ProcessName: "Sanding", BaseTime: 4, SizeFactor: 0.4, ComplexityFactor: 1, Unit: UnitMinute, Description: "Sander"},
		{ID: "e5", ProcessName: "Assembly", BaseTime: 8, SizeFactor: 0.2, ComplexityFactor: 1, Unit: UnitMinute, Description: "Manual assembly"},
		{ID: "e6", ProcessName: "Painting", BaseTime: 15, SizeFactor: 0.8, ComplexityFactor: 1, Unit: UnitMinute, Description: "Spray booth"},
		{ID: "e7", ProcessName: "Inspection", BaseTime: 3, SizeFactor: 0.1, ComplexityFactor: 1, Unit: UnitMinute, Description: "Quality check"},
	}
}

// ProcessTemplate describes a manufacturing step and how its duration is
// estimated.
type ProcessTemplate struct {
	ID                string            `json:"id" yaml:"id"`
	Code              string            `json:"code" yaml:"code"`
	Name              string            `json:"name" yaml:"name"`
	Category          ProcessCategory   `json:"category" yaml:"category"`
	Description       string            `json:"description,omitempty" yaml:"description,omitempty"`
	Strategy          StrategyKind      `json:"strategy" yaml:"strategy"`
	CalculationLogic  *CalculationLogic `json:"calculation_logic,omitempty" yaml:"calculation_logic,omitempty"`
	Efficiency        *EfficiencyConfig `json:"efficiency,omitempty" yaml:"efficiency,omitempty"`
	RequiredEquipment []string          `json:"required_equipment" yaml:"required_equipment"`
	RequiredMaterials []string          `json:"required_materials" yaml:"required_materials"`
	IsActive          bool              `json:"is_active" yaml:"is_active"`
	CreatedAt         time.Time         `json:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" yaml:"updated_at"`
}

// NewProcessTemplate creates an active formula-driven template.
func NewProcessTemplate(code, name string, category ProcessCategory, logic CalculationLogic, equipment ...string) ProcessTemplate {
	t := now()
	return ProcessTemplate{
		ID:                newID(),
		Code:              code,
		Name:              name,
		Category:          category,
		Strategy:          StrategyFormula,
		CalculationLogic:  &logic,
		RequiredEquipment: append([]string{}, equipment...),
		RequiredMaterials: []string{},
		IsActive:          true,
		CreatedAt:         t,
		UpdatedAt:         t,
	}
}

// PrimaryEquipment returns the first required equipment, or "".
func (t ProcessTemplate) PrimaryEquipment() string {
	if len(t.RequiredEquipment) == 0 {
		return ""
	}
	return t.RequiredEquipment[0]
}

// Validate checks that the template carries what its strategy needs.
func (t ProcessTemplate) Validate(catalog VariableCatalog) error {
	if strings.TrimSpace(t.Code) == "" {
		return fmt.Errorf("template %q: code is required", t.Name)
	}
	switch t.Strategy {
	case StrategyFormula:
		if t.CalculationLogic == nil {
			return fmt.Errorf("template %s: formula strategy without calculation logic", t.Code)
		}
		return t.CalculationLogic.Validate(catalog)
	case StrategyEfficiency:
		if t.Efficiency == nil {
			return fmt.Errorf("template %s: efficiency strategy without efficiency config", t.Code)
		}
	case StrategyHeuristic:
	default:
		return fmt.Errorf("template %s: %w: %q", t.Code, ErrUnknownStrategy, t.Strategy)
	}
	return nil
}

// TemplateStore holds the process templates.
type TemplateStore struct {
	Templates []ProcessTemplate `json:"templates" yaml:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []ProcessTemplate{},
	}
}

// Add adds a template to the store. Codes are unique (case-insensitive).
func (ts *TemplateStore) Add(t ProcessTemplate) error {
	if ts.FindByCode(t.Code) != nil {
		return fmt.Errorf("template %s: %w", t.Code, ErrDuplicateCode)
	}
	ts.Templates = append(ts.Templates, t)
	return nil
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *ProcessTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByCode returns a pointer to the template with the given code, or nil.
func (ts *TemplateStore) FindByCode(code string) *ProcessTemplate {
	for i := range ts.Templates {
		if strings.EqualFold(ts.Templates[i].Code, code) {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// Active returns the templates that can be attached to components.
func (ts *TemplateStore) Active() []ProcessTemplate {
	var out []ProcessTemplate
	for _, t := range ts.Templates {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out
}

// DefaultTemplateStore returns the stock templates: eight formula-driven ones,
// the keyword heuristics and the efficiency table.
func DefaultTemplateStore() TemplateStore {
	logics := DefaultCalculationLogics()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	formulaTemplates := []struct {
		id, code, name string
		category       ProcessCategory
		logicID        string
		equipment      string
	}{
		{"1", "CUT", "Panel cutting", CategoryCutting, "1", EquipmentCNCCutter},
		{"2", "DRILL", "Drilling", CategoryDrilling, "2", EquipmentDrill},
		{"3", "EDGE", "Edge banding", CategoryEdging, "3", EquipmentEdgeBander},
		{"4", "GROOVE", "Grooving", CategoryCutting, "4", EquipmentGrooving},
		{"5", "SAND", "Sanding", CategorySanding, "5", EquipmentSander},
		{"6", "ASSEMBLE", "Assembly", CategoryAssembly, "6", EquipmentAssembly},
		{"7", "PAINT", "Painting", CategoryFinishing, "7", EquipmentSprayBooth},
		{"8", "INSPECT", "Inspection", CategoryInspection, "8", EquipmentInspection},
	}

	store := NewTemplateStore()
	for _, f := range formulaTemplates {
		logic := *logics.FindByID(f.logicID)
		store.Templates = append(store.Templates, ProcessTemplate{
			ID:                f.id,
			Code:              f.code,
			Name:              f.name,
			Category:          f.category,
			Strategy:          StrategyFormula,
			CalculationLogic:  &logic,
			RequiredEquipment: []string{f.equipment},
			RequiredMaterials: []string{},
			IsActive:          true,
			CreatedAt:         created,
			UpdatedAt:         created,
		})
	}

	heuristics := []struct {
		code, name string
		category   ProcessCategory
		equipment  string
	}{
		{"H-CUT", "Cutting", CategoryCutting, EquipmentPanelSaw},
		{"H-EDGE", "Edge banding", CategoryEdging, EquipmentEdgeBander},
		{"H-DRILL", "Drilling", CategoryDrilling, EquipmentDrill},
		{"H-ASSEMBLE", "Assembly", CategoryAssembly, EquipmentAssembly},
		{"H-SAND", "Sanding", CategorySanding, EquipmentSander},
		{"H-PAINT", "Painting", CategoryFinishing, EquipmentSprayBooth},
	}
	for i, h := range heuristics {
		store.Templates = append(store.Templates, ProcessTemplate{
			ID:                fmt.Sprintf("h%d", i+1),
			Code:              h.code,
			Name:              h.name,
			Category:          h.category,
			Description:       "Keyword heuristic on the process name",
			Strategy:          StrategyHeuristic,
			RequiredEquipment: []string{h.equipment},
			RequiredMaterials: []string{},
			IsActive:          true,
			CreatedAt:         created,
			UpdatedAt:         created,
		})
	}

	effCategories := []ProcessCategory{
		CategoryCutting, CategoryEdging, CategoryDrilling, CategorySanding,
		CategoryAssembly, CategoryFinishing, CategoryInspection,
	}
	effEquipment := []string{
		EquipmentPanelSaw, EquipmentEdgeBander, EquipmentDrill, EquipmentSander,
		EquipmentAssembly, EquipmentSprayBooth, EquipmentInspection,
	}
	for i, cfg := range DefaultEfficiencyConfigs() {
		cfg := cfg
		store.Templates = append(store.Templates, ProcessTemplate{
			ID:                cfg.ID,
			Code:              "E-" + strings.ToUpper(strings.ReplaceAll(cfg.ProcessName, " ", "-")),
			Name:              cfg.ProcessName,
			Category:          effCategories[i],
			Description:       cfg.Description,
			Strategy:          StrategyEfficiency,
			Efficiency:        &cfg,
			RequiredEquipment: []string{effEquipment[i]},
			RequiredMaterials: []string{},
			IsActive:          true,
			CreatedAt:         created,
			UpdatedAt:         created,
		})
	}

	return store
}
