package model

import (
	"strings"

	"github.com/google/uuid"
)

// Stock equipment names.
const (
	EquipmentPanelSaw   = "Panel Saw"
	EquipmentCNCCutter  = "CNC Cutter"
	EquipmentEdgeBander = "Edge Bander"
	EquipmentDrill      = "Drill Press"
	EquipmentGrooving   = "Grooving Machine"
	EquipmentAssembly   = "Assembly Tools"
	EquipmentSander     = "Sander"
	EquipmentSprayBooth = "Spray Booth"
	EquipmentInspection = "Inspection Tools"
	EquipmentPackaging  = "Packaging Line"
)

// Stock material names.
const (
	MaterialSolidWood     = "Solid Wood Board"
	MaterialMDF           = "MDF"
	MaterialParticleboard = "Particleboard"
	MaterialMultilayer    = "Multilayer Board"
	MaterialPlywood       = "Plywood"
	MaterialFiberboard    = "Fiberboard"
	MaterialFireRated     = "Fire-Rated Board"
	MaterialEco           = "Eco Board"
)

// MaterialPrice is the price of a board material per square meter.
type MaterialPrice struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	UnitPrice float64  `json:"unit_price" yaml:"unit_price"`
	Aliases   []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// EquipmentRate is the hourly running cost of a machine or workstation.
type EquipmentRate struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	HourlyRate float64  `json:"hourly_rate" yaml:"hourly_rate"`
	Aliases    []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// PriceBook holds material prices and equipment rates. Unknown names fall
// back to the default price and rate.
type PriceBook struct {
	Materials            []MaterialPrice `json:"materials" yaml:"materials"`
	Equipment            []EquipmentRate `json:"equipment" yaml:"equipment"`
	DefaultMaterialPrice float64         `json:"default_material_price" yaml:"default_material_price"`
	DefaultEquipmentRate float64         `json:"default_equipment_rate" yaml:"default_equipment_rate"`
}

func NewMaterialPrice(name string, unitPrice float64, aliases ...string) MaterialPrice {
	return MaterialPrice{
		ID:        uuid.New().String()[:8],
		Name:      name,
		UnitPrice: unitPrice,
		Aliases:   aliases,
	}
}

func NewEquipmentRate(name string, hourlyRate float64, aliases ...string) EquipmentRate {
	return EquipmentRate{
		ID:         uuid.New().String()[:8],
		Name:       name,
		HourlyRate: hourlyRate,
		Aliases:    aliases,
	}
}

// DefaultPriceBook returns the stock price tables.
func DefaultPriceBook() PriceBook {
	return PriceBook{
		Materials: []MaterialPrice{
			NewMaterialPrice(MaterialSolidWood, 120, "Solid Wood", "实木板"),
			NewMaterialPrice(MaterialMDF, 45, "Density Board", "密度板"),
			NewMaterialPrice(MaterialParticleboard, 35, "Chipboard", "刨花板"),
			NewMaterialPrice(MaterialMultilayer, 60, "多层板"),
			NewMaterialPrice(MaterialPlywood, 50, "胶合板"),
			NewMaterialPrice(MaterialFiberboard, 40, "中纤板"),
			NewMaterialPrice(MaterialFireRated, 80, "Fire Rated Board", "防火板"),
			NewMaterialPrice(MaterialEco, 70, "生态板"),
		},
		Equipment: []EquipmentRate{
			NewEquipmentRate(EquipmentPanelSaw, 80, "Cutting Machine", "切割机"),
			NewEquipmentRate(EquipmentCNCCutter, 120, "CNC Cutting Machine", "数控切割机"),
			NewEquipmentRate(EquipmentEdgeBander, 100, "封边机"),
			NewEquipmentRate(EquipmentDrill, 90, "Drilling Machine", "钻孔机"),
			NewEquipmentRate(EquipmentAssembly, 60, "组装工具"),
			NewEquipmentRate(EquipmentSander, 70, "Sanding Machine", "打磨机"),
			NewEquipmentRate(EquipmentSprayBooth, 150, "Spray Equipment", "喷漆设备"),
			NewEquipmentRate(EquipmentPackaging, 50, "Packaging Equipment", "包装设备"),
		},
		DefaultMaterialPrice: 50,
		DefaultEquipmentRate: 80,
	}
}

func matchesName(name, candidate string, aliases []string) bool {
	name = strings.TrimSpace(name)
	if strings.EqualFold(candidate, name) {
		return true
	}
	for _, a := range aliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

// FindMaterial returns the material matching name or one of its aliases, or nil.
func (pb *PriceBook) FindMaterial(name string) *MaterialPrice {
	for i := range pb.Materials {
		if matchesName(name, pb.Materials[i].Name, pb.Materials[i].Aliases) {
			return &pb.Materials[i]
		}
	}
	return nil
}

// FindEquipment returns the equipment matching name or one of its aliases, or nil.
func (pb *PriceBook) FindEquipment(name string) *EquipmentRate {
	for i := range pb.Equipment {
		if matchesName(name, pb.Equipment[i].Name, pb.Equipment[i].Aliases) {
			return &pb.Equipment[i]
		}
	}
	return nil
}

// MaterialUnitPrice returns the price per m² of the named material.
func (pb PriceBook) MaterialUnitPrice(name string) float64 {
	if m := pb.FindMaterial(name); m != nil {
		return m.UnitPrice
	}
	return pb.DefaultMaterialPrice
}

// EquipmentHourlyRate returns the hourly rate of the named equipment.
func (pb PriceBook) EquipmentHourlyRate(name string) float64 {
	if e := pb.FindEquipment(name); e != nil {
		return e.HourlyRate
	}
	return pb.DefaultEquipmentRate
}

// MaterialNames returns the material names.
func (pb PriceBook) MaterialNames() []string {
	names := make([]string, len(pb.Materials))
	for i, m := range pb.Materials {
		names[i] = m.Name
	}
	return names
}

// EquipmentNames returns the equipment names.
func (pb PriceBook) EquipmentNames() []string {
	names := make([]string, len(pb.Equipment))
	for i, e := range pb.Equipment {
		names[i] = e.Name
	}
	return names
}
