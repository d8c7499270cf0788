package model

import "testing"

func TestDefaultPriceBookMaterials(t *testing.T) {
	pb := DefaultPriceBook()
	tests := []struct {
		name string
		want float64
	}{
		{MaterialSolidWood, 120},
		{"solid wood", 120},
		{"实木板", 120},
		{MaterialMDF, 45},
		{"密度板", 45},
		{MaterialParticleboard, 35},
		{MaterialMultilayer, 60},
		{MaterialPlywood, 50},
		{MaterialFiberboard, 40},
		{MaterialFireRated, 80},
		{MaterialEco, 70},
		{"Unobtainium", 50},
	}
	for _, tt := range tests {
		if got := pb.MaterialUnitPrice(tt.name); got != tt.want {
			t.Errorf("MaterialUnitPrice(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDefaultPriceBookEquipment(t *testing.T) {
	pb := DefaultPriceBook()
	tests := []struct {
		name string
		want float64
	}{
		{EquipmentPanelSaw, 80},
		{EquipmentCNCCutter, 120},
		{"数控切割机", 120},
		{EquipmentEdgeBander, 100},
		{EquipmentDrill, 90},
		{EquipmentAssembly, 60},
		{EquipmentSander, 70},
		{EquipmentSprayBooth, 150},
		{EquipmentPackaging, 50},
		{EquipmentGrooving, 80},
		{"", 80},
	}
	for _, tt := range tests {
		if got := pb.EquipmentHourlyRate(tt.name); got != tt.want {
			t.Errorf("EquipmentHourlyRate(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPriceBookFind(t *testing.T) {
	pb := DefaultPriceBook()
	m := pb.FindMaterial("mdf")
	if m == nil {
		t.Fatal("expected to find MDF case-insensitively")
	}
	m.UnitPrice = 99
	if pb.MaterialUnitPrice(MaterialMDF) != 99 {
		t.Error("FindMaterial should return a pointer into the price book")
	}
	if pb.FindEquipment("laser") != nil {
		t.Error("expected nil for unknown equipment")
	}
	if len(pb.MaterialNames()) != 8 || len(pb.EquipmentNames()) != 8 {
		t.Errorf("expected 8 materials and 8 machines, got %d and %d",
			len(pb.MaterialNames()), len(pb.EquipmentNames()))
	}
}

func TestPriceBookNamesOnValue(t *testing.T) {
	names := append(DefaultPriceBook().MaterialNames(), DefaultPriceBook().EquipmentNames()...)
	if len(names) != 16 {
		t.Fatalf("expected 16 names, got %d", len(names))
	}
	if names[0] != MaterialSolidWood {
		t.Errorf("expected %s first, got %s", MaterialSolidWood, names[0])
	}
}

func TestAppConfigAppliesFallbacks(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultMaterialPrice = 10
	cfg.DefaultEquipmentRate = 20

	pb := DefaultPriceBook()
	cfg.ApplyToPriceBook(&pb)
	if pb.MaterialUnitPrice("unknown") != 10 {
		t.Errorf("expected fallback price 10, got %v", pb.MaterialUnitPrice("unknown"))
	}
	if pb.EquipmentHourlyRate("unknown") != 20 {
		t.Errorf("expected fallback rate 20, got %v", pb.EquipmentHourlyRate("unknown"))
	}
}
