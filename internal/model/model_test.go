package model

import (
	"errors"
	"testing"
)

func TestNewComponentDerivesSize(t *testing.T) {
	c := NewComponent("Side", 600, 400, 18, MaterialMDF, 2)
	if c.ID == "" {
		t.Error("expected non-empty ID")
	}
	if c.Size.Area != 240000 {
		t.Errorf("expected area 240000, got %f", c.Size.Area)
	}
	if c.Size.Volume != 4320000 {
		t.Errorf("expected volume 4320000, got %f", c.Size.Volume)
	}
	if c.Complexity != ComplexitySimple {
		t.Errorf("expected simple complexity, got %s", c.Complexity)
	}

	c.Resize(500, 100, 10)
	if c.Size.Area != 50000 || c.Size.Volume != 500000 {
		t.Errorf("resize did not re-derive: area=%f volume=%f", c.Size.Area, c.Size.Volume)
	}
}

func TestComplexityFactor(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"simple", 1.0},
		{"Medium", 1.3},
		{" COMPLEX ", 1.8},
	}
	for _, tt := range tests {
		c, err := ParseComplexity(tt.in)
		if err != nil {
			t.Fatalf("ParseComplexity(%q): %v", tt.in, err)
		}
		f, _ := c.Factor()
		if f != tt.want {
			t.Errorf("%q: expected factor %v, got %v", tt.in, tt.want, f)
		}
	}

	if _, err := ParseComplexity("extreme"); !errors.Is(err, ErrUnknownComplexity) {
		t.Errorf("expected ErrUnknownComplexity, got %v", err)
	}
	if _, err := Complexity("").Factor(); !errors.Is(err, ErrUnknownComplexity) {
		t.Errorf("expected ErrUnknownComplexity for empty complexity, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"pending":     StatusPending,
		"in_progress": StatusInProgress,
		"In-Progress": StatusInProgress,
		"completed":   StatusCompleted,
	} {
		got, err := ParseStatus(in)
		if err != nil || got != want {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseStatus("done"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestFeatureWeights(t *testing.T) {
	want := map[FeatureType]float64{
		FeatureHole:     0.10,
		FeatureGroove:   0.20,
		FeatureChamfer:  0.15,
		FeatureRounding: 0.25,
		FeatureCustom:   0,
	}
	for ft, w := range want {
		if ft.Weight() != w {
			t.Errorf("%s: expected weight %v, got %v", ft, w, ft.Weight())
		}
	}
}

func TestComponentFeatures(t *testing.T) {
	c := NewComponent("Top", 1200, 600, 18, MaterialMDF, 1)
	f1 := c.AddFeature("Holes A", FeatureHole, 4)
	c.AddFeature("Holes B", FeatureHole, 2)
	c.AddFeature("Groove", FeatureGroove, 1)

	if got := c.FeatureCount(FeatureHole); got != 6 {
		t.Errorf("expected 6 holes, got %d", got)
	}
	if !c.RemoveFeature(f1.ID) {
		t.Fatal("expected feature to be removed")
	}
	if got := c.FeatureCount(FeatureHole); got != 2 {
		t.Errorf("expected 2 holes after removal, got %d", got)
	}
	if c.RemoveFeature("missing") {
		t.Error("removing a missing feature should report false")
	}
}

func TestComponentProcesses(t *testing.T) {
	c := NewComponent("Top", 1200, 600, 18, MaterialMDF, 1)
	p := c.AddProcess("1")
	if p.Status != StatusPending {
		t.Errorf("expected new process to be pending, got %s", p.Status)
	}

	if err := c.SetProcessStatus(p.ID, StatusCompleted); err != nil {
		t.Fatal(err)
	}
	// Backwards transitions are allowed.
	if err := c.SetProcessStatus(p.ID, StatusPending); err != nil {
		t.Fatal(err)
	}
	if c.FindProcess(p.ID).Status != StatusPending {
		t.Error("expected status to go back to pending")
	}
	if err := c.SetProcessStatus("nope", StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if !c.RemoveProcess(p.ID) || len(c.Processes) != 0 {
		t.Error("expected process to be removed")
	}
}

func TestComponentValidate(t *testing.T) {
	valid := NewComponent("Top", 1200, 600, 18, MaterialMDF, 1)
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid component, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Component)
	}{
		{"zero quantity", func(c *Component) { c.Quantity = 0 }},
		{"zero length", func(c *Component) { c.Resize(0, 600, 18) }},
		{"negative thickness", func(c *Component) { c.Resize(1200, 600, -1) }},
		{"unknown complexity", func(c *Component) { c.Complexity = "extreme" }},
		{"negative feature", func(c *Component) { c.AddFeature("bad", FeatureHole, -1) }},
	}
	for _, tt := range tests {
		c := valid.Clone()
		tt.mutate(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalidComponent) {
			t.Errorf("%s: expected ErrInvalidComponent, got %v", tt.name, err)
		}
	}
}

func TestComponentCloneIsDeep(t *testing.T) {
	c := NewComponent("Top", 1200, 600, 18, MaterialMDF, 1)
	c.AddFeature("Holes", FeatureHole, 4)
	p := c.AddProcess("1")
	actual := 12.5
	c.FindProcess(p.ID).ActualTime = &actual

	cp := c.Clone()
	cp.Features[0].Count = 99
	cp.Processes[0].Status = StatusCompleted
	*cp.Processes[0].ActualTime = 1

	if c.Features[0].Count != 4 {
		t.Error("clone shares features with original")
	}
	if c.Processes[0].Status != StatusPending {
		t.Error("clone shares processes with original")
	}
	if *c.Processes[0].ActualTime != 12.5 {
		t.Error("clone shares actual time with original")
	}
}

func TestProductComponents(t *testing.T) {
	p := NewProduct("Desk", "D-1", "")
	if p.Status != ProductDesigning {
		t.Errorf("expected designing status, got %s", p.Status)
	}
	if !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Error("expected CreatedAt == UpdatedAt for a new product")
	}

	a := NewComponent("A", 100, 100, 10, MaterialMDF, 1)
	b := NewComponent("B", 100, 100, 10, MaterialMDF, 1)
	p.AddComponent(a, 1, "left")
	p.AddComponent(b, 2, "right")

	if p.Components[1].AssemblyOrder != 2 {
		t.Errorf("expected assembly order 2, got %d", p.Components[1].AssemblyOrder)
	}
	if pc := p.FindComponent(b.ID); pc == nil || pc.Quantity != 2 {
		t.Error("expected to find component B with quantity 2")
	}
	if !p.RemoveComponent(a.ID) || len(p.ComponentList()) != 1 {
		t.Error("expected component A to be removed")
	}

	asm := p.AddAssemblyProcess("Join", 15, b.ID)
	if p.FindAssemblyProcess(asm.ID) == nil {
		t.Fatal("expected assembly process to be found")
	}
	if !p.RemoveAssemblyProcess(asm.ID) || len(p.AssemblyProcesses) != 0 {
		t.Error("expected assembly process to be removed")
	}
}

func TestProductCloneIsDeep(t *testing.T) {
	store := DefaultTemplateStore()
	p := SampleDesk(&store)
	cp := p.Clone()
	cp.Components[0].Component.Name = "changed"
	cp.AssemblyProcesses[0].ComponentIDs[0] = "changed"

	if p.Components[0].Component.Name == "changed" {
		t.Error("clone shares components with original")
	}
	if p.AssemblyProcesses[0].ComponentIDs[0] == "changed" {
		t.Error("clone shares assembly component IDs with original")
	}
}

func TestSampleDesk(t *testing.T) {
	store := DefaultTemplateStore()
	p := SampleDesk(&store)

	if len(p.Components) != 3 {
		t.Fatalf("expected 3 components, got %d", len(p.Components))
	}
	if len(p.AssemblyProcesses) != 2 {
		t.Errorf("expected 2 assembly processes, got %d", len(p.AssemblyProcesses))
	}
	for _, pc := range p.Components {
		if err := pc.Component.Validate(); err != nil {
			t.Errorf("sample component invalid: %v", err)
		}
		for _, proc := range pc.Component.Processes {
			if store.FindByID(proc.TemplateID) == nil {
				t.Errorf("%s: process references unknown template %s", pc.Component.Name, proc.TemplateID)
			}
		}
	}

	empty := NewTemplateStore()
	bare := SampleDesk(&empty)
	if n := len(bare.Components[0].Component.Processes); n != 0 {
		t.Errorf("expected no processes without templates, got %d", n)
	}
}
