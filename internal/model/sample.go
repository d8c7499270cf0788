package model

// SampleDesk builds the demonstration product: a desk with a top, four legs
// and two drawers, with processes taken from the stock templates. Templates
// missing from store are skipped.
func SampleDesk(store *TemplateStore) Product {
	attach := func(c *Component, codes ...string) {
		for _, code := range codes {
			if t := store.FindByCode(code); t != nil {
				c.AddProcess(t.ID)
			}
		}
	}

	top := NewComponent("Desk top", 1200, 600, 18, MaterialMDF, 1)
	top.Code = "DT-01"
	top.Complexity = ComplexityMedium
	top.EdgeBanding = AllEdges()
	top.AddFeature("Fixing holes", FeatureHole, 4)
	attach(&top, "CUT", "EDGE", "DRILL", "SAND", "PAINT", "INSPECT")

	leg := NewComponent("Leg", 700, 50, 50, MaterialSolidWood, 4)
	leg.Code = "DL-01"
	leg.AddFeature("Dowel holes", FeatureHole, 2)
	attach(&leg, "CUT", "DRILL", "SAND", "PAINT")

	drawer := NewComponent("Drawer front", 400, 300, 15, MaterialMDF, 2)
	drawer.Code = "DF-01"
	drawer.Complexity = ComplexityComplex
	drawer.EdgeBanding = EdgeBanding{Top: true, Bottom: true}
	drawer.AddFeature("Runner grooves", FeatureGroove, 2)
	drawer.AddFeature("Handle hole", FeatureHole, 1)
	attach(&drawer, "CUT", "GROOVE", "DRILL", "EDGE", "SAND")

	p := NewProduct("Office desk", "DESK-001", "Single-pedestal office desk")
	p.AddComponent(top, 1, "top")
	p.AddComponent(leg, 4, "legs")
	p.AddComponent(drawer, 2, "drawers")
	p.AddAssemblyProcess("Frame assembly", 15, top.ID, leg.ID)
	p.AddAssemblyProcess("Drawer fitting", 20, drawer.ID)
	return p
}
