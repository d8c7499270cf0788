// Package engine derives process durations and costs from components and
// rolls them up into component and product totals.
package engine

import (
	"github.com/piwi3910/SlabCost/internal/model"
)

// Names bound by Environment.
const (
	VarLength        = "length"
	VarWidth         = "width"
	VarThickness     = "thickness"
	VarArea          = "area"
	VarVolume        = "volume"
	VarComplexity    = "complexity"
	VarHoleCount     = "holeCount"
	VarGrooveCount   = "grooveCount"
	VarChamferCount  = "chamferCount"
	VarRoundingCount = "roundingCount"
	VarFeatureFactor = "featureFactor"
	VarQuantity      = "quantity"
	VarEdgeCount     = "edgeCount"
	VarPerimeter     = "perimeter"
)

// FeatureFactor is 1 plus the weighted sum of feature counts.
func FeatureFactor(features []model.ComponentFeature) float64 {
	f := 1.0
	for _, feat := range features {
		f += float64(feat.Count) * feat.Type.Weight()
	}
	return f
}

// Environment builds the formula environment of c from scratch. Area and
// volume come from the current dimensions, never from the stored size.
func Environment(c model.Component) (map[string]float64, error) {
	complexity, err := c.Complexity.Factor()
	if err != nil {
		return nil, err
	}

	l, w, t := c.Size.Length, c.Size.Width, c.Size.Thickness
	return map[string]float64{
		VarLength:        l,
		VarWidth:         w,
		VarThickness:     t,
		VarArea:          l * w,
		VarVolume:        l * w * t,
		VarComplexity:    complexity,
		VarHoleCount:     float64(c.FeatureCount(model.FeatureHole)),
		VarGrooveCount:   float64(c.FeatureCount(model.FeatureGroove)),
		VarChamferCount:  float64(c.FeatureCount(model.FeatureChamfer)),
		VarRoundingCount: float64(c.FeatureCount(model.FeatureRounding)),
		VarFeatureFactor: FeatureFactor(c.Features),
		VarQuantity:      float64(c.Quantity),
		VarEdgeCount:     float64(c.EdgeBanding.EdgeCount()),
		VarPerimeter:     2 * (l + w),
	}, nil
}

// CatalogEnvironment layers Environment over the catalog defaults, so custom
// catalog variables resolve to their declared default, and clamps every value
// to its declared range.
func CatalogEnvironment(c model.Component, catalog model.VariableCatalog) (map[string]float64, error) {
	derived, err := Environment(c)
	if err != nil {
		return nil, err
	}
	env := catalog.Defaults()
	for k, v := range derived {
		env[k] = v
	}
	for k, v := range env {
		env[k] = catalog.Clamp(k, v)
	}
	return env, nil
}
