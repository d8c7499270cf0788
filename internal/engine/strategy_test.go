package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SlabCost/internal/model"
)

func TestHeuristicHours(t *testing.T) {
	top := deskTop() // 1200×600×18 MDF, 4 holes, all edges
	leg := model.NewComponent("Leg", 700, 50, 50, model.MaterialSolidWood, 4)
	fire := model.NewComponent("Door", 1000, 1000, 18, model.MaterialFireRated, 1)
	twoEdges := deskTop()
	twoEdges.EdgeBanding = model.EdgeBanding{Top: true, Bottom: true}

	tests := []struct {
		name    string
		process string
		c       model.Component
		want    float64
	}{
		{"cut by area", "Cutting", top, 0.36},
		{"cut chinese keyword", "下料", top, 0.36},
		{"edge length times edge count", "Edge banding", top, 4.32},
		{"edge with two edges", "封边", twoEdges, 2.16},
		{"drill per hole", "Drilling", top, 0.4},
		{"assembly", "Assembly", top, 0.58},
		{"sanding", "Sanding", top, 0.29},
		{"painting", "Spray painting", top, 0.86},
		{"fallback", "Inspection", top, 0.5},
		{"thick solid wood", "Cutting", leg, 0.03},
		{"fire rated", "Cutting", fire, 0.55},
		{"thick fallback", "Packaging", leg, 0.78},
	}
	for _, tt := range tests {
		got := HeuristicHours(tt.process, tt.c, 25)
		assert.InDelta(t, tt.want, got, eps, tt.name)
	}
}

func TestHeuristicStrategyMinutes(t *testing.T) {
	s := HeuristicStrategy{ProcessName: "Drilling", ThickBoard: 25}
	assert.Equal(t, model.StrategyHeuristic, s.Kind())

	m, err := s.Minutes(deskTop())
	require.NoError(t, err)
	assert.InDelta(t, 24.0, m, eps)
}

func TestEfficiencyStrategy(t *testing.T) {
	s := EfficiencyStrategy{Config: model.EfficiencyConfig{BaseTime: 5, SizeFactor: 0.5, ComplexityFactor: 1, Unit: model.UnitMinute}}
	assert.Equal(t, model.StrategyEfficiency, s.Kind())

	m, err := s.Minutes(deskTop())
	require.NoError(t, err)
	assert.InDelta(t, 51.8, m, eps) // 5 + 72 × 0.5 × 1.3

	hourly := EfficiencyStrategy{Config: model.EfficiencyConfig{BaseTime: 1, SizeFactor: 0.1, ComplexityFactor: 1, Unit: model.UnitHour}}
	m, err = hourly.Minutes(deskTop())
	require.NoError(t, err)
	assert.InDelta(t, 621.6, m, 1e-6) // (1 + 72 × 0.1 × 1.3) h

	bad := deskTop()
	bad.Complexity = "extreme"
	_, err = s.Minutes(bad)
	assert.ErrorIs(t, err, model.ErrUnknownComplexity)
}

func TestFormulaStrategyWithoutEvaluator(t *testing.T) {
	s := FormulaStrategy{
		Logic:   model.CalculationLogic{Formula: "2 + holeCount * 0.5 * complexity"},
		Catalog: model.DefaultVariableCatalog(),
	}
	assert.Equal(t, model.StrategyFormula, s.Kind())

	m, err := s.Minutes(deskTop())
	require.NoError(t, err)
	assert.InDelta(t, 4.6, m, eps)

	s.Logic.Formula = "2 + missing"
	_, err = s.Minutes(deskTop())
	assert.ErrorIs(t, err, ErrEvaluation)

	s.Logic.Formula = "(2 + 3"
	_, err = s.Minutes(deskTop())
	assert.ErrorIs(t, err, ErrEvaluation)
}

func TestStrategySelection(t *testing.T) {
	est, store := newTestEstimator(t)

	for code, kind := range map[string]model.StrategyKind{
		"CUT":       model.StrategyFormula,
		"H-CUT":     model.StrategyHeuristic,
		"E-CUTTING": model.StrategyEfficiency,
	} {
		s, err := est.Strategy(*store.FindByCode(code))
		require.NoError(t, err, code)
		assert.Equal(t, kind, s.Kind(), code)
	}

	forced := est.With(WithStrategyOverride(model.StrategyHeuristic))
	s, err := forced.Strategy(*store.FindByCode("CUT"))
	require.NoError(t, err)
	assert.Equal(t, model.StrategyHeuristic, s.Kind())

	_, err = est.Strategy(model.ProcessTemplate{Code: "X", Strategy: "magic"})
	assert.ErrorIs(t, err, model.ErrUnknownStrategy)
}
