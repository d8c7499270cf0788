package engine

import (
	"fmt"

	"github.com/piwi3910/SlabCost/internal/model"
)

// Scenario is a named set of rates and an optional strategy override to
// price a product under.
type Scenario struct {
	Name     string
	Config   model.AppConfig
	Strategy model.StrategyKind // empty: per-template strategies
}

// ScenarioResult holds the recomputed product and its headline numbers for a
// single scenario.
type ScenarioResult struct {
	Scenario      Scenario
	Product       model.Product
	TotalTime     float64
	AssemblyTime  float64
	TotalCost     float64
	EstimatedCost float64
}

// CompareScenarios recomputes p under each scenario and returns the results
// in scenario order. p is not modified.
func (e *Estimator) CompareScenarios(scenarios []Scenario, p model.Product) []ScenarioResult {
	results := make([]ScenarioResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		est := e.With(WithConfig(scenario.Config), WithStrategyOverride(scenario.Strategy))
		r := est.RecomputeProduct(p)

		results = append(results, ScenarioResult{
			Scenario:      scenario,
			Product:       r,
			TotalTime:     r.TotalTime,
			AssemblyTime:  r.AssemblyTime,
			TotalCost:     r.TotalCost,
			EstimatedCost: r.EstimatedCost,
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around the current
// config: a higher labor rate, a reduced overhead and the legacy keyword
// heuristic in place of the formulas.
func BuildDefaultScenarios(base model.AppConfig) []Scenario {
	scenarios := []Scenario{
		{
			Name:   "Current rates",
			Config: base,
		},
	}

	higherRate := base
	higherRate.HourlyRate = model.Round2(base.HourlyRate * 1.2)
	scenarios = append(scenarios, Scenario{
		Name:   fmt.Sprintf("Hourly rate %.2f (+20%%)", higherRate.HourlyRate),
		Config: higherRate,
	})

	if base.OverheadRate > 0 {
		halfOverhead := base
		halfOverhead.OverheadRate = base.OverheadRate / 2
		scenarios = append(scenarios, Scenario{
			Name:   fmt.Sprintf("Overhead %.0f%% (half)", halfOverhead.OverheadRate*100),
			Config: halfOverhead,
		})
	}

	scenarios = append(scenarios, Scenario{
		Name:     "Keyword heuristic",
		Config:   base,
		Strategy: model.StrategyHeuristic,
	})

	return scenarios
}
