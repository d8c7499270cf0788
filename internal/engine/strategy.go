package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/piwi3910/SlabCost/internal/formula"
	"github.com/piwi3910/SlabCost/internal/model"
)

// ErrEvaluation is returned when a formula cannot be evaluated.
var ErrEvaluation = errors.New("formula evaluation failed")

// DurationStrategy computes the minutes one process takes on a component.
type DurationStrategy interface {
	Kind() model.StrategyKind
	Minutes(c model.Component) (float64, error)
}

// FormulaStrategy evaluates a calculation logic against the component
// environment.
type FormulaStrategy struct {
	Logic     model.CalculationLogic
	Catalog   model.VariableCatalog
	Evaluator *formula.Evaluator
}

func (s FormulaStrategy) Kind() model.StrategyKind { return model.StrategyFormula }

func (s FormulaStrategy) Minutes(c model.Component) (float64, error) {
	env, err := CatalogEnvironment(c, s.Catalog)
	if err != nil {
		return 0, err
	}

	var r formula.Result
	if s.Evaluator != nil {
		r = s.Evaluator.EvaluateResult(s.Logic.Formula, env)
	} else {
		expr, err := formula.Compile(s.Logic.Formula)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrEvaluation, err)
		}
		r = expr.Eval(env)
	}
	if !r.OK {
		return 0, fmt.Errorf("%w: %s", ErrEvaluation, r.Diagnostic)
	}
	return r.Value, nil
}

// Hours per unit used by the keyword heuristic.
const (
	cutHoursPerM2      = 0.5
	edgeHoursPerM      = 0.3
	drillHoursPerHole  = 0.1
	assembleHoursPerM2 = 0.8
	sandHoursPerM2     = 0.4
	paintHoursPerM2    = 1.2
	fallbackHours      = 0.5

	thickBoardTimeFactor = 1.2
	solidWoodTimeFactor  = 1.3
	fireRatedTimeFactor  = 1.1
)

type heuristicKind int

const (
	heuristicOther heuristicKind = iota
	heuristicCut
	heuristicEdge
	heuristicDrill
	heuristicAssemble
	heuristicSand
	heuristicPaint
)

// Checked in order; the first match wins.
var heuristicKeywords = []struct {
	kind     heuristicKind
	keywords []string
}{
	{heuristicCut, []string{"cut", "saw", "切割", "下料"}},
	{heuristicEdge, []string{"edge", "band", "封边"}},
	{heuristicDrill, []string{"drill", "bore", "钻孔", "打孔"}},
	{heuristicAssemble, []string{"assembl", "组装", "装配"}},
	{heuristicSand, []string{"sand", "polish", "打磨", "抛光"}},
	{heuristicPaint, []string{"paint", "spray", "coat", "喷漆", "涂装"}},
}

func classifyProcess(name string) heuristicKind {
	lower := strings.ToLower(name)
	for _, h := range heuristicKeywords {
		for _, kw := range h.keywords {
			if strings.Contains(lower, kw) {
				return h.kind
			}
		}
	}
	return heuristicOther
}

var (
	solidWoodNames = []string{model.MaterialSolidWood, "Solid Wood", "实木板"}
	fireRatedNames = []string{model.MaterialFireRated, "Fire Rated Board", "防火板"}
)

func materialIn(material string, names []string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(material), n) {
			return true
		}
	}
	return false
}

// HeuristicHours estimates hours from keywords in the process name, the panel
// area, the banded edge length and the hole count. The result is rounded to
// two decimals.
func HeuristicHours(processName string, c model.Component, thickBoard float64) float64 {
	area := model.SquareMeters(c.Size.Length * c.Size.Width)
	edgeLength := 2 * (c.Size.Length + c.Size.Width) / 1000

	var hours float64
	switch classifyProcess(processName) {
	case heuristicCut:
		hours = area * cutHoursPerM2
	case heuristicEdge:
		hours = edgeLength * edgeHoursPerM * float64(c.EdgeBanding.EdgeCount())
	case heuristicDrill:
		hours = float64(c.FeatureCount(model.FeatureHole)) * drillHoursPerHole
	case heuristicAssemble:
		hours = area * assembleHoursPerM2
	case heuristicSand:
		hours = area * sandHoursPerM2
	case heuristicPaint:
		hours = area * paintHoursPerM2
	default:
		hours = fallbackHours
	}

	if c.Size.Thickness > thickBoard {
		hours *= thickBoardTimeFactor
	}
	switch {
	case materialIn(c.Material, solidWoodNames):
		hours *= solidWoodTimeFactor
	case materialIn(c.Material, fireRatedNames):
		hours *= fireRatedTimeFactor
	}
	return model.Round2(hours)
}

// HeuristicStrategy is the keyword heuristic on the process name.
type HeuristicStrategy struct {
	ProcessName string
	ThickBoard  float64 // mm
}

func (s HeuristicStrategy) Kind() model.StrategyKind { return model.StrategyHeuristic }

func (s HeuristicStrategy) Minutes(c model.Component) (float64, error) {
	return HeuristicHours(s.ProcessName, c, s.ThickBoard) * 60, nil
}

// EfficiencyStrategy applies an efficiency table entry.
type EfficiencyStrategy struct {
	Config model.EfficiencyConfig
}

func (s EfficiencyStrategy) Kind() model.StrategyKind { return model.StrategyEfficiency }

func (s EfficiencyStrategy) Minutes(c model.Component) (float64, error) {
	complexity, err := c.Complexity.Factor()
	if err != nil {
		return 0, err
	}
	area := c.Size.Length * c.Size.Width
	t := s.Config.BaseTime + area/10000*s.Config.SizeFactor*complexity*s.Config.ComplexityFactor
	if s.Config.Unit == model.UnitHour {
		t *= 60
	}
	return t, nil
}
