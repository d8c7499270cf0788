package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/piwi3910/SlabCost/internal/model"
)

const eps = 1e-9

func newTestEstimator(t *testing.T, opts ...Option) (*Estimator, *model.TemplateStore) {
	t.Helper()
	store := model.DefaultTemplateStore()
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	return NewEstimator(&store, opts...), &store
}

func deskTop() model.Component {
	c := model.NewComponent("Desk top", 1200, 600, 18, model.MaterialMDF, 1)
	c.Complexity = model.ComplexityMedium
	c.EdgeBanding = model.AllEdges()
	c.AddFeature("Holes", model.FeatureHole, 4)
	return c
}

// ─── Environment ───

func TestEnvironment(t *testing.T) {
	c := deskTop()
	c.AddFeature("Groove", model.FeatureGroove, 1)
	c.AddFeature("Chamfer", model.FeatureChamfer, 2)
	c.AddFeature("Round", model.FeatureRounding, 1)
	c.AddFeature("Logo", model.FeatureCustom, 3)

	env, err := Environment(c)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, env[VarLength])
	assert.Equal(t, 600.0, env[VarWidth])
	assert.Equal(t, 18.0, env[VarThickness])
	assert.Equal(t, 720000.0, env[VarArea])
	assert.Equal(t, 12960000.0, env[VarVolume])
	assert.Equal(t, 1.3, env[VarComplexity])
	assert.Equal(t, 4.0, env[VarHoleCount])
	assert.Equal(t, 1.0, env[VarGrooveCount])
	assert.Equal(t, 2.0, env[VarChamferCount])
	assert.Equal(t, 1.0, env[VarRoundingCount])
	assert.InDelta(t, 1+0.4+0.2+0.3+0.25, env[VarFeatureFactor], eps)
	assert.Equal(t, 1.0, env[VarQuantity])
	assert.Equal(t, 4.0, env[VarEdgeCount])
	assert.Equal(t, 3600.0, env[VarPerimeter])
}

func TestEnvironmentIgnoresStaleSize(t *testing.T) {
	c := deskTop()
	c.Size.Area = 1 // stale derived value
	env, err := Environment(c)
	require.NoError(t, err)
	assert.Equal(t, 720000.0, env[VarArea])
}

func TestEnvironmentUnknownComplexity(t *testing.T) {
	c := deskTop()
	c.Complexity = "extreme"
	_, err := Environment(c)
	assert.ErrorIs(t, err, model.ErrUnknownComplexity)
}

func TestCatalogEnvironmentFillsDefaults(t *testing.T) {
	vc := model.DefaultVariableCatalog()
	waste := 0.1
	vc = append(vc, model.Variable{Name: "wasteFactor", Kind: model.KindCustom, DefaultValue: &waste})

	env, err := CatalogEnvironment(deskTop(), vc)
	require.NoError(t, err)
	assert.Equal(t, 0.1, env["wasteFactor"])
	assert.Equal(t, 720000.0, env[VarArea])
}

// ─── Durations and costs ───

func TestProcessDurationFormula(t *testing.T) {
	est, store := newTestEstimator(t)
	c := deskTop()

	assert.InDelta(t, 70.52, est.ProcessDuration(c, *store.FindByCode("CUT")), eps)
	assert.InDelta(t, 4.6, est.ProcessDuration(c, *store.FindByCode("DRILL")), eps)

	simple := model.NewComponent("Shelf", 1000, 300, 18, model.MaterialMDF, 1)
	simple.AddFeature("Holes", model.FeatureHole, 4)
	assert.InDelta(t, 4.0, est.ProcessDuration(simple, *store.FindByCode("DRILL")), eps)
}

func TestProcessDurationFailuresAreZero(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := model.DefaultTemplateStore()
	est := NewEstimator(&store, WithLogger(zap.New(core)))

	broken := model.ProcessTemplate{
		Code:             "BROKEN",
		Strategy:         model.StrategyFormula,
		CalculationLogic: &model.CalculationLogic{Formula: "area * depth"},
	}
	assert.Equal(t, 0.0, est.ProcessDuration(deskTop(), broken))

	noLogic := model.ProcessTemplate{Code: "EMPTY", Strategy: model.StrategyFormula}
	assert.Equal(t, 0.0, est.ProcessDuration(deskTop(), noLogic))

	bad := deskTop()
	bad.Complexity = "extreme"
	assert.Equal(t, 0.0, est.ProcessDuration(bad, *store.FindByCode("CUT")))

	assert.GreaterOrEqual(t, logs.FilterMessage("process duration degraded to zero").Len(), 3)
}

func TestProcessDurationDivisionByZeroIsNotAFailure(t *testing.T) {
	est, _ := newTestEstimator(t)
	tmpl := model.ProcessTemplate{
		Code:             "DIV",
		Strategy:         model.StrategyFormula,
		CalculationLogic: &model.CalculationLogic{Formula: "10 / grooveCount"},
	}
	assert.Equal(t, 0.0, est.ProcessDuration(deskTop(), tmpl))
}

func TestProcessCost(t *testing.T) {
	est, store := newTestEstimator(t)
	c := deskTop()

	cut := c.AddProcess(store.FindByCode("CUT").ID)
	assert.InDelta(t, 141.04, est.ProcessCost(cut, c), eps) // CNC cutter at 120/h

	cut.Equipment = model.EquipmentPanelSaw
	assert.InDelta(t, 94.03, est.ProcessCost(cut, c), eps) // 80/h

	cut.Equipment = "Laser"
	assert.InDelta(t, 94.03, est.ProcessCost(cut, c), eps) // fallback 80/h

	orphan := model.ComponentProcess{ID: "x", TemplateID: "missing"}
	assert.Equal(t, 0.0, est.ProcessCost(orphan, c))
}

func TestMaterialCost(t *testing.T) {
	est, _ := newTestEstimator(t)

	assert.InDelta(t, 32.4, est.MaterialCost(deskTop()), eps)

	leg := model.NewComponent("Leg", 700, 50, 50, model.MaterialSolidWood, 4)
	assert.InDelta(t, 6.3, est.MaterialCost(leg), eps) // 0.035 m² × 120 × 1.5

	exotic := model.NewComponent("Panel", 1000, 1000, 18, "Ebony", 1)
	assert.InDelta(t, 50.0, est.MaterialCost(exotic), eps)

	atThreshold := model.NewComponent("Panel", 1000, 1000, 25, model.MaterialPlywood, 1)
	assert.InDelta(t, 50.0, est.MaterialCost(atThreshold), eps)
}

func TestMaterialCostUsesConfigFallback(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg.DefaultMaterialPrice = 20
	est, _ := newTestEstimator(t, WithConfig(cfg))

	exotic := model.NewComponent("Panel", 1000, 1000, 18, "Ebony", 1)
	assert.InDelta(t, 20.0, est.MaterialCost(exotic), eps)
}

func TestMaterialCostUsesPriceBookFallback(t *testing.T) {
	pb := model.DefaultPriceBook()
	pb.DefaultMaterialPrice = 99
	pb.DefaultEquipmentRate = 30

	est, _ := newTestEstimator(t, WithPriceBook(pb))
	exotic := model.NewComponent("Panel", 1000, 1000, 18, "Unlisted Board", 1)
	assert.InDelta(t, 99.0, est.MaterialCost(exotic), eps)
	assert.Equal(t, 30.0, est.PriceBook().EquipmentHourlyRate("Unlisted Saw"))

	withCfg := est.With(WithConfig(model.DefaultAppConfig()))
	assert.InDelta(t, 50.0, withCfg.MaterialCost(exotic), eps)
	assert.InDelta(t, 99.0, est.MaterialCost(exotic), eps)
}

// ─── Component and product totals ───

func TestRecomputeComponent(t *testing.T) {
	est, store := newTestEstimator(t)
	c := deskTop()
	c.AddProcess(store.FindByCode("CUT").ID)
	c.AddProcess(store.FindByCode("DRILL").ID)

	r := est.RecomputeComponent(c)

	assert.InDelta(t, 70.52, r.Processes[0].CalculatedTime, eps)
	assert.InDelta(t, 141.04, r.Processes[0].Cost, eps)
	assert.InDelta(t, 4.6, r.Processes[1].CalculatedTime, eps)
	assert.InDelta(t, 6.9, r.Processes[1].Cost, eps)
	assert.InDelta(t, 75.12, r.TotalTime, eps)
	assert.InDelta(t, 32.4, r.MaterialCost, eps)
	assert.InDelta(t, 147.94, r.ProcessCost, eps)
	assert.InDelta(t, 180.34, r.TotalCost, eps)

	// The input is untouched.
	assert.Equal(t, 0.0, c.TotalTime)
	assert.Equal(t, 0.0, c.Processes[0].CalculatedTime)

	totals := est.ComponentTotals(c)
	assert.Equal(t, Totals{TotalTime: r.TotalTime, MaterialCost: r.MaterialCost, ProcessCost: r.ProcessCost, TotalCost: r.TotalCost}, totals)
}

func TestRecomputeComponentRederivesSize(t *testing.T) {
	est, _ := newTestEstimator(t)
	c := deskTop()
	c.Size.Length = 1000 // edited without Resize
	r := est.RecomputeComponent(c)
	assert.Equal(t, 600000.0, r.Size.Area)
	assert.Equal(t, 600000.0*18, r.Size.Volume)
}

func TestRecomputeComponentWithoutProcesses(t *testing.T) {
	est, _ := newTestEstimator(t)
	r := est.RecomputeComponent(deskTop())
	assert.Equal(t, 0.0, r.TotalTime)
	assert.InDelta(t, r.MaterialCost, r.TotalCost, eps)
}

func TestRecomputeComponentUnknownTemplate(t *testing.T) {
	est, store := newTestEstimator(t)
	c := deskTop()
	c.AddProcess(store.FindByCode("CUT").ID)
	c.AddProcess("missing")
	c.Processes[1].CalculatedTime = 99

	r := est.RecomputeComponent(c)
	assert.Equal(t, 0.0, r.Processes[1].CalculatedTime)
	assert.Equal(t, 0.0, r.Processes[1].Cost)
	assert.InDelta(t, 70.52, r.TotalTime, eps)
}

func TestRecomputeIsDeterministic(t *testing.T) {
	est, store := newTestEstimator(t)
	p := model.SampleDesk(store)

	first := est.RecomputeProduct(p)
	second := est.RecomputeProduct(p)
	assert.Equal(t, first, second)
	assert.Equal(t, first, est.RecomputeProduct(first))
}

func TestRecomputeProduct(t *testing.T) {
	est, store := newTestEstimator(t)
	p := est.RecomputeProduct(model.SampleDesk(store))

	require.Len(t, p.Components, 3)
	assert.Equal(t, 3, p.TotalComponents)

	var sumTime, sumCost, sumMaterial float64
	for _, pc := range p.Components {
		c := pc.Component
		sumTime += c.TotalTime
		sumCost += c.TotalCost
		sumMaterial += c.MaterialCost
		assert.Greater(t, c.TotalTime, 0.0, c.Name)
	}
	assert.InDelta(t, sumTime, p.TotalTime, 1e-6)
	assert.InDelta(t, sumCost, p.TotalCost, 1e-6)
	assert.InDelta(t, sumMaterial, p.MaterialCost, 1e-6)
	assert.Equal(t, 35.0, p.AssemblyTime)

	want := est.Quote(p.MaterialCost, p.TotalTime+p.AssemblyTime)
	assert.Equal(t, want, p.Quote)
	assert.Equal(t, want.Total, p.EstimatedCost)
}

func TestProductTotals(t *testing.T) {
	est, store := newTestEstimator(t)
	p := model.SampleDesk(store)

	totals := est.ProductTotals(p.ComponentList())
	r := est.RecomputeProduct(p)
	assert.Equal(t, r.TotalTime, totals.TotalTime)
	assert.Equal(t, r.TotalCost, totals.TotalCost)
	assert.Equal(t, Totals{}, est.ProductTotals(nil))
}

func TestQuote(t *testing.T) {
	est, _ := newTestEstimator(t)
	q := est.Quote(100, 120)

	assert.Equal(t, 100.0, q.LaborCost)
	assert.Equal(t, 40.0, q.Overhead)
	assert.Equal(t, 240.0, q.Total)
	assert.Equal(t, 50.0, q.HourlyRate)
	assert.Equal(t, 0.2, q.OverheadRate)

	cfg := model.DefaultAppConfig()
	cfg.HourlyRate = 60
	cfg.OverheadRate = 0
	q = est.With(WithConfig(cfg)).Quote(10, 30)
	assert.Equal(t, 40.0, q.Total)
}

// ─── Observer ───

type countingObserver struct {
	durations  map[model.StrategyKind]int
	failures   int
	recomputes map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{durations: map[model.StrategyKind]int{}, recomputes: map[string]int{}}
}

func (o *countingObserver) ObserveDuration(kind model.StrategyKind, ok bool) {
	o.durations[kind]++
	if !ok {
		o.failures++
	}
}

func (o *countingObserver) ObserveRecompute(scope string) { o.recomputes[scope]++ }

func TestEstimatorObserver(t *testing.T) {
	obs := newCountingObserver()
	est, store := newTestEstimator(t, WithObserver(obs))

	c := deskTop()
	c.AddProcess(store.FindByCode("CUT").ID)
	c.AddProcess(store.FindByCode("H-EDGE").ID)
	c.AddProcess(store.FindByCode("E-SANDING").ID)
	est.RecomputeComponent(c)

	assert.Equal(t, 1, obs.durations[model.StrategyFormula])
	assert.Equal(t, 1, obs.durations[model.StrategyHeuristic])
	assert.Equal(t, 1, obs.durations[model.StrategyEfficiency])
	assert.Equal(t, 0, obs.failures)
	assert.Equal(t, 1, obs.recomputes[ScopeComponent])

	est.RecomputeProduct(model.SampleDesk(store))
	assert.Equal(t, 1, obs.recomputes[ScopeProduct])
	assert.Equal(t, 4, obs.recomputes[ScopeComponent])
}
