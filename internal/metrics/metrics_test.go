package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/piwi3910/SlabCost/internal/engine"
	"github.com/piwi3910/SlabCost/internal/formula"
	"github.com/piwi3910/SlabCost/internal/model"
)

var (
	_ formula.Observer = (*Recorder)(nil)
	_ engine.Observer  = (*Recorder)(nil)
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveEvaluation(formula.Result{Value: 1, OK: true})
	r.ObserveEvaluation(formula.Result{Diagnostic: "empty formula"})
	r.ObserveEvaluation(formula.Result{Value: 2, OK: true})
	r.ObserveDuration(model.StrategyFormula, true)
	r.ObserveDuration(model.StrategyHeuristic, false)
	r.ObserveRecompute(engine.ScopeProduct)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.evaluations.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluations.WithLabelValues(ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.durations.WithLabelValues("formula", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.durations.WithLabelValues("heuristic", ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.recomputes.WithLabelValues("product")))
}

func TestRecorderDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestRecorderWiredIntoEstimator(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	store := model.DefaultTemplateStore()
	est := engine.NewEstimator(&store, engine.WithLogger(zap.NewNop()), engine.WithObserver(r))
	p := est.RecomputeProduct(model.SampleDesk(&store))
	require.Len(t, p.Components, 3)

	// 15 formula processes across the sample desk, all of which evaluate.
	assert.Equal(t, 15.0, testutil.ToFloat64(r.evaluations.WithLabelValues(ResultOK)))
	assert.Equal(t, 15.0, testutil.ToFloat64(r.durations.WithLabelValues("formula", ResultOK)))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.recomputes.WithLabelValues("component")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.recomputes.WithLabelValues("product")))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)
	r.ObserveRecompute(engine.ScopeComponent)

	path := filepath.Join(t.TempDir(), "slabcost.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `slabcost_recomputes_total{scope="component"} 1`)
}

func TestWriteTextfileBadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), prometheus.NewRegistry())
	assert.Error(t, err)
}
