// Package metrics exposes estimation activity as Prometheus counters.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/piwi3910/SlabCost/internal/formula"
	"github.com/piwi3910/SlabCost/internal/model"
)

// Result label values.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Recorder counts formula evaluations, process durations and recomputes.
// It satisfies both formula.Observer and engine.Observer.
type Recorder struct {
	evaluations *prometheus.CounterVec
	durations   *prometheus.CounterVec
	recomputes  *prometheus.CounterVec
}

// New registers the counters with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		evaluations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slabcost_formula_evaluations_total",
				Help: "Total number of formula evaluations",
			},
			[]string{"result"},
		),
		durations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slabcost_process_durations_total",
				Help: "Total number of process durations computed",
			},
			[]string{"strategy", "result"},
		),
		recomputes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slabcost_recomputes_total",
				Help: "Total number of component and product recomputes",
			},
			[]string{"scope"},
		),
	}
}

func result(ok bool) string {
	if ok {
		return ResultOK
	}
	return ResultFailed
}

// ObserveEvaluation records one formula evaluation.
func (r *Recorder) ObserveEvaluation(res formula.Result) {
	r.evaluations.WithLabelValues(result(res.OK)).Inc()
}

// ObserveDuration records one process duration.
func (r *Recorder) ObserveDuration(kind model.StrategyKind, ok bool) {
	r.durations.WithLabelValues(string(kind), result(ok)).Inc()
}

// ObserveRecompute records one recompute pass.
func (r *Recorder) ObserveRecompute(scope string) {
	r.recomputes.WithLabelValues(scope).Inc()
}

// WriteTextfile writes everything g gathers to path in the Prometheus text
// format, for pickup by the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
