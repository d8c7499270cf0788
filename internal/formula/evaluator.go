package formula

import (
	"go.uber.org/zap"
)

// Observer is notified of every evaluation an Evaluator performs.
type Observer interface {
	ObserveEvaluation(r Result)
}

// Evaluator evaluates formulas without ever failing: problems are logged and
// collapse to 0.
type Evaluator struct {
	log      *zap.Logger
	observer Observer
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger. Without it the global zap logger is used.
func WithLogger(l *zap.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// WithObserver registers an observer, typically a metrics recorder.
func WithObserver(o Observer) Option {
	return func(e *Evaluator) { e.observer = o }
}

// NewEvaluator returns an Evaluator configured with opts.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) logger() *zap.Logger {
	if e.log != nil {
		return e.log
	}
	return zap.L()
}

// EvaluateResult compiles and evaluates formula against env.
func (e *Evaluator) EvaluateResult(formula string, env map[string]float64) Result {
	var r Result
	expr, err := Compile(formula)
	if err != nil {
		r = Result{Diagnostic: err.Error()}
	} else {
		r = expr.Eval(env)
	}

	if !r.OK {
		e.logger().Warn("formula evaluation failed",
			zap.String("formula", formula),
			zap.String("diagnostic", r.Diagnostic),
		)
	}
	if e.observer != nil {
		e.observer.ObserveEvaluation(r)
	}
	return r
}

// Evaluate returns the value of formula, or 0 if it cannot be evaluated.
func (e *Evaluator) Evaluate(formula string, env map[string]float64) float64 {
	return e.EvaluateResult(formula, env).Value
}

var defaultEvaluator = NewEvaluator()

// Evaluate evaluates formula with the default evaluator.
func Evaluate(formula string, env map[string]float64) float64 {
	return defaultEvaluator.Evaluate(formula, env)
}

// EvaluateResult evaluates formula with the default evaluator and keeps the
// diagnostic.
func EvaluateResult(formula string, env map[string]float64) Result {
	return defaultEvaluator.EvaluateResult(formula, env)
}
