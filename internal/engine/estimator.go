package engine

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/piwi3910/SlabCost/internal/formula"
	"github.com/piwi3910/SlabCost/internal/model"
)

// Recompute scopes reported to an Observer.
const (
	ScopeComponent = "component"
	ScopeProduct   = "product"
)

// TemplateLookup resolves process template references.
// *model.TemplateStore and *model.Catalog satisfy it.
type TemplateLookup interface {
	FindByID(id string) *model.ProcessTemplate
}

// Observer receives estimation events, typically for metrics.
type Observer interface {
	ObserveDuration(kind model.StrategyKind, ok bool)
	ObserveRecompute(scope string)
}

// Totals is the rollup of one or more components.
type Totals struct {
	TotalTime    float64 `json:"total_time"`
	MaterialCost float64 `json:"material_cost"`
	ProcessCost  float64 `json:"process_cost"`
	TotalCost    float64 `json:"total_cost"`
}

// Estimator computes durations, costs and totals. It keeps no state between
// calls: every result is derived from its inputs and the reference data.
type Estimator struct {
	templates TemplateLookup
	prices    model.PriceBook
	config    model.AppConfig
	hasConfig bool
	catalog   model.VariableCatalog
	override  model.StrategyKind
	log       *zap.Logger
	observer  Observer
	formulaOb formula.Observer
	evaluator *formula.Evaluator
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithLogger sets the logger. Without it the global zap logger is used.
func WithLogger(l *zap.Logger) Option {
	return func(e *Estimator) { e.log = l }
}

// WithObserver registers an observer for duration and recompute events.
// If o also implements formula.Observer it receives formula evaluations.
func WithObserver(o Observer) Option {
	return func(e *Estimator) {
		e.observer = o
		if fo, ok := o.(formula.Observer); ok {
			e.formulaOb = fo
		}
	}
}

// WithPriceBook replaces the stock price book.
func WithPriceBook(pb model.PriceBook) Option {
	return func(e *Estimator) { e.prices = pb }
}

// WithConfig replaces the default app config. Its fallback price and rate
// override those of the price book. Without it the price book keeps its own.
func WithConfig(cfg model.AppConfig) Option {
	return func(e *Estimator) {
		e.config = cfg
		e.hasConfig = true
	}
}

// WithCatalog replaces the stock variable catalog.
func WithCatalog(vc model.VariableCatalog) Option {
	return func(e *Estimator) { e.catalog = vc }
}

// WithStrategyOverride forces every template onto one duration strategy.
// An empty kind restores per-template selection.
func WithStrategyOverride(kind model.StrategyKind) Option {
	return func(e *Estimator) { e.override = kind }
}

// NewEstimator returns an Estimator resolving templates through templates.
func NewEstimator(templates TemplateLookup, opts ...Option) *Estimator {
	e := &Estimator{
		templates: templates,
		prices:    model.DefaultPriceBook(),
		config:    model.DefaultAppConfig(),
		catalog:   model.DefaultVariableCatalog(),
	}
	e.apply(opts)
	return e
}

func (e *Estimator) apply(opts []Option) {
	for _, opt := range opts {
		opt(e)
	}
	if e.hasConfig {
		e.config.ApplyToPriceBook(&e.prices)
	}

	evalOpts := []formula.Option{formula.WithLogger(e.logger().Named("formula"))}
	if e.formulaOb != nil {
		evalOpts = append(evalOpts, formula.WithObserver(e.formulaOb))
	}
	e.evaluator = formula.NewEvaluator(evalOpts...)
}

// With returns a copy of the estimator with opts applied on top.
func (e *Estimator) With(opts ...Option) *Estimator {
	cp := *e
	cp.apply(opts)
	return &cp
}

func (e *Estimator) logger() *zap.Logger {
	if e.log != nil {
		return e.log
	}
	return zap.L()
}

// Config returns the app config in use.
func (e *Estimator) Config() model.AppConfig { return e.config }

// PriceBook returns the price book in use.
func (e *Estimator) PriceBook() model.PriceBook { return e.prices }

// Template resolves a template ID, or returns nil.
func (e *Estimator) Template(id string) *model.ProcessTemplate {
	if e.templates == nil {
		return nil
	}
	return e.templates.FindByID(id)
}

// Strategy returns the duration strategy used for t.
func (e *Estimator) Strategy(t model.ProcessTemplate) (DurationStrategy, error) {
	kind := t.Strategy
	if e.override != "" {
		kind = e.override
	}

	switch kind {
	case model.StrategyFormula, "":
		if t.CalculationLogic == nil {
			return nil, fmt.Errorf("template %s: no calculation logic", t.Code)
		}
		return FormulaStrategy{Logic: *t.CalculationLogic, Catalog: e.catalog, Evaluator: e.evaluator}, nil
	case model.StrategyHeuristic:
		return HeuristicStrategy{ProcessName: t.Name, ThickBoard: e.config.ThickBoardThreshold}, nil
	case model.StrategyEfficiency:
		if t.Efficiency == nil {
			return nil, fmt.Errorf("template %s: no efficiency config", t.Code)
		}
		return EfficiencyStrategy{Config: *t.Efficiency}, nil
	}
	return nil, fmt.Errorf("template %s: %w: %q", t.Code, model.ErrUnknownStrategy, kind)
}

// ProcessDuration returns the minutes template t takes on component c,
// rounded to two decimals. Any failure yields 0 and a warning.
func (e *Estimator) ProcessDuration(c model.Component, t model.ProcessTemplate) float64 {
	strategy, err := e.Strategy(t)
	var minutes float64
	if err == nil {
		minutes, err = strategy.Minutes(c)
	}

	kind := t.Strategy
	if strategy != nil {
		kind = strategy.Kind()
	}
	if err != nil {
		e.logger().Warn("process duration degraded to zero",
			zap.String("template", t.Code),
			zap.String("component", c.Name),
			zap.Error(err),
		)
		e.observeDuration(kind, false)
		return 0
	}
	e.observeDuration(kind, true)
	return model.Round2(minutes)
}

// equipmentFor returns the process override, else the template's first
// required equipment.
func equipmentFor(p model.ComponentProcess, t model.ProcessTemplate) string {
	if p.Equipment != "" {
		return p.Equipment
	}
	return t.PrimaryEquipment()
}

func (e *Estimator) costOf(p model.ComponentProcess, t model.ProcessTemplate, minutes float64) float64 {
	rate := e.prices.EquipmentHourlyRate(equipmentFor(p, t))
	return model.Round2(rate * minutes / 60)
}

// ProcessCost returns the equipment cost of process p on component c.
// A process whose template cannot be resolved costs 0.
func (e *Estimator) ProcessCost(p model.ComponentProcess, c model.Component) float64 {
	t := e.Template(p.TemplateID)
	if t == nil {
		e.logger().Warn("process references unknown template",
			zap.String("process", p.ID),
			zap.String("template_id", p.TemplateID),
		)
		return 0
	}
	return e.costOf(p, *t, e.ProcessDuration(c, *t))
}

// MaterialCost returns the board cost of one piece of c. Boards thicker than
// the configured threshold cost 50% more.
func (e *Estimator) MaterialCost(c model.Component) float64 {
	cost := model.SquareMeters(c.Size.Length*c.Size.Width) * e.prices.MaterialUnitPrice(c.Material)
	if c.Size.Thickness > e.config.ThickBoardThreshold {
		cost *= 1.5
	}
	return model.Round2(cost)
}

// RecomputeComponent returns a copy of c with size, every process's time and
// cost, and all totals derived afresh. c itself is not modified.
func (e *Estimator) RecomputeComponent(c model.Component) model.Component {
	out := c.Clone()
	out.Resize(c.Size.Length, c.Size.Width, c.Size.Thickness)

	for i := range out.Processes {
		p := &out.Processes[i]
		t := e.Template(p.TemplateID)
		if t == nil {
			e.logger().Warn("process references unknown template",
				zap.String("component", out.Name),
				zap.String("template_id", p.TemplateID),
			)
			p.CalculatedTime, p.Cost = 0, 0
			continue
		}
		p.CalculatedTime = e.ProcessDuration(out, *t)
		p.Cost = e.costOf(*p, *t, p.CalculatedTime)
	}

	out.TotalTime = model.Round2(lo.SumBy(out.Processes, func(p model.ComponentProcess) float64 {
		return p.CalculatedTime
	}))
	out.ProcessCost = model.Round2(lo.SumBy(out.Processes, func(p model.ComponentProcess) float64 {
		return p.Cost
	}))
	out.MaterialCost = e.MaterialCost(out)
	out.TotalCost = model.Round2(out.MaterialCost + out.ProcessCost)

	e.observeRecompute(ScopeComponent)
	return out
}

// ComponentTotals returns the totals of c after a full recompute.
func (e *Estimator) ComponentTotals(c model.Component) Totals {
	r := e.RecomputeComponent(c)
	return Totals{
		TotalTime:    r.TotalTime,
		MaterialCost: r.MaterialCost,
		ProcessCost:  r.ProcessCost,
		TotalCost:    r.TotalCost,
	}
}

// ProductTotals recomputes every component and sums the results.
func (e *Estimator) ProductTotals(components []model.Component) Totals {
	fresh := lo.Map(components, func(c model.Component, _ int) model.Component {
		return e.RecomputeComponent(c)
	})
	return sumTotals(fresh)
}

func sumTotals(components []model.Component) Totals {
	return Totals{
		TotalTime:    model.Round2(lo.SumBy(components, func(c model.Component) float64 { return c.TotalTime })),
		MaterialCost: model.Round2(lo.SumBy(components, func(c model.Component) float64 { return c.MaterialCost })),
		ProcessCost:  model.Round2(lo.SumBy(components, func(c model.Component) float64 { return c.ProcessCost })),
		TotalCost:    model.Round2(lo.SumBy(components, func(c model.Component) float64 { return c.TotalCost })),
	}
}

// RecomputeProduct returns a copy of p in which every component is
// recomputed, the product totals are rebuilt from the refreshed components
// and the quote is priced.
func (e *Estimator) RecomputeProduct(p model.Product) model.Product {
	out := p.Clone()
	for i := range out.Components {
		out.Components[i].Component = e.RecomputeComponent(out.Components[i].Component)
	}

	totals := sumTotals(out.ComponentList())
	out.TotalComponents = len(out.Components)
	out.TotalTime = totals.TotalTime
	out.MaterialCost = totals.MaterialCost
	out.TotalCost = totals.TotalCost
	out.AssemblyTime = model.Round2(lo.SumBy(out.AssemblyProcesses, func(a model.AssemblyProcess) float64 {
		return a.EstimatedTime
	}))
	out.Quote = e.Quote(out.MaterialCost, out.TotalTime+out.AssemblyTime)
	out.EstimatedCost = out.Quote.Total

	e.logger().Debug("product recomputed",
		zap.String("product", out.Name),
		zap.Int("components", out.TotalComponents),
		zap.Float64("total_time", out.TotalTime),
		zap.Float64("total_cost", out.TotalCost),
		zap.Float64("estimated_cost", out.EstimatedCost),
	)
	e.observeRecompute(ScopeProduct)
	return out
}

// Quote prices labor at the configured hourly rate and applies overhead:
// total = (material + minutes/60 × rate) × (1 + overhead).
func (e *Estimator) Quote(materialCost, minutes float64) model.QuoteBreakdown {
	labor := minutes / 60 * e.config.HourlyRate
	subtotal := materialCost + labor
	return model.QuoteBreakdown{
		MaterialCost: model.Round2(materialCost),
		LaborMinutes: model.Round2(minutes),
		LaborCost:    model.Round2(labor),
		HourlyRate:   e.config.HourlyRate,
		OverheadRate: e.config.OverheadRate,
		Overhead:     model.Round2(subtotal * e.config.OverheadRate),
		Total:        model.Round2(subtotal * (1 + e.config.OverheadRate)),
	}
}

func (e *Estimator) observeDuration(kind model.StrategyKind, ok bool) {
	if e.observer != nil {
		e.observer.ObserveDuration(kind, ok)
	}
}

func (e *Estimator) observeRecompute(scope string) {
	if e.observer != nil {
		e.observer.ObserveRecompute(scope)
	}
}
