// Package healthscore aggregates the factor calculators into a weighted
// financial health report with interpretation, peer comparison and
// improvement suggestions.
package healthscore

import (
	"fmt"
	"math"
	"sort"
	"time"

	"financial-health-workers/internal/common/logger"
	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/calculators"
	"financial-health-workers/internal/healthscore/fields"
)

const DefaultVersion = "2.1.0"

// Engine computes health reports. It keeps no per-call state, so a single
// Engine may serve concurrent callers.
type Engine struct {
	resolver    *fields.Resolver
	settings    calculators.Settings
	calculators []calculators.Calculator
	weights     map[benchmarks.Factor]float64
	clock       func() time.Time
	logger      logger.Logger
	version     string
}

type Option func(*Engine)

func WithResolver(r *fields.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithWeights overrides the factor weights. Factors absent from w are left
// out of the total.
func WithWeights(w map[benchmarks.Factor]float64) Option {
	return func(e *Engine) { e.weights = w }
}

func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

func WithLogger(log logger.Logger) Option {
	return func(e *Engine) { e.logger = log }
}

func WithDiversificationThreshold(threshold float64) Option {
	return func(e *Engine) { e.settings.DiversificationThreshold = threshold }
}

func WithDefaultCountry(country string) Option {
	return func(e *Engine) { e.settings.DefaultCountry = country }
}

func WithVersion(version string) Option {
	return func(e *Engine) { e.version = version }
}

// WithCalculators replaces the calculator set built from the resolver.
func WithCalculators(calcs ...calculators.Calculator) Option {
	return func(e *Engine) { e.calculators = calcs }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		settings: calculators.DefaultSettings(),
		weights:  benchmarks.Weights,
		clock:    time.Now,
		logger:   logger.NewNoOpLogger(),
		version:  DefaultVersion,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		e.resolver = fields.NewResolver()
	}
	if e.calculators == nil {
		e.calculators = calculators.All(e.resolver, e.settings)
	}
	return e
}

func (e *Engine) Version() string {
	return e.version
}

func (e *Engine) Resolver() *fields.Resolver {
	return e.resolver
}

var defaultEngine = New()

// CalculateFinancialHealthScore scores rec with the default engine.
func CalculateFinancialHealthScore(rec fields.Record) *HealthReport {
	return defaultEngine.Calculate(rec)
}

// Calculate scores rec. It never panics: an unexpected failure yields a
// degraded report carrying the error message.
func (e *Engine) Calculate(rec fields.Record) (report *HealthReport) {
	if rec == nil {
		rec = fields.Record{}
	}
	planning := planningType(rec)

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			e.logger.Error("health score calculation failed", map[string]interface{}{
				"error":        msg,
				"planningType": planning,
			})
			report = e.degraded(msg, planning)
		}
	}()

	validation := e.Validate(rec)
	if len(validation.CriticalMissing) > 0 {
		e.logger.Warn("critical inputs missing", map[string]interface{}{
			"criticalMissing": validation.CriticalMissing,
		})
	}

	breakdown := make(map[benchmarks.Factor]calculators.FactorResult, len(e.calculators))
	for _, calc := range e.calculators {
		breakdown[calc.Factor()] = calc.Calculate(rec)
	}

	total := e.totalScore(breakdown)

	// An unresolvable age compares against the youngest bucket.
	var age float64
	if res, err := e.resolver.LookupPersonal(rec, fields.CurrentAge); err == nil {
		age = res.Value
	}
	peers := ComparePeers(total, age)

	report = &HealthReport{
		Score:            total,
		Interpretation:   Interpret(total),
		ScoreBreakdown:   breakdown,
		PeerComparison:   peers,
		Suggestions:      GenerateSuggestions(breakdown, e.weights),
		Validation:       validation,
		ZeroScoreFactors: e.zeroScoreFactors(breakdown),
		Metadata: Metadata{
			CalculatedAt: e.clock().UTC(),
			Version:      e.version,
			PlanningType: planning,
		},
	}

	e.logger.Debug("health score calculated", map[string]interface{}{
		"score":        total,
		"band":         report.Interpretation.Band,
		"completeness": validation.Completeness,
	})
	return report
}

// totalScore is round(Σ s·w / Σ w) over the factors that carry a weight.
func (e *Engine) totalScore(breakdown map[benchmarks.Factor]calculators.FactorResult) int {
	var weighted, weightSum float64
	for _, factor := range orderedFactors(breakdown) {
		w, ok := e.weights[factor]
		if !ok || w <= 0 {
			continue
		}
		weighted += float64(breakdown[factor].Score) * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return int(math.Round(benchmarks.Clamp(weighted/weightSum, 0, 100)))
}

func (e *Engine) zeroScoreFactors(breakdown map[benchmarks.Factor]calculators.FactorResult) []ZeroScoreFactor {
	out := make([]ZeroScoreFactor, 0)
	for _, factor := range orderedFactors(breakdown) {
		res := breakdown[factor]
		if res.Score != 0 {
			continue
		}
		out = append(out, ZeroScoreFactor{
			Factor:      factor,
			Weight:      e.weights[factor],
			Description: benchmarks.Descriptions[factor],
			Status:      res.Details.Status,
		})
	}
	return out
}

func (e *Engine) degraded(msg, planning string) *HealthReport {
	return &HealthReport{
		Score: 0,
		Interpretation: Interpretation{
			Band:        "error",
			Label:       "Error",
			Color:       "gray",
			Emoji:       "❌",
			Description: "The score could not be calculated.",
		},
		ScoreBreakdown: map[benchmarks.Factor]calculators.FactorResult{},
		Suggestions:    []Suggestion{},
		Validation: Validation{
			IsValid:         false,
			Errors:          []string{msg},
			Warnings:        []string{},
			CriticalMissing: []string{},
		},
		ZeroScoreFactors: []ZeroScoreFactor{},
		Metadata: Metadata{
			CalculatedAt: e.clock().UTC(),
			Version:      e.version,
			PlanningType: planning,
		},
		Error: msg,
	}
}

func planningType(rec fields.Record) string {
	if fields.IsCouple(rec) {
		return PlanningCouple
	}
	return PlanningIndividual
}

// orderedFactors returns the factors of breakdown in report order, followed
// by any unknown factors.
func orderedFactors(breakdown map[benchmarks.Factor]calculators.FactorResult) []benchmarks.Factor {
	out := make([]benchmarks.Factor, 0, len(breakdown))
	seen := make(map[benchmarks.Factor]bool, len(breakdown))
	for _, f := range benchmarks.Factors {
		if _, ok := breakdown[f]; ok {
			out = append(out, f)
			seen[f] = true
		}
	}
	var extra []benchmarks.Factor
	for f := range breakdown {
		if !seen[f] {
			extra = append(extra, f)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
