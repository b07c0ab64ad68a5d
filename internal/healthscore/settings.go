package healthscore

import (
	"fmt"
	"strings"

	"financial-health-workers/internal/common/config"
	"financial-health-workers/internal/common/logger"
	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/fields"
)

// ParseWeights maps configured weights onto factors. Keys match factor
// names case-insensitively, since viper lowercases map keys. Factors not
// listed keep their default weight.
func ParseWeights(raw map[string]float64) (map[benchmarks.Factor]float64, error) {
	byName := make(map[string]benchmarks.Factor, len(benchmarks.Factors))
	for _, f := range benchmarks.Factors {
		byName[strings.ToLower(string(f))] = f
	}

	weights := make(map[benchmarks.Factor]float64, len(benchmarks.Weights))
	for f, w := range benchmarks.Weights {
		weights[f] = w
	}
	for key, w := range raw {
		f, ok := byName[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			return nil, fmt.Errorf("unknown scoring factor %q", key)
		}
		if w < 0 {
			return nil, fmt.Errorf("weight for %s must not be negative", f)
		}
		weights[f] = w
	}
	return weights, nil
}

// OptionsFromConfig translates the scoring section into engine options.
func OptionsFromConfig(cfg config.ScoringConfig, log logger.Logger) ([]Option, error) {
	weights, err := ParseWeights(cfg.Weights)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithWeights(weights),
		WithResolver(fields.NewResolver(fields.WithLegacyAnnualHeuristic(cfg.LegacyAnnualHeuristic))),
		WithDiversificationThreshold(cfg.DiversificationThreshold),
	}
	if cfg.DefaultCountry != "" {
		opts = append(opts, WithDefaultCountry(cfg.DefaultCountry))
	}
	if cfg.Version != "" {
		opts = append(opts, WithVersion(cfg.Version))
	}
	if log != nil {
		opts = append(opts, WithLogger(log))
	}
	return opts, nil
}

// Weights returns the factor weights the engine aggregates with.
func (e *Engine) Weights() map[benchmarks.Factor]float64 {
	out := make(map[benchmarks.Factor]float64, len(e.weights))
	for f, w := range e.weights {
		out[f] = w
	}
	return out
}
