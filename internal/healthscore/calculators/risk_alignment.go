// internal/healthscore/calculators/risk_alignment.go
package calculators

import (
	"math"

	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/fields"
)

// RiskAlignment scores how far the equity/bond split is from the allocation
// recommended for the user's age and risk profile.
type RiskAlignment struct {
	resolver *fields.Resolver
}

func NewRiskAlignment(r *fields.Resolver) *RiskAlignment {
	return &RiskAlignment{resolver: r}
}

func (c *RiskAlignment) Factor() benchmarks.Factor { return benchmarks.RiskAlignment }

func (c *RiskAlignment) Calculate(rec fields.Record) FactorResult {
	profileName, _ := fields.LookupText(rec, fields.RiskToleranceKeys...)
	profile := benchmarks.RiskProfileFor(profileName)

	equity, bonds, source, ok := c.allocation(rec)
	if !ok {
		return missing("Enter your stock and bond allocation to check it against your risk profile.", map[string]interface{}{
			"riskProfile": profile.Name,
		})
	}

	age, hasAge := personal(c.resolver, rec, fields.CurrentAge)
	if !hasAge {
		return missing("Enter your age to calculate a recommended allocation.", map[string]interface{}{
			"riskProfile":  profile.Name,
			"actualEquity": percent(equity),
			"actualBonds":  percent(bonds),
		})
	}

	recEquity := benchmarks.Clamp(100-age, profile.MinEquity, profile.MaxEquity)
	recBonds := 100 - recEquity
	deviation := (math.Abs(equity-recEquity) + math.Abs(bonds-recBonds)) / 2
	score := 100 - 2*deviation

	status := statusFor(score)
	return result(score, status, riskAdvice(status, equity, recEquity), map[string]interface{}{
		"riskProfile":       profile.Name,
		"allocationSource":  source,
		"actualEquity":      percent(equity),
		"actualBonds":       percent(bonds),
		"recommendedEquity": percent(recEquity),
		"recommendedBonds":  percent(recBonds),
		"deviation":         percent(deviation),
	})
}

// allocation returns equity and bond percentages, from explicit allocation
// fields when present, otherwise derived from stock and bond balances.
func (c *RiskAlignment) allocation(rec fields.Record) (equity, bonds float64, source string, ok bool) {
	allowZero := fields.Options{AllowZero: true}
	eq, eqErr := c.resolver.Lookup(rec, fields.StockAllocation, allowZero)
	bd, bdErr := c.resolver.Lookup(rec, fields.BondAllocation, allowZero)

	switch {
	case eqErr == nil && bdErr == nil:
		return eq.Value, bd.Value, "allocation", true
	case eqErr == nil:
		return eq.Value, 100 - eq.Value, "allocation", true
	case bdErr == nil:
		return 100 - bd.Value, bd.Value, "allocation", true
	}

	stocks := c.resolver.Resolve(rec, fields.Stocks, combined)
	bondBalance := c.resolver.Resolve(rec, fields.Bonds, combined)
	if total := stocks + bondBalance; total > 0 {
		return stocks / total * 100, bondBalance / total * 100, "holdings", true
	}
	return 0, 0, "", false
}

func riskAdvice(s Status, equity, recommended float64) string {
	switch {
	case s == StatusExcellent:
		return "Your allocation matches your age and risk profile."
	case equity > recommended:
		return "Your portfolio carries more equity risk than recommended. Consider rebalancing toward bonds."
	default:
		return "Your portfolio is more conservative than recommended for your horizon. Consider increasing equity exposure."
	}
}
