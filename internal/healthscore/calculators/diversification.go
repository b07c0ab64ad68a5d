// internal/healthscore/calculators/diversification.go
package calculators

import (
	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/fields"
)

// assetClass is an investment bucket counted by Diversification. Cash is
// deliberately absent: it is scored by EmergencyFund.
type assetClass struct {
	name  string
	field fields.CanonicalField
}

var assetClasses = []assetClass{
	{"pension", fields.CurrentPensionSavings},
	{"trainingFund", fields.CurrentTrainingFund},
	{"stocks", fields.Stocks},
	{"bonds", fields.Bonds},
	{"realEstate", fields.RealEstate},
	{"crypto", fields.Crypto},
	{"international", fields.International},
}

type Diversification struct {
	resolver  *fields.Resolver
	threshold float64
}

// NewDiversification counts an asset class when its balance exceeds threshold.
func NewDiversification(r *fields.Resolver, threshold float64) *Diversification {
	return &Diversification{resolver: r, threshold: threshold}
}

func (c *Diversification) Factor() benchmarks.Factor { return benchmarks.Diversification }

func (c *Diversification) Calculate(rec fields.Record) FactorResult {
	held := make([]string, 0, len(assetClasses))
	balances := make(map[string]interface{}, len(assetClasses))
	for _, ac := range assetClasses {
		v := c.resolver.Resolve(rec, ac.field, combined)
		balances[ac.name] = money(v)
		if v > c.threshold {
			held = append(held, ac.name)
		}
	}

	values := map[string]interface{}{
		"assetClasses": held,
		"count":        len(held),
		"threshold":    c.threshold,
		"balances":     balances,
	}
	if len(held) == 0 {
		return missing("Add your investment balances. Spreading savings across asset classes reduces risk.", values)
	}

	score := float64(benchmarks.DiversificationScore(len(held)))
	status := statusFor(score)
	return result(score, status, diversificationAdvice(status), values)
}

func diversificationAdvice(s Status) string {
	switch s {
	case StatusExcellent:
		return "Your savings are spread across many asset classes."
	case StatusGood:
		return "Good spread. One more asset class, such as international equity, would strengthen it."
	default:
		return "Your savings are concentrated in few asset classes. Consider adding bonds, international or real estate exposure."
	}
}
