// internal/healthscore/calculators/retirement_readiness.go
package calculators

import (
	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/fields"
)

const (
	earlyStarterAge   = 35
	earlyStarterBonus = 5
)

// RetirementReadiness compares accumulated savings with an age-based
// multiple of annual income.
type RetirementReadiness struct {
	resolver *fields.Resolver
}

func NewRetirementReadiness(r *fields.Resolver) *RetirementReadiness {
	return &RetirementReadiness{resolver: r}
}

func (c *RetirementReadiness) Factor() benchmarks.Factor { return benchmarks.RetirementReadiness }

func (c *RetirementReadiness) Calculate(rec fields.Record) FactorResult {
	income := monthlyIncome(c.resolver, rec)
	age, hasAge := personal(c.resolver, rec, fields.CurrentAge)
	if income <= 0 || !hasAge {
		return missing("Enter your age and monthly income to assess retirement readiness.", map[string]interface{}{
			"monthlyIncome": money(income),
			"currentAge":    age,
		})
	}

	pension := c.resolver.Resolve(rec, fields.CurrentPensionSavings, combined)
	trainingFund := c.resolver.Resolve(rec, fields.CurrentTrainingFund, combined)
	portfolio := c.resolver.Resolve(rec, fields.PortfolioValue, combined)
	savings := c.resolver.Resolve(rec, fields.CurrentSavings, combined)
	total := sumMoney(pension, trainingFund, portfolio, savings)

	multiplier := benchmarks.RetirementMultiplier(age)
	target := income * 12 * multiplier
	ratio := total / target

	score := benchmarks.Interpolate(ratio, benchmarks.RetirementReadinessBands)
	if age < earlyStarterAge && score > 0 {
		score += earlyStarterBonus
	}

	status := statusFor(score)
	return result(score, status, retirementAdvice(status), map[string]interface{}{
		"currentAge":        age,
		"totalSavings":      total,
		"pensionSavings":    money(pension),
		"trainingFund":      money(trainingFund),
		"portfolio":         money(portfolio),
		"currentSavings":    money(savings),
		"targetMultiplier":  multiplier,
		"targetSavings":     money(target),
		"readinessRatio":    percent(ratio * 100),
		"annualIncome":      money(income * 12),
		"earlyStarterBonus": age < earlyStarterAge && score > 0,
	})
}

func retirementAdvice(s Status) string {
	switch s {
	case StatusExcellent:
		return "You are on or ahead of the savings target for your age."
	case StatusGood:
		return "You are close to the target for your age. Small increases in contributions will close the gap."
	case StatusFair:
		return "You are behind the savings target for your age. Consider raising pension or training fund contributions."
	default:
		return "Retirement savings are well below the target for your age. Prioritise regular long-term contributions."
	}
}
