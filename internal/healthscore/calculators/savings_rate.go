// internal/healthscore/calculators/savings_rate.go
package calculators

import (
	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/fields"
)

// highSavingsBonus is added when more than highSavingsRate percent of income is saved.
const (
	highSavingsRate  = 30
	highSavingsBonus = 5
)

type SavingsRate struct {
	resolver *fields.Resolver
}

func NewSavingsRate(r *fields.Resolver) *SavingsRate {
	return &SavingsRate{resolver: r}
}

func (c *SavingsRate) Factor() benchmarks.Factor { return benchmarks.SavingsRate }

func (c *SavingsRate) Calculate(rec fields.Record) FactorResult {
	income := monthlyIncome(c.resolver, rec)
	if income <= 0 {
		return missing("Enter your monthly income to calculate your savings rate.", map[string]interface{}{
			"monthlyIncome": 0.0,
		})
	}

	if !c.resolver.Has(rec, fields.MonthlyExpenses, true) {
		return missing("Enter your monthly expenses to calculate your savings rate.", map[string]interface{}{
			"monthlyIncome": money(income),
		})
	}
	expenses := c.resolver.Resolve(rec, fields.MonthlyExpenses, fields.Options{CombinePartners: true, AllowZero: true})

	rate := (income - expenses) / income * 100
	score := benchmarks.Interpolate(rate, benchmarks.SavingsRateBands)
	if rate > highSavingsRate {
		score += highSavingsBonus
	}

	status := statusFor(score)
	return result(score, status, savingsRateAdvice(status), map[string]interface{}{
		"monthlyIncome":   money(income),
		"monthlyExpenses": money(expenses),
		"monthlySavings":  money(income - expenses),
		"savingsRate":     percent(rate),
	})
}

func savingsRateAdvice(s Status) string {
	switch s {
	case StatusExcellent:
		return "Excellent savings rate. Keep directing the surplus into long-term investments."
	case StatusGood:
		return "Good savings rate. Pushing it above 20% of income would accelerate your goals."
	case StatusFair:
		return "Review recurring expenses and aim to save at least 15% of your income."
	default:
		return "Your expenses consume most of your income. Build a budget and start with a fixed monthly transfer to savings."
	}
}
