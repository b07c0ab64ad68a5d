// internal/healthscore/calculators/emergency_fund.go
package calculators

import (
	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/fields"
)

type EmergencyFund struct {
	resolver *fields.Resolver
}

func NewEmergencyFund(r *fields.Resolver) *EmergencyFund {
	return &EmergencyFund{resolver: r}
}

func (c *EmergencyFund) Factor() benchmarks.Factor { return benchmarks.EmergencyFund }

// Calculate measures how many months of expenses liquid savings cover.
func (c *EmergencyFund) Calculate(rec fields.Record) FactorResult {
	expenses := c.resolver.Resolve(rec, fields.MonthlyExpenses, combined)
	if expenses <= 0 {
		return missing("Enter your monthly expenses to size your emergency fund.", map[string]interface{}{
			"monthlyExpenses": 0.0,
		})
	}

	emergency := c.resolver.Resolve(rec, fields.EmergencyFund, combined)
	savings := c.resolver.Resolve(rec, fields.CurrentSavings, combined)
	cash := c.resolver.Resolve(rec, fields.Cash, combined)
	liquid := sumMoney(emergency, savings, cash)

	months := liquid / expenses
	score := benchmarks.Interpolate(months, benchmarks.EmergencyFundBands)
	status := statusFor(score)

	return result(score, status, emergencyAdvice(status), map[string]interface{}{
		"liquidSavings":   liquid,
		"monthlyExpenses": money(expenses),
		"monthsCovered":   percent(months),
		"targetMonths":    benchmarks.EmergencyFundBands.Excellent,
	})
}

func emergencyAdvice(s Status) string {
	switch s {
	case StatusExcellent:
		return "Your emergency fund covers six months or more of expenses."
	case StatusGood:
		return "Solid cushion. Grow it toward six months of expenses."
	case StatusFair:
		return "Build your emergency fund to at least four to six months of expenses."
	default:
		return "Your liquid savings would not cover an income shock. Start an emergency fund before investing further."
	}
}
