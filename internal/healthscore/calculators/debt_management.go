// internal/healthscore/calculators/debt_management.go
package calculators

import (
	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/fields"
)

// DebtManagement scores the debt-to-income ratio, lower being better.
// A record without any debt field is missing data; an explicit zero is
// debt free.
type DebtManagement struct {
	resolver *fields.Resolver
}

func NewDebtManagement(r *fields.Resolver) *DebtManagement {
	return &DebtManagement{resolver: r}
}

func (c *DebtManagement) Factor() benchmarks.Factor { return benchmarks.DebtManagement }

func (c *DebtManagement) Calculate(rec fields.Record) FactorResult {
	withZero := fields.Options{CombinePartners: true, AllowZero: true}
	payments, payErr := c.resolver.Lookup(rec, fields.MonthlyDebtPayments, withZero)
	debt, debtErr := c.resolver.Lookup(rec, fields.TotalDebt, withZero)

	if payErr != nil {
		switch {
		case debtErr == nil && debt.Value == 0:
			return result(100, StatusExcellent, "You carry no debt.", map[string]interface{}{
				"totalDebt":           0.0,
				"monthlyDebtPayments": 0.0,
				"debtToIncome":        0.0,
			})
		case debtErr == nil:
			return missing("Enter your monthly debt payments to assess your debt load.", map[string]interface{}{
				"totalDebt": money(debt.Value),
			})
		default:
			return missing("Enter your monthly debt payments, or 0 if you have no debt.", map[string]interface{}{})
		}
	}

	values := map[string]interface{}{
		"monthlyDebtPayments": money(payments.Value),
	}
	if debtErr == nil {
		values["totalDebt"] = money(debt.Value)
	}

	if payments.Value <= 0 {
		values["debtToIncome"] = 0.0
		return result(100, StatusExcellent, "You carry no debt.", values)
	}

	income := monthlyIncome(c.resolver, rec)
	values["monthlyIncome"] = money(income)
	if income <= 0 {
		return result(0, StatusCritical, "Debt payments without a reported income. Enter your income or seek debt counselling.", values)
	}

	dti := payments.Value / income * 100
	values["debtToIncome"] = percent(dti)

	score := benchmarks.InterpolateInverse(dti, benchmarks.DebtToIncomeBands)
	status := statusFor(score)
	return result(score, status, debtAdvice(status), values)
}

func debtAdvice(s Status) string {
	switch s {
	case StatusExcellent:
		return "Your debt payments are a small share of income."
	case StatusGood:
		return "Manageable debt. Avoid taking on new loans and keep paying down balances."
	case StatusFair:
		return "Debt payments take a large share of income. Prioritise paying off high-interest loans."
	default:
		return "Debt payments are unsustainable relative to income. Consider consolidation or professional debt advice."
	}
}
