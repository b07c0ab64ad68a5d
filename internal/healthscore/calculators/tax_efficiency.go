// internal/healthscore/calculators/tax_efficiency.go
package calculators

import (
	"math"

	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/fields"
)

// TaxEfficiency blends how close each tax-advantaged contribution rate is
// to the country's optimal rate.
type TaxEfficiency struct {
	resolver       *fields.Resolver
	defaultCountry string
}

func NewTaxEfficiency(r *fields.Resolver, defaultCountry string) *TaxEfficiency {
	return &TaxEfficiency{resolver: r, defaultCountry: defaultCountry}
}

func (c *TaxEfficiency) Factor() benchmarks.Factor { return benchmarks.TaxEfficiency }

func (c *TaxEfficiency) Calculate(rec fields.Record) FactorResult {
	country, ok := fields.LookupText(rec, fields.CountryKeys...)
	if !ok {
		country = c.defaultCountry
	}
	rules := benchmarks.TaxRulesFor(country)

	var score float64
	var anyRate bool
	components := make(map[string]interface{}, len(rules.Components))
	for _, comp := range rules.Components {
		rate, found := c.rate(rec, comp.Name)
		anyRate = anyRate || found

		part := 0.0
		if comp.OptimalRate > 0 && rate > 0 {
			part = math.Min(rate/comp.OptimalRate, 1) * 100
		}
		score += part * comp.Weight

		components[comp.Name] = map[string]interface{}{
			"actualRate":  percent(rate),
			"optimalRate": comp.OptimalRate,
			"weight":      comp.Weight,
			"score":       percent(part),
		}
	}

	values := map[string]interface{}{
		"country":    rules.Country,
		"components": components,
	}
	if !anyRate {
		return missing("Enter your pension contribution rates to assess tax efficiency.", values)
	}

	status := statusFor(score)
	return result(score, status, taxAdvice(status, rules), values)
}

// rate returns the total contribution rate of a component: the combined
// field when given, else employee plus employer.
func (c *TaxEfficiency) rate(rec fields.Record, component string) (float64, bool) {
	total, employee, employer := fields.PensionContributionRate, fields.PensionEmployeeRate, fields.PensionEmployerRate
	if component == benchmarks.ComponentTrainingFund {
		total, employee, employer = fields.TrainingFundContributionRate, fields.TrainingFundEmployeeRate, fields.TrainingFundEmployerRate
	}

	if v, ok := averageRate(c.resolver, rec, total); ok {
		return v, true
	}
	ee, eeOK := averageRate(c.resolver, rec, employee)
	er, erOK := averageRate(c.resolver, rec, employer)
	return ee + er, eeOK || erOK
}

func taxAdvice(s Status, rules benchmarks.TaxRules) string {
	switch {
	case s == StatusExcellent:
		return "You make full use of tax-advantaged savings."
	case len(rules.Components) > 1:
		return "Raise pension contributions toward 18.5% and open or top up a training fund to 10% to capture the tax benefits."
	default:
		return "Increase contributions to tax-advantaged retirement accounts toward the recommended 15%."
	}
}
