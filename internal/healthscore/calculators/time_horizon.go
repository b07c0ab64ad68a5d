// internal/healthscore/calculators/time_horizon.go
package calculators

import (
	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/fields"
)

type TimeHorizon struct {
	resolver *fields.Resolver
}

func NewTimeHorizon(r *fields.Resolver) *TimeHorizon {
	return &TimeHorizon{resolver: r}
}

func (c *TimeHorizon) Factor() benchmarks.Factor { return benchmarks.TimeHorizon }

func (c *TimeHorizon) Calculate(rec fields.Record) FactorResult {
	age, hasAge := personal(c.resolver, rec, fields.CurrentAge)
	retirementAge, hasRetirement := personal(c.resolver, rec, fields.RetirementAge)
	if !hasAge || !hasRetirement {
		return missing("Enter your current and planned retirement age.", map[string]interface{}{
			"currentAge":    age,
			"retirementAge": retirementAge,
		})
	}

	years := retirementAge - age
	values := map[string]interface{}{
		"currentAge":        age,
		"retirementAge":     retirementAge,
		"yearsToRetirement": years,
	}
	if years <= 0 {
		return result(0, StatusCritical, "Your planned retirement age is not after your current age. Review your retirement date.", values)
	}

	score := benchmarks.Interpolate(years, benchmarks.TimeHorizonBands)
	status := statusFor(score)
	return result(score, status, timeHorizonAdvice(status), values)
}

func timeHorizonAdvice(s Status) string {
	switch s {
	case StatusExcellent:
		return "A long horizon lets compounding do the heavy lifting. Stay invested."
	case StatusGood:
		return "You have solid time to grow savings. Keep contributions consistent."
	case StatusFair:
		return "With a medium horizon, higher contributions matter more than returns."
	default:
		return "Retirement is close. Focus on capital preservation and consider working a few years longer."
	}
}
