package healthscore

import (
	"fmt"
	"math"

	"financial-health-workers/internal/healthscore/fields"
)

// completenessFields are the inputs that make a report meaningful beyond
// the critical ones.
var completenessFields = []fields.CanonicalField{
	fields.Salary,
	fields.MonthlyExpenses,
	fields.CurrentAge,
	fields.RetirementAge,
	fields.CurrentSavings,
	fields.CurrentPensionSavings,
	fields.CurrentTrainingFund,
	fields.PensionContributionRate,
	fields.TrainingFundContributionRate,
	fields.PortfolioValue,
	fields.StockAllocation,
	fields.EmergencyFund,
	fields.MonthlyDebtPayments,
}

// alternatives count as present for a completeness field.
var alternatives = map[fields.CanonicalField][]fields.CanonicalField{
	fields.PensionContributionRate:      {fields.PensionEmployeeRate, fields.PensionEmployerRate},
	fields.TrainingFundContributionRate: {fields.TrainingFundEmployeeRate, fields.TrainingFundEmployerRate},
	fields.StockAllocation:              {fields.BondAllocation},
	fields.MonthlyDebtPayments:          {fields.TotalDebt},
}

const (
	minAge           = 18
	maxAge           = 100
	minRetirementAge = 40
	maxRetirementAge = 80
)

// ValidateFinancialInputs checks rec with the default resolver.
func ValidateFinancialInputs(rec fields.Record) Validation {
	return defaultEngine.Validate(rec)
}

// Validate inspects rec for missing, negative and inconsistent inputs. The
// result is informational; scoring proceeds regardless.
func (e *Engine) Validate(rec fields.Record) Validation {
	r := e.resolver
	v := Validation{
		Errors:          []string{},
		Warnings:        []string{},
		CriticalMissing: []string{},
	}

	age, ageErr := r.LookupPersonal(rec, fields.CurrentAge)
	if ageErr != nil {
		v.CriticalMissing = append(v.CriticalMissing, fields.CurrentAge.String())
	}
	income := r.Resolve(rec, fields.Salary, fields.Options{CombinePartners: true}) +
		r.Resolve(rec, fields.OtherIncome, fields.Options{CombinePartners: true})
	if income <= 0 {
		v.CriticalMissing = append(v.CriticalMissing, "monthlyIncome")
	}

	v.Errors = append(v.Errors, negativeValues(r, rec)...)

	if ageErr == nil && (age.Value < minAge || age.Value > maxAge) {
		v.Warnings = append(v.Warnings,
			fmt.Sprintf("currentAge %g is outside the expected range %d-%d", age.Value, minAge, maxAge))
	}
	retirement, retErr := r.LookupPersonal(rec, fields.RetirementAge)
	if retErr == nil && (retirement.Value < minRetirementAge || retirement.Value > maxRetirementAge) {
		v.Warnings = append(v.Warnings,
			fmt.Sprintf("retirementAge %g is outside the expected range %d-%d", retirement.Value, minRetirementAge, maxRetirementAge))
	}
	if ageErr == nil && retErr == nil && age.Value >= retirement.Value {
		v.Warnings = append(v.Warnings,
			fmt.Sprintf("currentAge %g is not below retirementAge %g", age.Value, retirement.Value))
	}

	expenses := r.Resolve(rec, fields.MonthlyExpenses, fields.Options{CombinePartners: true})
	if income > 0 && expenses > income {
		v.Warnings = append(v.Warnings, "monthly expenses exceed monthly income")
	}

	stocks := r.Resolve(rec, fields.StockAllocation, fields.Options{})
	bonds := r.Resolve(rec, fields.BondAllocation, fields.Options{})
	if stocks+bonds > 100 {
		v.Warnings = append(v.Warnings, "stock and bond allocation add up to more than 100%")
	}

	v.Completeness = completeness(r, rec)
	v.IsValid = len(v.Errors) == 0 && len(v.CriticalMissing) == 0
	return v
}

func negativeValues(r *fields.Resolver, rec fields.Record) []string {
	var errs []string
	seen := make(map[string]bool)
	report := func(res fields.Resolution) {
		if res.Value >= 0 || seen[res.Key] {
			return
		}
		seen[res.Key] = true
		errs = append(errs, fmt.Sprintf("%s cannot be negative", res.Key))
	}

	for _, f := range fields.All() {
		if res, err := r.Lookup(rec, f, fields.Options{AllowZero: true}); err == nil {
			report(res)
		}
		if !fields.IsCouple(rec) {
			continue
		}
		for _, p := range []string{fields.Partner1, fields.Partner2} {
			if res, err := r.LookupPartner(rec, f, p, true); err == nil {
				report(res)
			}
		}
	}
	return errs
}

func completeness(r *fields.Resolver, rec fields.Record) int {
	present := 0
	for _, f := range completenessFields {
		if r.Has(rec, f, true) {
			present++
			continue
		}
		for _, alt := range alternatives[f] {
			if r.Has(rec, alt, true) {
				present++
				break
			}
		}
	}
	return int(math.Round(float64(present) / float64(len(completenessFields)) * 100))
}
