// Package calculators implements the eight factor calculators. Each one is
// a pure function of the raw record and never fails: missing data yields a
// zero score with status missing_data.
package calculators

import (
	"math"

	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/fields"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusExcellent   Status = "excellent"
	StatusGood        Status = "good"
	StatusFair        Status = "fair"
	StatusPoor        Status = "poor"
	StatusCritical    Status = "critical"
	StatusMissingData Status = "missing_data"
)

// Details carries the status, the advice text and the calculation inputs.
// It marshals flat: {"status": ..., "recommendation": ..., <values>...}.
type Details struct {
	Status         Status
	Recommendation string
	Values         map[string]interface{}
}

func (d Details) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Values)+2)
	for k, v := range d.Values {
		out[k] = v
	}
	out["status"] = d.Status
	out["recommendation"] = d.Recommendation
	return json.Marshal(out)
}

func (d *Details) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if s, ok := raw["status"].(string); ok {
		d.Status = Status(s)
	}
	if r, ok := raw["recommendation"].(string); ok {
		d.Recommendation = r
	}
	delete(raw, "status")
	delete(raw, "recommendation")
	d.Values = raw
	return nil
}

// FactorResult is the outcome of one calculator. Score is within [0, 100].
type FactorResult struct {
	Score   int     `json:"score"`
	Details Details `json:"details"`
}

// Calculator scores one factor.
type Calculator interface {
	Factor() benchmarks.Factor
	Calculate(rec fields.Record) FactorResult
}

// Settings tunes the calculators that have configurable behaviour.
type Settings struct {
	// DiversificationThreshold is the balance an asset class must exceed
	// to count as held.
	DiversificationThreshold float64
	// DefaultCountry selects tax rules when the record names none.
	DefaultCountry string
}

func DefaultSettings() Settings {
	return Settings{
		DiversificationThreshold: 0,
		DefaultCountry:           benchmarks.DefaultCountry,
	}
}

// All returns the eight calculators in report order.
func All(r *fields.Resolver, s Settings) []Calculator {
	return []Calculator{
		NewSavingsRate(r),
		NewRetirementReadiness(r),
		NewTimeHorizon(r),
		NewRiskAlignment(r),
		NewDiversification(r, s.DiversificationThreshold),
		NewTaxEfficiency(r, s.DefaultCountry),
		NewEmergencyFund(r),
		NewDebtManagement(r),
	}
}

func result(score float64, status Status, recommendation string, values map[string]interface{}) FactorResult {
	return FactorResult{
		Score: int(math.Round(benchmarks.Clamp(score, 0, 100))),
		Details: Details{
			Status:         status,
			Recommendation: recommendation,
			Values:         values,
		},
	}
}

func missing(recommendation string, values map[string]interface{}) FactorResult {
	return result(0, StatusMissingData, recommendation, values)
}

// statusFor maps a 0..100 score onto a status.
func statusFor(score float64) Status {
	switch {
	case score >= 80:
		return StatusExcellent
	case score >= 60:
		return StatusGood
	case score >= 40:
		return StatusFair
	case score >= 20:
		return StatusPoor
	default:
		return StatusCritical
	}
}

func money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func percent(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func sumMoney(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}

var combined = fields.Options{CombinePartners: true}

// monthlyIncome is salary plus other income across both partners.
func monthlyIncome(r *fields.Resolver, rec fields.Record) float64 {
	return r.Resolve(rec, fields.Salary, combined) + r.Resolve(rec, fields.OtherIncome, combined)
}

func personal(r *fields.Resolver, rec fields.Record, field fields.CanonicalField) (float64, bool) {
	res, err := r.LookupPersonal(rec, field)
	return res.Value, err == nil
}

// averageRate resolves a contribution rate. In couple mode without an
// individual value, partner rates are averaged.
func averageRate(r *fields.Resolver, rec fields.Record, field fields.CanonicalField) (float64, bool) {
	if res, err := r.Lookup(rec, field, fields.Options{}); err == nil {
		return res.Value, true
	}
	if !fields.IsCouple(rec) {
		return 0, false
	}

	var sum float64
	var n int
	for _, p := range []string{fields.Partner1, fields.Partner2} {
		if res, err := r.LookupPartner(rec, field, p, false); err == nil {
			sum += res.Value
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
