// Package benchmarks holds the static scoring tables: band thresholds,
// factor weights, age targets, peer statistics and tax rules. Nothing here
// is mutated at runtime.
package benchmarks

import (
	"math"
	"strings"
)

// Factor names one of the eight scoring dimensions.
type Factor string

const (
	SavingsRate         Factor = "savingsRate"
	RetirementReadiness Factor = "retirementReadiness"
	TimeHorizon         Factor = "timeHorizon"
	RiskAlignment       Factor = "riskAlignment"
	Diversification     Factor = "diversification"
	TaxEfficiency       Factor = "taxEfficiency"
	EmergencyFund       Factor = "emergencyFund"
	DebtManagement      Factor = "debtManagement"
)

// Factors lists every factor in report order.
var Factors = []Factor{
	SavingsRate,
	RetirementReadiness,
	TimeHorizon,
	RiskAlignment,
	Diversification,
	TaxEfficiency,
	EmergencyFund,
	DebtManagement,
}

// Weights are the per-factor importance multipliers. They sum to 100 but
// the aggregator divides by the actual sum, so a missing entry is harmless.
var Weights = map[Factor]float64{
	SavingsRate:         20,
	RetirementReadiness: 25,
	TimeHorizon:         10,
	RiskAlignment:       10,
	Diversification:     10,
	TaxEfficiency:       10,
	EmergencyFund:       10,
	DebtManagement:      5,
}

// Descriptions are shown next to factors that scored zero.
var Descriptions = map[Factor]string{
	SavingsRate:         "Share of monthly income left after expenses",
	RetirementReadiness: "Current savings against the target for your age",
	TimeHorizon:         "Years remaining until retirement",
	RiskAlignment:       "Investment mix against the recommended allocation",
	Diversification:     "Number of asset classes you invest in",
	TaxEfficiency:       "Use of tax-advantaged pension and training fund savings",
	EmergencyFund:       "Months of expenses covered by liquid savings",
	DebtManagement:      "Monthly debt payments relative to income",
}

// Bands are the four benchmark cutoffs of a factor, best first.
type Bands struct {
	Excellent float64
	Good      float64
	Fair      float64
	Poor      float64
}

var (
	SavingsRateBands         = Bands{Excellent: 20, Good: 15, Fair: 10, Poor: 5}
	RetirementReadinessBands = Bands{Excellent: 1.0, Good: 0.75, Fair: 0.5, Poor: 0.25}
	TimeHorizonBands         = Bands{Excellent: 30, Good: 20, Fair: 10, Poor: 5}
	EmergencyFundBands       = Bands{Excellent: 6, Good: 4, Fair: 3, Poor: 1}
	// debt-to-income percentages, lower is better
	DebtToIncomeBands = Bands{Excellent: 10, Good: 20, Fair: 36, Poor: 50}
)

// Interpolate maps a higher-is-better value onto 0..100, linear between
// adjacent band boundaries.
func Interpolate(value float64, b Bands) float64 {
	switch {
	case value >= b.Excellent:
		return 100
	case value >= b.Good:
		return 80 + (value-b.Good)/(b.Excellent-b.Good)*20
	case value >= b.Fair:
		return 60 + (value-b.Fair)/(b.Good-b.Fair)*20
	case value >= b.Poor:
		return 40 + (value-b.Poor)/(b.Fair-b.Poor)*20
	case value <= 0 || b.Poor <= 0:
		return 0
	default:
		return value / b.Poor * 40
	}
}

// InterpolateInverse is Interpolate for lower-is-better percentages. Values
// above Poor fall to zero at 100.
func InterpolateInverse(value float64, b Bands) float64 {
	switch {
	case value <= b.Excellent:
		return 100
	case value <= b.Good:
		return 100 - (value-b.Excellent)/(b.Good-b.Excellent)*20
	case value <= b.Fair:
		return 80 - (value-b.Good)/(b.Fair-b.Good)*20
	case value <= b.Poor:
		return 60 - (value-b.Fair)/(b.Poor-b.Fair)*20
	case value >= 100:
		return 0
	default:
		return 40 - (value-b.Poor)/(100-b.Poor)*40
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// RetirementMultiplier is the savings target, in years of gross income,
// expected at the given age.
func RetirementMultiplier(age float64) float64 {
	switch {
	case age < 25:
		return 0.25
	case age < 30:
		return 0.5
	case age < 35:
		return 1
	case age < 40:
		return 2
	case age < 45:
		return 3
	case age < 50:
		return 4
	case age < 55:
		return 6
	case age < 60:
		return 7
	case age < 65:
		return 8
	default:
		return 10
	}
}

// DiversificationScore looks up the score for a number of asset classes.
func DiversificationScore(classes int) int {
	switch {
	case classes <= 0:
		return 0
	case classes >= 5:
		return 100
	default:
		return classes * 20
	}
}

// RiskProfile is a recommended equity range in percent.
type RiskProfile struct {
	Name      string
	MinEquity float64
	MaxEquity float64
}

var RiskProfiles = map[string]RiskProfile{
	"conservative": {Name: "conservative", MinEquity: 20, MaxEquity: 50},
	"moderate":     {Name: "moderate", MinEquity: 40, MaxEquity: 70},
	"aggressive":   {Name: "aggressive", MinEquity: 60, MaxEquity: 90},
}

var riskAliases = map[string]string{
	"low":          "conservative",
	"cautious":     "conservative",
	"medium":       "moderate",
	"balanced":     "moderate",
	"high":         "aggressive",
	"growth":       "aggressive",
	"veryhigh":     "aggressive",
	"conservative": "conservative",
	"moderate":     "moderate",
	"aggressive":   "aggressive",
}

// RiskProfileFor returns the named profile, moderate when unknown.
func RiskProfileFor(name string) RiskProfile {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
	if canonical, ok := riskAliases[key]; ok {
		return RiskProfiles[canonical]
	}
	return RiskProfiles["moderate"]
}

// PeerBucket holds the benchmark population statistics of an age group.
type PeerBucket struct {
	AgeGroup     string  `json:"ageGroup"`
	AverageScore float64 `json:"averageScore"`
	TopQuartile  float64 `json:"topQuartile"`
}

var PeerBuckets = []PeerBucket{
	{AgeGroup: "20-29", AverageScore: 45, TopQuartile: 65},
	{AgeGroup: "30-39", AverageScore: 50, TopQuartile: 70},
	{AgeGroup: "40-49", AverageScore: 55, TopQuartile: 75},
	{AgeGroup: "50-59", AverageScore: 58, TopQuartile: 78},
	{AgeGroup: "60+", AverageScore: 60, TopQuartile: 80},
}

// PeerBucketFor buckets an age; anything under 30, unknown ages included,
// compares against 20-29.
func PeerBucketFor(age float64) PeerBucket {
	switch {
	case age >= 60:
		return PeerBuckets[4]
	case age >= 50:
		return PeerBuckets[3]
	case age >= 40:
		return PeerBuckets[2]
	case age >= 30:
		return PeerBuckets[1]
	default:
		return PeerBuckets[0]
	}
}
