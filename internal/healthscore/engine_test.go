package healthscore

import (
	"math/rand"
	"testing"
	"time"

	"financial-health-workers/internal/common/logger"
	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/calculators"
	"financial-health-workers/internal/healthscore/fields"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithClock(func() time.Time { return fixedTime }),
		WithLogger(logger.NewTestLogger(t)),
	}
	return New(append(base, opts...)...)
}

func individualRecord() fields.Record {
	return fields.Record{
		"currentAge":              30,
		"retirementAge":           67,
		"currentMonthlySalary":    15000,
		"currentMonthlyExpenses":  10000,
		"pensionContributionRate": 18.5,
		"currentSavings":          50000,
	}
}

type stubCalculator struct {
	factor benchmarks.Factor
	score  int
	panics string
}

func (s stubCalculator) Factor() benchmarks.Factor { return s.factor }

func (s stubCalculator) Calculate(fields.Record) calculators.FactorResult {
	if s.panics != "" {
		panic(s.panics)
	}
	return calculators.FactorResult{
		Score:   s.score,
		Details: calculators.Details{Status: calculators.StatusGood, Values: map[string]interface{}{}},
	}
}

func uniformCalculators(score int) []calculators.Calculator {
	out := make([]calculators.Calculator, 0, len(benchmarks.Factors))
	for _, f := range benchmarks.Factors {
		out = append(out, stubCalculator{factor: f, score: score})
	}
	return out
}

// ==========================
// Scenarios
// ==========================

func TestEngine_Calculate_Individual(t *testing.T) {
	report := newTestEngine(t).Calculate(individualRecord())

	require.NotNil(t, report)
	assert.Empty(t, report.Error)
	assert.Equal(t, 58, report.Score)
	assert.GreaterOrEqual(t, report.Score, 55)
	assert.LessOrEqual(t, report.Score, 75)
	assert.Equal(t, "fair", report.Interpretation.Band)
	assert.Len(t, report.ScoreBreakdown, len(benchmarks.Factors))
	for _, f := range benchmarks.Factors {
		assert.Contains(t, report.ScoreBreakdown, f)
	}

	zero := make([]benchmarks.Factor, 0, len(report.ZeroScoreFactors))
	for _, z := range report.ZeroScoreFactors {
		zero = append(zero, z.Factor)
		assert.NotEmpty(t, z.Description)
		assert.Equal(t, benchmarks.Weights[z.Factor], z.Weight)
	}
	assert.Equal(t, []benchmarks.Factor{
		benchmarks.RiskAlignment,
		benchmarks.Diversification,
		benchmarks.DebtManagement,
	}, zero)

	assert.True(t, report.Validation.IsValid)
	assert.Empty(t, report.Validation.CriticalMissing)
	assert.Empty(t, report.Validation.Warnings)
	assert.Equal(t, 46, report.Validation.Completeness)

	require.NotNil(t, report.PeerComparison)
	assert.Equal(t, "30-39", report.PeerComparison.AgeGroup)
	assert.Equal(t, 60, report.PeerComparison.Percentile)
	assert.Equal(t, ComparisonAboveAverage, report.PeerComparison.Comparison)

	assert.Equal(t, fixedTime, report.Metadata.CalculatedAt)
	assert.Equal(t, DefaultVersion, report.Metadata.Version)
	assert.Equal(t, PlanningIndividual, report.Metadata.PlanningType)
}

func TestEngine_Calculate_EmptyRecord(t *testing.T) {
	for _, rec := range []fields.Record{{}, nil} {
		report := newTestEngine(t).Calculate(rec)

		require.NotNil(t, report)
		assert.Empty(t, report.Error)
		assert.Equal(t, 0, report.Score)
		assert.Equal(t, "poor", report.Interpretation.Band)
		assert.Len(t, report.ScoreBreakdown, len(benchmarks.Factors))
		assert.Len(t, report.ZeroScoreFactors, len(benchmarks.Factors))
		assert.ElementsMatch(t, []string{"currentAge", "monthlyIncome"}, report.Validation.CriticalMissing)
		assert.False(t, report.Validation.IsValid)
		assert.Equal(t, 0, report.Validation.Completeness)
		require.NotNil(t, report.PeerComparison)
		assert.Equal(t, "20-29", report.PeerComparison.AgeGroup)
		assert.Equal(t, 1, report.PeerComparison.Percentile)
		assert.Equal(t, ComparisonBelowAverage, report.PeerComparison.Comparison)
		assert.Len(t, report.Suggestions, maxSuggestions)
	}
}

func TestEngine_Calculate_CoupleIncome(t *testing.T) {
	rec := fields.Record{
		"planningType":   "couple",
		"partner1Salary": 10000,
		"partner2Salary": 8000,
		"partner1Age":    40,
	}

	report := newTestEngine(t).Calculate(rec)

	sr := report.ScoreBreakdown[benchmarks.SavingsRate]
	assert.Equal(t, 18000.0, sr.Details.Values["monthlyIncome"])
	assert.Equal(t, PlanningCouple, report.Metadata.PlanningType)
	assert.NotContains(t, report.Validation.CriticalMissing, "monthlyIncome")
	assert.NotContains(t, report.Validation.CriticalMissing, "currentAge")
}

func TestEngine_Calculate_AgeOrderingWarning(t *testing.T) {
	rec := individualRecord()
	rec["currentAge"] = 65
	rec["retirementAge"] = 60

	report := newTestEngine(t).Calculate(rec)

	assert.Empty(t, report.Error)
	assert.Contains(t, report.Validation.Warnings, "currentAge 65 is not below retirementAge 60")
	assert.Equal(t, 0, report.ScoreBreakdown[benchmarks.TimeHorizon].Score)
	assert.Len(t, report.ScoreBreakdown, len(benchmarks.Factors))
}

func TestEngine_Calculate_Deterministic(t *testing.T) {
	engine := newTestEngine(t)

	first := engine.Calculate(individualRecord())
	second := engine.Calculate(individualRecord())

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.ScoreBreakdown, second.ScoreBreakdown)
	assert.Equal(t, first.Interpretation, second.Interpretation)
	assert.Equal(t, first, second)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

// ==========================
// Aggregation
// ==========================

func TestEngine_WeightNormalization(t *testing.T) {
	tests := []struct {
		name          string
		score         int
		weights       map[benchmarks.Factor]float64
		expectedScore int
	}{
		{"all perfect", 100, benchmarks.Weights, 100},
		{"all zero", 0, benchmarks.Weights, 0},
		{"uniform 63", 63, benchmarks.Weights, 63},
		{"weights not summing to 100", 100, map[benchmarks.Factor]float64{
			benchmarks.SavingsRate: 3, benchmarks.EmergencyFund: 4,
		}, 100},
		{"no weights", 100, map[benchmarks.Factor]float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t,
				WithCalculators(uniformCalculators(tt.score)...),
				WithWeights(tt.weights),
			)
			report := engine.Calculate(individualRecord())
			assert.Equal(t, tt.expectedScore, report.Score)
		})
	}
}

func TestEngine_MissingWeightIgnored(t *testing.T) {
	calcs := []calculators.Calculator{
		stubCalculator{factor: benchmarks.SavingsRate, score: 80},
		stubCalculator{factor: benchmarks.EmergencyFund, score: 40},
		stubCalculator{factor: benchmarks.DebtManagement, score: 0},
	}
	weights := map[benchmarks.Factor]float64{
		benchmarks.SavingsRate:   20,
		benchmarks.EmergencyFund: 10,
	}

	report := newTestEngine(t, WithCalculators(calcs...), WithWeights(weights)).Calculate(fields.Record{})

	// (80*20 + 40*10) / 30
	assert.Equal(t, 67, report.Score)
	require.Len(t, report.ZeroScoreFactors, 1)
	assert.Equal(t, benchmarks.DebtManagement, report.ZeroScoreFactors[0].Factor)
	assert.Zero(t, report.ZeroScoreFactors[0].Weight)
}

func TestEngine_Calculate_RecoversFromPanic(t *testing.T) {
	calcs := append(uniformCalculators(80), stubCalculator{factor: "broken", panics: "unexpected nested object"})
	engine := newTestEngine(t, WithCalculators(calcs...))

	var report *HealthReport
	require.NotPanics(t, func() {
		report = engine.Calculate(individualRecord())
	})

	assert.True(t, report.Degraded())
	assert.Equal(t, "unexpected nested object", report.Error)
	assert.Equal(t, 0, report.Score)
	assert.Equal(t, "Error", report.Interpretation.Label)
	assert.Empty(t, report.ScoreBreakdown)
	assert.Empty(t, report.Suggestions)
	assert.False(t, report.Validation.IsValid)
	assert.Equal(t, []string{"unexpected nested object"}, report.Validation.Errors)
	assert.Equal(t, fixedTime, report.Metadata.CalculatedAt)
}

func TestEngine_Calculate_ScoresBounded(t *testing.T) {
	engine := newTestEngine(t, WithLogger(logger.NewNoOpLogger()))
	rng := rand.New(rand.NewSource(7))

	keys := []string{
		"currentAge", "retirementAge", "currentMonthlySalary", "currentMonthlyExpenses",
		"currentSavings", "pensionContributionRate", "stockAllocation", "monthlyDebtPayments",
		"stocks", "bonds", "crypto", "emergencyFund", "currentPensionSavings", "otherIncome",
	}

	for i := 0; i < 200; i++ {
		rec := fields.Record{}
		for _, k := range keys {
			if rng.Intn(3) == 0 {
				continue
			}
			rec[k] = rng.Float64()*200000 - 20000
		}
		if rng.Intn(2) == 0 {
			rec["planningType"] = "couple"
		}

		report := engine.Calculate(rec)
		require.Empty(t, report.Error)
		assert.GreaterOrEqual(t, report.Score, 0)
		assert.LessOrEqual(t, report.Score, 100)
		for f, res := range report.ScoreBreakdown {
			assert.GreaterOrEqual(t, res.Score, 0, f)
			assert.LessOrEqual(t, res.Score, 100, f)
		}
		assert.LessOrEqual(t, len(report.Suggestions), maxSuggestions)
	}
}

func TestEngine_DiversificationThreshold(t *testing.T) {
	rec := individualRecord()
	rec["stocks"] = 500
	rec["bonds"] = 20000

	loose := newTestEngine(t).Calculate(rec)
	strict := newTestEngine(t, WithDiversificationThreshold(1000)).Calculate(rec)

	assert.Greater(t, loose.ScoreBreakdown[benchmarks.Diversification].Score,
		strict.ScoreBreakdown[benchmarks.Diversification].Score)
}

func TestCalculateFinancialHealthScore_DefaultEngine(t *testing.T) {
	report := CalculateFinancialHealthScore(individualRecord())
	assert.Equal(t, 58, report.Score)
	assert.Equal(t, DefaultVersion, report.Metadata.Version)
}

func TestHealthReport_JSON(t *testing.T) {
	report := newTestEngine(t).Calculate(individualRecord())

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 58.0, decoded["score"])
	assert.NotContains(t, decoded, "error")

	breakdown, ok := decoded["scoreBreakdown"].(map[string]interface{})
	require.True(t, ok)
	sr, ok := breakdown["savingsRate"].(map[string]interface{})
	require.True(t, ok)
	details, ok := sr["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "excellent", details["status"])
	assert.Equal(t, 15000.0, details["monthlyIncome"])
}
