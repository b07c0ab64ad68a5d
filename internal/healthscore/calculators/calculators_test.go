// internal/healthscore/calculators/calculators_test.go
package calculators

import (
	"math/rand"
	"testing"

	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/fields"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestResolver() *fields.Resolver {
	return fields.NewResolver()
}

func baselineRecord() fields.Record {
	return fields.Record{
		"currentAge":              30,
		"retirementAge":           67,
		"currentMonthlySalary":    15000,
		"currentMonthlyExpenses":  10000,
		"pensionContributionRate": 18.5,
		"currentSavings":          50000,
	}
}

func calculatorFor(t *testing.T, factor benchmarks.Factor) Calculator {
	t.Helper()
	for _, c := range All(newTestResolver(), DefaultSettings()) {
		if c.Factor() == factor {
			return c
		}
	}
	t.Fatalf("no calculator for %s", factor)
	return nil
}

// ==========================
// Per-factor behaviour
// ==========================

func TestCalculators_BaselineRecord(t *testing.T) {
	tests := []struct {
		factor         benchmarks.Factor
		expectedScore  int
		expectedStatus Status
	}{
		{benchmarks.SavingsRate, 100, StatusExcellent},
		{benchmarks.RetirementReadiness, 47, StatusFair},
		{benchmarks.TimeHorizon, 100, StatusExcellent},
		{benchmarks.RiskAlignment, 0, StatusMissingData},
		{benchmarks.Diversification, 0, StatusMissingData},
		{benchmarks.TaxEfficiency, 70, StatusGood},
		{benchmarks.EmergencyFund, 90, StatusExcellent},
		{benchmarks.DebtManagement, 0, StatusMissingData},
	}

	for _, tt := range tests {
		t.Run(string(tt.factor), func(t *testing.T) {
			res := calculatorFor(t, tt.factor).Calculate(baselineRecord())
			assert.Equal(t, tt.expectedScore, res.Score)
			assert.Equal(t, tt.expectedStatus, res.Details.Status)
			assert.NotEmpty(t, res.Details.Recommendation)
		})
	}
}

func TestSavingsRate(t *testing.T) {
	c := NewSavingsRate(newTestResolver())

	tests := []struct {
		name           string
		record         fields.Record
		validateOutput func(t *testing.T, res FactorResult)
	}{
		{
			name:   "no income is missing data",
			record: fields.Record{"currentMonthlyExpenses": 5000},
			validateOutput: func(t *testing.T, res FactorResult) {
				assert.Equal(t, 0, res.Score)
				assert.Equal(t, StatusMissingData, res.Details.Status)
			},
		},
		{
			name:   "no expenses is missing data",
			record: fields.Record{"salary": 10000},
			validateOutput: func(t *testing.T, res FactorResult) {
				assert.Equal(t, 0, res.Score)
				assert.Equal(t, StatusMissingData, res.Details.Status)
			},
		},
		{
			name:   "fair savings rate interpolates",
			record: fields.Record{"salary": 10000, "expenses": 8750},
			validateOutput: func(t *testing.T, res FactorResult) {
				// 12.5% sits halfway between fair (10) and good (15)
				assert.Equal(t, 70, res.Score)
				assert.Equal(t, 12.5, res.Details.Values["savingsRate"])
			},
		},
		{
			name:   "spending above income",
			record: fields.Record{"salary": 10000, "expenses": 12000},
			validateOutput: func(t *testing.T, res FactorResult) {
				assert.Equal(t, 0, res.Score)
				assert.Equal(t, StatusCritical, res.Details.Status)
				assert.Equal(t, -2000.0, res.Details.Values["monthlySavings"])
			},
		},
		{
			name:   "other income counts",
			record: fields.Record{"salary": 8000, "otherIncome": 2000, "expenses": 8000},
			validateOutput: func(t *testing.T, res FactorResult) {
				assert.Equal(t, 10000.0, res.Details.Values["monthlyIncome"])
				assert.Equal(t, 100, res.Score)
			},
		},
		{
			name: "couple income sums partners",
			record: fields.Record{
				"planningType":   "couple",
				"partner1Salary": 10000,
				"partner2Salary": 8000,
				"expenses":       12000,
			},
			validateOutput: func(t *testing.T, res FactorResult) {
				assert.Equal(t, 18000.0, res.Details.Values["monthlyIncome"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateOutput(t, c.Calculate(tt.record))
		})
	}
}

func TestSavingsRate_Monotonic(t *testing.T) {
	c := NewSavingsRate(newTestResolver())

	prev := -1
	for expenses := 20000; expenses >= 0; expenses -= 100 {
		res := c.Calculate(fields.Record{"salary": 15000, "expenses": expenses})
		if expenses == 0 {
			assert.Equal(t, 100, res.Score)
		}
		assert.GreaterOrEqual(t, res.Score, prev, "expenses %d", expenses)
		prev = res.Score
	}
}

func TestRetirementReadiness(t *testing.T) {
	c := NewRetirementReadiness(newTestResolver())

	t.Run("on target", func(t *testing.T) {
		// age 45 multiplier 4, annual income 120k, target 480k
		res := c.Calculate(fields.Record{
			"age":                   45,
			"salary":                10000,
			"currentPensionSavings": 300000,
			"trainingFund":          100000,
			"portfolioValue":        50000,
			"savings":               30000,
		})
		assert.Equal(t, 100, res.Score)
		assert.Equal(t, 480000.0, res.Details.Values["totalSavings"])
		assert.Equal(t, 4.0, res.Details.Values["targetMultiplier"])
		assert.Equal(t, false, res.Details.Values["earlyStarterBonus"])
	})

	t.Run("young saver bonus", func(t *testing.T) {
		res := c.Calculate(fields.Record{"age": 24, "salary": 10000, "savings": 15000})
		// ratio 0.5 -> 60, plus 5
		assert.Equal(t, 65, res.Score)
		assert.Equal(t, true, res.Details.Values["earlyStarterBonus"])
	})

	t.Run("no savings gets no bonus", func(t *testing.T) {
		res := c.Calculate(fields.Record{"age": 24, "salary": 10000})
		assert.Equal(t, 0, res.Score)
	})

	t.Run("missing age", func(t *testing.T) {
		res := c.Calculate(fields.Record{"salary": 10000, "savings": 15000})
		assert.Equal(t, StatusMissingData, res.Details.Status)
	})

	t.Run("couple ages fall back to partner1", func(t *testing.T) {
		res := c.Calculate(fields.Record{
			"planningType":   "couple",
			"partner1Age":    40,
			"partner1Salary": 10000,
			"savings":        360000,
		})
		// age 40 multiplier 3, target 360k
		assert.Equal(t, 40.0, res.Details.Values["currentAge"])
		assert.Equal(t, 100.0, res.Details.Values["readinessRatio"])
		assert.Equal(t, 100, res.Score)
	})
}

func TestTimeHorizon(t *testing.T) {
	c := NewTimeHorizon(newTestResolver())

	assert.Equal(t, 100, c.Calculate(fields.Record{"age": 30, "retirementAge": 67}).Score)
	assert.Equal(t, 70, c.Calculate(fields.Record{"age": 52, "retirementAge": 67}).Score)

	inverted := c.Calculate(fields.Record{"currentAge": 65, "retirementAge": 60})
	assert.Equal(t, 0, inverted.Score)
	assert.Equal(t, StatusCritical, inverted.Details.Status)
	assert.Equal(t, -5.0, inverted.Details.Values["yearsToRetirement"])

	assert.Equal(t, StatusMissingData, c.Calculate(fields.Record{"age": 30}).Details.Status)
}

func TestRiskAlignment(t *testing.T) {
	c := NewRiskAlignment(newTestResolver())

	t.Run("perfect match", func(t *testing.T) {
		// moderate profile, age 40 -> 60/40
		res := c.Calculate(fields.Record{"age": 40, "stockAllocation": 60, "bondAllocation": 40})
		assert.Equal(t, 100, res.Score)
		assert.Equal(t, "moderate", res.Details.Values["riskProfile"])
	})

	t.Run("recommendation clamped to profile range", func(t *testing.T) {
		// conservative max 50 even though 100-25 = 75
		res := c.Calculate(fields.Record{"age": 25, "riskTolerance": "conservative", "stockAllocation": 70, "bondAllocation": 30})
		assert.Equal(t, 50.0, res.Details.Values["recommendedEquity"])
		assert.Equal(t, 60, res.Score)
	})

	t.Run("single allocation field implies the other", func(t *testing.T) {
		res := c.Calculate(fields.Record{"age": 40, "stockAllocation": 60})
		assert.Equal(t, 40.0, res.Details.Values["actualBonds"])
		assert.Equal(t, 100, res.Score)
	})

	t.Run("allocation derived from holdings", func(t *testing.T) {
		res := c.Calculate(fields.Record{"age": 40, "stocks": 120000, "bonds": 80000})
		assert.Equal(t, "holdings", res.Details.Values["allocationSource"])
		assert.Equal(t, 100, res.Score)
	})

	t.Run("all equity at sixty", func(t *testing.T) {
		res := c.Calculate(fields.Record{"age": 60, "stockAllocation": 100, "bondAllocation": 0})
		// recommended 40/60, deviation 60 -> floor at 0
		assert.Equal(t, 0, res.Score)
		assert.Equal(t, StatusCritical, res.Details.Status)
	})

	t.Run("no allocation", func(t *testing.T) {
		res := c.Calculate(fields.Record{"age": 40})
		assert.Equal(t, 0, res.Score)
		assert.Equal(t, StatusMissingData, res.Details.Status)
	})
}

func TestDiversification(t *testing.T) {
	rec := fields.Record{
		"currentPensionSavings": 200000,
		"trainingFund":          50000,
		"stocks":                800,
		"bonds":                 0,
		"crypto":                "2,500",
		"cash":                  90000,
	}

	t.Run("any positive balance counts by default", func(t *testing.T) {
		res := NewDiversification(newTestResolver(), 0).Calculate(rec)
		assert.Equal(t, 4, res.Details.Values["count"])
		assert.Equal(t, 80, res.Score)
		assert.Equal(t, []string{"pension", "trainingFund", "stocks", "crypto"}, res.Details.Values["assetClasses"])
	})

	t.Run("threshold excludes small balances", func(t *testing.T) {
		res := NewDiversification(newTestResolver(), 1000).Calculate(rec)
		assert.Equal(t, 3, res.Details.Values["count"])
		assert.Equal(t, 60, res.Score)
	})

	t.Run("five or more classes", func(t *testing.T) {
		res := NewDiversification(newTestResolver(), 0).Calculate(fields.Record{
			"pensionSavings": 1, "trainingFund": 1, "stocks": 1, "bonds": 1,
			"realEstate": 1, "crypto": 1, "international": 1,
		})
		assert.Equal(t, 100, res.Score)
	})

	t.Run("cash only is missing data", func(t *testing.T) {
		res := NewDiversification(newTestResolver(), 0).Calculate(fields.Record{"cash": 5000})
		assert.Equal(t, StatusMissingData, res.Details.Status)
	})
}

func TestTaxEfficiency(t *testing.T) {
	c := NewTaxEfficiency(newTestResolver(), benchmarks.DefaultCountry)

	t.Run("israel optimal", func(t *testing.T) {
		res := c.Calculate(fields.Record{"pensionContributionRate": 18.5, "trainingFundContributionRate": 10})
		assert.Equal(t, 100, res.Score)
		assert.Equal(t, "israel", res.Details.Values["country"])
	})

	t.Run("employee and employer rates add up", func(t *testing.T) {
		res := c.Calculate(fields.Record{
			"pensionEmployeeRate":      6,
			"pensionEmployerRate":      12.5,
			"trainingFundEmployeeRate": 2.5,
			"trainingFundEmployerRate": 2.5,
		})
		// pension 100*0.7 + training 50*0.3
		assert.Equal(t, 85, res.Score)
	})

	t.Run("generic country", func(t *testing.T) {
		res := c.Calculate(fields.Record{"country": "UK", "pensionContributionRate": 7.5})
		assert.Equal(t, 50, res.Score)
		assert.Equal(t, "generic", res.Details.Values["country"])
	})

	t.Run("generic default country", func(t *testing.T) {
		generic := NewTaxEfficiency(newTestResolver(), "usa")
		assert.Equal(t, 100, generic.Calculate(fields.Record{"pensionRate": 20}).Score)
	})

	t.Run("no rates", func(t *testing.T) {
		res := c.Calculate(fields.Record{})
		assert.Equal(t, StatusMissingData, res.Details.Status)
	})

	t.Run("couple rates are averaged", func(t *testing.T) {
		res := c.Calculate(fields.Record{
			"planningType":                    "couple",
			"partner1PensionContributionRate": 18.5,
			"partner2PensionContributionRate": 14.8,
		})
		// average 16.65 is 90% of optimal, worth 63 pension points
		assert.Equal(t, 63, res.Score)
	})
}

func TestEmergencyFund(t *testing.T) {
	c := NewEmergencyFund(newTestResolver())

	res := c.Calculate(fields.Record{"expenses": 10000, "emergencyFund": 30000, "cash": 10000, "savings": 20000})
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 60000.0, res.Details.Values["liquidSavings"])

	res = c.Calculate(fields.Record{"expenses": 10000, "cash": 35000})
	assert.Equal(t, 70, res.Score)
	assert.Equal(t, StatusGood, res.Details.Status)

	res = c.Calculate(fields.Record{"cash": 3500})
	assert.Equal(t, StatusMissingData, res.Details.Status)
}

func TestDebtManagement(t *testing.T) {
	c := NewDebtManagement(newTestResolver())

	tests := []struct {
		name           string
		record         fields.Record
		expectedScore  int
		expectedStatus Status
	}{
		{"no debt fields", fields.Record{"salary": 10000}, 0, StatusMissingData},
		{"explicit zero payments", fields.Record{"salary": 10000, "monthlyDebtPayments": 0}, 100, StatusExcellent},
		{"explicit zero total debt", fields.Record{"salary": 10000, "totalDebt": "0"}, 100, StatusExcellent},
		{"total debt without payments", fields.Record{"salary": 10000, "totalDebt": 50000}, 0, StatusMissingData},
		{"low dti", fields.Record{"salary": 10000, "monthlyDebtPayments": 800}, 100, StatusExcellent},
		{"mortgage level dti", fields.Record{"salary": 10000, "monthlyDebtPayments": 2800}, 70, StatusGood},
		{"heavy dti", fields.Record{"salary": 10000, "monthlyDebtPayments": 7500}, 20, StatusPoor},
		{"payments without income", fields.Record{"monthlyDebtPayments": 1000}, 0, StatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Calculate(tt.record)
			assert.Equal(t, tt.expectedScore, res.Score)
			assert.Equal(t, tt.expectedStatus, res.Details.Status)
		})
	}
}

// ==========================
// Cross-cutting properties
// ==========================

func TestCalculators_ScoresBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	keys := []string{
		"currentAge", "retirementAge", "salary", "expenses", "currentSavings",
		"pensionSavings", "trainingFund", "stocks", "bonds", "crypto", "cash",
		"stockAllocation", "bondAllocation", "monthlyDebtPayments", "pensionRate",
	}
	calcs := All(newTestResolver(), DefaultSettings())

	for i := 0; i < 500; i++ {
		rec := fields.Record{}
		for _, k := range keys {
			if rng.Intn(3) == 0 {
				continue
			}
			rec[k] = (rng.Float64() - 0.2) * 200000
		}
		for _, c := range calcs {
			res := c.Calculate(rec)
			require.GreaterOrEqual(t, res.Score, 0, "%s %v", c.Factor(), rec)
			require.LessOrEqual(t, res.Score, 100, "%s %v", c.Factor(), rec)
		}
	}
}

func TestCalculators_EmptyRecord(t *testing.T) {
	for _, c := range All(newTestResolver(), DefaultSettings()) {
		res := c.Calculate(fields.Record{})
		assert.Equal(t, 0, res.Score, c.Factor())
		assert.Equal(t, StatusMissingData, res.Details.Status, c.Factor())
	}
}

func TestAll_ReportOrder(t *testing.T) {
	calcs := All(newTestResolver(), DefaultSettings())
	require.Len(t, calcs, len(benchmarks.Factors))
	for i, c := range calcs {
		assert.Equal(t, benchmarks.Factors[i], c.Factor())
	}
}

func TestDetails_FlatJSON(t *testing.T) {
	res := NewEmergencyFund(newTestResolver()).Calculate(fields.Record{"expenses": 10000, "cash": 35000})

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &flat))
	details := flat["details"].(map[string]interface{})
	assert.Equal(t, "good", details["status"])
	assert.Equal(t, 3.5, details["monthsCovered"])

	var back FactorResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, res.Score, back.Score)
	assert.Equal(t, res.Details.Status, back.Details.Status)
	assert.NotContains(t, back.Details.Values, "status")
}
