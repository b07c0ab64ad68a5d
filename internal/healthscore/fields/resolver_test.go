// internal/healthscore/fields/resolver_test.go
package fields

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve_AliasPriority(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name     string
		record   Record
		field    CanonicalField
		opts     Options
		expected float64
	}{
		{
			name:     "first alias wins",
			record:   Record{"currentMonthlySalary": 15000, "salary": 9000},
			field:    Salary,
			expected: 15000,
		},
		{
			name:     "later alias used when earlier missing",
			record:   Record{"currentSalary": 12000},
			field:    Salary,
			expected: 12000,
		},
		{
			name:     "empty string skipped",
			record:   Record{"currentMonthlySalary": "", "monthlySalary": "11,500"},
			field:    Salary,
			expected: 11500,
		},
		{
			name:     "nil skipped",
			record:   Record{"currentMonthlySalary": nil, "salary": 8000.5},
			field:    Salary,
			expected: 8000.5,
		},
		{
			name:     "unparseable skipped",
			record:   Record{"currentMonthlySalary": "n/a", "salary": "₪ 7,200"},
			field:    Salary,
			expected: 7200,
		},
		{
			name:     "zero skipped without allowZero",
			record:   Record{"currentMonthlyExpenses": 0, "monthlyExpenses": 4000},
			field:    MonthlyExpenses,
			expected: 4000,
		},
		{
			name:     "zero accepted with allowZero",
			record:   Record{"currentMonthlyExpenses": 0, "monthlyExpenses": 4000},
			field:    MonthlyExpenses,
			opts:     Options{AllowZero: true},
			expected: 0,
		},
		{
			name:     "default value when nothing found",
			record:   Record{"unrelated": 5},
			field:    CurrentAge,
			opts:     Options{DefaultValue: 35},
			expected: 35,
		},
		{
			name:     "ui keys ignored",
			record:   Record{"step": 3, "theme": "dark", "age": 41},
			field:    CurrentAge,
			expected: 41,
		},
		{
			name:     "bool values rejected",
			record:   Record{"stocks": true},
			field:    Stocks,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Resolve(tt.record, tt.field, tt.opts))
		})
	}
}

func TestResolver_Lookup_NotFound(t *testing.T) {
	r := NewResolver()

	_, err := r.Lookup(Record{}, Salary, Options{})
	assert.ErrorIs(t, err, ErrFieldNotFound)

	_, err = r.Lookup(Record{"salary": 0}, Salary, Options{})
	assert.ErrorIs(t, err, ErrFieldNotFound, "zero without allowZero is missing")

	res, err := r.Lookup(Record{"salary": 0}, Salary, Options{AllowZero: true})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Value)
	assert.Equal(t, "salary", res.Key)
	assert.Equal(t, SourceAlias, res.Source)
}

func TestResolver_CoupleMode(t *testing.T) {
	r := NewResolver()
	combine := Options{CombinePartners: true}

	t.Run("sums partner values", func(t *testing.T) {
		rec := Record{"planningType": "couple", "partner1Salary": 10000, "partner2Salary": 8000}

		res, err := r.Lookup(rec, Salary, combine)
		require.NoError(t, err)
		assert.Equal(t, 18000.0, res.Value)
		assert.Equal(t, SourcePartners, res.Source)
		assert.Equal(t, "partner1Salary+partner2Salary", res.Key)
	})

	t.Run("sum equals independent partner resolutions", func(t *testing.T) {
		rec := Record{
			"planningType":                 "couple",
			"partner1CurrentMonthlySalary": 12500,
			"partner2MonthlySalary":        "9,100",
		}

		p1, err := r.LookupPartner(rec, Salary, Partner1, false)
		require.NoError(t, err)
		p2, err := r.LookupPartner(rec, Salary, Partner2, false)
		require.NoError(t, err)

		assert.Equal(t, p1.Value+p2.Value, r.Resolve(rec, Salary, combine))
	})

	t.Run("missing partner counts as zero", func(t *testing.T) {
		rec := Record{"planningType": "couple", "partner1Salary": 10000}
		assert.Equal(t, 10000.0, r.Resolve(rec, Salary, combine))
	})

	t.Run("falls back to individual keys", func(t *testing.T) {
		rec := Record{"planningType": "couple", "currentMonthlySalary": 20000}

		res, err := r.Lookup(rec, Salary, combine)
		require.NoError(t, err)
		assert.Equal(t, 20000.0, res.Value)
		assert.Equal(t, SourceIndividualFallback, res.Source)
	})

	t.Run("zero partner sum falls back to individual keys", func(t *testing.T) {
		rec := Record{
			"planningType":         "couple",
			"partner1Salary":       0,
			"partner2Salary":       0,
			"currentMonthlySalary": 20000,
		}
		assert.Equal(t, 20000.0, r.Resolve(rec, Salary, combine))
	})

	t.Run("zero partner sum kept with allowZero", func(t *testing.T) {
		rec := Record{
			"planningType":         "couple",
			"partner1Salary":       0,
			"partner2Salary":       0,
			"currentMonthlySalary": 20000,
		}
		assert.Equal(t, 0.0, r.Resolve(rec, Salary, Options{CombinePartners: true, AllowZero: true}))
	})

	t.Run("individual mode ignores partner keys", func(t *testing.T) {
		rec := Record{"planningType": "individual", "partner1Salary": 10000, "salary": 7000}
		assert.Equal(t, 7000.0, r.Resolve(rec, Salary, combine))
	})

	t.Run("planning type is case insensitive", func(t *testing.T) {
		assert.True(t, IsCouple(Record{"planningType": "Couple"}))
		assert.False(t, IsCouple(Record{"planningType": "single"}))
		assert.False(t, IsCouple(Record{}))
	})
}

func TestResolver_NormalizedFallback(t *testing.T) {
	r := NewResolver()

	res, err := r.Lookup(Record{"Current_Monthly-Salary": "14000"}, Salary, Options{})
	require.NoError(t, err)
	assert.Equal(t, 14000.0, res.Value)
	assert.Equal(t, SourceNormalized, res.Source)
	assert.Equal(t, "Current_Monthly-Salary", res.Key)

	rec := Record{"planningType": "couple", "partner_1_salary": 6000, "Partner2 Salary": 4000}
	assert.Equal(t, 10000.0, r.Resolve(rec, Salary, Options{CombinePartners: true}))

	// partner keys never leak into individual resolution
	assert.Equal(t, 0.0, r.Resolve(Record{"partner_1_salary": 6000}, Salary, Options{}))
}

func TestResolver_PeriodValues(t *testing.T) {
	r := NewResolver()

	annual := Record{"currentMonthlySalary": map[string]interface{}{"amount": 240000, "period": "annual"}}
	assert.Equal(t, 20000.0, r.Resolve(annual, Salary, Options{}))

	monthly := Record{"currentMonthlySalary": map[string]interface{}{"amount": "18,000", "period": "monthly"}}
	assert.Equal(t, 18000.0, r.Resolve(monthly, Salary, Options{}))

	// balances are not flows, the period is ignored
	balance := Record{"currentSavings": map[string]interface{}{"amount": 120000, "period": "annual"}}
	assert.Equal(t, 120000.0, r.Resolve(balance, CurrentSavings, Options{}))

	broken := Record{"currentMonthlySalary": map[string]interface{}{"period": "annual"}, "salary": 9000}
	assert.Equal(t, 9000.0, r.Resolve(broken, Salary, Options{}))
}

func TestResolver_LegacyAnnualHeuristic(t *testing.T) {
	rec := Record{"currentMonthlySalary": 180000, "currentSavings": 180000}

	plain := NewResolver()
	assert.Equal(t, 180000.0, plain.Resolve(rec, Salary, Options{}))

	legacy := NewResolver(WithLegacyAnnualHeuristic(true))
	assert.Equal(t, 15000.0, legacy.Resolve(rec, Salary, Options{}))
	assert.Equal(t, 180000.0, legacy.Resolve(rec, CurrentSavings, Options{}), "balances are never divided")
	assert.Equal(t, 50000.0, legacy.Resolve(Record{"salary": 50000}, Salary, Options{}), "threshold is exclusive")
}

func TestResolver_CustomMappings(t *testing.T) {
	r := NewResolver(WithMappings(map[CanonicalField][]string{
		Salary: {"wage", "pay"},
	}))

	assert.Equal(t, 9000.0, r.Resolve(Record{"pay": 9000, "salary": 1}, Salary, Options{}))
	assert.Equal(t, []string{"wage", "pay"}, r.Aliases(Salary))
}

func TestResolver_Has(t *testing.T) {
	r := NewResolver()

	assert.True(t, r.Has(Record{"monthlyDebtPayments": 0}, MonthlyDebtPayments, false))
	assert.False(t, r.Has(Record{}, MonthlyDebtPayments, false))
	assert.False(t, r.Has(Record{"monthlyDebtPayments": ""}, MonthlyDebtPayments, false))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		in    interface{}
		want  float64
		valid bool
	}{
		{"float", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"int64", int64(9), 9, true},
		{"json number", json.Number("42.5"), 42.5, true},
		{"plain string", "1500", 1500, true},
		{"thousands separator", "1,234,567.89", 1234567.89, true},
		{"currency", "$2,000", 2000, true},
		{"percent", "18.5%", 18.5, true},
		{"negative", "-300", -300, true},
		{"empty", "", 0, false},
		{"whitespace", "   ", 0, false},
		{"text", "abc", 0, false},
		{"nil", nil, 0, false},
		{"bool", false, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"slice", []interface{}{1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldMappings_Complete(t *testing.T) {
	for _, f := range All() {
		aliases, ok := FieldMappings[f]
		require.True(t, ok, "missing aliases for %s", f)
		assert.GreaterOrEqual(t, len(aliases), 5, "%s needs at least five aliases", f)
		assert.NotEqual(t, "unknown", f.String())
	}
}
