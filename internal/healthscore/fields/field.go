// internal/healthscore/fields/field.go
package fields

// Record is the raw wizard input: any subset of the known aliases plus
// unrelated UI keys, which are ignored.
type Record map[string]interface{}

// CanonicalField is a logical input concept with one or more known spellings.
type CanonicalField int

const (
	Salary CanonicalField = iota + 1
	OtherIncome
	MonthlyExpenses
	PensionEmployeeRate
	PensionEmployerRate
	PensionContributionRate
	TrainingFundEmployeeRate
	TrainingFundEmployerRate
	TrainingFundContributionRate
	CurrentPensionSavings
	CurrentTrainingFund
	CurrentSavings
	EmergencyFund
	PortfolioValue
	Stocks
	Bonds
	RealEstate
	Crypto
	International
	Cash
	StockAllocation
	BondAllocation
	MonthlyDebtPayments
	TotalDebt
	CurrentAge
	RetirementAge
)

var fieldNames = map[CanonicalField]string{
	Salary:                       "salary",
	OtherIncome:                  "otherIncome",
	MonthlyExpenses:              "monthlyExpenses",
	PensionEmployeeRate:          "pensionEmployeeRate",
	PensionEmployerRate:          "pensionEmployerRate",
	PensionContributionRate:      "pensionContributionRate",
	TrainingFundEmployeeRate:     "trainingFundEmployeeRate",
	TrainingFundEmployerRate:     "trainingFundEmployerRate",
	TrainingFundContributionRate: "trainingFundContributionRate",
	CurrentPensionSavings:        "currentPensionSavings",
	CurrentTrainingFund:          "currentTrainingFund",
	CurrentSavings:               "currentSavings",
	EmergencyFund:                "emergencyFund",
	PortfolioValue:               "portfolioValue",
	Stocks:                       "stocks",
	Bonds:                        "bonds",
	RealEstate:                   "realEstate",
	Crypto:                       "crypto",
	International:                "international",
	Cash:                         "cash",
	StockAllocation:              "stockAllocation",
	BondAllocation:               "bondAllocation",
	MonthlyDebtPayments:          "monthlyDebtPayments",
	TotalDebt:                    "totalDebt",
	CurrentAge:                   "currentAge",
	RetirementAge:                "retirementAge",
}

func (f CanonicalField) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// IsMonthly reports whether the field holds a per-month flow. Only these
// fields take part in period conversion.
func (f CanonicalField) IsMonthly() bool {
	switch f {
	case Salary, OtherIncome, MonthlyExpenses, MonthlyDebtPayments:
		return true
	}
	return false
}

// IsMoney reports whether the field is a currency amount (flow or balance).
func (f CanonicalField) IsMoney() bool {
	switch f {
	case CurrentAge, RetirementAge, StockAllocation, BondAllocation,
		PensionEmployeeRate, PensionEmployerRate, PensionContributionRate,
		TrainingFundEmployeeRate, TrainingFundEmployerRate, TrainingFundContributionRate:
		return false
	}
	return true
}

// All returns every canonical field in declaration order.
func All() []CanonicalField {
	out := make([]CanonicalField, 0, len(fieldNames))
	for f := Salary; f <= RetirementAge; f++ {
		out = append(out, f)
	}
	return out
}
