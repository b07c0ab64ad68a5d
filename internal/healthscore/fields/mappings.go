// internal/healthscore/fields/mappings.go
package fields

// FieldMappings lists the known input spellings of each canonical field in
// priority order. The first present, usable key wins.
var FieldMappings = map[CanonicalField][]string{
	Salary: {
		"currentMonthlySalary", "monthlySalary", "salary", "currentSalary",
		"grossMonthlySalary", "monthlyGrossSalary", "monthlyIncome",
		"currentMonthlyIncome", "grossSalary", "income", "netMonthlySalary",
	},
	OtherIncome: {
		"otherIncome", "additionalIncome", "otherMonthlyIncome",
		"sideIncome", "rentalIncome", "freelanceIncome",
	},
	MonthlyExpenses: {
		"currentMonthlyExpenses", "monthlyExpenses", "expenses",
		"currentExpenses", "totalMonthlyExpenses", "livingExpenses",
		"monthlySpending", "monthlyCosts",
	},
	PensionEmployeeRate: {
		"pensionEmployeeRate", "employeePensionRate", "pensionEmployeeContribution",
		"employeeContributionRate", "pensionEmployee", "employeeRate",
	},
	PensionEmployerRate: {
		"pensionEmployerRate", "employerPensionRate", "pensionEmployerContribution",
		"employerContributionRate", "pensionEmployer", "employerRate",
	},
	PensionContributionRate: {
		"pensionContributionRate", "totalPensionRate", "pensionRate",
		"pensionContribution", "totalPensionContribution", "contributionRate",
	},
	TrainingFundEmployeeRate: {
		"trainingFundEmployeeRate", "employeeTrainingFundRate",
		"trainingFundEmployeeContribution", "trainingFundEmployee",
		"kerenHishtalmutEmployeeRate",
	},
	TrainingFundEmployerRate: {
		"trainingFundEmployerRate", "employerTrainingFundRate",
		"trainingFundEmployerContribution", "trainingFundEmployer",
		"kerenHishtalmutEmployerRate",
	},
	TrainingFundContributionRate: {
		"trainingFundContributionRate", "trainingFundRate",
		"totalTrainingFundRate", "trainingFundContribution",
		"kerenHishtalmutRate",
	},
	CurrentPensionSavings: {
		"currentPensionSavings", "pensionSavings", "currentPension",
		"pensionBalance", "pensionFund", "totalPensionSavings",
		"currentPensionBalance",
	},
	CurrentTrainingFund: {
		"currentTrainingFund", "trainingFund", "trainingFundBalance",
		"trainingFundValue", "currentTrainingFundBalance", "kerenHishtalmut",
	},
	CurrentSavings: {
		"currentSavings", "savings", "totalSavings", "bankSavings",
		"currentBankSavings", "savingsBalance", "currentSavingsAccount",
	},
	EmergencyFund: {
		"emergencyFund", "emergencySavings", "emergencyFundBalance",
		"currentEmergencyFund", "liquidSavings", "cashReserve",
	},
	PortfolioValue: {
		"currentPersonalPortfolio", "personalPortfolio", "portfolioValue",
		"investmentPortfolio", "currentPortfolio", "totalInvestments",
		"investments", "currentInvestments",
	},
	Stocks: {
		"stocks", "currentStocks", "stockHoldings", "stocksValue",
		"stockValue", "equities", "equityHoldings",
	},
	Bonds: {
		"bonds", "currentBonds", "bondHoldings", "bondsValue",
		"bondValue", "fixedIncome",
	},
	RealEstate: {
		"realEstate", "currentRealEstate", "realEstateValue",
		"propertyValue", "realEstateEquity", "investmentProperty",
	},
	Crypto: {
		"crypto", "currentCrypto", "currentCryptoFiat", "cryptoValue",
		"cryptocurrency", "cryptoHoldings",
	},
	International: {
		"international", "internationalInvestments", "foreignInvestments",
		"internationalStocks", "globalEquities", "currentInternational",
	},
	Cash: {
		"cash", "currentCash", "cashBalance", "checkingBalance",
		"bankBalance", "checkingAccount",
	},
	StockAllocation: {
		"stockAllocation", "stockPercentage", "equityAllocation",
		"stocksPercent", "equityPercentage", "stocksAllocation",
	},
	BondAllocation: {
		"bondAllocation", "bondPercentage", "bondsPercent",
		"fixedIncomeAllocation", "bondsPercentage", "bondsAllocation",
	},
	MonthlyDebtPayments: {
		"monthlyDebtPayments", "debtPayments", "monthlyDebt",
		"totalMonthlyDebtPayments", "loanPayments", "monthlyLoanPayments",
		"monthlyDebtPayment",
	},
	TotalDebt: {
		"totalDebt", "debt", "outstandingDebt", "totalLiabilities",
		"currentDebt", "debtBalance",
	},
	CurrentAge: {
		"currentAge", "age", "userAge", "ageNow", "clientAge",
	},
	RetirementAge: {
		"retirementAge", "targetRetirementAge", "plannedRetirementAge",
		"retireAge", "desiredRetirementAge",
	},
}

// Text aliases for the few string-valued inputs the calculators read.
var (
	PlanningTypeKeys  = []string{"planningType", "planType", "planningMode"}
	RiskToleranceKeys = []string{"riskTolerance", "riskProfile", "riskLevel", "investmentRiskProfile", "risk"}
	CountryKeys       = []string{"country", "taxCountry", "countryCode", "residenceCountry", "taxResidence"}
)
