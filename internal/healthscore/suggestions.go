package healthscore

import (
	"math"
	"sort"

	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/calculators"
)

const (
	maxSuggestions      = 3
	suggestionThreshold = 70

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type suggestionText struct {
	title       string
	description string
}

var suggestionTexts = map[benchmarks.Factor]suggestionText{
	benchmarks.SavingsRate: {
		title:       "Increase your savings rate",
		description: "Aim to save at least 15-20% of your income. Automate a transfer to savings on payday and review recurring expenses.",
	},
	benchmarks.RetirementReadiness: {
		title:       "Boost retirement savings",
		description: "Your retirement savings are behind the target for your age. Raise pension contributions or add voluntary deposits.",
	},
	benchmarks.TimeHorizon: {
		title:       "Plan for a short time horizon",
		description: "With few years until retirement, consider working longer or shifting to capital-preserving investments.",
	},
	benchmarks.RiskAlignment: {
		title:       "Rebalance your portfolio",
		description: "Your stock and bond mix differs from the allocation recommended for your age and risk tolerance.",
	},
	benchmarks.Diversification: {
		title:       "Diversify your investments",
		description: "Spread savings across more asset classes such as bonds, international funds and real estate to reduce risk.",
	},
	benchmarks.TaxEfficiency: {
		title:       "Use tax-advantaged savings",
		description: "Contribute up to the tax-efficient ceiling in your pension and training fund to keep more of your money.",
	},
	benchmarks.EmergencyFund: {
		title:       "Build an emergency fund",
		description: "Keep three to six months of expenses in an easily accessible account before taking on investment risk.",
	},
	benchmarks.DebtManagement: {
		title:       "Reduce your debt load",
		description: "Pay down high-interest debt first and keep total monthly payments below 20% of income.",
	},
}

var keepItUp = Suggestion{
	Priority:    PriorityLow,
	Category:    "general",
	Title:       "Keep up the good work",
	Description: "Every factor scores well. Review your plan once a year or after a major life change.",
	Impact:      0,
}

// GenerateSuggestions picks up to three factors scoring below 70, the ones
// whose improvement would move the total score most first. When none
// qualify a single encouragement is returned.
func GenerateSuggestions(breakdown map[benchmarks.Factor]calculators.FactorResult, weights map[benchmarks.Factor]float64) []Suggestion {
	factors := orderedFactors(breakdown)

	var weightSum float64
	for _, f := range factors {
		weightSum += weights[f]
	}

	gap := func(f benchmarks.Factor) float64 {
		return float64(100-breakdown[f].Score) * weights[f]
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return gap(factors[i]) > gap(factors[j])
	})

	out := make([]Suggestion, 0, maxSuggestions)
	for _, f := range factors {
		if len(out) == maxSuggestions {
			break
		}
		score := breakdown[f].Score
		if score >= suggestionThreshold {
			continue
		}
		text, ok := suggestionTexts[f]
		if !ok {
			continue
		}

		impact := 0
		if weightSum > 0 {
			impact = int(math.Round(float64(suggestionThreshold-score) * weights[f] / weightSum))
		}
		out = append(out, Suggestion{
			Priority:    priorityFor(score),
			Category:    string(f),
			Title:       text.title,
			Description: text.description,
			Impact:      impact,
		})
	}

	if len(out) == 0 {
		return []Suggestion{keepItUp}
	}
	return out
}

func priorityFor(score int) string {
	switch {
	case score < 40:
		return PriorityHigh
	case score < 60:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
