// internal/healthscore/benchmarks/tax.go
package benchmarks

import "strings"

// DefaultCountry is assumed when the record names no country.
const DefaultCountry = "israel"

// TaxComponent is one tax-advantaged savings vehicle and its optimal
// total contribution rate (employee + employer, percent of salary).
type TaxComponent struct {
	Name        string  `json:"name"`
	OptimalRate float64 `json:"optimalRate"`
	Weight      float64 `json:"weight"`
}

// TaxRules lists the components scored for a country. Weights sum to 1.
type TaxRules struct {
	Country    string         `json:"country"`
	Components []TaxComponent `json:"components"`
}

const (
	ComponentPension      = "pension"
	ComponentTrainingFund = "trainingFund"
)

var israelRules = TaxRules{
	Country: "israel",
	Components: []TaxComponent{
		{Name: ComponentPension, OptimalRate: 18.5, Weight: 0.7},
		{Name: ComponentTrainingFund, OptimalRate: 10, Weight: 0.3},
	},
}

var genericRules = TaxRules{
	Country: "generic",
	Components: []TaxComponent{
		{Name: ComponentPension, OptimalRate: 15, Weight: 1},
	},
}

// TaxRulesFor returns Israel's rules for Israeli (or empty) countries and
// the generic single-pension rule for everything else.
func TaxRulesFor(country string) TaxRules {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "", "israel", "il", "isr":
		return israelRules
	default:
		return genericRules
	}
}
