package healthscore

import (
	"time"

	"financial-health-workers/internal/healthscore/benchmarks"
	"financial-health-workers/internal/healthscore/calculators"
)

// HealthReport is the result of one scoring run. It is always well formed,
// even when the calculation failed (see Error).
type HealthReport struct {
	Score            int                                            `json:"score"`
	Interpretation   Interpretation                                 `json:"interpretation"`
	ScoreBreakdown   map[benchmarks.Factor]calculators.FactorResult `json:"scoreBreakdown"`
	PeerComparison   *PeerComparison                                `json:"peerComparison,omitempty"`
	Suggestions      []Suggestion                                   `json:"suggestions"`
	Validation       Validation                                     `json:"validation"`
	ZeroScoreFactors []ZeroScoreFactor                              `json:"zeroScoreFactors"`
	Metadata         Metadata                                       `json:"metadata"`
	Error            string                                         `json:"error,omitempty"`
}

// Degraded reports whether the calculation was aborted.
func (r *HealthReport) Degraded() bool {
	return r.Error != ""
}

type Interpretation struct {
	Band        string `json:"band"`
	Label       string `json:"label"`
	Color       string `json:"color"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

type PeerComparison struct {
	AgeGroup     string  `json:"ageGroup"`
	AverageScore float64 `json:"averageScore"`
	TopQuartile  float64 `json:"topQuartile"`
	Percentile   int     `json:"percentile"`
	Comparison   string  `json:"comparison"`
	Message      string  `json:"message"`
}

type Suggestion struct {
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Impact is the estimated gain in total score points.
	Impact int `json:"impact"`
}

type Validation struct {
	IsValid         bool     `json:"isValid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	CriticalMissing []string `json:"criticalMissing"`
	Completeness    int      `json:"completeness"`
}

type ZeroScoreFactor struct {
	Factor      benchmarks.Factor  `json:"factor"`
	Weight      float64            `json:"weight"`
	Description string             `json:"description"`
	Status      calculators.Status `json:"status"`
}

type Metadata struct {
	CalculatedAt time.Time `json:"calculatedAt"`
	Version      string    `json:"version"`
	PlanningType string    `json:"planningType"`
}

const (
	PlanningIndividual = "individual"
	PlanningCouple     = "couple"
)
