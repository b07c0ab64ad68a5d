// internal/workers/health/index-health-report/models.go
package indexhealthreport

import (
	"time"

	"financial-health-workers/internal/healthscore"
)

type Input struct {
	ReportID string                    `json:"reportId"`
	UserID   string                    `json:"userId"`
	Report   *healthscore.HealthReport `json:"report"`
}

type Output struct {
	Indexed    bool   `json:"indexed"`
	Index      string `json:"index"`
	DocumentID string `json:"documentId"`
	Result     string `json:"result"`
}

// Document is the flattened search representation of a report.
type Document struct {
	ReportID        string         `json:"reportId"`
	UserID          string         `json:"userId,omitempty"`
	Score           int            `json:"score"`
	Band            string         `json:"band"`
	PlanningType    string         `json:"planningType"`
	EngineVersion   string         `json:"engineVersion"`
	Degraded        bool           `json:"degraded"`
	CalculatedAt    time.Time      `json:"calculatedAt"`
	Factors         map[string]int `json:"factors"`
	ZeroFactors     []string       `json:"zeroFactors"`
	AgeGroup        string         `json:"ageGroup,omitempty"`
	Percentile      int            `json:"percentile,omitempty"`
	Comparison      string         `json:"comparison,omitempty"`
	Completeness    int            `json:"completeness"`
	CriticalMissing []string       `json:"criticalMissing"`
	SuggestionTypes []string       `json:"suggestionCategories"`
}
