// internal/workers/health/store-health-report/models.go
package storehealthreport

import json "github.com/goccy/go-json"

type Input struct {
	// ReportID makes retries idempotent when the process supplies one.
	ReportID           string          `json:"reportId,omitempty"`
	UserID             string          `json:"userId"`
	Report             json.RawMessage `json:"report"`
	ProcessInstanceKey int64           `json:"-"`
}

type Output struct {
	ReportID      string `json:"reportId"`
	StoredAt      string `json:"storedAt"`
	AlreadyStored bool   `json:"alreadyStored"`
}

// reportSummary is the part of a health report kept in indexed columns.
type reportSummary struct {
	Score          *int `json:"score"`
	Interpretation struct {
		Band string `json:"band"`
	} `json:"interpretation"`
	Metadata struct {
		PlanningType string `json:"planningType"`
		Version      string `json:"version"`
	} `json:"metadata"`
	Error string `json:"error"`
}
