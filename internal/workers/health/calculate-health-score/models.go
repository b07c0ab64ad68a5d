// internal/workers/health/calculate-health-score/models.go
package calculatehealthscore

import (
	"financial-health-workers/internal/healthscore"
	"financial-health-workers/internal/healthscore/fields"
)

type Input struct {
	RequestID string        `json:"requestId"`
	UserID    string        `json:"userId"`
	Inputs    fields.Record `json:"inputs"`
	SkipCache bool          `json:"skipCache,omitempty"`
}

type Output struct {
	RequestID string                    `json:"requestId,omitempty"`
	Score     int                       `json:"score"`
	Band      string                    `json:"band"`
	Degraded  bool                      `json:"degraded"`
	Cached    bool                      `json:"cached"`
	Report    *healthscore.HealthReport `json:"report"`
}
