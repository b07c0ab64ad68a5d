// internal/workers/health/validate-financial-inputs/models.go
package validatefinancialinputs

import (
	"financial-health-workers/internal/common/validation"
	"financial-health-workers/internal/healthscore"
	"financial-health-workers/internal/healthscore/fields"
)

type Input struct {
	RequestID string        `json:"requestId"`
	Inputs    fields.Record `json:"inputs"`
}

type Output struct {
	RequestID    string                       `json:"requestId,omitempty"`
	IsValid      bool                         `json:"isValid"`
	PlanningType string                       `json:"planningType"`
	SchemaErrors []validation.ValidationError `json:"schemaErrors"`
	Validation   healthscore.Validation       `json:"validation"`
}
