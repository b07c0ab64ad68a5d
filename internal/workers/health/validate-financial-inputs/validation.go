// internal/workers/health/validate-financial-inputs/validation.go
package validatefinancialinputs

import (
	"sync"

	"financial-health-workers/internal/common/validation"
	"financial-health-workers/internal/healthscore/fields"
)

var (
	inputSchemaOnce sync.Once
	inputSchema     *validation.Schema
)

// InputSchema checks the shape of a wizard record: every known alias must
// hold a number, a numeric string, null or an {amount, period} object, and
// the planning type must be individual or couple. Unknown keys are allowed.
func InputSchema() *validation.Schema {
	inputSchemaOnce.Do(func() {
		inputSchema = validation.MustCompileGo("financial-inputs", buildInputSchema())
	})
	return inputSchema
}

func buildInputSchema() map[string]interface{} {
	properties := make(map[string]interface{})
	for _, field := range fields.All() {
		for _, alias := range fields.FieldMappings[field] {
			properties[alias] = valueSchema()
		}
	}

	textSchema := map[string]interface{}{"type": []interface{}{"string", "null"}}
	for _, key := range fields.RiskToleranceKeys {
		properties[key] = textSchema
	}
	for _, key := range fields.CountryKeys {
		properties[key] = textSchema
	}
	for _, key := range fields.PlanningTypeKeys {
		properties[key] = map[string]interface{}{
			"type":    "string",
			"pattern": `^(?i)\s*(individual|couple)\s*$`,
		}
	}

	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
}

func numericSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": []interface{}{"number", "string", "null"},
	}
}

func valueSchema() map[string]interface{} {
	return map[string]interface{}{
		"anyOf": []interface{}{
			numericSchema(),
			map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"amount"},
				"properties": map[string]interface{}{
					"amount": map[string]interface{}{"type": []interface{}{"number", "string"}},
					"period": map[string]interface{}{"type": "string"},
				},
			},
		},
	}
}
