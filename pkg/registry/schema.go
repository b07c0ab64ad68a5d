// pkg/registry/schema.go
package registry

type ActivityRegistry struct {
	Version     string     `json:"version" yaml:"version"`
	LastUpdated string     `json:"lastUpdated" yaml:"last_updated"`
	Activities  []Activity `json:"activities" yaml:"activities"`
}

type Activity struct {
	ID                   string                 `json:"id" yaml:"id"`
	DisplayName          string                 `json:"displayName" yaml:"display_name"`
	Description          string                 `json:"description" yaml:"description"`
	Category             string                 `json:"category" yaml:"category"`
	Version              string                 `json:"version" yaml:"version"`
	TaskType             string                 `json:"taskType" yaml:"task_type"`
	ImplementationStatus string                 `json:"implementationStatus" yaml:"implementation_status"`
	InputSchema          map[string]interface{} `json:"inputSchema" yaml:"input_schema"`
	OutputSchema         map[string]interface{} `json:"outputSchema" yaml:"output_schema"`
	ErrorCodes           []string               `json:"errorCodes" yaml:"error_codes"`
	Timeout              string                 `json:"timeout" yaml:"timeout"`
	Retries              int                    `json:"retries" yaml:"retries"`
	Workflows            []string               `json:"workflows" yaml:"workflows"`
	Tags                 []string               `json:"tags" yaml:"tags"`
}

// Implementation states accepted for Activity.ImplementationStatus.
var Statuses = []string{"planned", "in-progress", "completed", "verified"}
