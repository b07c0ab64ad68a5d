// internal/workers/health/store-health-report/config.go
package storehealthreport

import "time"

type Config struct {
	Timeout time.Duration
	// Actor is written to the audit log for reports stored by this worker.
	Actor string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Actor:   TaskType,
	}
}
