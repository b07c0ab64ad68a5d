// internal/workers/health/index-health-report/config.go
package indexhealthreport

import "time"

type Config struct {
	Timeout time.Duration
	Index   string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Index:   DefaultIndex,
	}
}
