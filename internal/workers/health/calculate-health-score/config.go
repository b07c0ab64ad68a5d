// internal/workers/health/calculate-health-score/config.go
package calculatehealthscore

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	// FailOnDegraded throws HEALTH_SCORE_FAILED instead of completing the
	// job with a degraded report.
	FailOnDegraded bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: time.Hour,
	}
}
