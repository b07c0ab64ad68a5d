// internal/workers/health/notify-health-report/config.go
package notifyhealthreport

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	FromEmail    string
	SMSEnabled   bool
	// AlertTopicARN receives an ops alert for low scores when set.
	AlertTopicARN string
	// LowScoreThreshold: scores strictly below it trigger SMS and alerts.
	LowScoreThreshold int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:           15 * time.Second,
		EmailEnabled:      true,
		LowScoreThreshold: 40,
	}
}
