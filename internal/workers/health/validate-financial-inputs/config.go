// internal/workers/health/validate-financial-inputs/config.go
package validatefinancialinputs

import "time"

type Config struct {
	Timeout time.Duration
	// StrictSchema marks the record invalid when the schema check fails,
	// not only when the engine reports errors.
	StrictSchema bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		StrictSchema: true,
	}
}
