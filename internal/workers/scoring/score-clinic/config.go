// internal/workers/scoring/score-clinic/config.go
package scoreclinic

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	// Clinic scoring fans out into associated-doctor lookups, so it gets a
	// longer budget than doctor scoring.
	return &Config{
		Timeout: 60 * time.Second,
	}
}
