// internal/workers/scoring/score-reviews/config.go
package scorereviews

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	// Harvesting via Outscraper runs synchronously and can take well over a
	// minute for review-heavy places.
	return &Config{
		Timeout: 120 * time.Second,
	}
}
