package config

import (
	"fmt"
	"time"

	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

const (
	// DefaultTradeAPIURL is the official trade search endpoint.
	DefaultTradeAPIURL = "https://www.pathofexile.com/api/trade2/search/poe2"

	// DefaultBaseDelay keeps sequential searches under the endpoint's
	// throughput ceiling (~5 search requests per minute per account).
	DefaultBaseDelay = 12 * time.Second

	// DefaultMaxDelay caps the adaptive delay after rate-limit hits.
	DefaultMaxDelay = 30 * time.Second

	// DefaultMaxRetries bounds retries of a single rate-limited item.
	DefaultMaxRetries = 3

	// DefaultSimilarPercent scales numeric thresholds in similar mode.
	DefaultSimilarPercent = 80
)

// DefaultConfig creates a default configuration.
func DefaultConfig(log *logger.Logger) (*Config, error) {
	log.Debug("Creating default configuration")

	config := &Config{
		league:         "Standard",
		tradeStatus:    "available",
		similarPercent: DefaultSimilarPercent,
		baseDelay:      DefaultBaseDelay,
		maxDelay:       DefaultMaxDelay,
		maxRetries:     DefaultMaxRetries,
		tradeAPIURL:    DefaultTradeAPIURL,
		log:            log,
	}

	log.Info("Created default configuration",
		"league", config.league,
		"similar_percent", config.similarPercent,
		"base_delay", config.baseDelay)

	return config, nil
}

// validate rejects settings the query synthesizer or orchestrator cannot
// work with.
func (c *Config) validate() error {
	if c.similarPercent <= 0 || c.similarPercent > 100 {
		return fmt.Errorf("similar_percent must be in (0, 100], got %d", c.similarPercent)
	}
	if c.priceMin < 0 || c.priceMax < 0 {
		return fmt.Errorf("price bounds must not be negative")
	}
	if c.priceMin > 0 && c.priceMax > 0 && c.priceMin > c.priceMax {
		return fmt.Errorf("price_min %v exceeds price_max %v", c.priceMin, c.priceMax)
	}
	if c.baseDelay <= 0 {
		return fmt.Errorf("base_delay_ms must be positive")
	}
	if c.maxDelay < c.baseDelay {
		return fmt.Errorf("max_delay_ms must not be below base_delay_ms")
	}
	if c.maxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	return nil
}
