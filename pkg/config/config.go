package config

import (
	"time"

	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

// Config holds the application settings.
type Config struct {
	// Configurable via JSON file (private fields to enforce immutability)
	league         string
	tradeStatus    string
	similarPercent int
	priceMin       float64
	priceMax       float64
	baseDelay      time.Duration
	maxDelay       time.Duration
	maxRetries     int
	datasetPath    string
	tradeAPIURL    string
	dbPath         string

	log *logger.Logger
}

// New creates a new Config instance with the provided logger.
func New(log *logger.Logger) *Config {
	return &Config{log: log}
}

// GetLeague returns the league the searches run against.
func (c *Config) GetLeague() string {
	return c.league
}

// GetTradeStatus returns the seller availability filter option.
func (c *Config) GetTradeStatus() string {
	return c.tradeStatus
}

// GetSimilarPercent returns the percentage applied to numeric thresholds
// in similar-mode searches.
func (c *Config) GetSimilarPercent() int {
	return c.similarPercent
}

// GetPriceMin returns the configured minimum price in divine orbs.
// Zero means no minimum.
func (c *Config) GetPriceMin() float64 {
	return c.priceMin
}

// GetPriceMax returns the configured maximum price in divine orbs.
// Zero means no maximum.
func (c *Config) GetPriceMax() float64 {
	return c.priceMax
}

// GetBaseDelay returns the steady-state delay between search requests.
func (c *Config) GetBaseDelay() time.Duration {
	return c.baseDelay
}

// GetMaxDelay returns the cap on the adaptive inter-request delay.
func (c *Config) GetMaxDelay() time.Duration {
	return c.maxDelay
}

// GetMaxRetries returns the per-item retry budget for rate-limited requests.
func (c *Config) GetMaxRetries() int {
	return c.maxRetries
}

// GetDatasetPath returns the path to the stat matcher dataset file.
func (c *Config) GetDatasetPath() string {
	return c.datasetPath
}

// GetTradeAPIURL returns the base URL of the trade search API.
func (c *Config) GetTradeAPIURL() string {
	return c.tradeAPIURL
}

// GetDBPath returns the path to the search history database. Empty means
// the default location under the user config directory.
func (c *Config) GetDBPath() string {
	return c.dbPath
}
