package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

// LoadFromFile loads the configuration from a JSON file. Fields absent
// from the file keep their default values.
func (c *Config) LoadFromFile(path string, log *logger.Logger) error {
	log.Debug("Loading configuration from file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("Failed to read config file", err, "path", path)
		return err
	}
	log.Debug("Config file read successfully", "size_bytes", len(data))

	// Use a temporary struct to unmarshal JSON
	var temp struct {
		League         *string  `json:"league"`
		TradeStatus    *string  `json:"trade_status"`
		SimilarPercent *int     `json:"similar_percent"`
		PriceMin       *float64 `json:"price_min"`
		PriceMax       *float64 `json:"price_max"`
		BaseDelayMs    *int     `json:"base_delay_ms"`
		MaxDelayMs     *int     `json:"max_delay_ms"`
		MaxRetries     *int     `json:"max_retries"`
		DatasetPath    *string  `json:"dataset_path"`
		TradeAPIURL    *string  `json:"trade_api_url"`
		DBPath         *string  `json:"db_path"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		log.Error("Failed to parse config JSON", err)
		return err
	}
	log.Debug("Config JSON parsed successfully")

	if temp.League != nil {
		c.league = *temp.League
	}
	if temp.TradeStatus != nil {
		c.tradeStatus = *temp.TradeStatus
	}
	if temp.SimilarPercent != nil {
		c.similarPercent = *temp.SimilarPercent
	}
	if temp.PriceMin != nil {
		c.priceMin = *temp.PriceMin
	}
	if temp.PriceMax != nil {
		c.priceMax = *temp.PriceMax
	}
	if temp.BaseDelayMs != nil {
		c.baseDelay = time.Duration(*temp.BaseDelayMs) * time.Millisecond
	}
	if temp.MaxDelayMs != nil {
		c.maxDelay = time.Duration(*temp.MaxDelayMs) * time.Millisecond
	}
	if temp.MaxRetries != nil {
		c.maxRetries = *temp.MaxRetries
	}
	if temp.DatasetPath != nil {
		c.datasetPath = *temp.DatasetPath
	}
	if temp.TradeAPIURL != nil {
		c.tradeAPIURL = *temp.TradeAPIURL
	}
	if temp.DBPath != nil {
		c.dbPath = *temp.DBPath
	}

	return c.validate()
}

// FindConfig loads the configuration from the provided path, falling back
// to defaults when no path is given or the file does not exist.
func FindConfig(path string, log *logger.Logger) (*Config, error) {
	if path == "" {
		return DefaultConfig(log)
	}

	config, err := DefaultConfig(log)
	if err != nil {
		return nil, err
	}
	if err := config.LoadFromFile(path, log); err != nil {
		return nil, err
	}
	return config, nil
}
