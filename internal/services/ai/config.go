package ai

import (
	"fmt"
	"time"
)

type Config struct {
	// Provider credentials. An empty APIKey selects the mock provider.
	APIKey  string
	BaseURL string
	Model   string

	// Performance configuration
	Timeout time.Duration

	// Model parameters
	Temperature  float32
	MaxTokens    int
	HistoryTurns int // prior messages passed back to the provider
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.HistoryTurns < 0 {
		return fmt.Errorf("history turns cannot be negative")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Model:        "gpt-4o-mini",
		Timeout:      60 * time.Second,
		Temperature:  0.7,
		MaxTokens:    1000,
		HistoryTurns: 20,
	}
}
