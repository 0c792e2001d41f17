package processrequests

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled            bool          `mapstructure:"enabled"`
	BatchSize          int           `mapstructure:"batch_size"`
	VisibilityTimeout  int           `mapstructure:"visibility_timeout"` // seconds
	SearchSize         int           `mapstructure:"search_size"`
	SampleSize         int           `mapstructure:"sample_size"`
	MaxReceiveCount    int           `mapstructure:"max_receive_count"` // 0 disables dead-lettering
	DeadLetterQueueURL string        `mapstructure:"dead_letter_queue_url"`
	FromEmail          string        `mapstructure:"from_email"`
	Subject            string        `mapstructure:"subject"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:           true,
		BatchSize:         5,
		VisibilityTimeout: 60,
		SearchSize:        100,
		SampleSize:        3,
		Subject:           "Your Dining Suggestions",
		Timeout:           30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	if c.VisibilityTimeout <= 0 {
		return fmt.Errorf("visibility_timeout must be positive")
	}
	if c.SearchSize <= 0 {
		return fmt.Errorf("search_size must be positive")
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("sample_size must be positive")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from_email is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxReceiveCount > 0 && c.DeadLetterQueueURL == "" {
		return fmt.Errorf("dead_letter_queue_url is required when max_receive_count is set")
	}
	return nil
}
