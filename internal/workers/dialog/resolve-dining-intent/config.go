package resolvediningintent

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled      bool          `mapstructure:"enabled"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RegistryPath string        `mapstructure:"registry_path"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Timeout: 30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
