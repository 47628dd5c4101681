// Package config provides configuration management for MySvc.
package config

import (
	"fmt"
	"time"

	"mysvc/internal/logger"
	"mysvc/internal/service"
)

// FileName is the configuration file looked up next to the executable.
const FileName = "mysvc.json"

// Config is the root configuration structure.
type Config struct {
	ServiceName   string        `json:"ServiceName"`
	DisplayName   string        `json:"DisplayName"`
	PollInterval  time.Duration `json:"PollInterval"`
	MaxIterations int           `json:"MaxIterations"` // 0 runs until stopped
	StartWaitHint time.Duration `json:"StartWaitHint"`
	StopWaitHint  time.Duration `json:"StopWaitHint"`
	Logging       logger.Config `json:"Logging"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:   "MySvc",
		DisplayName:   "My service",
		PollInterval:  time.Second,
		StartWaitHint: 3 * time.Second,
		StopWaitHint:  3 * time.Second,
		Logging:       logger.DefaultConfig(),
	}
}

// Identity returns the service identity described by the configuration.
func (c *Config) Identity() service.Identity {
	return service.NewIdentity(c.ServiceName, c.DisplayName)
}

// Merge applies non-zero values from other to this config.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.ServiceName != "" {
		c.ServiceName = other.ServiceName
	}
	if other.DisplayName != "" {
		c.DisplayName = other.DisplayName
	}
	if other.PollInterval != 0 {
		c.PollInterval = other.PollInterval
	}
	if other.MaxIterations != 0 {
		c.MaxIterations = other.MaxIterations
	}
	if other.StartWaitHint != 0 {
		c.StartWaitHint = other.StartWaitHint
	}
	if other.StopWaitHint != 0 {
		c.StopWaitHint = other.StopWaitHint
	}

	// Merge Logging config
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.FilePath != "" {
		c.Logging.FilePath = other.Logging.FilePath
	}
	if other.Logging.MaxSizeMB != 0 {
		c.Logging.MaxSizeMB = other.Logging.MaxSizeMB
	}
	if other.Logging.MaxBackups != 0 {
		c.Logging.MaxBackups = other.Logging.MaxBackups
	}
	if other.Logging.MaxAgeDays != 0 {
		c.Logging.MaxAgeDays = other.Logging.MaxAgeDays
	}
	c.Logging.Compress = other.Logging.Compress
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := c.Identity().Validate(); err != nil {
		return err
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("MaxIterations must not be negative, got %d", c.MaxIterations)
	}
	if err := service.ValidatePollInterval(c.PollInterval, c.StopWaitHint); err != nil {
		return err
	}
	if c.StartWaitHint < 0 {
		return fmt.Errorf("StartWaitHint must not be negative, got %s", c.StartWaitHint)
	}
	return nil
}
