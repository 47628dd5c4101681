package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"mysvc/internal/logger"
)

// rawConfig is used for JSON unmarshaling with duration strings.
type rawConfig struct {
	ServiceName   string           `json:"ServiceName"`
	DisplayName   string           `json:"DisplayName"`
	PollInterval  string           `json:"PollInterval"`
	MaxIterations int              `json:"MaxIterations"`
	StartWaitHint string           `json:"StartWaitHint"`
	StopWaitHint  string           `json:"StopWaitHint"`
	Logging       rawLoggingConfig `json:"Logging"`
}

type rawLoggingConfig struct {
	Level      string `json:"Level"`
	FilePath   string `json:"FilePath"`
	MaxSizeMB  int    `json:"MaxSizeMB"`
	MaxBackups int    `json:"MaxBackups"`
	MaxAgeDays int    `json:"MaxAgeDays"`
	Compress   bool   `json:"Compress"`
}

// Load reads configuration from the specified file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// LoadOrDefault reads the configuration at path. A missing file yields the
// defaults; any other failure is returned with the defaults so the caller
// can report it and carry on.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return DefaultConfig(), err
}

// PathBesideExecutable returns the configuration path in the directory of exe.
func PathBesideExecutable(exe string) string {
	return filepath.Join(filepath.Dir(exe), FileName)
}

// Parse parses configuration from JSON bytes.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	cfg := DefaultConfig()
	parsed, err := convertRawConfig(&raw)
	if err != nil {
		return nil, err
	}

	cfg.Merge(parsed)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func convertRawConfig(raw *rawConfig) (*Config, error) {
	cfg := &Config{
		ServiceName:   raw.ServiceName,
		DisplayName:   raw.DisplayName,
		MaxIterations: raw.MaxIterations,
		Logging:       convertRawLogging(&raw.Logging),
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"PollInterval", raw.PollInterval, &cfg.PollInterval},
		{"StartWaitHint", raw.StartWaitHint, &cfg.StartWaitHint},
		{"StopWaitHint", raw.StopWaitHint, &cfg.StopWaitHint},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s duration: %w", d.name, err)
		}
		*d.dst = v
	}

	return cfg, nil
}

func convertRawLogging(raw *rawLoggingConfig) logger.Config {
	return logger.Config{
		Level:      raw.Level,
		FilePath:   raw.FilePath,
		MaxSizeMB:  raw.MaxSizeMB,
		MaxBackups: raw.MaxBackups,
		MaxAgeDays: raw.MaxAgeDays,
		Compress:   raw.Compress,
	}
}
