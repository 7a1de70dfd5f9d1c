package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HostConfig holds the backfill host configuration loaded from YAML.
type HostConfig struct {
	Database struct {
		PostingsPath string `yaml:"postings_path"`
		StorePath    string `yaml:"store_path"`
	} `yaml:"database"`
	Schedule struct {
		BackfillCron string `yaml:"backfill_cron"`
	} `yaml:"schedule"`
	Backfill struct {
		Workers    int    `yaml:"workers"`
		HorizonEnd string `yaml:"horizon_end"` // optional YYYY-MM-DD; "" = last event's day
		Resume     bool   `yaml:"resume"`
	} `yaml:"backfill"`
}

// LoadHostConfig reads config from a YAML file, then applies environment
// variable overrides and defaults.
func LoadHostConfig(path string) (*HostConfig, error) {
	cfg := &HostConfig{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STREAK_POSTINGS_PATH"); v != "" {
		cfg.Database.PostingsPath = v
	}
	if v := os.Getenv("STREAK_STORE_PATH"); v != "" {
		cfg.Database.StorePath = v
	}
	if v := os.Getenv("STREAK_BACKFILL_CRON"); v != "" {
		cfg.Schedule.BackfillCron = v
	}

	// Defaults
	if cfg.Database.PostingsPath == "" {
		cfg.Database.PostingsPath = "data/postings.db"
	}
	if cfg.Database.StorePath == "" {
		cfg.Database.StorePath = "data/streaks.db"
	}
	if cfg.Schedule.BackfillCron == "" {
		// 02:00 KST daily, after the day boundary has safely passed.
		cfg.Schedule.BackfillCron = "0 0 2 * * *"
	}
	if cfg.Backfill.Workers == 0 {
		cfg.Backfill.Workers = 4
	}

	return cfg, nil
}

// Validate checks the loaded configuration.
func (c *HostConfig) Validate() error {
	if c.Backfill.Workers < 1 {
		return fmt.Errorf("backfill.workers must be positive, got %d", c.Backfill.Workers)
	}
	return nil
}
