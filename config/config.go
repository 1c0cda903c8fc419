// Package config loads server configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Session struct {
		// ResumeCeilingHours discards a persisted session older than
		// this on resume. Policy of the surrounding application, not
		// the core; 0 disables the ceiling.
		ResumeCeilingHours int `yaml:"resume_ceiling_hours"`
	} `yaml:"session"`
	Sync struct {
		RetrySchedule string `yaml:"retry_schedule"`
	} `yaml:"sync"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file yields defaults rather than an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

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
	if v := os.Getenv("ALCHEMY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ALCHEMY_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("ALCHEMY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "alchemy.db"
	}
	if c.Session.ResumeCeilingHours == 0 {
		c.Session.ResumeCeilingHours = 24
	}
	if c.Sync.RetrySchedule == "" {
		c.Sync.RetrySchedule = "@every 1m"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
