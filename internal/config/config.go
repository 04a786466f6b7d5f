package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"`
	} `yaml:"storage"`
	Redis struct {
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		SessionTTL string `yaml:"sessionTTL"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Rabbit struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbit"`
	Auth struct {
		Secret   string `yaml:"secret"`
		TokenTTL string `yaml:"tokenTTL"`
	} `yaml:"auth"`
	Quiz struct {
		CacheTTL string `yaml:"cacheTTL"`
	} `yaml:"quiz"`
	Exam struct {
		QuestionSeconds int    `yaml:"questionSeconds"`
		TickInterval    string `yaml:"tickInterval"`
	} `yaml:"exam"`
}

// Load reads YAML config from path. Secrets may come from the environment:
// AUTH_SECRET, POSTGRES_URL and RABBIT_URL override the file.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyEnv()
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverMemory
	}
	switch cfg.Storage.Driver {
	case DriverMemory, DriverPostgres, DriverSQLite:
	default:
		return cfg, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == DriverPostgres && cfg.Postgres.URL == "" {
		return cfg, fmt.Errorf("postgres url not configured")
	}
	if cfg.Exam.QuestionSeconds < 0 {
		return cfg, fmt.Errorf("exam.questionSeconds must not be negative")
	}
	// a zero interval would leave the countdown without a driver
	if raw := cfg.Exam.TickInterval; raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("exam.tickInterval: %w", err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("exam.tickInterval must be positive, got %s", raw)
		}
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("POSTGRES_URL"); v != "" {
		c.Postgres.URL = v
	}
	if v := os.Getenv("RABBIT_URL"); v != "" {
		c.Rabbit.URL = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
