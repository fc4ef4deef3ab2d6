package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
	Restaurant RestaurantConfig `yaml:"restaurant"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	// Driver selects the record store: "memory" (default) or "postgres".
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type RestaurantConfig struct {
	Timezone               string `yaml:"timezone"`
	OpenHour               int    `yaml:"open_hour"`
	CloseHour              int    `yaml:"close_hour"`
	SlotGranularityMinutes int    `yaml:"slot_granularity_minutes"`
	DefaultDurationMinutes int    `yaml:"default_duration_minutes"`
	CleaningGraceMinutes   int    `yaml:"cleaning_grace_minutes"`
	LockTTLSeconds         int    `yaml:"lock_ttl_seconds"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with every field at its default; used by tests and
// by the memory driver when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3000
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Restaurant.Timezone == "" {
		c.Restaurant.Timezone = "UTC"
	}
	if c.Restaurant.OpenHour == 0 {
		c.Restaurant.OpenHour = 11
	}
	if c.Restaurant.CloseHour == 0 {
		c.Restaurant.CloseHour = 22
	}
	if c.Restaurant.SlotGranularityMinutes == 0 {
		c.Restaurant.SlotGranularityMinutes = 30
	}
	if c.Restaurant.DefaultDurationMinutes == 0 {
		c.Restaurant.DefaultDurationMinutes = 90
	}
	if c.Restaurant.CleaningGraceMinutes == 0 {
		c.Restaurant.CleaningGraceMinutes = 10
	}
	if c.Restaurant.LockTTLSeconds == 0 {
		c.Restaurant.LockTTLSeconds = 30
	}
}

func (c RestaurantConfig) SlotGranularity() time.Duration {
	return time.Duration(c.SlotGranularityMinutes) * time.Minute
}

func (c RestaurantConfig) DefaultDuration() time.Duration {
	return time.Duration(c.DefaultDurationMinutes) * time.Minute
}

func (c RestaurantConfig) CleaningGrace() time.Duration {
	return time.Duration(c.CleaningGraceMinutes) * time.Minute
}

func (c RestaurantConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}
