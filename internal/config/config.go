package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBURL         string `yaml:"db_url"`
	HTTPAddr      string `yaml:"http_addr"`
	DBMaxOpen     int    `yaml:"db_max_open"`
	DBMaxIdle     int    `yaml:"db_max_idle"`
	DBConnMaxLife int    `yaml:"db_conn_max_lifetime"` // seconds
	DBTimeoutMS   int    `yaml:"db_timeout_ms"`
	// Timezone names the wall clock window boundaries align to.
	Timezone string `yaml:"timezone"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	Location *time.Location `yaml:"-"`
}

func Default() *Config {
	return &Config{
		HTTPAddr:      ":8080",
		DBMaxOpen:     10,
		DBMaxIdle:     5,
		DBConnMaxLife: 1800,
		DBTimeoutMS:   2000,
		Timezone:      "UTC",
		LogLevel:      "info",
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

// Parse builds the configuration from defaults, the optional YAML file named by
// AIRLOG_CONFIG, then AIRLOG_* environment variables, in that order.
func Parse() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("AIRLOG_CONFIG"); path != "" {
		if err := cfg.load(path); err != nil {
			return nil, err
		}
	}
	cfg.DBURL = getenv("AIRLOG_DB_URL", cfg.DBURL)
	cfg.HTTPAddr = getenv("AIRLOG_HTTP_ADDR", cfg.HTTPAddr)
	cfg.Timezone = getenv("AIRLOG_TIMEZONE", cfg.Timezone)
	cfg.LogLevel = getenv("AIRLOG_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getenv("AIRLOG_LOG_FILE", cfg.LogFile)

	ints := []struct {
		key string
		dst *int
	}{
		{"AIRLOG_DB_MAX_OPEN", &cfg.DBMaxOpen},
		{"AIRLOG_DB_MAX_IDLE", &cfg.DBMaxIdle},
		{"AIRLOG_DB_CONN_MAX_LIFETIME", &cfg.DBConnMaxLife},
		{"AIRLOG_DB_TIMEOUT_MS", &cfg.DBTimeoutMS},
	}
	for _, it := range ints {
		n, err := getenvInt(it.key, *it.dst)
		if err != nil {
			return nil, err
		}
		*it.dst = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks required fields and resolves Location from Timezone.
func (c *Config) Validate() error {
	if c.DBURL == "" {
		return errors.New("AIRLOG_DB_URL is required")
	}
	if c.DBTimeoutMS <= 0 {
		return errors.New("AIRLOG_DB_TIMEOUT_MS must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("AIRLOG_LOG_LEVEL: unknown level %q", c.LogLevel)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("AIRLOG_TIMEZONE: %w", err)
	}
	c.Location = loc
	return nil
}

func (c *Config) DBTimeout() time.Duration {
	return time.Duration(c.DBTimeoutMS) * time.Millisecond
}
