package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/musaed-ai/musaed/pkg/models"
	"gopkg.in/yaml.v3"
)

// Config holds all musaed configuration.
type Config struct {
	Listen    string          `yaml:"listen"`
	Log       LogConfig       `yaml:"log"`
	Cache     CacheConfig     `yaml:"cache"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Code      CodeConfig      `yaml:"code"`
	History   HistoryConfig   `yaml:"history"`
	Server    ServerConfig    `yaml:"server"`
	DNS       DNSConfig       `yaml:"dns"`
}

// LogConfig controls the zerolog output.
// Level is debug, info, warn or error. Format is json or console.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// CacheConfig bounds the response cache. Zero values mean unbounded.
type CacheConfig struct {
	MaxEntries int           `yaml:"max_entries"`
	TTL        time.Duration `yaml:"ttl"`
}

// KnowledgeConfig lists phrases appended after the built-in seeds.
type KnowledgeConfig struct {
	Entries []models.KnowledgeEntry `yaml:"entries"`
}

// CodeConfig controls the simulated code assistant.
type CodeConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// HistoryConfig controls the transcript log.
type HistoryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DBPath        string `yaml:"db_path"`
	RetentionDays int    `yaml:"retention_days"`
	MaxBodySize   int    `yaml:"max_body_size"` // bytes
}

// ServerConfig controls the HTTP front-end.
// RateLimit is requests per second per client; 0 disables limiting.
type ServerConfig struct {
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// DNSConfig controls the DNS TXT front-end.
type DNSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Zone    string `yaml:"zone"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen: ":8080",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Code: CodeConfig{
			Delay: 1500 * time.Millisecond,
		},
		History: HistoryConfig{
			Enabled:       false,
			DBPath:        "musaed.db",
			RetentionDays: 30,
			MaxBodySize:   4096,
		},
		Server: ServerConfig{
			RateLimit: 5,
			Burst:     10,
		},
		DNS: DNSConfig{
			Enabled: false,
			Listen:  ":5353",
			Zone:    "musaed.local.",
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Code.Delay < 0 {
		return fmt.Errorf("code.delay must not be negative")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("server.burst must be at least 1 when rate limiting")
	}
	for i, e := range c.Knowledge.Entries {
		if e.Phrase == "" || e.Answer == "" {
			return fmt.Errorf("knowledge.entries[%d]: phrase and answer are required", i)
		}
	}
	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path is required when history is enabled")
	}
	if c.DNS.Enabled && c.DNS.Zone == "" {
		return fmt.Errorf("dns.zone is required when dns is enabled")
	}
	return nil
}
