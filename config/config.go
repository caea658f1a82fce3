// Package config loads the watcher configuration from a YAML file and
// applies defaults. Command-line flags in main override loaded values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Watcher WatcherConfig `yaml:"watcher"`
	Privacy PrivacyConfig `yaml:"privacy"`
	Debug   bool          `yaml:"debug"`
}

type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type WatcherConfig struct {
	PollIntervalMs int `yaml:"poll_interval_ms"`
}

type PrivacyConfig struct {
	ExcludeTitle          bool     `yaml:"exclude_title"`
	ExcludeTitleProcesses []string `yaml:"exclude_title_processes"`
	IncludeTitleProcesses []string `yaml:"include_title_processes"`
}

// Load reads the config file at path. A missing file is not an error:
// the watcher can run entirely from defaults and flag overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5600
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 30
	}
	if c.Watcher.PollIntervalMs == 0 {
		c.Watcher.PollIntervalMs = 5000
	}
}

// Validate rejects values the poll loop cannot run with.
func (c *Config) Validate() error {
	if c.Watcher.PollIntervalMs <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %d", c.Watcher.PollIntervalMs)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	return nil
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Watcher.PollIntervalMs) * time.Millisecond
}

// ServerURL returns the base URL of the ActivityWatch server.
func (c *Config) ServerURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}
