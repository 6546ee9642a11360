package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	MQTT     MQTTConfig     `yaml:"mqtt,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
}

// ServerConfig holds the HTTP API configuration
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"` // e.g., ":8080"
}

// MQTTConfig holds the broker connection for publishing map values
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // e.g., "localhost:1883"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default: "curbscope"
	ClientID    string `yaml:"client_id,omitempty"`    // default: "curbscope"
}

// DefaultsConfig holds the aggregation defaults applied when a request or
// command leaves them unset
type DefaultsConfig struct {
	Granularity string `yaml:"granularity,omitempty"` // default: "daily"
	Statistic   string `yaml:"statistic,omitempty"`   // default: "average"
	Metric      string `yaml:"metric,omitempty"`      // default: "occupancy"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetAddr returns the HTTP listen address with a default of :8080
func (c *Config) GetAddr() string {
	if c.Server.Addr == "" {
		return ":8080"
	}
	return c.Server.Addr
}

// GetTopicPrefix returns the MQTT topic prefix with a default of "curbscope"
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "curbscope"
	}
	return c.MQTT.TopicPrefix
}

// GetClientID returns the MQTT client ID with a default of "curbscope"
func (c *Config) GetClientID() string {
	if c.MQTT.ClientID == "" {
		return "curbscope"
	}
	return c.MQTT.ClientID
}

// GetGranularity returns the default aggregation granularity
func (c *Config) GetGranularity() string {
	if c.Defaults.Granularity == "" {
		return "daily"
	}
	return c.Defaults.Granularity
}

// GetStatistic returns the default statistic kind
func (c *Config) GetStatistic() string {
	if c.Defaults.Statistic == "" {
		return "average"
	}
	return c.Defaults.Statistic
}

// GetMetric returns the default metric
func (c *Config) GetMetric() string {
	if c.Defaults.Metric == "" {
		return "occupancy"
	}
	return c.Defaults.Metric
}
