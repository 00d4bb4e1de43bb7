package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP struct {
		Bind string `yaml:"bind"`
		Port int    `yaml:"port"`
		TLS  struct {
			Enabled bool   `yaml:"enabled"`
			Cert    string `yaml:"cert"`
			Key     string `yaml:"key"`
		} `yaml:"tls"`
	} `yaml:"http"`
	Stream struct {
		IntervalMS int `yaml:"interval_ms"` // tick del productor SSE
	} `yaml:"stream"`
	MCP struct {
		HistoryLimit int `yaml:"history_limit"`
	} `yaml:"mcp"`
	Logging struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"logging"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

// Default returns the built-in configuration, used when no config file path
// is given.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.HTTP.Bind == "" {
		c.HTTP.Bind = "0.0.0.0"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.Stream.IntervalMS == 0 {
		c.Stream.IntervalMS = 2000
	}
	if c.MCP.HistoryLimit == 0 {
		c.MCP.HistoryLimit = 50
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// StreamInterval is the producer tick interval as a duration.
func (c *Config) StreamInterval() time.Duration {
	return time.Duration(c.Stream.IntervalMS) * time.Millisecond
}
