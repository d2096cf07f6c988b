// Package config loads server configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Config is the full server configuration. Precedence is defaults, then the
// YAML file, then environment variables.
type Config struct {
	Addr      string `yaml:"addr" env:"MCP_MOCK_ADDR"`
	LogLevel  string `yaml:"logLevel" env:"MCP_MOCK_LOG_LEVEL"`
	LogFormat string `yaml:"logFormat" env:"MCP_MOCK_LOG_FORMAT"`

	SessionTTL    time.Duration `yaml:"sessionTTL" env:"MCP_MOCK_SESSION_TTL"`
	SweepInterval time.Duration `yaml:"sweepInterval" env:"MCP_MOCK_SWEEP_INTERVAL"`

	HeartbeatInterval time.Duration `yaml:"heartbeatInterval" env:"MCP_MOCK_HEARTBEAT_INTERVAL"`
	HeartbeatTimeout  time.Duration `yaml:"heartbeatTimeout" env:"MCP_MOCK_HEARTBEAT_TIMEOUT"`

	OAuthIssuer string `yaml:"oauthIssuer" env:"MCP_MOCK_OAUTH_ISSUER"`
	SigningKey  string `yaml:"signingKey" env:"MCP_MOCK_SIGNING_KEY"`
	APIKey      string `yaml:"apiKey" env:"MCP_MOCK_API_KEY"`

	FixturesPath string `yaml:"fixtures" env:"MCP_MOCK_FIXTURES"`

	ShutdownGrace time.Duration `yaml:"shutdownGrace" env:"MCP_MOCK_SHUTDOWN_GRACE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:              ":8080",
		LogLevel:          "info",
		LogFormat:         "text",
		SessionTTL:        24 * time.Hour,
		SweepInterval:     time.Hour,
		HeartbeatInterval: 30 * time.Second,
		HeartbeatTimeout:  120 * time.Second,
		OAuthIssuer:       "mediamath-mcp-mock",
		SigningKey:        "dev-signing-key-change-me",
		APIKey:            "hypermindz-dev-key",
		ShutdownGrace:     10 * time.Second,
	}
}

// Load builds the configuration. path may be empty to skip the file stage.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// envdecode errors when no env var matched anything; with the file and
	// defaults already in place that is not a failure.
	_ = envdecode.Decode(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New("config: addr must not be empty")
	}
	if c.SigningKey == "" {
		return errors.New("config: signingKey must not be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: sessionTTL must be positive")
	}
	if c.HeartbeatInterval <= 0 || c.HeartbeatTimeout <= 0 {
		return errors.New("config: heartbeat interval and timeout must be positive")
	}
	return nil
}
