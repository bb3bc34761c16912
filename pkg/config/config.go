// Package config provides configuration structures and loading logic for the relay.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort       = 8080
	defaultSMSBaseURL = "https://rest.smsportal.com"
)

// Config holds the global configuration for the relay process.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstreams UpstreamConfig  `yaml:"upstreams"`
	Secrets   SecretsConfig   `yaml:"secrets"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// Address returns the listen address in host:port form.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UpstreamConfig holds the vendor base URLs. The background-check SOAP URL
// arrives per request, so only the SMS vendor has a configured base.
type UpstreamConfig struct {
	SMSBaseURL string `yaml:"sms_base_url"`
	SenderID   string `yaml:"sms_sender_id"`
}

// SecretsConfig holds extra candidate paths for the local secrets file.
type SecretsConfig struct {
	Paths []string `yaml:"paths"`
}

// LoggingConfig holds configuration for logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// TelemetryConfig holds configuration for OpenTelemetry tracing.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
}

// Load reads configuration from an optional file and applies environment
// variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: defaultPort,
			Host: "127.0.0.1",
		},
		Upstreams: UpstreamConfig{
			SMSBaseURL: defaultSMSBaseURL,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	if path != "" {
		//nolint:gosec // Config file path is controlled by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}

	// Hosted deployments must bind all interfaces; local runs stay loopback.
	if os.Getenv("RENDER") != "" {
		cfg.Server.Host = "0.0.0.0"
	}

	if val := os.Getenv("RELAY_SMS_BASE_URL"); val != "" {
		cfg.Upstreams.SMSBaseURL = val
	}
	if val := os.Getenv("RELAY_SMS_SENDER_ID"); val != "" {
		cfg.Upstreams.SenderID = val
	}

	if val := os.Getenv("RELAY_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("RELAY_LOG_PRETTY"); val == "true" {
		cfg.Logging.Pretty = true
	}

	if val := os.Getenv("RELAY_OTLP_ENDPOINT"); val != "" {
		cfg.Telemetry.OTLPEndpoint = val
	}
	if val := os.Getenv("RELAY_OTLP_INSECURE"); val == "true" {
		cfg.Telemetry.Insecure = true
	}
}

// Validate performs validation of the entire configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server configuration: %w", err)
	}

	if err := c.Upstreams.Validate(); err != nil {
		return fmt.Errorf("upstream configuration: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging configuration: %w", err)
	}

	return nil
}

// Validate performs validation of server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if strings.TrimSpace(c.Host) == "" {
		c.Host = "127.0.0.1"
	}
	return nil
}

// Validate performs validation of upstream configuration.
func (c *UpstreamConfig) Validate() error {
	if strings.TrimSpace(c.SMSBaseURL) == "" {
		c.SMSBaseURL = defaultSMSBaseURL
	}
	c.SMSBaseURL = strings.TrimRight(c.SMSBaseURL, "/")
	return nil
}

// Validate performs validation of logging configuration.
func (c *LoggingConfig) Validate() error {
	if strings.TrimSpace(c.Level) == "" {
		c.Level = "info"
	}

	level := strings.TrimSpace(strings.ToLower(c.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Level = level
		return nil
	default:
		return fmt.Errorf("invalid log level %q, supported levels: debug, info, warn, error", c.Level)
	}
}
