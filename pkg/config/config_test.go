package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "RENDER",
		"RELAY_SMS_BASE_URL", "RELAY_SMS_SENDER_ID",
		"RELAY_LOG_LEVEL", "RELAY_LOG_PRETTY",
		"RELAY_OTLP_ENDPOINT", "RELAY_OTLP_INSECURE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnvOverrides(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Address())
	assert.Equal(t, "https://rest.smsportal.com", cfg.Upstreams.SMSBaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromFile(t *testing.T) {
	clearEnvOverrides(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
  host: 0.0.0.0
upstreams:
  sms_base_url: https://sms.example.com/
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "https://sms.example.com", cfg.Upstreams.SMSBaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	clearEnvOverrides(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_PortEnvOverride(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("PORT", "3500")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3500, cfg.Server.Port)
}

func TestLoad_InvalidPortEnvIgnored(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("PORT", "not-a-port")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_RenderBindsAllInterfaces(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("RENDER", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_SMSBaseURLOverride(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("RELAY_SMS_BASE_URL", "https://sandbox.example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://sandbox.example.com", cfg.Upstreams.SMSBaseURL)
}

func TestLoad_InvalidLogLevelErrors(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("RELAY_LOG_LEVEL", "verbose")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate_PortBounds(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: 70000, Host: "127.0.0.1"},
		Upstreams: UpstreamConfig{SMSBaseURL: "https://rest.smsportal.com"},
		Logging:   LoggingConfig{Level: "info"},
	}

	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 8080
	assert.NoError(t, cfg.Validate())
}

func TestValidate_LogLevelNormalized(t *testing.T) {
	lc := LoggingConfig{Level: " INFO "}
	require.NoError(t, lc.Validate())
	assert.Equal(t, "info", lc.Level)
}
