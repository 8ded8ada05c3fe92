package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testJWTSecret = "unit-test-secret-0123456789abcdef"

// writeConfig drops a YAML file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const minimalYAML = `
security:
  jwt:
    secret: "unit-test-secret-0123456789abcdef"
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Site.ID != "site-001" {
		t.Errorf("Site.ID = %q", cfg.Site.ID)
	}
	if cfg.Database.Path != "./data/atrio.db" || !cfg.Database.WALMode {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if cfg.MQTT.Broker.Host != "localhost" || cfg.MQTT.Broker.Port != 1883 || cfg.MQTT.QoS != 1 {
		t.Errorf("mqtt defaults = %+v", cfg.MQTT)
	}
	if cfg.Controller.BaseURL != "http://localhost:8123" {
		t.Errorf("Controller.BaseURL = %q", cfg.Controller.BaseURL)
	}
	if cfg.Control.ThrottleWindow != 300 {
		t.Errorf("Control.ThrottleWindow = %d", cfg.Control.ThrottleWindow)
	}
	if got, want := cfg.Control.RefreshSchedule, []int{200, 600, 1200}; len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("Control.RefreshSchedule = %v", got)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d", cfg.API.Port)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if cfg.InfluxDB.Enabled {
		t.Error("influxdb should be disabled by default")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
site:
  id: "torre-del-mar"
  name: "Torre del Mar"
database:
  path: "/var/lib/atrio/snapshots.db"
mqtt:
  broker:
    host: "broker.internal"
    port: 8883
    tls: true
  qos: 2
control:
  throttle_window: 500
  refresh_schedule: [100, 400]
security:
  jwt:
    secret: "unit-test-secret-0123456789abcdef"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Site.ID != "torre-del-mar" || cfg.Site.Name != "Torre del Mar" {
		t.Errorf("site = %+v", cfg.Site)
	}
	if cfg.Database.Path != "/var/lib/atrio/snapshots.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.MQTT.Broker.Host != "broker.internal" || cfg.MQTT.Broker.Port != 8883 || !cfg.MQTT.Broker.TLS {
		t.Errorf("broker = %+v", cfg.MQTT.Broker)
	}
	if cfg.MQTT.QoS != 2 {
		t.Errorf("MQTT.QoS = %d", cfg.MQTT.QoS)
	}
	if cfg.Control.ThrottleWindow != 500 || len(cfg.Control.RefreshSchedule) != 2 {
		t.Errorf("control = %+v", cfg.Control)
	}
	// Untouched sections keep their defaults.
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d", cfg.API.Port)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("ATRIO_DATABASE_PATH", "/tmp/env-override.db")
	t.Setenv("ATRIO_CONTROLLER_URL", "http://controller.env:8123")
	t.Setenv("ATRIO_CONTROLLER_TOKEN", "env-token")
	t.Setenv("ATRIO_JWT_SECRET", testJWTSecret)

	cfg, err := Load(writeConfig(t, `
database:
  path: "/var/lib/atrio/file.db"
controller:
  base_url: "http://controller.file:8123"
security:
  jwt:
    secret: "file-secret-that-is-long-enough-0"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Path != "/tmp/env-override.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Controller.BaseURL != "http://controller.env:8123" {
		t.Errorf("Controller.BaseURL = %q", cfg.Controller.BaseURL)
	}
	if cfg.Controller.Token != "env-token" {
		t.Errorf("Controller.Token = %q", cfg.Controller.Token)
	}
	if cfg.Security.JWT.Secret != testJWTSecret {
		t.Error("env JWT secret should win over file value")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "site: [unclosed")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Security.JWT.Secret = testJWTSecret
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing site id", func(c *Config) { c.Site.ID = "" }, "site.id"},
		{"missing database path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"qos too high", func(c *Config) { c.MQTT.QoS = 3 }, "mqtt.qos"},
		{"qos negative", func(c *Config) { c.MQTT.QoS = -1 }, "mqtt.qos"},
		{"missing controller url", func(c *Config) { c.Controller.BaseURL = "" }, "controller.base_url"},
		{"port out of range", func(c *Config) { c.API.Port = 70000 }, "api.port"},
		{"missing jwt secret", func(c *Config) { c.Security.JWT.Secret = "" }, "security.jwt.secret is required"},
		{"short jwt secret", func(c *Config) { c.Security.JWT.Secret = "too-short" }, "at least 32 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := defaultConfig()
	cfg.Site.ID = ""
	cfg.Database.Path = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"site.id", "database.path", "security.jwt.secret"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := defaultConfig()
	if cfg.GetReadTimeout() != 30*time.Second {
		t.Errorf("read timeout = %v", cfg.GetReadTimeout())
	}
	if cfg.GetIdleTimeout() != 60*time.Second {
		t.Errorf("idle timeout = %v", cfg.GetIdleTimeout())
	}
	if cfg.ControllerTimeout() != 15*time.Second {
		t.Errorf("controller timeout = %v", cfg.ControllerTimeout())
	}
}
