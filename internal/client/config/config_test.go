package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, EnvDevelopment, c.Environment)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "session.db", c.StoragePath)
	assert.False(t, c.Ephemeral)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "http://localhost:8001", c.BaseURL())
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv("DASHGATE_ENV", "staging")
	t.Setenv("DASHGATE_STORAGE_PATH", "from-env.db")
	t.Setenv("DASHGATE_LOG_LEVEL", "warn")

	path := writeTempJSON(t, "", "", map[string]any{
		"storage_path": "from-json.db",
		"log_level":    "debug",
	})
	os.Args = []string{"testbin", "-c", path, "-l", "error"}

	cfg := LoadConfig()

	assert.Equal(t, EnvStaging, cfg.Environment, "env only")
	assert.Equal(t, "from-json.db", cfg.StoragePath, "json over env")
	assert.Equal(t, "error", cfg.LogLevel, "flags over json")
	assert.Equal(t, "https://staging.yourapi.com", cfg.BaseURL())
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		env      Environment
		override string
		want     string
	}{
		{EnvDevelopment, "", "http://localhost:8001"},
		{EnvStaging, "", "https://staging.yourapi.com"},
		{EnvProduction, "", "https://api.yourdomain.com"},
		{"unknown", "", "http://localhost:8001"},
		{EnvProduction, "http://127.0.0.1:9000/", "http://127.0.0.1:9000"},
	}
	for _, tt := range tests {
		t.Run(string(tt.env)+tt.override, func(t *testing.T) {
			c := Config{Environment: tt.env, APIBaseURL: tt.override}
			assert.Equal(t, tt.want, c.BaseURL())
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name    string
		mut     func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown environment", func(c *Config) { c.Environment = "qa" }, true},
		{"bad url", func(c *Config) { c.APIBaseURL = "not a url" }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"tiny timeout", func(c *Config) { c.RequestTimeout = time.Millisecond }, true},
		{"no storage path", func(c *Config) { c.StoragePath = "" }, true},
		{"no storage path when ephemeral", func(c *Config) { c.StoragePath = ""; c.Ephemeral = true }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad backend", func(c *Config) { c.LogBackend = "logrus" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mut(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}

func TestSplitScopes(t *testing.T) {
	assert.Equal(t, []string{"me", "admin"}, splitScopes("me,admin"))
	assert.Equal(t, []string{"me", "admin"}, splitScopes(" me  admin "))
	assert.Empty(t, splitScopes(""))
}
