package config

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Environment selects a preset API base URL.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

var baseURLPresets = map[Environment]string{
	EnvDevelopment: "http://localhost:8001",
	EnvStaging:     "https://staging.yourapi.com",
	EnvProduction:  "https://api.yourdomain.com",
}

// Config holds runtime settings for the dashgate CLI.
//
// Fields:
//   - Environment: development, staging or production; picks the default API URL.
//   - APIBaseURL: overrides the environment preset when set.
//   - RequestTimeout: per-request timeout of the HTTP transport.
//   - StoragePath: SQLite file the session token is persisted in.
//   - Ephemeral: keep the token in memory only.
//   - ClientID, ClientSecret, Scopes: optional OAuth2 client parameters sent
//     with the password grant.
//   - LogLevel, LogFormat, LogBackend: logging setup (see logging.Config).
type Config struct {
	Environment    Environment
	APIBaseURL     string
	RequestTimeout time.Duration
	StoragePath    string
	Ephemeral      bool

	ClientID     string
	ClientSecret string
	Scopes       []string

	LogLevel   string
	LogFormat  string
	LogBackend string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Environment = EnvDevelopment
	c.APIBaseURL = ""
	c.RequestTimeout = 10 * time.Second
	c.StoragePath = "session.db"
	c.Ephemeral = false
	c.LogLevel = "info"
	c.LogFormat = "console"
	c.LogBackend = "zap"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (.env included), JSON (if present) and command-line flags
// (if present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// BaseURL is APIBaseURL when set, the environment preset otherwise.
func (c *Config) BaseURL() string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	if u, ok := baseURLPresets[c.Environment]; ok {
		return u
	}
	return baseURLPresets[EnvDevelopment]
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment, validation.Required,
			validation.In(EnvDevelopment, EnvStaging, EnvProduction)),
		validation.Field(&c.APIBaseURL, is.URL),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(100*time.Millisecond)),
		validation.Field(&c.StoragePath, storagePathRules(c.Ephemeral)...),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In("console", "json")),
		validation.Field(&c.LogBackend, validation.In("zap", "slog")),
	)
}

// storagePathRules requires a path unless the token is kept in memory.
func storagePathRules(ephemeral bool) []validation.Rule {
	if ephemeral {
		return nil
	}
	return []validation.Rule{validation.Required}
}

func splitScopes(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}
