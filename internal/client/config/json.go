package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dashgate/internal/flagx"
	"github.com/dmitrijs2005/dashgate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "5s" or as integer nanoseconds. Pointer fields distinguish
// "absent" from "set to the zero value".
type JsonConfig struct {
	Environment    *string         `json:"environment"`
	APIBaseURL     *string         `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StoragePath    *string         `json:"storage_path"`
	Ephemeral      *bool           `json:"ephemeral"`
	ClientID       *string         `json:"client_id"`
	ClientSecret   *string         `json:"client_secret"`
	Scopes         []string        `json:"scopes"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
	LogBackend     *string         `json:"log_backend"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flag; without one nothing is
// loaded. Only keys present in the file are applied. Panics on read or
// unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> env -> parseJson -> parseFlags, where later
// stages override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Environment != nil {
		cfg.Environment = Environment(*jc.Environment)
	}
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.StoragePath, jc.StoragePath)
	if jc.Ephemeral != nil {
		cfg.Ephemeral = *jc.Ephemeral
	}
	setString(&cfg.ClientID, jc.ClientID)
	setString(&cfg.ClientSecret, jc.ClientSecret)
	if jc.Scopes != nil {
		cfg.Scopes = jc.Scopes
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogBackend, jc.LogBackend)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
