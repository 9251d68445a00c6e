package config

import (
	"encoding/json"
	"os"

	"github.com/eventops/confctl/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After parsing,
// values are copied into the runtime Config.
type JsonConfig struct {
	Env          string            `json:"env"`
	BaseURL      string            `json:"base_url"`
	Environments map[string]string `json:"environments"`
	Debug        *bool             `json:"debug"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JSONConfigFlag.
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies set fields into the provided Config; environments from the file
//     are merged over the defaults, not replacing them.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlag()
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

	if jc.Env != "" {
		cfg.Env = jc.Env
	}
	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	for name, url := range jc.Environments {
		cfg.Environments[name] = url
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
}
