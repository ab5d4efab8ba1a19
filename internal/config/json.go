package config

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/mindtrap/client/internal/flagx"
)

// duration lets JSON specify intervals either as strings like "3s" or as
// integer nanoseconds.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// jsonConfig is a DTO used exclusively for JSON unmarshalling; values are
// copied into the runtime Config afterwards.
type jsonConfig struct {
	BaseURL       string   `json:"base_url"`
	DatabaseDSN   string   `json:"database_dsn"`
	WatchInterval duration `json:"watch_interval"`
	HTTPTimeout   duration `json:"http_timeout"`
}

// parseJSON overlays cfg with values from the JSON file named by the
// -c/-config flag, if any. Fields absent from the file keep their current
// values. Read or unmarshal errors panic; the config layer runs before any
// recovery scaffolding exists.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return
	}
	parseJSONFile(cfg, path)
}

func parseJSONFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.WatchInterval.Duration != 0 {
		cfg.WatchInterval = jc.WatchInterval.Duration
	}
	if jc.HTTPTimeout.Duration != 0 {
		cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	}
}
