package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ridematch/client-go/internal/flagx"
	"github.com/ridematch/client-go/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL           string         `json:"api_base_url"`
	RealtimeURL          string         `json:"realtime_url"`
	SessionDBPath        string         `json:"session_db_path"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	ConnectTimeout       timex.Duration `json:"connect_timeout"`
	MaxReconnectAttempts int            `json:"max_reconnect_attempts"`
	PollInterval         timex.Duration `json:"poll_interval"`
	OnlineCheckInterval  timex.Duration `json:"online_check_interval"`
	TokenValidity        timex.Duration `json:"token_validity"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when absent, nothing is loaded.
// Zero-valued JSON fields leave the current Config value untouched, so a
// partial file only overrides what it names.
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

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RealtimeURL != "" {
		cfg.RealtimeURL = jc.RealtimeURL
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.ConnectTimeout.Duration > 0 {
		cfg.ConnectTimeout = time.Duration(jc.ConnectTimeout.Duration)
	}
	if jc.MaxReconnectAttempts > 0 {
		cfg.MaxReconnectAttempts = jc.MaxReconnectAttempts
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.TokenValidity.Duration > 0 {
		cfg.TokenValidity = time.Duration(jc.TokenValidity.Duration)
	}
}
