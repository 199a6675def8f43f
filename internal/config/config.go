// Package config provides runtime settings for the RideMatch client.
//
// Values are layered: built-in defaults, then environment variables
// (optionally loaded from a .env file), then a JSON config file, then
// command-line flags. Later sources take precedence over earlier ones.
package config

import "time"

// Config holds runtime settings for the RideMatch client.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API, including the /api path.
//   - RealtimeURL: websocket URL of the realtime messaging channel.
//   - SessionDBPath: path of the local SQLite file holding session state.
//   - RequestTimeout: per-request HTTP timeout.
//   - ConnectTimeout: realtime connect/handshake timeout.
//   - MaxReconnectAttempts: bound on realtime connection attempts.
//   - PollInterval: message re-fetch interval while the channel is down.
//   - OnlineCheckInterval: how often the CLI probes backend reachability.
//   - TokenValidity: local expiration window applied to the access token,
//     measured from its issuance timestamp.
type Config struct {
	APIBaseURL           string
	RealtimeURL          string
	SessionDBPath        string
	RequestTimeout       time.Duration
	ConnectTimeout       time.Duration
	MaxReconnectAttempts int
	PollInterval         time.Duration
	OnlineCheckInterval  time.Duration
	TokenValidity        time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:5000/api"
	c.RealtimeURL = "ws://127.0.0.1:5000/ws"
	c.SessionDBPath = "ridematch.db"
	c.RequestTimeout = 10 * time.Second
	c.ConnectTimeout = 10 * time.Second
	c.MaxReconnectAttempts = 5
	c.PollInterval = 3 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.TokenValidity = 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
