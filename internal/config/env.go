package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from environment variables. A .env
// file in the working directory is loaded first when present; real
// environment variables win over .env entries (godotenv never overrides
// variables that are already set).
//
// Recognized variables:
//
//	RIDEMATCH_API_URL        base REST URL (including /api)
//	RIDEMATCH_WS_URL         realtime websocket URL
//	RIDEMATCH_SESSION_DB     session database path
//	RIDEMATCH_POLL_INTERVAL  polling interval in seconds
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("RIDEMATCH_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("RIDEMATCH_WS_URL"); v != "" {
		cfg.RealtimeURL = v
	}
	if v := os.Getenv("RIDEMATCH_SESSION_DB"); v != "" {
		cfg.SessionDBPath = v
	}
	if v := os.Getenv("RIDEMATCH_POLL_INTERVAL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.PollInterval = time.Duration(secs) * time.Second
		}
	}
}
