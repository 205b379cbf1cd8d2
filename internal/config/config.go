// Package config loads pie's environment-driven configuration,
// grounded on the teacher's internal/config.LoadConfig: a best-effort
// .env load followed by prefixed environment variables over sane
// defaults.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds settings that apply across every pie subcommand.
type Config struct {
	Debug                bool
	TraceDB              string
	TraceDSN             string
	DebuggerAutoContinue bool
}

// Load loads a .env file if present (errors ignored, exactly like
// db/sqlite_integration_test.go's godotenv.Load() call) then reads
// PIE_*-prefixed environment variables over these defaults.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	if v := os.Getenv("PIE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	cfg.TraceDB = os.Getenv("PIE_TRACE_DB")
	cfg.TraceDSN = os.Getenv("PIE_TRACE_DSN")
	if v := os.Getenv("PIE_DEBUGGER_AUTO_CONTINUE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DebuggerAutoContinue = b
		}
	}

	return cfg
}
