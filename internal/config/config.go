package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the commands need at construction time.
// Components never read the environment themselves.
type Config struct {
	ListenAddr string

	// Storage. DatabaseURL selects the Postgres backend; when empty the
	// file-backed SQLite store at SQLitePath is used instead.
	DatabaseURL string
	SQLitePath  string

	// LINE messaging credentials. The access token may be empty, in which
	// case push delivery is disabled (logged once at startup).
	LineChannelAccessToken string
	LineChannelSecret      string

	// Polling cadence.
	ProbeDelay   time.Duration // pause between successive probes within a pass
	PassInterval time.Duration // pause between whole passes in loop mode

	// Upstream base URL, overridable for tests or a proxy.
	InlineBaseURL string
}

func FromEnv() (Config, error) {
	// Best effort: a missing .env file is fine.
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:             getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		SQLitePath:             getenv("SQLITE_PATH", "waitlist.db"),
		LineChannelAccessToken: os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		LineChannelSecret:      os.Getenv("LINE_CHANNEL_SECRET"),
		InlineBaseURL:          getenv("INLINE_BASE_URL", "https://inline.app"),
	}

	probeSec, err := strconv.Atoi(getenv("PROBE_INTERVAL_SECONDS", "30"))
	if err != nil || probeSec < 0 {
		return Config{}, fmt.Errorf("invalid PROBE_INTERVAL_SECONDS")
	}
	cfg.ProbeDelay = time.Duration(probeSec) * time.Second

	passSec, err := strconv.Atoi(getenv("PASS_INTERVAL_SECONDS", "60"))
	if err != nil || passSec < 1 {
		return Config{}, fmt.Errorf("invalid PASS_INTERVAL_SECONDS")
	}
	cfg.PassInterval = time.Duration(passSec) * time.Second

	return cfg, nil
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
