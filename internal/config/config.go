// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Env holds the configuration values for the application.
type Env struct {
	// Backend API.
	BackendBaseURL string
	APIKey         string

	// Console server.
	ListenAddr string
	ConsoleKey string // empty disables console auth (dev bypass)

	// Polling.
	PollInterval time.Duration
	PageLimit    int

	// Hidden-key store: "leveldb", "dynamo" or "memory".
	HiddenStore string
	HiddenPath  string
	Region      string
	Table       string
}

// MustLoad reads the environment variables and returns an Env struct.
func MustLoad() Env {
	pollMs, _ := strconv.Atoi(get("POLL_INTERVAL_MS", "2000"))
	limit, _ := strconv.Atoi(get("PAGE_LIMIT", "50"))
	e := Env{
		BackendBaseURL: must("API_BASE_URL"),
		APIKey:         must("API_KEY"),
		ListenAddr:     get("LISTEN_ADDR", ":8080"),
		ConsoleKey:     get("CONSOLE_KEY", ""),
		PollInterval:   time.Duration(pollMs) * time.Millisecond,
		PageLimit:      limit,
		HiddenStore:    get("HIDDEN_STORE", "leveldb"),
		HiddenPath:     get("HIDDEN_DB_PATH", "data/hidden"),
		Region:         get("AWS_REGION", "us-east-1"),
		Table:          get("DDB_TABLE", ""),
	}
	return e
}

// get returns the value of the environment variable k or def if not set.
func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// must returns the value of the environment variable k or panics if not set.
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic(fmt.Errorf("missing env %s", k))
	}
	return v
}
