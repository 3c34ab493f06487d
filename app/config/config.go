package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the app reads from the environment. The record
// store location is injected here rather than hardwired anywhere, so tests
// and deployments can point the app at a different store.
type Config struct {
	ListenAddr     string
	GatewayBaseURL string
	GatewayTimeout time.Duration
	LogLevel       string
}

// Load reads .env if present, then the environment. GATEWAY_BASE_URL is
// required; everything else has a sensible default.
func Load() (*Config, error) {
	// A missing .env is fine in deployed environments.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":3000"),
		GatewayBaseURL: os.Getenv("GATEWAY_BASE_URL"),
		GatewayTimeout: 10 * time.Second,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
	if cfg.GatewayBaseURL == "" {
		return nil, errors.New("GATEWAY_BASE_URL is not set")
	}

	if raw := os.Getenv("GATEWAY_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT_SECONDS %q", raw)
		}
		cfg.GatewayTimeout = time.Duration(secs) * time.Second
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
