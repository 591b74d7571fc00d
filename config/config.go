// Package config holds the runtime configuration of the assistant. Every
// config struct ships with defaults and can be overridden from the
// environment; `.env` files are loaded by the CLI entrypoint before any
// config is constructed.
package config

import (
	"os"
	"strconv"
)

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
