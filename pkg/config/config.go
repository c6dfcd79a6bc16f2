// Package config loads the settings the CLI's entry point needs to decide
// how to construct the engine and its collaborators: arena size, worker
// count, cache location, and the HTTP listen address. None of this
// crosses into pkg/engine itself — per the design, the engine's own
// surface accepts only plain (arenaSize, threadCount int) arguments.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/MBatuhanOzer/filter/pkg/errors"
	"github.com/MBatuhanOzer/filter/pkg/logger"
)

// Config holds the resolved settings for one CLI invocation.
type Config struct {
	ArenaSize  int
	Threads    int
	CacheDir   string
	CacheTTL   time.Duration
	ListenAddr string
}

// Load reads envFile (if non-empty, falling back to a best-effort ".env"
// load otherwise) and layers environment variables over built-in
// defaults. CLI flags are layered over the result by the caller, since
// cobra owns flag parsing.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.Wrapf(err, errors.ConfigError, "failed to load config file %s", envFile)
		}
	} else if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file found, using environment and defaults")
	}

	cfg := &Config{
		ArenaSize:  envInt("IMGFILTER_ARENA_SIZE", 0),
		Threads:    envInt("IMGFILTER_THREADS", 0),
		CacheDir:   envString("IMGFILTER_CACHE_DIR", ".cache/imgfilter"),
		CacheTTL:   envDuration("IMGFILTER_CACHE_TTL", 7*24*time.Hour),
		ListenAddr: envString("IMGFILTER_LISTEN_ADDR", ":8080"),
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warnf("invalid integer for %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warnf("invalid duration for %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
