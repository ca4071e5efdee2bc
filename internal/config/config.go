package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries the runtime settings. Every field has a default that
// matches the plain no-argument invocation; the env keys exist for tests
// and for pointing at alternative OSM mirrors.
type Config struct {
	OutputDir    string
	NominatimURL string
	OverpassURL  string
	UserAgent    string
	HTTPTimeout  time.Duration
}

func Load() *Config {
	return &Config{
		OutputDir:    envOr("ROADS_OUTPUT_DIR", "output"),
		NominatimURL: envOr("ROADS_NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		OverpassURL:  envOr("ROADS_OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		UserAgent:    envOr("ROADS_USER_AGENT", "mxroads/1.0 (+https://github.com/mxroads)"),
		HTTPTimeout:  time.Duration(envInt("ROADS_HTTP_TIMEOUT_SEC", 300)) * time.Second,
	}
}

func envOr(key, fallback string) string {
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
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
