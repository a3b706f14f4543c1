// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the binaries need to start.
type Config struct {
	// GeminiAPIKey authenticates against the Gemini API. Read from
	// GEMINI_API_KEY, falling back to GOOGLE_API_KEY.
	GeminiAPIKey string

	// Addr is the HTTP listen address.
	Addr string

	// DatabaseURL selects the persistent store. Empty means the in-memory
	// store.
	DatabaseURL string

	// Latitude and Longitude bias maps grounding when both are set.
	Latitude   float64
	Longitude  float64
	HasLatLong bool
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		Addr:         getEnv("LOCALSOUL_ADDR", ":8080"),
		DatabaseURL:  getEnv("LOCALSOUL_DATABASE_URL", ""),
	}

	lat, latSet, err := getFloatEnv("LOCALSOUL_LAT")
	if err != nil {
		return Config{}, err
	}
	lon, lonSet, err := getFloatEnv("LOCALSOUL_LON")
	if err != nil {
		return Config{}, err
	}
	if latSet != lonSet {
		return Config{}, fmt.Errorf("config: LOCALSOUL_LAT and LOCALSOUL_LON must be set together")
	}
	if latSet {
		cfg.Latitude = lat
		cfg.Longitude = lon
		cfg.HasLatLong = true
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloatEnv(key string) (float64, bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, true, nil
}
