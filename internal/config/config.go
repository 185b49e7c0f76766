// Package config loads application settings from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings for the Mudra pipeline.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// StaticDir is the directory served at / (empty disables it).
	StaticDir string

	// MaxDevices is how many capture indices enumeration probes.
	MaxDevices int

	// PoolSize is the number of pose model instances.
	PoolSize int

	// MinInterval is the minimum time between inference work units.
	MinInterval time.Duration

	// Stream settings applied when acquiring cameras.
	FrameWidth  int
	FrameHeight int
	FrameRate   int
}

// Load reads configuration from the environment, after loading an optional
// .env file. Missing or unparseable values fall back to defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	return Config{
		Addr:        envString("MUDRA_ADDR", ":8080"),
		StaticDir:   envString("MUDRA_STATIC_DIR", ""),
		MaxDevices:  envInt("MUDRA_MAX_DEVICES", 5),
		PoolSize:    envInt("MUDRA_POOL_SIZE", 3),
		MinInterval: envDuration("MUDRA_MIN_INTERVAL", 100*time.Millisecond),
		FrameWidth:  envInt("MUDRA_FRAME_WIDTH", 640),
		FrameHeight: envInt("MUDRA_FRAME_HEIGHT", 480),
		FrameRate:   envInt("MUDRA_FRAME_RATE", 15),
	}
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
		log.Printf("Invalid value for %s: %q", key, v)
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
		log.Printf("Invalid value for %s: %q", key, v)
		return fallback
	}
	return d
}
