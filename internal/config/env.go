package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnvFiles loads .env/.env.local into the process environment before the
// config file is read. Existing variables are never overwritten; a missing
// file is not an error.
func LoadEnvFiles() {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

// applyEnvOverrides applies HUNTBOARD_* environment variables on top of the
// file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HUNTBOARD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HUNTBOARD_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("HUNTBOARD_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("HUNTBOARD_SUBMIT_ENDPOINT"); v != "" {
		cfg.Submission.Endpoint = v
	}
	if v := os.Getenv("HUNTBOARD_PHOTO_QUALITY"); v != "" {
		if q, err := strconv.Atoi(v); err == nil {
			cfg.Photo.Quality = q
		}
	}
	if v := os.Getenv("HUNTBOARD_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HUNTBOARD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HUNTBOARD_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
