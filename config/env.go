package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

var (
	// set with -ldflags "-X lottie-catalog/config.embeddedBaseURL=..."
	embeddedBaseURL string
)

// ApplyEnv loads envFile (if present) and overrides cfg from the environment.
// ENV=production selects LOTTIE_BASE_URL_PROD, otherwise LOTTIE_BASE_URL_DEV.
func ApplyEnv(cfg *Config, envFile string) error {
	if embeddedBaseURL != "" {
		cfg.BaseURL = embeddedBaseURL
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	key := "LOTTIE_BASE_URL_DEV"
	if os.Getenv("ENV") == "production" {
		key = "LOTTIE_BASE_URL_PROD"
	}
	if url := os.Getenv(key); url != "" {
		cfg.BaseURL = url
	}
	if url := os.Getenv("LOTTIE_MQTT_URL"); url != "" {
		cfg.MQTT.URL = url
	}
	return nil
}
