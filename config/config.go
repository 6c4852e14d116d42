package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	ConfigFilePath = filepath.Join(homeDir, ".lottie-catalog", "config.yml")
}

// ConfigFilePath is the default location of the config file
var ConfigFilePath string

const (
	DefaultBaseURL              = "https://api.example.com"
	DefaultRequestTimeout       = 15 * time.Second
	DefaultProgressStepInterval = 100 * time.Millisecond
	DefaultTracesDir            = "~/.lottie-catalog/traces"
	DefaultPayloadDir           = "~/.lottie-catalog/animations"
	DefaultMQTTTopic            = "lottie-catalog/state"
	DefaultMQTTClientID         = "lottie-catalog"
)

// Config represents the application configuration
type Config struct {
	BaseURL              string          `yaml:"base_url"`
	RequestTimeout       time.Duration   `yaml:"request_timeout"`
	ProgressStepInterval time.Duration   `yaml:"progress_step_interval"`
	PayloadDir           string          `yaml:"payload_dir"`
	Tracing              TracingConfig   `yaml:"tracing"`
	MQTT                 MQTTConfig      `yaml:"mqtt"`
	DownloadedAnimations map[string]bool `yaml:"downloaded_animations"`
	LastUpdated          time.Time       `yaml:"last_updated"`
}

// TracingConfig controls the local trace log
type TracingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// MQTTConfig configures optional snapshot publishing. Publishing is off when URL is empty.
type MQTTConfig struct {
	URL      string `yaml:"url"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Default returns the configuration used when no file exists
func Default() Config {
	return Config{
		BaseURL:              DefaultBaseURL,
		RequestTimeout:       DefaultRequestTimeout,
		ProgressStepInterval: DefaultProgressStepInterval,
		PayloadDir:           DefaultPayloadDir,
		Tracing: TracingConfig{
			Enabled: true,
			Dir:     DefaultTracesDir,
		},
		MQTT: MQTTConfig{
			Topic:    DefaultMQTTTopic,
			ClientID: DefaultMQTTClientID,
		},
		DownloadedAnimations: make(map[string]bool),
	}
}

// applyDefaults fills zero values left by a partial config file
func (c *Config) applyDefaults() {
	d := Default()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.ProgressStepInterval <= 0 {
		c.ProgressStepInterval = d.ProgressStepInterval
	}
	if c.PayloadDir == "" {
		c.PayloadDir = d.PayloadDir
	}
	if c.Tracing.Dir == "" {
		c.Tracing.Dir = d.Tracing.Dir
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = d.MQTT.Topic
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = d.MQTT.ClientID
	}
	if c.DownloadedAnimations == nil {
		c.DownloadedAnimations = make(map[string]bool)
	}
}

// readConfig reads the configuration from path. A missing file yields Default().
func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	config.applyDefaults()
	return config, nil
}

// writeConfig writes the configuration to path, creating its directory
func writeConfig(path string, config Config) error {
	data, err := yaml.Marshal(&config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
