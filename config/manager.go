package config

import (
	"time"
)

// Manager handles configuration operations
type Manager struct {
	path    string
	envFile string
}

// NewManager creates a config manager for the file at path. An empty path
// uses ConfigFilePath.
func NewManager(path string) *Manager {
	if path == "" {
		path = ConfigFilePath
	}
	return &Manager{
		path:    path,
		envFile: ".env",
	}
}

// Path returns the config file location
func (m *Manager) Path() string {
	return m.path
}

// Load reads the config file and applies environment overrides
func (m *Manager) Load() (Config, error) {
	cfg, err := readConfig(m.path)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg, m.envFile); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to the config file
func (m *Manager) Save(cfg Config) error {
	cfg.LastUpdated = time.Now()
	return writeConfig(m.path, cfg)
}

// GetDownloadedAnimations returns a map of downloaded animation IDs
func (m *Manager) GetDownloadedAnimations() map[string]bool {
	cfg, err := readConfig(m.path)
	if err != nil || cfg.DownloadedAnimations == nil {
		return make(map[string]bool)
	}
	return cfg.DownloadedAnimations
}

// IsAnimationDownloaded checks if an animation has been downloaded
func (m *Manager) IsAnimationDownloaded(id string) bool {
	return m.GetDownloadedAnimations()[id]
}

// MarkAnimationDownloaded records a successful download while preserving other settings
func (m *Manager) MarkAnimationDownloaded(id string) error {
	cfg, err := readConfig(m.path)
	if err != nil {
		return err
	}
	cfg.DownloadedAnimations[id] = true
	return m.Save(cfg)
}
