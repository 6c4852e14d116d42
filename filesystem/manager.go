// Package filesystem stores downloaded animation payloads on disk.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrInvalidID is returned for IDs that cannot name a file
var ErrInvalidID = errors.New("invalid animation id")

// Manager keeps one JSON file per animation under a root directory
type Manager struct {
	root string
}

// NewManager creates a manager rooted at dir. A leading ~ is expanded.
func NewManager(dir string) (*Manager, error) {
	root, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	return &Manager{root: root}, nil
}

// Root returns the directory payloads are written to
func (f *Manager) Root() string {
	return f.root
}

// PayloadPath returns where the payload for id is stored
func (f *Manager) PayloadPath(id string) (string, error) {
	name, err := fileName(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.root, name), nil
}

// SavePayload writes payload for id, replacing any earlier copy
func (f *Manager) SavePayload(id, payload string) (string, error) {
	path, err := f.PayloadPath(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", f.root, err)
	}

	// write then rename so a crash never leaves a truncated payload
	tmp, err := os.CreateTemp(f.root, ".payload-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.WriteString(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return path, nil
}

// LoadPayload reads the stored payload for id
func (f *Manager) LoadPayload(id string) (string, error) {
	path, err := f.PayloadPath(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// HasPayload reports whether a payload for id is on disk
func (f *Manager) HasPayload(id string) bool {
	path, err := f.PayloadPath(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// RemovePayload deletes the stored payload; a missing file is not an error
func (f *Manager) RemovePayload(id string) error {
	path, err := f.PayloadPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// OpenFileExplorer opens the payload directory in the platform file manager
func (f *Manager) OpenFileExplorer() error {
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return err
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", f.root)
	case "darwin":
		cmd = exec.Command("open", f.root)
	default:
		cmd = exec.Command("xdg-open", f.root)
	}
	return cmd.Start()
}

// fileName maps an ID to a safe file name
func fileName(id string) (string, error) {
	if id == "" || id == "." || id == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, id)
	return safe + ".json", nil
}

func expandHome(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty payload directory")
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
