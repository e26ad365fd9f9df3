// Package paths resolves Chorus's on-disk directories.
//
// Two layouts are supported. The legacy layout keeps everything flat under
// ~/.chorus/. The XDG layout splits files by role: config.yaml under
// XDG_CONFIG_HOME, session transcripts under XDG_DATA_HOME, and logs under
// XDG_STATE_HOME.
//
// An existing ~/.chorus/ always wins, so installs never migrate silently.
// Otherwise any set XDG variable selects the XDG layout (unset variables
// fall back to their spec defaults), and a fresh install with no XDG
// variables gets the legacy layout.
package paths

import (
	"os"
	"path/filepath"
	"sync"
)

// layout is the resolved directory set, computed once per process.
type layout struct {
	config string
	data   string
	state  string
	legacy bool
}

var (
	mu      sync.Mutex
	current *layout
)

func resolve() (*layout, error) {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return current, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	legacyDir := filepath.Join(home, ".chorus")

	if info, err := os.Stat(legacyDir); err == nil && info.IsDir() {
		current = &layout{config: legacyDir, data: legacyDir, state: legacyDir, legacy: true}
		return current, nil
	}

	cfg := os.Getenv("XDG_CONFIG_HOME")
	data := os.Getenv("XDG_DATA_HOME")
	state := os.Getenv("XDG_STATE_HOME")
	if cfg == "" && data == "" && state == "" {
		current = &layout{config: legacyDir, data: legacyDir, state: legacyDir, legacy: true}
		return current, nil
	}

	if cfg == "" {
		cfg = filepath.Join(home, ".config")
	}
	if data == "" {
		data = filepath.Join(home, ".local", "share")
	}
	if state == "" {
		state = filepath.Join(home, ".local", "state")
	}
	current = &layout{
		config: filepath.Join(cfg, "chorus"),
		data:   filepath.Join(data, "chorus"),
		state:  filepath.Join(state, "chorus"),
	}
	return current, nil
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() (string, error) {
	l, err := resolve()
	if err != nil {
		return "", err
	}
	return l.config, nil
}

// DataDir returns the directory holding persistent data such as session
// transcripts.
func DataDir() (string, error) {
	l, err := resolve()
	if err != nil {
		return "", err
	}
	return l.data, nil
}

// StateDir returns the directory holding transient state such as logs.
func StateDir() (string, error) {
	l, err := resolve()
	if err != nil {
		return "", err
	}
	return l.state, nil
}

// ConfigFilePath returns the full path of config.yaml.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// SessionsDir returns the directory holding per-session transcript files.
func SessionsDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}

// LogsDir returns the directory holding log files.
func LogsDir() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// IsLegacyLayout reports whether the flat ~/.chorus/ layout is in use.
func IsLegacyLayout() bool {
	l, err := resolve()
	if err != nil {
		return true
	}
	return l.legacy
}

// Reset discards the cached resolution so the next call re-reads the
// environment. For tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = nil
}
