package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupEnv points HOME at a fresh temp dir and clears XDG vars, resetting the
// cached resolution before and after.
func setupEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	Reset()
	t.Cleanup(Reset)
	return home
}

func TestFreshInstallDefaultsToLegacy(t *testing.T) {
	home := setupEnv(t)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir failed: %v", err)
	}
	want := filepath.Join(home, ".chorus")
	if dir != want {
		t.Errorf("ConfigDir = %q, want %q", dir, want)
	}
	if !IsLegacyLayout() {
		t.Error("fresh install without XDG vars should use the legacy layout")
	}
}

func TestExistingLegacyDirWins(t *testing.T) {
	home := setupEnv(t)
	legacy := filepath.Join(home, ".chorus")
	if err := os.MkdirAll(legacy, 0755); err != nil {
		t.Fatal(err)
	}
	// XDG vars set, but the existing legacy dir takes precedence.
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg-config"))
	Reset()

	for name, fn := range map[string]func() (string, error){
		"ConfigDir": ConfigDir,
		"DataDir":   DataDir,
		"StateDir":  StateDir,
	} {
		dir, err := fn()
		if err != nil {
			t.Fatalf("%s failed: %v", name, err)
		}
		if dir != legacy {
			t.Errorf("%s = %q, want legacy %q", name, dir, legacy)
		}
	}
	if !IsLegacyLayout() {
		t.Error("IsLegacyLayout should be true")
	}
}

func TestXDGLayout(t *testing.T) {
	home := setupEnv(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	Reset()

	cfg, _ := ConfigDir()
	data, _ := DataDir()
	state, _ := StateDir()

	if cfg != filepath.Join(home, "cfg", "chorus") {
		t.Errorf("ConfigDir = %q", cfg)
	}
	if data != filepath.Join(home, "data", "chorus") {
		t.Errorf("DataDir = %q", data)
	}
	if state != filepath.Join(home, "state", "chorus") {
		t.Errorf("StateDir = %q", state)
	}
	if IsLegacyLayout() {
		t.Error("IsLegacyLayout should be false with XDG vars set")
	}
}

func TestXDGPartialFillsDefaults(t *testing.T) {
	home := setupEnv(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "cfg"))
	Reset()

	data, err := DataDir()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(home, ".local", "share", "chorus")
	if data != want {
		t.Errorf("DataDir = %q, want XDG default %q", data, want)
	}
	state, _ := StateDir()
	if state != filepath.Join(home, ".local", "state", "chorus") {
		t.Errorf("StateDir = %q", state)
	}
}

func TestDerivedPaths(t *testing.T) {
	setupEnv(t)

	cfgPath, err := ConfigFilePath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(cfgPath) != "config.yaml" {
		t.Errorf("ConfigFilePath = %q, want config.yaml basename", cfgPath)
	}

	sessions, err := SessionsDir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(sessions, string(filepath.Separator)+"sessions") {
		t.Errorf("SessionsDir = %q, want sessions suffix", sessions)
	}

	logs, err := LogsDir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(logs, string(filepath.Separator)+"logs") {
		t.Errorf("LogsDir = %q, want logs suffix", logs)
	}
}

func TestResolutionIsCached(t *testing.T) {
	home := setupEnv(t)

	first, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	// Creating the legacy dir after resolution must not change the answer
	// until Reset.
	if err := os.MkdirAll(filepath.Join(home, ".chorus"), 0755); err != nil {
		t.Fatal(err)
	}
	second, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("cached resolution changed: %q -> %q", first, second)
	}
}
