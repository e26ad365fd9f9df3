// Package logger provides file-backed structured logging for the whole
// process. Loggers are slog handles; WithSession and WithComponent attach
// the fields that make multi-session logs greppable.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/zhubert/chorus-core/paths"
)

var (
	mu       sync.Mutex
	root     *slog.Logger
	logFile  *os.File
	levelVar = new(slog.LevelVar)
	initDone bool
)

// DefaultLogPath returns the log file used when Init is never called.
func DefaultLogPath() (string, error) {
	dir, err := paths.LogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chorus.log"), nil
}

// SetDebug switches between debug and info level. Takes effect immediately
// for every logger handed out so far.
func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// openLog points the root logger at path. Caller must hold mu.
func openLog(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	logFile = f
	root = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	initDone = true
	root.Info("logger initialized", "path", path)
	return nil
}

// Init directs logging to a custom path. Calling it after logging has
// already started is a no-op; without it, the default path is opened on the
// first log call.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if initDone {
		return nil
	}
	return openLog(path)
}

// ensureInit opens the default log file if nothing has. Failures degrade to
// stderr warnings; callers still get a usable logger. Caller must hold mu.
func ensureInit() {
	if initDone {
		return
	}
	path, err := DefaultLogPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to resolve log path: %v\n", err)
		return
	}
	if err := openLog(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// Get returns the root logger, for call sites with no session context.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	ensureInit()
	if root == nil {
		return slog.Default()
	}
	return root
}

// WithSession returns a logger tagging every entry with the session ID.
func WithSession(sessionID string) *slog.Logger {
	return Get().With("sessionID", sessionID)
}

// WithComponent returns a logger tagging every entry with a component name,
// for subsystems that outlive any one session (the manager, persistence).
func WithComponent(component string) *slog.Logger {
	return Get().With("component", component)
}

// Close flushes and closes the log file. Logging after Close falls back to
// slog's default handler.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	root = nil
}

// Reset returns the package to its uninitialized state. For tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	root = nil
	initDone = false
	levelVar = new(slog.LevelVar)
}

// ClearLogs removes the main log and any per-child chorus-*.log files,
// returning how many were deleted.
func ClearLogs() (int, error) {
	mainLog, err := DefaultLogPath()
	if err != nil {
		return 0, fmt.Errorf("failed to resolve log path: %w", err)
	}

	count := 0
	targets := []string{mainLog}
	rotated, err := filepath.Glob(filepath.Join(filepath.Dir(mainLog), "chorus-*.log"))
	if err != nil {
		return 0, err
	}
	targets = append(targets, rotated...)

	for _, path := range targets {
		if err := os.Remove(path); err == nil {
			count++
		} else if !os.IsNotExist(err) {
			return count, err
		}
	}
	return count, nil
}
