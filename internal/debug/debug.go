// Package debug provides the file logger used while the TUI owns the
// terminal. Logging is a no-op until Enable is called.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// maxLogSize is the size above which Enable starts the log over.
const maxLogSize = 4 << 20

var (
	mu      sync.Mutex
	logFile *os.File
	logPath string
)

// Enable turns on debug logging to the specified file. An existing log
// larger than a few megabytes is truncated.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		flags |= os.O_TRUNC
	}
	//nolint:gosec // G304: path comes from the data directory.
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	logFile = f
	logPath = path
	writeLocked("=== parley debug session ===")
	writeLocked("Time: " + time.Now().Format(time.RFC3339))
	writeLocked("Log file: " + path)
	return nil
}

// Disable turns off debug logging and closes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return
	}
	_ = logFile.Close()
	logFile = nil
}

// IsEnabled returns whether debug logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return logFile != nil
}

// LogPath returns the path of the last enabled log file.
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Log writes a debug message if logging is enabled.
func Log(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	writeLocked(fmt.Sprintf(format, args...))
}

// Event logs a TUI event with component context.
func Event(component, eventType, details string) {
	Log("[%s] %s: %s", component, eventType, details)
}

// Eventf is Event with a formatted details string.
func Eventf(component, eventType, format string, args ...any) {
	Event(component, eventType, fmt.Sprintf(format, args...))
}

// Error logs an error with context.
func Error(component string, err error, context string) {
	Log("[%s] ERROR: %s - %v", component, context, err)
}

// writeLocked appends one timestamped line. mu must be held.
func writeLocked(msg string) {
	if logFile == nil {
		return
	}
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format("15:04:05.000"), msg)
	_, _ = logFile.WriteString(line)
	// Flushed per line so the log can be tailed while the TUI runs.
	_ = logFile.Sync()
}
