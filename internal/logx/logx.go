// Package logx configures the application logger. The TUI owns stdout,
// so log output always goes to a file.
package logx

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// LogPath is the fixed path for debug logs, created in the working
// directory so it is easy to find after a session.
const LogPath = "clinicgrid-debug.log"

var (
	mu      sync.Mutex
	logger  = zerolog.Nop()
	logFile *os.File
)

// Init opens the log file and enables debug logging. When enabled is
// false the logger stays a no-op and no file is created.
func Init(enabled bool) error {
	if !enabled {
		return nil
	}

	f, err := os.Create(LogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	logFile = f
	logger = zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	logger.Info().Str("log_file", LogPath).Msg("debug logging started")
	return nil
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logger.Info().Msg("debug logging stopped")
		_ = logFile.Close()
		logFile = nil
		logger = zerolog.Nop()
	}
}

// L returns the application logger.
func L() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event {
	l := L()
	return l.Debug()
}

// Error logs an error with context.
func Error(context string, err error) {
	l := L()
	l.Error().Str("context", context).Err(err).Msg("error")
}
