package internal

import (
	"log/slog"
	"strconv"
	"sync/atomic"
)

var (
	quietMode   atomic.Bool // Only warnings and errors are logged.
	debugMode   atomic.Bool // Debug messages are logged.
	verboseMode atomic.Bool // Log lines carry timestamps and callers.
)

// Seeds the output modes from the linker flags. Unparseable values count as
// false.
func init() {
	quietMode.Store(parseFlag(rawQuiet))
	debugMode.Store(parseFlag(rawDebug))
	verboseMode.Store(parseFlag(rawVerbose))
}

func parseFlag(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

// Applies the output flags given on the command line.
//
// Flags can only switch a mode on. A mode enabled at build time stays
// enabled.
func Configure(quiet, debug, verbose bool) {
	if quiet {
		quietMode.Store(true)
	}
	if debug {
		debugMode.Store(true)
	}
	if verbose {
		verboseMode.Store(true)
	}
}

// Returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode.Load()
}

// Returns true if debug mode is enabled.
func IsDebug() bool {
	return debugMode.Load()
}

// Returns true if verbose mode is enabled.
func IsVerbose() bool {
	return verboseMode.Load()
}

// Returns the minimum log level for the current modes.
//
// Debug mode wins over quiet mode.
func LogLevel() slog.Level {
	switch {
	case IsDebug():
		return slog.LevelDebug
	case IsQuiet():
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
