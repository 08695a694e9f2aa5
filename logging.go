package jobsh

import (
	"log/slog"
	"os"
)

// DebugEnv switches on debug logging. Group runners inherit it through the
// environment.
const DebugEnv = "JOBSH_DEBUG"

var logger = newLogger(os.Getenv(DebugEnv) != "")

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetDebug turns debug logging on or off for this process and for group
// runners started afterwards.
func SetDebug(debug bool) {
	logger = newLogger(debug)
	if debug {
		os.Setenv(DebugEnv, "1")
	} else {
		os.Unsetenv(DebugEnv)
	}
}
