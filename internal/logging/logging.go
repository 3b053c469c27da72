// Package logging configures the process-wide slog default logger.
package logging

import (
	"log/slog"
	"os"
)

// Init installs a text handler on stderr. The default level keeps console
// output clean (warnings and errors only); verbose lowers it to debug.
func Init(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
