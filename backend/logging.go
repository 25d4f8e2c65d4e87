package backend

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// LogLevel converts the -v/--verbose count to a slog level.
// 0 logs errors only, 1 adds warnings, 2 adds info, anything higher adds debug.
func LogLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelError
	case verbosity == 1:
		return slog.LevelWarn
	case verbosity == 2:
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// NewLogger returns the process logger. It is created once in main and
// handed to every component that logs.
func NewLogger(verbosity int, w io.Writer) *slog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      LogLevel(verbosity),
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	}))
}
