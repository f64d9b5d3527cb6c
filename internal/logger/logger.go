package logger

import (
	"github.com/gmkornilov/bughouse-trainer/internal/config"
	"github.com/rs/zerolog"
	"io"
	"os"
	"time"
)

// New builds the process logger. Unknown levels fall back to info.
func New(cfg *config.Configuration) zerolog.Logger {
	return newLogger(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)
}

func newLogger(w io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
