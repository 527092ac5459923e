package log

import (
	"cloudsync/internal/config"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a new zerolog.Logger based on the provided configuration.
// Path "stdout" or "stderr" writes to the terminal, anything else is a
// rotated log file.
func New(cfg config.LogConfig) zerolog.Logger {
	var writer io.Writer
	switch strings.ToLower(cfg.Path) {
	case "", "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		writer = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
	}

	return NewWithWriter(cfg, writer)
}

// NewWithWriter builds the logger on top of w
func NewWithWriter(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	if strings.ToLower(cfg.Format) == "console" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).With().Timestamp().Logger().Level(level)
}
