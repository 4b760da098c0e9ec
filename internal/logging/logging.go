// Package logging builds the structured logger used for diagnostics.
//
// Standard output carries the scan result, so log records are written to
// standard error and, optionally, to a rotated log file.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes the desired logging configuration.
type Config struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json. Empty selects text on a terminal and json otherwise.
	Format string `yaml:"format"`
	// FilePath additionally writes records to a rotated file when set.
	FilePath       string `yaml:"file"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxFiles   int    `yaml:"file_max_files"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
}

// DefaultConfig returns a Config that only reports warnings and errors.
func DefaultConfig() Config {
	return Config{
		Level:          "warn",
		FileMaxSizeMB:  10,
		FileMaxFiles:   3,
		FileMaxAgeDays: 30,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger writing to out, plus the configured log file if any.
// The returned closer releases the log file and must be called on exit.
func New(cfg Config, out *os.File) (*slog.Logger, io.Closer) {
	writer, closer := buildWriter(cfg, out)

	format := cfg.Format
	if format == "" {
		format = "json"
		if isatty.IsTerminal(out.Fd()) {
			format = "text"
		}
	}

	return slog.New(buildHandler(writer, ParseLevel(cfg.Level), format)), closer
}

// buildWriter returns out, or out and a lumberjack file when a path is configured.
func buildWriter(cfg Config, out io.Writer) (io.Writer, io.Closer) {
	if cfg.FilePath == "" {
		return out, nopCloser{}
	}

	maxSize := cfg.FileMaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxFiles := cfg.FileMaxFiles
	if maxFiles <= 0 {
		maxFiles = 3
	}
	maxAge := cfg.FileMaxAgeDays
	if maxAge <= 0 {
		maxAge = 30
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    maxSize,
		MaxBackups: maxFiles,
		MaxAge:     maxAge,
	}

	return io.MultiWriter(out, lj), lj
}

func buildHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.NewTextHandler(w, opts)
	}

	return slog.NewJSONHandler(w, opts)
}

// ParseLevel converts a level name to slog.Level, defaulting to Warn.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ValidLevel reports whether s is a recognized log level.
func ValidLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "error":
		return true
	}

	return false
}

// ValidFormat reports whether s is a recognized log format. Empty means automatic.
func ValidFormat(s string) bool {
	switch s {
	case "", "text", "json":
		return true
	}

	return false
}
