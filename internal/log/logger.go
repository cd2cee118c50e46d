// Package log provides structured logging utilities.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EnvLevel is consulted when Config.Level is empty.
const EnvLevel = "DSWEEP_LOG_LEVEL"

// DefaultLevel applies when neither Config.Level nor EnvLevel is set.
const DefaultLevel = zerolog.WarnLevel

// Config captures options for configuring the global logger.
type Config struct {
	Level  string    // optional log level ("debug", "info", etc.)
	Output io.Writer // optional writer (defaults to os.Stderr)

	// File enables a rotating log file in addition to Output.
	File       string
	MaxSizeMB  int
	MaxAgeDays int

	// Quiet drops console output entirely; File still receives entries.
	Quiet bool
}

var (
	mu     sync.RWMutex
	base   = zerolog.Nop()
	closer io.Closer
)

// Configure (re)initialises the global logger. The returned function flushes
// and closes the log file, if any.
func Configure(cfg Config) func() {
	level := DefaultLevel
	name := cfg.Level
	if name == "" {
		name = os.Getenv(EnvLevel)
	}
	if name != "" {
		if parsed, err := zerolog.ParseLevel(name); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	var writers []io.Writer
	if !cfg.Quiet {
		writers = append(writers, consoleWriter(cfg.Output))
	}

	var file *lumberjack.Logger
	if cfg.File != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 10),
			MaxAge:     orDefault(cfg.MaxAgeDays, 14),
			MaxBackups: 3,
			Compress:   true,
		}
		writers = append(writers, file)
	}

	var w io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		w = writers[0]
	default:
		w = zerolog.MultiLevelWriter(writers...)
	}

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	if file != nil {
		closer = file
	}
	base = zerolog.New(w).Level(level).With().Timestamp().Logger()

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if closer != nil {
			_ = closer.Close()
			closer = nil
		}
	}
}

// consoleWriter pretty-prints for terminals and emits JSON otherwise.
func consoleWriter(out io.Writer) io.Writer {
	if out == nil {
		out = os.Stderr
	}
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return out
}

func orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}

// WithRun returns a child logger annotated with a run identifier.
func WithRun(runID string) zerolog.Logger {
	return Base().With().Str("run_id", runID).Logger()
}
