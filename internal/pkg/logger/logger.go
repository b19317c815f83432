// Package logger holds the process-wide zerolog logger used by middleware
// and background jobs that are not handed one explicitly.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var base zerolog.Logger

// LogLevel is a level name as written in config
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// Config selects level, output and format
type Config struct {
	Level LogLevel
	// Pretty switches to the console writer (LOG_FORMAT=text)
	Pretty bool
	// Output defaults to os.Stdout
	Output io.Writer
	// Service is attached to every line when set
	Service string
}

// ParseLevel normalises a config string; anything unknown is info
func ParseLevel(level string) LogLevel {
	lvl := LogLevel(strings.ToLower(strings.TrimSpace(level)))
	if lvl == "warning" {
		return WarnLevel
	}
	switch lvl {
	case DebugLevel, WarnLevel, ErrorLevel, FatalLevel:
		return lvl
	}
	return InfoLevel
}

// Configure replaces the process logger and the zerolog global logger
func Configure(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(string(ParseLevel(string(cfg.Level))))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	lc := zerolog.New(out).With().Timestamp()
	if cfg.Service != "" {
		lc = lc.Str("service", cfg.Service)
	}
	base = lc.Logger()
	log.Logger = base
	return base
}

// With returns a child of the process logger carrying key=value
func With(key string, value interface{}) zerolog.Logger {
	return base.With().Interface(key, value).Logger()
}

func Debug() *zerolog.Event { return base.Debug() }
func Info() *zerolog.Event  { return base.Info() }
func Warn() *zerolog.Event  { return base.Warn() }
func Error() *zerolog.Event { return base.Error() }

func init() {
	Configure(Config{Level: InfoLevel, Pretty: true})
}
