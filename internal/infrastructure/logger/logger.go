package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Conte777/newsrelay/config"
)

// NewLogger creates the service logger; every entry carries the service name
func NewLogger(logCfg *config.LoggingConfig, serviceCfg *config.ServiceConfig) zerolog.Logger {
	return New(os.Stdout, logCfg.Level, logCfg.Format).
		With().
		Str("service", serviceCfg.Name).
		Logger()
}

// New creates a logger writing to out. Format "json" emits raw JSON lines,
// anything else the human-readable console format.
func New(out io.Writer, level, format string) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLogLevel(level))

	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{Out: out}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Caller().
		Logger()
}

// parseLogLevel parses log level string to zerolog.Level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
