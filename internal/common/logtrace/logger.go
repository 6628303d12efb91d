// Package logtrace provides logging and tracing utilities for the application.
// It integrates with zerolog for structured logging and tags every operation
// with a correlation id.
package logtrace

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls the global logger.
type Options struct {
	Level   string // zerolog level name; empty means info
	Console bool   // human readable output instead of JSON
	Out     io.Writer
}

// InitLogger initializes the global logger with Unix timestamp format.
// Output goes to stderr unless opts.Out is set; stdout stays free for command
// output and the MCP stdio transport.
func InitLogger(opts Options) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}
