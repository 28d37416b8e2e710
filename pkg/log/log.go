package log

import (
	"io"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger. Subsystems derive children from it
// with WithComponent.
var Logger zerolog.Logger

// Component names a td subsystem in log output.
type Component string

const (
	ComponentAPI    Component = "api"
	ComponentSync   Component = "sync"
	ComponentCache  Component = "cache"
	ComponentConfig Component = "config"
)

// Level represents log level
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config holds logging configuration
type Config struct {
	Level      Level
	JSONOutput bool
	NoColor    bool
	Output     io.Writer
}

// bearerPattern matches Authorization header values. The API token must
// never reach a log sink, even through a dumped request.
var bearerPattern = regexp.MustCompile(`Bearer\s+[^\s"',}]+`)

// redactWriter scrubs bearer tokens from every line before it reaches
// the sink.
type redactWriter struct {
	w io.Writer
}

func (rw redactWriter) Write(p []byte) (int, error) {
	clean := bearerPattern.ReplaceAll(p, []byte("Bearer [REDACTED]"))
	if _, err := rw.w.Write(clean); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Init initializes the global logger
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(string(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	// Redaction sits below the formatter so both JSON and console lines
	// are scrubbed.
	sink := io.Writer(redactWriter{w: output})
	if !cfg.JSONOutput {
		sink = zerolog.ConsoleWriter{
			Out:        sink,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.NoColor,
		}
	}

	Logger = zerolog.New(sink).With().Timestamp().Logger()
}

// WithComponent creates a child logger tagged with a td subsystem
func WithComponent(component Component) zerolog.Logger {
	return Logger.With().Str("component", string(component)).Logger()
}
