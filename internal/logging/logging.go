package logging

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/kyleseneker/rating-prompt/internal/config"
)

// Logger defines the logging interface used by the application.
// This abstracts the underlying logging library (hclog).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// Named creates a sublogger with a name component.
	Named(name string) Logger
	// With adds key-value pairs to the logger's context.
	With(args ...interface{}) Logger
}

// Ensure hclogWrapper implements Logger.
var _ Logger = (*hclogWrapper)(nil)

// hclogWrapper adapts hclog.Logger to the Logger interface.
type hclogWrapper struct {
	logger hclog.Logger
}

func (w *hclogWrapper) Debug(msg string, args ...interface{}) {
	w.logger.Debug(msg, args...)
}

func (w *hclogWrapper) Info(msg string, args ...interface{}) {
	w.logger.Info(msg, args...)
}

func (w *hclogWrapper) Warn(msg string, args ...interface{}) {
	w.logger.Warn(msg, args...)
}

func (w *hclogWrapper) Error(msg string, args ...interface{}) {
	w.logger.Error(msg, args...)
}

func (w *hclogWrapper) Named(name string) Logger {
	return &hclogWrapper{logger: w.logger.Named(name)}
}

func (w *hclogWrapper) With(args ...interface{}) Logger {
	return &hclogWrapper{logger: w.logger.With(args...)}
}

// appLogger is the global logger instance for the application.
// It's initialized by InitializeLogger and implements the Logger interface.
var appLogger Logger // Use the interface type

// InitializeLogger creates the application's logger instance based on configuration.
// It should be called early in the application startup.
func InitializeLogger(cfg *config.Config) {
	level := hclog.LevelFromString(cfg.LogLevel)
	if level == hclog.NoLevel {
		// Config validation rejects unknown levels; fall back to INFO for hand-built configs
		level = hclog.Info
	}

	jsonFormat := strings.ToLower(cfg.LogFormat) == "json"

	// Create the underlying hclog logger
	hclogger := hclog.New(&hclog.LoggerOptions{
		Name:       "rating-prompt",
		Level:      level,
		Output:     os.Stderr,
		JSONFormat: jsonFormat,
	})

	// Store the wrapper implementation in the global variable
	appLogger = &hclogWrapper{logger: hclogger}

	appLogger.Debug("Logger initialized", "level", level.String(), "format", cfg.LogFormat)
}

// Get returns the initialized application logger interface.
// Returns a fallback logger if InitializeLogger has not been called.
func Get() Logger {
	if appLogger == nil {
		// Library callers may never initialize the global logger; only warnings get through.
		return &hclogWrapper{logger: hclog.New(&hclog.LoggerOptions{
			Name:  "rating-prompt",
			Level: hclog.Warn,
		})}
	}
	return appLogger
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() Logger {
	// NewNullLogger still honours Named/With, so sub-loggers stay silent too
	return &hclogWrapper{logger: hclog.NewNullLogger()}
}
