// Package logging wraps log/slog with a process-wide logger, rotating file output
// and an HTTP request logging middleware.
package logging

import (
	"log/slog"
	"os"
)

type LoggingService struct {
	Logger   *slog.Logger
	rotating *RotatingLogger
}

// Close flushes and closes the file output, if any
func (s *LoggingService) Close() error {
	if s == nil || s.rotating == nil {
		return nil
	}
	return s.rotating.Close()
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger with default options.
// An empty logDir logs to the console only.
func InitLogger(logDir string) {
	Init(Options{Dir: logDir})
}

// Init initializes the global logger and installs it as the slog default
func Init(opts Options) *LoggingService {
	if DefaultLoggingService != nil {
		_ = DefaultLoggingService.Close()
	}

	logger, rotating := SetupLogger(opts)
	DefaultLoggingService = &LoggingService{
		Logger:   logger,
		rotating: rotating,
	}
	slog.SetDefault(logger)
	return DefaultLoggingService
}

// Logger returns the global logger, or a stderr text logger before Init
func Logger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}
