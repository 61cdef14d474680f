package logging

import (
	"log/slog"
)

// LoggerHook creates record-scoped loggers by wrapping a base logger.
// This interface allows the registry to remain generic while supporting
// log capturing through custom implementations.
type LoggerHook interface {
	// LoggerForRecord wraps the base logger to create a record-scoped logger.
	// The base logger comes from the registry's WithLogger() option.
	LoggerForRecord(baseLogger *slog.Logger, key string) *slog.Logger
}

// CapturingLoggerHook creates loggers that capture logs via CapturingHandler.
type CapturingLoggerHook struct {
	collector *LogCollector
}

// NewCapturingLoggerHook creates a provider that captures all record logs.
func NewCapturingLoggerHook(collector *LogCollector) LoggerHook {
	return &CapturingLoggerHook{
		collector: collector,
	}
}

// LoggerForRecord creates a record-scoped logger with capturing enabled.
// Each call wraps the base logger with a CapturingHandler that tags logs with the record key.
func (p *CapturingLoggerHook) LoggerForRecord(baseLogger *slog.Logger, key string) *slog.Logger {
	capturingHandler := NewCapturingHandler(
		baseLogger.Handler(),
		p.collector,
		key,
	)
	return slog.New(capturingHandler)
}
