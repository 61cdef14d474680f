package logging

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLoggerHook_LoggerForRecord_ReturnsLogger(t *testing.T) {
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)
	require.NotNil(t, hook)

	logger := hook.LoggerForRecord(baseLogger, "checkout")
	require.NotNil(t, logger)
}

func TestCapturingLoggerHook_LoggerForRecord_Unique(t *testing.T) {
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)

	logger1 := hook.LoggerForRecord(baseLogger, "home")
	logger2 := hook.LoggerForRecord(baseLogger, "profile")

	// Verify different logger instances
	assert.NotSame(t, logger1, logger2, "Each record should get a unique logger instance")

	// Log with each logger
	logger1.Info("log from home")
	logger2.Info("log from profile")

	// Verify logs are tagged correctly
	logs1 := collector.GetLogs("home")
	logs2 := collector.GetLogs("profile")

	require.Len(t, logs1, 1)
	require.Len(t, logs2, 1)

	assert.Equal(t, "log from home", logs1[0].Message)
	assert.Equal(t, "log from profile", logs2[0].Message)

	// Verify all logs in shared collector
	allLogs := collector.GetAllLogs()
	require.Len(t, allLogs, 2)

	assert.Contains(t, allLogs, "home")
	assert.Contains(t, allLogs, "profile")
}

func TestCapturingLoggerHook_ConcurrentLogging(t *testing.T) {
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)

	const numActivities = 10
	const logsPerRecord = 50

	var wg sync.WaitGroup
	wg.Add(numActivities)

	// Launch concurrent goroutines, each with its own record logger
	for i := 0; i < numActivities; i++ {
		go func(recordNum int) {
			defer wg.Done()
			key := "record-" + string(rune('0'+recordNum))
			logger := hook.LoggerForRecord(baseLogger, key)

			for j := 0; j < logsPerRecord; j++ {
				logger.Info("concurrent message", "record", recordNum, "log", j)
			}
		}(i)
	}

	wg.Wait()

	// Verify all activities have correct number of logs
	allLogs := collector.GetAllLogs()
	assert.Len(t, allLogs, numActivities)

	for key, logs := range allLogs {
		assert.Len(t, logs, logsPerRecord, "Record %s should have %d logs", key, logsPerRecord)
	}
}

func TestCapturingLoggerHook_WithAttributes(t *testing.T) {
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)

	logger := hook.LoggerForRecord(baseLogger, "checkout")

	// Add attributes via .With() and log
	contextLogger := logger.With("component", "test-component", "version", "1.0")
	contextLogger.Info("test message", "extra", "data")

	// Verify attributes are captured
	logs := collector.GetLogs("checkout")
	require.Len(t, logs, 1)

	log := logs[0]
	assert.Equal(t, "test message", log.Message)
	assert.Equal(t, "test-component", log.Attributes["component"])
	assert.Equal(t, "1.0", log.Attributes["version"])
	assert.Equal(t, "data", log.Attributes["extra"])
}

func TestCapturingLoggerHook_MultipleLogLevels(t *testing.T) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug, // Enable all levels
	}
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), opts))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)

	logger := hook.LoggerForRecord(baseLogger, "checkout")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	// Verify all levels captured
	logs := collector.GetLogs("checkout")
	require.Len(t, logs, 4)

	assert.Equal(t, "DEBUG", logs[0].Level)
	assert.Equal(t, "INFO", logs[1].Level)
	assert.Equal(t, "WARN", logs[2].Level)
	assert.Equal(t, "ERROR", logs[3].Level)
}

func TestCapturingLoggerHook_ReuseKey(t *testing.T) {
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)

	// Create two loggers with the same record key
	logger1 := hook.LoggerForRecord(baseLogger, "same-key")
	logger2 := hook.LoggerForRecord(baseLogger, "same-key")

	logger1.Info("first message")
	logger2.Info("second message")

	// Both logs should be under the same record key
	logs := collector.GetLogs("same-key")
	require.Len(t, logs, 2)
	assert.Equal(t, "first message", logs[0].Message)
	assert.Equal(t, "second message", logs[1].Message)
}
