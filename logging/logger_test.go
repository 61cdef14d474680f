package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "json to stdout",
			config: Config{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
		},
		{
			name: "text to stderr at debug",
			config: Config{
				Level:  "debug",
				Format: "text",
				Output: "stderr",
			},
		},
		{
			name:   "zero config uses defaults",
			config: Config{},
		},
		{
			name: "unknown level rejected",
			config: Config{
				Level:  "verbose",
				Format: "json",
			},
			wantErr: true,
		},
		{
			name: "unknown format rejected",
			config: Config{
				Level:  "info",
				Format: "logfmt",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestNew_WritesRecordFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.log")
	logger, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("record hidden", "key", "checkout", "cost", 2.5)
	logger.Debug("suppressed below info", "key", "checkout")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "record hidden", entry["msg"])
	assert.Equal(t, "checkout", entry["key"])
	assert.Equal(t, 2.5, entry["cost"])
	// The debug line must not have reached the file.
	assert.NotContains(t, string(data), "suppressed below info")
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Level: "warn", Format: "text"}
	assert.NoError(t, valid.validate())

	// Empty fields pass; defaults are applied later.
	assert.NoError(t, (&Config{}).validate())

	assert.Error(t, (&Config{Level: "trace"}).validate())
	assert.Error(t, (&Config{Format: "xml"}).validate())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
		wantErr  bool
	}{
		{level: "debug", expected: slog.LevelDebug},
		{level: "info", expected: slog.LevelInfo},
		{level: "warn", expected: slog.LevelWarn},
		{level: "error", expected: slog.LevelError},
		{level: "ERROR", expected: slog.LevelError},
		{level: "fatal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	config := Config{}
	config.setDefaults()

	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "stdout", config.Output)
}
