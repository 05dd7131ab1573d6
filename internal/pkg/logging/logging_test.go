package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		wantDebug   bool
		wantInfo    bool
		wantWarn    bool
	}{
		{"debug", LevelDebug, true, true, true},
		{"info", LevelInfo, false, true, true},
		{"warn", LevelWarn, false, false, true},
		{"unknown falls back to info", "verbose", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(Config{Level: tt.configLevel}, &buf)

			logger.Debug("debug-msg")
			logger.Info("info-msg")
			logger.Warn("warn-msg")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug-msg"))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "info-msg"))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, "warn-msg"))
		})
	}
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(Config{Format: FormatJSON}, &buf)

	logger.With("command", "analyze").Info("Анализ завершён", "findings", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Анализ завершён", entry["msg"])
	assert.Equal(t, "analyze", entry["command"])
	assert.EqualValues(t, 3, entry["findings"])
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "findbugs.log")
	cfg := DefaultConfig()
	cfg.Output = OutputFile
	cfg.FilePath = path

	logger := NewLogger(cfg)
	logger.Info("в файл")

	assert.FileExists(t, path)
}

func TestNewLogger_EmptyFilePathFallsBack(t *testing.T) {
	logger := NewLogger(Config{Output: OutputFile})
	_, ok := logger.(*SlogAdapter)
	assert.True(t, ok)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{Level: "trace"}.Validate())
	assert.Error(t, Config{Format: "xml"}.Validate())
	assert.Error(t, Config{Output: "syslog"}.Validate())
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.With("k", "v").Error("ignored")
	})
}

func TestLineWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(Config{Level: LevelDebug}, &buf)
	w := NewLineWriter(logger, "stderr")

	_, err := w.Write([]byte("Scanning archives (1 / 2)\nWarn"))
	require.NoError(t, err)
	_, err = w.Write([]byte("ings generated: 0\r\n\npartial"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Scanning archives (1 / 2)")
	assert.Contains(t, out, "Warnings generated: 0")
	assert.NotContains(t, out, "partial")
	assert.Equal(t, 2, strings.Count(out, "stream=stderr"))

	w.Flush()
	assert.Contains(t, buf.String(), "partial")
}
