package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{name: "trace", input: "trace", want: log.LevelTrace},
		{name: "debug", input: "debug", want: log.LevelDebug},
		{name: "info", input: "info", want: log.LevelInfo},
		{name: "warn", input: "warn", want: log.LevelWarn},
		{name: "warning alias", input: "warning", want: log.LevelWarn},
		{name: "error", input: "error", want: log.LevelError},
		{name: "crit", input: "crit", want: log.LevelCrit},
		{name: "mixed case", input: "DeBuG", want: log.LevelDebug},
		{name: "surrounding whitespace", input: "  info  ", want: log.LevelInfo},
		{name: "unknown", input: "verbose", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LevelFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown log level")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_TerminalFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, Config{Level: "info", Format: FormatTerminal})
	require.NoError(t, err)

	logger.Info("run triggered", "runId", "run-42")

	out := buf.String()
	assert.Contains(t, out, "run triggered")
	assert.Contains(t, out, "run-42")
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, Config{Level: "info", Format: FormatJSON})
	require.NoError(t, err)

	logger.Info("run triggered", "runId", "run-42")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run triggered", entry["msg"])
	assert.Equal(t, "run-42", entry["runId"])
}

func TestNewLogger_LogfmtFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, Config{Level: "info", Format: FormatLogfmt})
	require.NoError(t, err)

	logger.Info("run triggered", "runId", "run-42")

	out := buf.String()
	assert.Contains(t, out, `msg="run triggered"`)
	assert.Contains(t, out, "runId=run-42")
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, Config{Level: "warn", Format: FormatLogfmt})
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestNewLogger_DefaultsToTerminalFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, Config{Level: "info"})
	require.NoError(t, err)

	logger.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestNewLogger_RejectsUnknownFormat(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, Config{Level: "info", Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, Config{Level: "loudest", Format: FormatJSON})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, FormatTerminal, cfg.Format)
	assert.False(t, cfg.Color)
}

func TestSetGlobalLogger(t *testing.T) {
	prev := log.Root()
	defer log.SetDefault(prev)

	var buf bytes.Buffer
	logger, err := NewLogger(&buf, Config{Level: "info", Format: FormatLogfmt})
	require.NoError(t, err)

	SetGlobalLogger(logger)
	log.Info("routed through default")

	assert.Contains(t, buf.String(), "routed through default")
}
