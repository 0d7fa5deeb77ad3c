package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleHandler_PrefixAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false)).
		With("module", "chat", "component", "graph")

	logger.Info("node finished", "node", "generate")

	out := buf.String()
	assert.Contains(t, out, "[chat/graph]")
	assert.Contains(t, out, "node finished")
	assert.Contains(t, out, "node=generate")
	assert.NotContains(t, out, "\033[")
}

func TestConsoleHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}, false))

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONHandler_Encode(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewJSONHandler(&buf, nil)).With("service", "recipechat-backend")

	logger.Error("ingest failed", "error", errors.New("boom"), "chunks", 3)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &obj))
	assert.Equal(t, "ingest failed", obj["msg"])
	assert.Equal(t, "ERROR", obj["level"])
	assert.Equal(t, "boom", obj["error"])
	assert.Equal(t, "recipechat-backend", obj["service"])
	assert.EqualValues(t, 3, obj["chunks"])
}
