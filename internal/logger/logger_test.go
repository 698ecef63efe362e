package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_WritesRoleAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "api", "debug").Component("s3")
	l.Info().Str("key", "clip.mp4").Msg("presigned")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "api", entry["role"])
	assert.Equal(t, "s3", entry["component"])
	assert.Equal(t, "clip.mp4", entry["key"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "api", "warn")
	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewWithWriter_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "api", "chatty")
	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	l.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNop_DiscardsOutput(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error().Msg("nothing") })
}

func TestLookup(t *testing.T) {
	_, ok := Lookup(context.Background())
	assert.False(t, ok)

	var buf bytes.Buffer
	base := NewWithWriter(&buf, "api", "info")
	ctx := base.With().Str("request_id", "req-1").Logger().WithContext(context.Background())

	l, ok := Lookup(ctx)
	require.True(t, ok)
	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}
