package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: INFO, Format: JSON, Output: &buf, Service: "travelbooking-api"})

	log.Debug("hidden")
	log.With("booking_id", "BK-1").Info("Booking confirmed", "seats", 2)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Booking confirmed", line["msg"])
	assert.Equal(t, "travelbooking-api", line[SERVICE])
	assert.Equal(t, "BK-1", line["booking_id"])
	assert.EqualValues(t, 2, line["seats"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: DEBUG, Format: TEXT, Output: &buf}).Debug("hello", "k", "v")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel(DEBUG))
	assert.Equal(t, slog.LevelWarn, parseLevel(WARN))
	assert.Equal(t, slog.LevelError, parseLevel(ERROR))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
