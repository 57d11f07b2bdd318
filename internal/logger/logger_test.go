package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-marketplace-backend/internal/logger"
)

func capture(t *testing.T, level, format string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.InitializeWithWriter(level, format, &buf)
	t.Cleanup(func() { logger.Initialize("info", "text") })
	return &buf
}

func TestInitializeWithWriter_JSON(t *testing.T) {
	buf := capture(t, "info", "json")

	logger.Info("Booking created", "bookingID", "b1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "Booking created", line["msg"])
	assert.Equal(t, "b1", line["bookingID"])
}

func TestInitializeWithWriter_LevelFiltering(t *testing.T) {
	buf := capture(t, "warn", "text")

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.EnterMethod("bookingService.UpdateStatus")
	assert.Empty(t, buf.String())

	logger.ExternalServiceResult("smtp", "send", errors.New("connection refused"))
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "service=smtp")
	assert.Contains(t, out, `error="connection refused"`)
}

func TestExitMethodWithError_LogsAtError(t *testing.T) {
	buf := capture(t, "error", "text")

	logger.ExitMethodWithError("requestService.Transition", errors.New("boom"), "requestID", "r1")
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "method=requestService.Transition")
	assert.Contains(t, out, "requestID=r1")
}
