package telemetry

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_FansOut(t *testing.T) {
	var buf bytes.Buffer
	lines := make(chan string, 4)

	logger := NewLogger(Options{Writer: &buf, Level: slog.LevelDebug, Lines: lines})
	logger.With(slog.String("step", "move_upward")).Info("moving", slog.Int("attempt", 1))

	assert.Contains(t, buf.String(), "msg=moving")
	assert.Contains(t, buf.String(), "session=")

	require.Len(t, lines, 1)
	line := <-lines
	assert.Contains(t, line, "INFO moving step=move_upward attempt=1")
	assert.NotContains(t, line, "session=")
}

func TestLineHandler_DropsWhenFull(t *testing.T) {
	lines := make(chan string, 1)
	logger := slog.New(NewLineHandler(lines, slog.LevelInfo))

	logger.Info("first")
	logger.Info("second")
	logger.Debug("filtered")

	require.Len(t, lines, 1)
	assert.Contains(t, <-lines, "first")
}
