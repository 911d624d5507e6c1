package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettyHandlerWritesAttrs(t *testing.T) {
	var buf bytes.Buffer
	lv := new(slog.LevelVar)
	log := slog.New(NewPrettyHandler(&buf, lv, ""))

	log.With("user", 42).Info("transfer started", "file", "a.zip")

	out := buf.String()
	assert.Contains(t, out, prefix)
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "transfer started")
	assert.Contains(t, out, "user"+Reset+"=42")
	assert.Contains(t, out, "file"+Reset+"=a.zip")
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lv := new(slog.LevelVar)
	lv.Set(slog.LevelWarn)
	log := slog.New(NewPrettyHandler(&buf, lv, ""))

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	SetLevel("DEBUG")
	assert.Equal(t, slog.LevelDebug, level.Level())

	SetLevel("nonsense")
	assert.Equal(t, slog.LevelInfo, level.Level())
}
