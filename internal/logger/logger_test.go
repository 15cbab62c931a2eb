package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("score rose", "round", "york", "handicap", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "score rose")
	assert.Contains(t, out, "round=york")
	assert.Contains(t, out, "handicap=42")

	log.SetLevel(slog.LevelDebug)
	assert.Equal(t, slog.LevelDebug, log.GetLevel())
	log.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestSlogLogger_WithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(&buf, slog.LevelError)
	child := parent.With("kind", "handicap")

	child.Info("dropped")
	parent.SetLevel(slog.LevelInfo)
	child.Info("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "kind=handicap")
}

func TestNop(t *testing.T) {
	log := Nop()

	assert.NotPanics(t, func() {
		log.Error("nothing happens")
		log.With("a", 1).Warn("still nothing")
	})
}
