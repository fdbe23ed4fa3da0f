// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		log       func(*slog.Logger)
		wantLevel string
	}{
		{"info", func(l *slog.Logger) { l.Info("msg") }, `"level":"info"`},
		{"warn", func(l *slog.Logger) { l.Warn("msg") }, `"level":"warn"`},
		{"error", func(l *slog.Logger) { l.Error("msg") }, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.log(slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf))))
			if !strings.Contains(buf.String(), tt.wantLevel) {
				t.Errorf("expected %s in output: %s", tt.wantLevel, buf.String())
			}
		})
	}
}

func TestSlogHandler_Attributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf))).
		With("service", "coordinator")

	logger.Info("service restarted",
		"attempt", 3,
		"healthy", true,
		"backoff", 2*time.Second,
		"ratio", 0.5,
		"err", errors.New("boom"),
	)

	output := buf.String()
	for _, want := range []string{
		`"service":"coordinator"`,
		`"attempt":3`,
		`"healthy":true`,
		`"ratio":0.5`,
		`"err":"boom"`,
		"service restarted",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestSlogHandler_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf))).
		WithGroup("supervisor").
		WithGroup("event")

	logger.Info("grouped", "name", "matrix-refresh", slog.Group("retry", "count", 2))

	output := buf.String()
	if !strings.Contains(output, `"supervisor.event.name":"matrix-refresh"`) {
		t.Errorf("expected nested group key in output: %s", output)
	}
	if !strings.Contains(output, `"supervisor.event.retry.count":2`) {
		t.Errorf("expected inline group key in output: %s", output)
	}
}

func TestSlogHandler_WithGroupEmpty(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.Nop())
	if got := h.WithGroup(""); got != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.New(nil).Level(zerolog.WarnLevel))
	ctx := context.Background()

	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("info should be disabled for a warn-level logger")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Error("error should be enabled for a warn-level logger")
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	original := Logger()
	defer SetLogger(original)
	SetLogger(zerolog.New(&buf))

	NewSlogLogger().Info("from slog")

	if !strings.Contains(buf.String(), "from slog") {
		t.Errorf("expected slog output in global logger: %s", buf.String())
	}
}
