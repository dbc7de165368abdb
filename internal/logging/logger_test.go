// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("provider_id", "p-1").Msg("booking confirmed")

	out := buf.String()
	if !strings.Contains(out, `"provider_id":"p-1"`) {
		t.Errorf("expected structured field in output, got %q", out)
	}
	if !strings.Contains(out, "booking confirmed") {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestTestLoggerCaptures(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)
	logger.Warn().Int("unread", 3).Msg("unread count")

	if !strings.Contains(buf.String(), `"unread":3`) {
		t.Errorf("expected unread field, got %q", buf.String())
	}
}

func TestSlogHandlerRoutesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	handler := &SlogHandler{logger: NewTestLogger(&buf)}
	logger := slog.New(handler)

	logger.Info("call ended", "call_id", "c-9", "duration", int64(120))

	out := buf.String()
	if !strings.Contains(out, `"call_id":"c-9"`) {
		t.Errorf("expected call_id field, got %q", out)
	}
	if !strings.Contains(out, "call ended") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestSlogHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	handler := &SlogHandler{logger: NewTestLogger(&buf)}
	logger := slog.New(handler).WithGroup("billing")

	logger.Warn("hold failed", "booking_id", "b-2")

	if !strings.Contains(buf.String(), `"billing.booking_id":"b-2"`) {
		t.Errorf("expected grouped field, got %q", buf.String())
	}
}
