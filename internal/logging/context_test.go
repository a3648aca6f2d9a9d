// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestNewRequestID(t *testing.T) {
	t.Parallel()

	id := NewRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("NewRequestID() = %q is not a UUID: %v", id, err)
	}
	if id == NewRequestID() {
		t.Error("request IDs should be unique")
	}
}

func TestContextWithRequestID(t *testing.T) {
	t.Parallel()

	empty := context.Background()
	if RequestIDFromContext(empty) != "" || CorrelationIDFromContext(empty) != "" {
		t.Error("empty context should carry no IDs")
	}

	first := ContextWithRequestID(empty, "edge-42")
	second := ContextWithRequestID(empty, "edge-42")

	if got := RequestIDFromContext(first); got != "edge-42" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
	c1, c2 := CorrelationIDFromContext(first), CorrelationIDFromContext(second)
	if len(c1) != correlationIDLength {
		t.Errorf("correlation ID %q has length %d", c1, len(c1))
	}
	if c1 == c2 {
		t.Error("a reused request ID must still get a new correlation ID")
	}
}

func TestCtx(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))
	ctx = ContextWithRequestID(ctx, "req-42")

	Ctx(ctx).Info().Int64("appid", 620).Msg("handled")

	out := buf.String()
	for _, want := range []string{`"request_id":"req-42"`, `"correlation_id":"`, `"appid":620`, `"message":"handled"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestCtx_NoIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Ctx(ContextWithLogger(context.Background(), zerolog.New(&buf))).Info().Msg("startup")

	if strings.Contains(buf.String(), "request_id") || strings.Contains(buf.String(), "correlation_id") {
		t.Errorf("absent IDs should not be logged: %s", buf.String())
	}
}
