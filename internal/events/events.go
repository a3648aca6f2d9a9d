// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

var (
	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("events: publisher is closed")

	// ErrInvalidEvent is returned for payloads that fail validation.
	ErrInvalidEvent = errors.New("events: invalid event")
)

// Metadata keys set on every message.
const (
	MetadataSource    = "source"
	MetadataEventType = "event_type"
)

// EventTypeCorpusChanged identifies CorpusChanged payloads.
const EventTypeCorpusChanged = "corpus.changed"

// CorpusChanged announces that the games table was rewritten.
type CorpusChanged struct {
	EventID string    `json:"event_id"`
	Source  string    `json:"source"`
	Rows    int       `json:"rows"`
	Skipped int       `json:"skipped"`
	At      time.Time `json:"at"`
}

// Validate checks required fields.
func (e *CorpusChanged) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	}
	if e.At.IsZero() {
		return fmt.Errorf("%w: at is required", ErrInvalidEvent)
	}
	if e.Rows < 0 || e.Skipped < 0 {
		return fmt.Errorf("%w: negative counters", ErrInvalidEvent)
	}
	return nil
}

func marshalCorpusChanged(e *CorpusChanged) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

func unmarshalCorpusChanged(data []byte) (*CorpusChanged, error) {
	var e CorpusChanged
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
