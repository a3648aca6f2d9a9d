// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package retrieval

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/nextgame/internal/embedding"
	"github.com/tomtom215/nextgame/internal/similarity"
)

// fakeStore is an in-memory Store for tests.
type fakeStore struct {
	mu      sync.Mutex
	records []similarity.Record
	texts   map[int64]string

	allErr  error
	textErr error

	// gate, when set, blocks GetAllVectors until it is closed.
	gate     chan struct{}
	allCalls atomic.Int32
	entered  chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{texts: make(map[int64]string)}
}

func (s *fakeStore) add(id int64, text string, vec ...float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, similarity.Record{ID: id, Blob: embedding.Encode(vec)})
	if text != "" {
		s.texts[id] = text
	}
}

func (s *fakeStore) addBlob(id int64, text string, blob []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, similarity.Record{ID: id, Blob: blob})
	s.texts[id] = text
}

func (s *fakeStore) setAllErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allErr = err
}

func (s *fakeStore) GetVector(_ context.Context, appid int64) (similarity.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == appid {
			return r, nil
		}
	}
	return similarity.Record{}, ErrNotFound
}

func (s *fakeStore) GetAllVectors(ctx context.Context) ([]similarity.Record, error) {
	s.allCalls.Add(1)
	if s.entered != nil {
		select {
		case s.entered <- struct{}{}:
		default:
		}
	}
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allErr != nil {
		return nil, s.allErr
	}
	out := make([]similarity.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *fakeStore) GetTexts(_ context.Context, appids []int64) (map[int64]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.textErr != nil {
		return nil, s.textErr
	}
	out := make(map[int64]string, len(appids))
	for _, id := range appids {
		if text, ok := s.texts[id]; ok {
			out[id] = text
		}
	}
	return out, nil
}
