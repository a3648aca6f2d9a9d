// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package database

import (
	"context"
	"errors"

	"github.com/tomtom215/nextgame/internal/retrieval"
	"github.com/tomtom215/nextgame/internal/similarity"
)

// RetrievalStore adapts DB to retrieval.Store.
type RetrievalStore struct {
	db *DB
}

var _ retrieval.Store = (*RetrievalStore)(nil)

// NewRetrievalStore wraps db for the retrieval engine.
func NewRetrievalStore(db *DB) *RetrievalStore {
	return &RetrievalStore{db: db}
}

// GetVector maps ErrGameNotFound to retrieval.ErrNotFound.
func (s *RetrievalStore) GetVector(ctx context.Context, appid int64) (similarity.Record, error) {
	rec, err := s.db.GetVector(ctx, appid)
	if errors.Is(err, ErrGameNotFound) {
		return similarity.Record{}, retrieval.ErrNotFound
	}
	if err != nil {
		return similarity.Record{}, err
	}
	return similarity.Record{ID: rec.AppID, Blob: rec.Embedding}, nil
}

// GetAllVectors preserves the appid ordering of DB.GetAllVectors.
func (s *RetrievalStore) GetAllVectors(ctx context.Context) ([]similarity.Record, error) {
	recs, err := s.db.GetAllVectors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]similarity.Record, len(recs))
	for i, rec := range recs {
		out[i] = similarity.Record{ID: rec.AppID, Blob: rec.Embedding}
	}
	return out, nil
}

// GetTexts delegates to DB.GetTexts.
func (s *RetrievalStore) GetTexts(ctx context.Context, appids []int64) (map[int64]string, error) {
	return s.db.GetTexts(ctx, appids)
}
