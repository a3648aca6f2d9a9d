// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package retrieval

import (
	"context"

	"github.com/tomtom215/nextgame/internal/similarity"
)

// Store is the read-only data access the engine needs.
// It is typically implemented by the database layer.
type Store interface {
	// GetVector returns the embedding record for appid, or an error
	// matching ErrNotFound.
	GetVector(ctx context.Context, appid int64) (similarity.Record, error)

	// GetAllVectors returns every embedding record. The order of the
	// result is the corpus order used to break score ties.
	GetAllVectors(ctx context.Context) ([]similarity.Record, error)

	// GetTexts returns the descriptive text of each requested appid that
	// exists. Missing appids are simply absent from the map.
	GetTexts(ctx context.Context, appids []int64) (map[int64]string, error)
}
