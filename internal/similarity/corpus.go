// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package similarity

import (
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nextgame/internal/embedding"
)

// ErrEmptyCorpus is returned when no record decodes to a usable vector.
var ErrEmptyCorpus = errors.New("no similarity data available")

// Record is one raw (appid, embedding blob) pair from the store.
type Record struct {
	ID   int64
	Blob []byte
}

// Corpus is an immutable set of decoded vectors.
// Row i of the matrix belongs to IDs()[i].
type Corpus struct {
	dim     int
	ids     []int64
	matrix  []float32
	norms   []float64
	index   map[int64]int
	skipped int
}

// Load decodes records into a Corpus. Rows with the wrong shape or
// non-finite values are skipped with a warning. It returns ErrEmptyCorpus
// when nothing survives.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Load(records []Record, dim int, logger zerolog.Logger) (*Corpus, error) {
	c := &Corpus{
		dim:    dim,
		ids:    make([]int64, 0, len(records)),
		matrix: make([]float32, 0, len(records)*dim),
		norms:  make([]float64, 0, len(records)),
		index:  make(map[int64]int, len(records)),
	}

	row := make([]float32, dim)
	for _, rec := range records {
		if err := embedding.DecodeInto(row, rec.Blob); err != nil {
			c.skipped++
			logger.Warn().Err(err).Int64("appid", rec.ID).Msg("skipping corpus row with unreadable embedding")
			continue
		}
		if !finite(row) {
			c.skipped++
			logger.Warn().Int64("appid", rec.ID).Msg("skipping corpus row with non-finite embedding values")
			continue
		}
		if _, dup := c.index[rec.ID]; dup {
			c.skipped++
			logger.Warn().Int64("appid", rec.ID).Msg("skipping duplicate corpus row")
			continue
		}

		c.index[rec.ID] = len(c.ids)
		c.ids = append(c.ids, rec.ID)
		c.matrix = append(c.matrix, row...)
		c.norms = append(c.norms, Norm(row))
	}

	if len(c.ids) == 0 {
		return nil, ErrEmptyCorpus
	}

	if c.skipped > 0 {
		logger.Warn().
			Int("loaded", len(c.ids)).
			Int("skipped", c.skipped).
			Msg("corpus loaded with skipped rows")
	}
	return c, nil
}

// Len returns the number of rows.
func (c *Corpus) Len() int { return len(c.ids) }

// Dim returns the vector dimensionality.
func (c *Corpus) Dim() int { return c.dim }

// Skipped returns how many input records were rejected during Load.
func (c *Corpus) Skipped() int { return c.skipped }

// ID returns the appid of row i.
func (c *Corpus) ID(i int) int64 { return c.ids[i] }

// IDs returns a copy of the row identifiers in corpus order.
func (c *Corpus) IDs() []int64 {
	out := make([]int64, len(c.ids))
	copy(out, c.ids)
	return out
}

// Row returns the vector of row i. The slice aliases the corpus and must
// not be modified.
func (c *Corpus) Row(i int) []float32 {
	return c.matrix[i*c.dim : (i+1)*c.dim : (i+1)*c.dim]
}

// Vector returns the vector stored for id, if present.
func (c *Corpus) Vector(id int64) ([]float32, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.Row(i), true
}

func finite(v []float32) bool {
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
