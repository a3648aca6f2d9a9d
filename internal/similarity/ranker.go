// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package similarity

import (
	"runtime"
	"sort"
	"sync"
)

// parallelThreshold is the corpus size above which scoring is split
// across goroutines.
const parallelThreshold = 8192

// Scored is one ranked corpus row.
type Scored struct {
	ID    int64   `json:"appid"`
	Score float64 `json:"score"`
}

// Rank returns up to topN corpus entries ordered by descending cosine
// similarity to query. The row whose ID equals queryID is never returned.
// Equal scores keep corpus order. The result is never padded and is empty
// (not nil) when nothing qualifies.
func Rank(query []float32, queryID int64, c *Corpus, topN int) []Scored {
	if topN <= 0 || c == nil || c.Len() == 0 || len(query) != c.dim {
		return []Scored{}
	}

	scores := c.scoreAll(query)

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	result := make([]Scored, 0, min(topN, c.Len()))
	for _, row := range order {
		if len(result) == topN {
			break
		}
		id := c.ids[row]
		if id == queryID {
			continue
		}
		result = append(result, Scored{ID: id, Score: scores[row]})
	}
	return result
}

// IDs extracts the identifiers from ranked entries, keeping their order.
func IDs(ranked []Scored) []int64 {
	ids := make([]int64, len(ranked))
	for i, s := range ranked {
		ids[i] = s.ID
	}
	return ids
}

// scoreAll computes the similarity of query against every row.
func (c *Corpus) scoreAll(query []float32) []float64 {
	scores := make([]float64, c.Len())
	queryNorm := Norm(query)
	if queryNorm == 0 {
		return scores
	}

	workers := runtime.GOMAXPROCS(0)
	if c.Len() < parallelThreshold || workers < 2 {
		c.scoreRange(query, queryNorm, scores, 0, c.Len())
		return scores
	}

	chunk := (c.Len() + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < c.Len(); start += chunk {
		end := min(start+chunk, c.Len())
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			c.scoreRange(query, queryNorm, scores, start, end)
		}(start, end)
	}
	wg.Wait()
	return scores
}

func (c *Corpus) scoreRange(query []float32, queryNorm float64, scores []float64, start, end int) {
	for i := start; i < end; i++ {
		scores[i] = cosineWithNorms(Dot(query, c.Row(i)), queryNorm, c.norms[i])
	}
}
