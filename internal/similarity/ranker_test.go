// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package similarity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
)

func mustLoad(t *testing.T, dim int, records ...Record) *Corpus {
	t.Helper()
	c, err := Load(records, dim, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCosine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 1}, b: []float32{-1, -1}, want: -1},
		{name: "scaled", a: []float32{1, 2}, b: []float32{2, 4}, want: 1},
		{name: "zero left", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "zero both", a: []float32{0, 0}, b: []float32{0, 0}, want: 0},
		{name: "length mismatch", a: []float32{1}, b: []float32{1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosine_Symmetric(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 200; n++ {
		a := make([]float32, 16)
		b := make([]float32, 16)
		for i := range a {
			a[i] = rng.Float32()*2 - 1
			b[i] = rng.Float32()*2 - 1
		}
		if Cosine(a, b) != Cosine(b, a) {
			t.Fatalf("Cosine not symmetric for %v and %v", a, b)
		}
	}
}

func TestRank_EndToEndScenario(t *testing.T) {
	t.Parallel()

	const a, b, c = 1, 2, 3
	corpus := mustLoad(t, 2, rec(a, 1, 0), rec(b, 1, 0), rec(c, 0, 1))

	got := IDs(Rank([]float32{1, 0}, a, corpus, 2))
	if want := []int64{b, c}; !equalIDs(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestRank_ExcludesQuery(t *testing.T) {
	t.Parallel()

	corpus := mustLoad(t, 2, rec(1, 1, 0), rec(2, 0.9, 0.1), rec(3, 0, 1), rec(4, -1, 0))

	for topN := 1; topN <= 6; topN++ {
		for _, q := range []int64{1, 2, 3, 4} {
			query, _ := corpus.Vector(q)
			ranked := Rank(query, q, corpus, topN)
			for _, s := range ranked {
				if s.ID == q {
					t.Fatalf("Rank(topN=%d) returned the query %d", topN, q)
				}
			}
			if len(ranked) > topN || len(ranked) > corpus.Len()-1 {
				t.Fatalf("Rank(topN=%d) returned %d entries", topN, len(ranked))
			}
		}
	}
}

func TestRank_DescendingScores(t *testing.T) {
	t.Parallel()

	corpus := mustLoad(t, 2, rec(1, 0, 1), rec(2, 1, 1), rec(3, 1, 0), rec(4, -1, 0))

	ranked := Rank([]float32{1, 0}, 99, corpus, 10)
	if want := []int64{3, 2, 1, 4}; !equalIDs(IDs(ranked), want) {
		t.Fatalf("Rank() = %v, want %v", IDs(ranked), want)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("scores not descending: %v", ranked)
		}
	}
}

func TestRank_TiesKeepCorpusOrder(t *testing.T) {
	t.Parallel()

	// 5 and 9 hold identical vectors; 5 comes first in the corpus.
	corpus := mustLoad(t, 2, rec(1, 0, 1), rec(5, 1, 1), rec(9, 1, 1), rec(3, 1, 0))

	for run := 0; run < 2; run++ {
		got := IDs(Rank([]float32{1, 1}, 1, corpus, 2))
		if want := []int64{5, 9}; !equalIDs(got, want) {
			t.Fatalf("run %d: Rank() = %v, want %v", run, got, want)
		}
	}

	// Reversing the corpus order reverses the tie-break.
	reversed := mustLoad(t, 2, rec(1, 0, 1), rec(9, 1, 1), rec(5, 1, 1), rec(3, 1, 0))
	if got := IDs(Rank([]float32{1, 1}, 1, reversed, 2)); !equalIDs(got, []int64{9, 5}) {
		t.Errorf("Rank() on reversed corpus = %v, want [9 5]", got)
	}
}

func TestRank_DuplicateOfQueryStillReturned(t *testing.T) {
	t.Parallel()

	// 2 duplicates the query vector and ties with it; only the query itself
	// is skipped, so topN entries are still filled.
	corpus := mustLoad(t, 2, rec(2, 1, 0), rec(1, 1, 0), rec(3, 0.5, 0.5), rec(4, 0, 1))

	got := IDs(Rank([]float32{1, 0}, 1, corpus, 3))
	if want := []int64{2, 3, 4}; !equalIDs(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestRank_NoPadding(t *testing.T) {
	t.Parallel()

	corpus := mustLoad(t, 2, rec(1, 1, 0), rec(2, 0, 1))

	if got := Rank([]float32{1, 0}, 1, corpus, 20); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Rank() = %v, want one entry for appid 2", got)
	}
}

func TestRank_OnlyQueryInCorpus(t *testing.T) {
	t.Parallel()

	corpus := mustLoad(t, 2, rec(1, 1, 0))

	got := Rank([]float32{1, 0}, 1, corpus, 5)
	if got == nil || len(got) != 0 {
		t.Errorf("Rank() = %#v, want empty non-nil slice", got)
	}
}

func TestRank_ZeroQuery(t *testing.T) {
	t.Parallel()

	corpus := mustLoad(t, 2, rec(1, 1, 0), rec(2, 0, 1), rec(3, 0, 0))

	ranked := Rank([]float32{0, 0}, 42, corpus, 3)
	if got := IDs(ranked); !equalIDs(got, []int64{1, 2, 3}) {
		t.Fatalf("Rank() = %v, want corpus order [1 2 3]", got)
	}
	for _, s := range ranked {
		if s.Score != 0 {
			t.Errorf("score for %d = %v, want 0", s.ID, s.Score)
		}
	}
}

func TestRank_InvalidInputs(t *testing.T) {
	t.Parallel()

	corpus := mustLoad(t, 2, rec(1, 1, 0), rec(2, 0, 1))

	if got := Rank([]float32{1, 0}, 1, corpus, 0); len(got) != 0 {
		t.Errorf("topN=0 returned %v", got)
	}
	if got := Rank([]float32{1, 0, 0}, 1, corpus, 2); len(got) != 0 {
		t.Errorf("wrong query dimensionality returned %v", got)
	}
	if got := Rank([]float32{1, 0}, 1, nil, 2); len(got) != 0 {
		t.Errorf("nil corpus returned %v", got)
	}
}

func TestRank_ParallelMatchesSerial(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	const dim = 8
	records := make([]Record, parallelThreshold+500)
	for i := range records {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(rng.Intn(5)) // small alphabet forces many ties
		}
		records[i] = rec(int64(i+1), v...)
	}
	corpus := mustLoad(t, dim, records...)
	query, _ := corpus.Vector(1)

	parallel := Rank(query, 1, corpus, 50)

	scores := make([]float64, corpus.Len())
	corpus.scoreRange(query, Norm(query), scores, 0, corpus.Len())
	serial := corpus.scoreAll(query)
	for i := range scores {
		if scores[i] != serial[i] {
			t.Fatalf("row %d: parallel score %v != serial %v", i, serial[i], scores[i])
		}
	}

	for i := 1; i < len(parallel); i++ {
		prev, cur := parallel[i-1], parallel[i]
		if cur.Score > prev.Score {
			t.Fatalf("not descending at %d", i)
		}
		if cur.Score == prev.Score && cur.ID < prev.ID {
			t.Fatalf("tie at %d not in corpus order: %d before %d", i, prev.ID, cur.ID)
		}
	}
}

func BenchmarkRank(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	const dim = 384
	records := make([]Record, 20000)
	for i := range records {
		v := make([]float32, dim)
		for j := range v {
			v[j] = rng.Float32()
		}
		records[i] = rec(int64(i+1), v...)
	}
	corpus, err := Load(records, dim, zerolog.Nop())
	if err != nil {
		b.Fatal(err)
	}
	query, _ := corpus.Vector(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Rank(query, 1, corpus, 20)
	}
}
