// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package similarity

import "github.com/rs/zerolog"

// ScoredText is a ranked row with its resolved text.
type ScoredText struct {
	Scored
	Text string
}

// ResolveTexts maps ids to their text in the same order. IDs missing from
// lookup are dropped and logged.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func ResolveTexts(ids []int64, lookup map[int64]string, logger zerolog.Logger) []string {
	texts := make([]string, 0, len(ids))
	resolve(ids, lookup, logger, func(_ int, text string) {
		texts = append(texts, text)
	})
	return texts
}

// ResolveScored is ResolveTexts keeping each row's score.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func ResolveScored(ranked []Scored, lookup map[int64]string, logger zerolog.Logger) []ScoredText {
	out := make([]ScoredText, 0, len(ranked))
	resolve(IDs(ranked), lookup, logger, func(i int, text string) {
		out = append(out, ScoredText{Scored: ranked[i], Text: text})
	})
	return out
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func resolve(ids []int64, lookup map[int64]string, logger zerolog.Logger, keep func(i int, text string)) {
	for i, id := range ids {
		text, ok := lookup[id]
		if !ok {
			logger.Warn().Int64("appid", id).Msg("no text for ranked game, dropping it")
			continue
		}
		keep(i, text)
	}
}
