// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package ingest

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/nextgame/internal/database"
	"github.com/tomtom215/nextgame/internal/embedding"
	"github.com/tomtom215/nextgame/internal/models"
)

// ErrSkipRow marks a source row that cannot become a games row.
var ErrSkipRow = errors.New("row skipped")

// listSeparator joins list-like fields in the games table.
const listSeparator = ", "

// releaseDateLayouts are tried in order; storefront exports mix them.
var releaseDateLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"2 Jan, 2006",
	"January 2, 2006",
	"2 January, 2006",
	"Jan 2006",
	"January 2006",
	time.RFC3339,
}

// Normalizer converts loosely typed source rows into models.Game.
type Normalizer struct {
	dim int
}

// NewNormalizer returns a Normalizer that requires embeddings of dim values.
func NewNormalizer(dim int) *Normalizer {
	if dim <= 0 {
		dim = embedding.DefaultDim
	}
	return &Normalizer{dim: dim}
}

// Game maps row to a games row. Errors wrap ErrSkipRow and name the reason.
func (n *Normalizer) Game(row database.SourceRow) (models.Game, error) {
	appid, ok := toInt64(row["appid"])
	if !ok || appid <= 0 {
		return models.Game{}, fmt.Errorf("%w: missing or invalid appid %v", ErrSkipRow, row["appid"])
	}

	name := strings.TrimSpace(toText(row["name"]))
	if name == "" {
		return models.Game{}, fmt.Errorf("%w: appid %d has no name", ErrSkipRow, appid)
	}

	text := strings.TrimSpace(toText(row["text_for_embedding"]))
	if text == "" {
		return models.Game{}, fmt.Errorf("%w: appid %d has no text_for_embedding", ErrSkipRow, appid)
	}

	blob, err := n.embeddingBlob(row["embedding"])
	if err != nil {
		return models.Game{}, fmt.Errorf("%w: appid %d: %v", ErrSkipRow, appid, err)
	}

	requiredAge, _ := toInt64(row["required_age"])
	dlcCount, _ := toInt64(row["dlc_count"])
	price, _ := toFloat(row["price"])

	return models.Game{
		AppID:              appid,
		Name:               name,
		ReleaseDate:        parseReleaseDate(row["release_date"]),
		RequiredAge:        int(requiredAge),
		Price:              price,
		DLCCount:           int(dlcCount),
		HeaderImage:        strings.TrimSpace(toText(row["header_image"])),
		Website:            strings.TrimSpace(toText(row["website"])),
		Windows:            toBool(row["windows"]),
		Mac:                toBool(row["mac"]),
		Linux:              toBool(row["linux"]),
		SupportedLanguages: joinList(row["supported_languages"]),
		Genres:             joinList(row["genres"]),
		Tags:               joinTags(row["tags"]),
		Categories:         joinList(row["categories"]),
		Developers:         joinList(row["developers"]),
		Publishers:         joinList(row["publishers"]),
		TextForEmbedding:   text,
		Embedding:          blob,
	}, nil
}

// embeddingBlob accepts a packed blob or a numeric list and returns the
// packed form, checking dimensionality and finiteness.
func (n *Normalizer) embeddingBlob(v any) ([]byte, error) {
	var values []float64
	switch val := v.(type) {
	case nil:
		return nil, errors.New("missing embedding")
	case []byte:
		vec, err := embedding.Decode(val, n.dim)
		if err != nil {
			return nil, err
		}
		for i, f := range vec {
			if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
				return nil, fmt.Errorf("element %d is not finite", i)
			}
		}
		return val, nil
	case []float32:
		values = make([]float64, len(val))
		for i, f := range val {
			values[i] = float64(f)
		}
	case []float64:
		values = val
	case []any:
		values = make([]float64, len(val))
		for i, item := range val {
			f, ok := toFloat(item)
			if !ok {
				return nil, fmt.Errorf("element %d: %v is not numeric", i, item)
			}
			values[i] = f
		}
	default:
		return nil, fmt.Errorf("unsupported embedding type %T", v)
	}

	if len(values) != n.dim {
		return nil, &embedding.ShapeError{Bytes: len(values) * 4, Got: len(values), Want: n.dim}
	}
	vec, err := embedding.FromFloat64(values)
	if err != nil {
		return nil, err
	}
	return embedding.Encode(vec), nil
}

// joinList flattens list-like values. Strings pass through unchanged.
func joinList(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(toText(item)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, listSeparator)
	case []string:
		parts := make([]string, 0, len(val))
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, listSeparator)
	case map[string]any:
		return joinTags(val)
	default:
		return strings.TrimSpace(toText(val))
	}
}

// joinTags flattens a tag -> votes map, most voted first, ties by name.
// Keys with nil votes are dropped.
// Lists and strings are handled like joinList.
func joinTags(v any) string {
	tags, ok := v.(map[string]any)
	if !ok {
		return joinList(v)
	}

	type tagVotes struct {
		name  string
		votes float64
	}
	ranked := make([]tagVotes, 0, len(tags))
	for name, raw := range tags {
		name = strings.TrimSpace(name)
		// Struct-typed sources carry every key of the file; absent ones are nil.
		if name == "" || raw == nil {
			continue
		}
		votes, _ := toFloat(raw)
		ranked = append(ranked, tagVotes{name: name, votes: votes})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].votes != ranked[j].votes {
			return ranked[i].votes > ranked[j].votes
		}
		return ranked[i].name < ranked[j].name
	})

	names := make([]string, len(ranked))
	for i, t := range ranked {
		names[i] = t.name
	}
	return strings.Join(names, listSeparator)
}

// parseReleaseDate returns nil for missing or unparseable dates.
func parseReleaseDate(v any) *time.Time {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return nil
		}
		d := time.Date(val.Year(), val.Month(), val.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		for _, layout := range releaseDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
				return &d
			}
		}
	}
	return nil
}

func toText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}

func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		if val > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case *big.Int:
		if val == nil || !val.IsInt64() {
			return 0, false
		}
		return val.Int64(), true
	case float32, float64:
		f, _ := toFloat(val)
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case string:
		s := strings.TrimSpace(val)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt64 {
			return int64(f), true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	case nil:
		return 0, false
	case interface{ Float64() float64 }: // DECIMAL columns
		return val.Float64(), true
	default:
		if i, ok := toInt64(val); ok {
			return float64(i), true
		}
	}
	return 0, false
}

// toBool returns nil when v carries no usable truth value.
func toBool(v any) *bool {
	var b bool
	switch val := v.(type) {
	case bool:
		b = val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes", "y", "t":
			b = true
		case "false", "0", "no", "n", "f":
			b = false
		default:
			return nil
		}
	default:
		i, ok := toInt64(val)
		if !ok {
			return nil
		}
		b = i != 0
	}
	return &b
}
