// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package query

import (
	"strings"
)

// likeEscape is the ESCAPE character used by Prefix.
const likeEscape = `\`

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// Where accumulates AND-ed conditions and their arguments.
type Where struct {
	conds []string
	args  []any
}

// NewWhereBuilder returns an empty builder; Build on it yields "1=1".
func NewWhereBuilder() *Where {
	return &Where{}
}

// AppIDIn restricts column to ids. An empty list matches nothing, so a
// text lookup for zero candidates costs no scan.
func (w *Where) AppIDIn(column string, ids []int64) *Where {
	if len(ids) == 0 {
		w.conds = append(w.conds, "1=0")
		return w
	}
	w.conds = append(w.conds, column+" IN ("+Placeholders(len(ids))+")")
	for _, id := range ids {
		w.args = append(w.args, id)
	}
	return w
}

// Prefix matches column case-insensitively against prefix, treating LIKE
// wildcards in prefix literally. An empty prefix adds nothing.
func (w *Where) Prefix(column, prefix string) *Where {
	if prefix == "" {
		return w
	}
	w.conds = append(w.conds, "lower("+column+") LIKE ? ESCAPE '"+likeEscape+"'")
	w.args = append(w.args, EscapeLike(strings.ToLower(prefix))+"%")
	return w
}

// Build returns the condition text, without the WHERE keyword, and args.
func (w *Where) Build() (string, []any) {
	if len(w.conds) == 0 {
		return "1=1", nil
	}
	return strings.Join(w.conds, " AND "), w.args
}

// Placeholders returns n comma-separated "?" markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// EscapeLike escapes %, _ and the escape character itself.
func EscapeLike(s string) string {
	return likeReplacer.Replace(s)
}
