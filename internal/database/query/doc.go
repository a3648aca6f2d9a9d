// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

// Package query provides parameterized SQL WHERE-clause helpers for the
// database package.
//
//	wb := query.NewWhereBuilder()
//	wb.Prefix("name", "half_life")
//	whereClause, args := wb.Build()
//	// lower(name) LIKE ? ESCAPE '\'  with  args ["half\_life%"]
//
// User input never reaches the SQL text; only placeholders do.
package query
