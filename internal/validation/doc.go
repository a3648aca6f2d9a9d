// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package validation validates HTTP request structs with go-playground/validator
v10.

A single validator instance is shared by the process (it caches struct
metadata). Errors name the query parameter that failed, taken from the
`query` struct tag:

	type SimilarRequest struct {
	    AppID int64 `query:"appid" validate:"min=1"`
	    TopN  int   `query:"top_n" validate:"min=1,max=100"`
	}

	if errs := validation.Struct(&req); errs != nil {
	    apiErr := errs.APIError() // Code "VALIDATION_ERROR"
	}

Custom tags:
  - nocontrol: rejects strings containing Unicode control characters
*/
package validation
