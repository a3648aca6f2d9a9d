// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nextgame/internal/logging"
	"github.com/tomtom215/nextgame/internal/middleware"
	"github.com/tomtom215/nextgame/internal/models"
	"github.com/tomtom215/nextgame/internal/validation"
)

// sanitizeLogValue escapes control characters so user input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// respondJSON sends an envelope response. Successful responses may be
// cached for a minute unless the handler already chose a Cache-Control.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	if w.Header().Get("Cache-Control") == "" {
		if status == http.StatusOK {
			w.Header().Set("Cache-Control", "public, max-age=60")
		} else {
			w.Header().Set("Cache-Control", "no-store")
		}
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondRaw sends v as JSON without the envelope. Used by the legacy
// routes, whose clients expect the bare shapes.
func respondRaw(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag is the FNV-1a hash of the body.
func generateETag(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return strconv.FormatUint(uint64(h.Sum32()), 16)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, models.Failure(&models.APIError{Code: code, Message: message}))
}

// respondFailure classifies err and writes the matching error response.
// Server-side failures are logged with the request's IDs, and the request
// ID is echoed in the error details so clients can quote it.
func respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	f := classifyError(err)
	if f.status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().
			Str("code", f.code).
			Str("error", sanitizeLogValue(err.Error())).
			Str("path", r.URL.Path).
			Msg("Request failed")
	} else {
		logging.Ctx(r.Context()).Debug().
			Str("code", f.code).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("Request rejected")
	}

	apiErr := &models.APIError{Code: f.code, Message: f.message}
	if id := middleware.GetRequestID(r.Context()); id != "" && f.status >= http.StatusInternalServerError {
		apiErr.Details = map[string]any{"request_id": id}
	}
	respondJSON(w, f.status, models.Failure(apiErr))
}

// respondValidation writes a 400 with the validator's details.
func respondValidation(w http.ResponseWriter, apiErr *models.APIError) {
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusBadRequest, models.Failure(apiErr))
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
//
// Example:
//
//	req := SearchRequest{
//	    Query: r.URL.Query().Get("q"),
//	    Limit: getIntParam(r, "limit", defaultSearchLimit),
//	}
//	if apiErr := validateRequest(&req); apiErr != nil {
//	    respondValidation(w, apiErr)
//	    return
//	}
func validateRequest(v any) *models.APIError {
	if errs := validation.Struct(v); errs != nil {
		return errs.APIError()
	}
	return nil
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}
