// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/nextgame/internal/models"
)

// ErrorCode is the API error code for every validation failure.
const ErrorCode = "VALIDATION_ERROR"

// FieldError is one rejected request parameter.
type FieldError struct {
	Field   string // query parameter name
	Tag     string // failed rule, e.g. "max"
	Param   string // rule argument, e.g. "100"
	Value   any
	Message string
}

func (e FieldError) Error() string { return e.Message }

// Errors lists every rejected parameter of one request, in struct order.
type Errors []FieldError

func (errs Errors) Error() string {
	if len(errs) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// APIError renders errs for the response envelope. A single failure puts
// field, tag and value in Details; several go under Details["fields"].
func (errs Errors) APIError() *models.APIError {
	apiErr := &models.APIError{Code: ErrorCode, Message: "Validation failed"}
	switch len(errs) {
	case 0:
	case 1:
		apiErr.Message = errs[0].Message
		apiErr.Details = map[string]any{
			"field": errs[0].Field,
			"tag":   errs[0].Tag,
			"value": errs[0].Value,
		}
	default:
		fields := make([]map[string]any, len(errs))
		for i, e := range errs {
			fields[i] = map[string]any{"field": e.Field, "tag": e.Tag, "message": e.Message}
		}
		apiErr.Message = errs.Error()
		apiErr.Details = map[string]any{"fields": fields}
	}
	return apiErr
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared instance; it caches struct metadata.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(paramName)
		if err := validate.RegisterValidation("nocontrol", noControlChars); err != nil {
			panic(fmt.Sprintf("register nocontrol validator: %v", err))
		}
	})
	return validate
}

// Struct validates a request struct. It returns nil when v is valid.
func Struct(v any) Errors {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Field: "request", Tag: "invalid", Message: err.Error()}}
	}

	out := make(Errors, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: describe(fe),
		}
	}
	return out
}

// paramName reports fields by their `query` tag, falling back to `json`
// and then the Go name.
func paramName(f reflect.StructField) string {
	for _, key := range []string{"query", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return f.Name
}

// noControlChars keeps newlines and escapes out of game names, where they
// would split log lines and confuse the curator prompt.
func noControlChars(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsControl)
}

var ruleText = map[string]string{
	"required":  "is required",
	"nocontrol": "must not contain control characters",
	"oneof":     "must be one of: %s",
	"gt":        "must be greater than %s",
	"gte":       "must be greater than or equal to %s",
	"lt":        "must be less than %s",
	"lte":       "must be less than or equal to %s",
	"min":       "must be at least %s",
	"max":       "must be at most %s",
}

func describe(fe validator.FieldError) string {
	text, ok := ruleText[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	if strings.Contains(text, "%s") {
		text = fmt.Sprintf(text, fe.Param())
	}
	if (fe.Tag() == "min" || fe.Tag() == "max") && fe.Kind() == reflect.String {
		text += " characters"
	}
	return fe.Field() + " " + text
}
