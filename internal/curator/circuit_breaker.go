// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package curator

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/nextgame/internal/logging"
	"github.com/tomtom215/nextgame/internal/metrics"
)

// BreakerName labels the curator breaker in metrics.
const BreakerName = "gemini-curator"

// Breaker tuning.
const (
	breakerMaxHalfOpen  = 3
	breakerInterval     = time.Minute
	breakerOpenTimeout  = 2 * time.Minute
	breakerMinRequests  = 10
	breakerFailureRatio = 0.6
)

// CircuitBreakerCurator wraps a Curator with a gobreaker circuit breaker.
//
// Answers the model got wrong (ErrInvalidResponse, ErrNoRecommendations) and
// caller cancellations do not count as failures; only transport and API
// errors do.
type CircuitBreakerCurator struct {
	next Curator
	cb   *gobreaker.CircuitBreaker[[]Recommendation]
	name string
}

// NewCircuitBreakerCurator wraps next.
//
// Circuit breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerCurator(next Curator) *CircuitBreakerCurator {
	return newCircuitBreakerCurator(next, BreakerName, breakerOpenTimeout)
}

func newCircuitBreakerCurator(next Curator, name string, openTimeout time.Duration) *CircuitBreakerCurator {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]Recommendation](gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerMaxHalfOpen,
		Interval:    breakerInterval,
		Timeout:     openTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio < breakerFailureRatio {
				return false
			}
			logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			return true
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errorsIsAny(err, ErrInvalidResponse, ErrNoRecommendations, context.Canceled)
		},
	})

	return &CircuitBreakerCurator{next: next, cb: cb, name: name}
}

// Curate implements Curator. An open breaker yields ErrUnavailable.
func (c *CircuitBreakerCurator) Curate(ctx context.Context, req Request) ([]Recommendation, error) {
	recs, err := c.cb.Execute(func() ([]Recommendation, error) {
		return c.next.Curate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", c.name).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(float64(c.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(0)
	return recs, nil
}

// State returns the breaker state as "closed", "half-open" or "open".
func (c *CircuitBreakerCurator) State() string {
	return stateToString(c.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
