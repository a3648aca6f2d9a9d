// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package curator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/nextgame/internal/config"
	"github.com/tomtom215/nextgame/internal/metrics"
)

// maxErrorBodySize is the maximum size of response body to read for error messages (64KB)
const maxErrorBodySize = 64 * 1024

const defaultMaxRetries = 5

// Generation parameters sent with every request.
const (
	generationTemperature = 0.2
	generationTopP        = 0.95
	generationTopK        = 64
	generationMaxTokens   = 8192
	responseMIMEType      = "application/json"
	safetyThreshold       = "BLOCK_MEDIUM_AND_ABOVE"
)

var safetyCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// Wire types for the generateContent endpoint.
type (
	geminiPart struct {
		Text string `json:"text"`
	}

	geminiContent struct {
		Role  string       `json:"role,omitempty"`
		Parts []geminiPart `json:"parts"`
	}

	generationConfig struct {
		Temperature      float64 `json:"temperature"`
		TopP             float64 `json:"topP"`
		TopK             int     `json:"topK"`
		MaxOutputTokens  int     `json:"maxOutputTokens"`
		ResponseMIMEType string  `json:"responseMimeType"`
	}

	safetySetting struct {
		Category  string `json:"category"`
		Threshold string `json:"threshold"`
	}

	generateRequest struct {
		SystemInstruction geminiContent    `json:"systemInstruction"`
		Contents          []geminiContent  `json:"contents"`
		GenerationConfig  generationConfig `json:"generationConfig"`
		SafetySettings    []safetySetting  `json:"safetySettings"`
	}

	generateResponse struct {
		Candidates []struct {
			Content      geminiContent `json:"content"`
			FinishReason string        `json:"finishReason"`
		} `json:"candidates"`
		PromptFeedback *struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback,omitempty"`
	}
)

// Client calls the Gemini generateContent REST endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
	logger     zerolog.Logger
}

// NewClient creates a Gemini client. It does not check the API key; callers
// use cfg.Enabled() to decide between a Client and Disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg *config.CuratorConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   fmt.Sprintf("%s/v1beta/models/%s:generateContent", base, url.PathEscape(cfg.Model)),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		baseDelay:  time.Second,
		logger:     logger.With().Str("component", "curator").Str("model", cfg.Model).Logger(),
	}
}

// Curate implements Curator.
func (c *Client) Curate(ctx context.Context, req Request) ([]Recommendation, error) {
	if len(req.Candidates) == 0 {
		return nil, ErrNoRecommendations
	}

	start := time.Now()
	recs, err := c.curate(ctx, req)
	metrics.RecordCuratorRequest(curatorResult(err), time.Since(start))
	if err != nil {
		c.logger.Warn().Err(err).Str("target", req.TargetName).Int("candidates", len(req.Candidates)).Msg("Curation failed")
		return nil, err
	}

	c.logger.Debug().Str("target", req.TargetName).Int("picks", len(recs)).Dur("duration", time.Since(start)).Msg("Curation completed")
	return recs, nil
}

func (c *Client) curate(ctx context.Context, req Request) ([]Recommendation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("curator rate limiter: %w", err)
	}

	payload, err := json.Marshal(newGenerateRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.doRequestWithRetry(ctx, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", ErrInvalidResponse, err)
	}

	text, err := out.text()
	if err != nil {
		return nil, err
	}
	return parseRecommendations(text)
}

func newGenerateRequest(req Request) generateRequest {
	safety := make([]safetySetting, len(safetyCategories))
	for i, category := range safetyCategories {
		safety[i] = safetySetting{Category: category, Threshold: safetyThreshold}
	}
	return generateRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: systemInstruction}}},
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: buildPrompt(req)}},
		}},
		GenerationConfig: generationConfig{
			Temperature:      generationTemperature,
			TopP:             generationTopP,
			TopK:             generationTopK,
			MaxOutputTokens:  generationMaxTokens,
			ResponseMIMEType: responseMIMEType,
		},
		SafetySettings: safety,
	}
}

// text concatenates the parts of the first candidate.
func (r *generateResponse) text() (string, error) {
	if len(r.Candidates) == 0 {
		if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", ErrInvalidResponse, r.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}

	first := r.Candidates[0]
	var b strings.Builder
	for _, part := range first.Content.Parts {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty candidate (finish reason %s)", ErrInvalidResponse, first.FinishReason)
	}
	return b.String(), nil
}

// doRequestWithRetry posts payload, retrying HTTP 429 with exponential
// backoff. A Retry-After header in seconds overrides the computed delay.
func (c *Client) doRequestWithRetry(ctx context.Context, payload []byte) (*http.Response, error) {
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		resp.Body.Close()
		if attempt == c.maxRetries {
			break
		}

		retryDelay := c.baseDelay * (1 << attempt) // 1s, 2s, 4s, 8s, 16s
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				retryDelay = seconds
			}
		}

		c.logger.Warn().Dur("retry_delay", retryDelay).Int("attempt", attempt+1).Int("max_retries", c.maxRetries).Msg("Gemini API rate limited (HTTP 429), retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("%w after %d retries", ErrRateLimited, c.maxRetries)
}

// readBodyForError reads up to maxErrorBodySize bytes from the response body for error messages.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

func curatorResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errorsIsAny(err, ErrInvalidResponse, ErrNoRecommendations):
		return "invalid_response"
	case errorsIsAny(err, ErrRateLimited):
		return "rate_limited"
	case errorsIsAny(err, context.Canceled, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
