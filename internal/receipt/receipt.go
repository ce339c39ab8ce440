// Package receipt turns a photo of a receipt into a suggested transaction.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrNoImage is returned when the request carries no image bytes.
	ErrNoImage = errors.New("image is required")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("receipt extraction temporarily unavailable")
	// ErrAllModelsFailed wraps the last model error when every candidate failed.
	ErrAllModelsFailed = errors.New("all model candidates failed")
)

// DefaultMimeType is assumed when the client sends none.
const DefaultMimeType = "image/jpeg"

// Receipt is the normalized extraction result.
type Receipt struct {
	Merchant string
	Category string
	Items    []string
	Total    float64
	Title    string
	Model    string
}

// Generator sends one prompt plus image to a named model and returns its text reply.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, image []byte, mimeType string) (string, error)
}

// Config configures an Extractor.
type Config struct {
	// Model is tried first, then Fallbacks in order. Duplicates are skipped.
	Model     string
	Fallbacks []string

	// Timeout bounds one whole extraction, all models included. Zero disables it.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failed extractions that
	// opens the breaker. Defaults to 5.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open. Defaults to 30s.
	OpenTimeout time.Duration
}

// Extractor runs receipt extraction with model fallbacks behind a circuit breaker.
type Extractor struct {
	gen     Generator
	models  []string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

// NewExtractor creates an Extractor that calls gen.
func NewExtractor(gen Generator, cfg Config) *Extractor {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	e := &Extractor{
		gen:     gen,
		models:  modelList(cfg.Model, cfg.Fallbacks),
		timeout: cfg.Timeout,
	}
	e.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "receipt",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// Client mistakes and cancellations say nothing about the remote side.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return e
}

// Models returns the candidate models in the order they are tried.
func (e *Extractor) Models() []string {
	return append([]string(nil), e.models...)
}

// modelList joins primary and fallbacks, trimming blanks and duplicates.
func modelList(primary string, fallbacks []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range append([]string{primary}, fallbacks...) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// Extract reads the receipt in image. mimeType defaults to DefaultMimeType.
func (e *Extractor) Extract(ctx context.Context, image []byte, mimeType string) (*Receipt, error) {
	if len(image) == 0 {
		return nil, ErrNoImage
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = DefaultMimeType
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	result, err := e.cb.Execute(func() (any, error) {
		return e.tryModels(ctx, image, mimeType)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	if err != nil {
		return nil, err
	}
	return result.(*Receipt), nil
}

// tryModels asks each candidate in turn and returns the first parseable reply.
func (e *Extractor) tryModels(ctx context.Context, image []byte, mimeType string) (*Receipt, error) {
	var lastErr error
	for _, model := range e.models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := e.gen.Generate(ctx, model, Prompt, image, mimeType)
		if err != nil {
			slog.Warn("Receipt model failed", "model", model, "error", err)
			lastErr = err
			continue
		}

		r, err := parseReply(text)
		if err != nil {
			slog.Warn("Receipt reply unparseable", "model", model, "error", err)
			lastErr = err
			continue
		}

		r.Model = model
		r.Title = suggestTitle(r)
		return &r, nil
	}

	if lastErr == nil {
		return nil, ErrAllModelsFailed
	}
	return nil, fmt.Errorf("%w: %w", ErrAllModelsFailed, lastErr)
}

// Prompt instructs the model to reply with the receipt JSON only.
const Prompt = `
Extract receipt info as strict JSON.

Fields:
- merchant: short name (e.g., "Domino's", "Zomato", "Cafe XYZ")
- category: one of ["Food","Travel","Stay","Shopping","Activity","Other"]
- items: array of up to 10 concise item names (strings). (Optional; short.)
- total: final bill total as number

Rules:
- Reply ONLY with JSON (no code fences, no extra text).
- If something missing, do best-effort guess; keep "Other" category if unsure.

Example:
{"merchant":"Domino's","category":"Food","items":["pizza","garlic bread","coke"],"total":1249}
`
