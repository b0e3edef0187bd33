// Package validate normalizes and validates free-text user input against an
// expected semantic category, using the LLM as a classifier/extractor.
package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/disha/internal/llm"
)

// Kind is the semantic category an input is validated against.
type Kind string

const (
	KindName      Kind = "name"
	KindStream    Kind = "stream"
	KindDomain    Kind = "domain"
	KindSentiment Kind = "sentiment"
)

// Positive is the canonical positive sentiment label.
const Positive = "POSITIVE"

// Negative is the canonical negative sentiment label.
const Negative = "NEGATIVE"

// Token thresholds for the cheap path: short inputs are taken as
// already-canonical and skip the backend entirely.
const (
	nameTokenLimit   = 2
	domainTokenLimit = 3
)

// Config holds tunables for validation calls.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the default validation config. Classification
// calls are short and deterministic.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0,
	}
}

// Gateway validates raw user input. It is stateless: every call is a pure
// function of its input plus one optional outbound classification call.
type Gateway struct {
	provider llm.Provider
	cfg      Config
}

// New creates a validation gateway backed by the given provider.
func New(provider llm.Provider, cfg Config) *Gateway {
	return &Gateway{provider: provider, cfg: cfg}
}

// Validate checks rawText against the expected kind.
// Returns (canonical, true, nil) on acceptance and ("", false, nil) on
// rejection. A malformed classification response counts as a rejection,
// not an error; transport failures are returned as errors for the caller
// to surface.
func (g *Gateway) Validate(ctx context.Context, kind Kind, rawText string) (string, bool, error) {
	trimmed := strings.TrimSpace(rawText)

	switch kind {
	case KindName:
		return g.validateName(ctx, trimmed)
	case KindStream:
		return g.classify(ctx, "stream", streamSystemPrompt, trimmed)
	case KindDomain:
		if len(strings.Fields(trimmed)) <= domainTokenLimit {
			return trimmed, true, nil
		}
		return g.classify(ctx, "domain", domainSystemPrompt, trimmed)
	case KindSentiment:
		return g.sentiment(ctx, trimmed)
	default:
		return "", false, fmt.Errorf("unknown validation kind: %q", kind)
	}
}

// validateName extracts a name. This path never rejects: a short input is
// taken verbatim, and a failed extraction falls back to the raw text.
func (g *Gateway) validateName(ctx context.Context, raw string) (string, bool, error) {
	if len(strings.Fields(raw)) <= nameTokenLimit {
		return raw, true, nil
	}

	ctx = llm.WithPurpose(ctx, "validate")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      nameSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: classificationUserMessage(raw)}},
		Schema:      NameSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		LowLatency:  true,
	})
	if err != nil {
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			return raw, true, nil
		}
		return "", false, err
	}

	var out struct {
		Name string `json:"name"`
	}
	if jsonErr := json.Unmarshal(resp.Content, &out); jsonErr != nil || strings.TrimSpace(out.Name) == "" {
		return raw, true, nil
	}
	return strings.TrimSpace(out.Name), true, nil
}

// classify runs a structured accept/reject classification for stream and
// domain inputs.
func (g *Gateway) classify(ctx context.Context, purpose, system, raw string) (string, bool, error) {
	if raw == "" {
		return "", false, nil
	}

	ctx = llm.WithPurpose(ctx, "validate")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: classificationUserMessage(raw)}},
		Schema:      ClassificationSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		LowLatency:  true,
	})
	if err != nil {
		// A schema-violating classification is domain information (the
		// input couldn't be classified), not a hard failure.
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s classification: %w", purpose, err)
	}

	var out struct {
		IsValid   bool   `json:"is_valid"`
		Canonical string `json:"canonical"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", false, nil
	}
	if !out.IsValid || strings.TrimSpace(out.Canonical) == "" {
		return "", false, nil
	}
	return strings.TrimSpace(out.Canonical), true, nil
}

// sentiment runs a single-token binary classification. Anything other
// than an exact case-insensitive POSITIVE is negative — ambiguous
// feedback deliberately routes to the "explore something else" branch.
func (g *Gateway) sentiment(ctx context.Context, raw string) (string, bool, error) {
	ctx = llm.WithPurpose(ctx, "sentiment")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      sentimentSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: classificationUserMessage(raw)}},
		MaxTokens:   8,
		Temperature: 0,
		LowLatency:  true,
	})
	if err != nil {
		return "", false, fmt.Errorf("sentiment classification: %w", err)
	}

	if strings.EqualFold(strings.TrimSpace(resp.Text()), Positive) {
		return Positive, true, nil
	}
	return Negative, true, nil
}
