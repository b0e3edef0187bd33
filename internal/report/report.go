// Package report produces long-form domain guides and staged preparation
// roadmaps for a career domain.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/disha/internal/llm"
)

// ErrMalformed marks roadmap responses that arrived but did not have the
// required three-step shape.
var ErrMalformed = errors.New("malformed roadmap response")

// StepCount is the fixed number of roadmap stages.
const StepCount = 3

// RoadmapStep is one stage of a multi-month preparation roadmap.
type RoadmapStep struct {
	Title            string
	Duration         string
	Goals            []string
	Project          string
	SkillsToPractice []string
}

const guideSystemPrompt = `You are a career counselor writing a personal domain guide for a school student (Class 10 or 12) in plain, encouraging language.

Cover, in order: what people in this field actually do day to day, the typical education path after school, entrance exams or portfolios that matter, realistic earning expectations early on, and three habits the student can start this month. Use short paragraphs and markdown headings.`

const roadmapSystemPrompt = `You are a career counselor designing a staged preparation roadmap for a school student entering a career domain.

Rules:
- Exactly 3 stages in chronological order, together covering roughly six months.
- Goals are specific and checkable, not vague aspirations.
- Each stage has one hands-on project a school student can actually finish.
- Skills lists are short: three to five entries.`

// Config holds tunables for report LLM calls.
type Config struct {
	GuideMaxTokens   int
	RoadmapMaxTokens int
	Temperature      float64
}

// DefaultConfig returns the default report generator config.
func DefaultConfig() Config {
	return Config{
		GuideMaxTokens:   4096,
		RoadmapMaxTokens: 2048,
		Temperature:      0.7,
	}
}

// Generator produces guides and roadmaps using the LLM.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

// New creates a report generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// Guide generates the long-form domain guide. The response is free-form
// text and is passed through as-is; there is no shape to validate beyond
// the call succeeding.
func (g *Generator) Guide(ctx context.Context, domain string) (string, error) {
	ctx = llm.WithPurpose(ctx, "guide")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      guideSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf("Career domain: %s", domain)}},
		MaxTokens:   g.cfg.GuideMaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("guide generation for %q: %w", domain, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("guide generation for %q: empty response", domain)
	}
	return text, nil
}

type roadmapStepOutput struct {
	Title            string   `json:"title"`
	Duration         string   `json:"duration"`
	Goals            []string `json:"goals"`
	Project          string   `json:"project"`
	SkillsToPractice []string `json:"skills_to_practice"`
}

type roadmapOutput struct {
	Steps []roadmapStepOutput `json:"steps"`
}

// Roadmap generates the staged preparation roadmap. An empty or
// wrong-count response is a hard error; no partial roadmap is returned.
func (g *Generator) Roadmap(ctx context.Context, domain string) ([]RoadmapStep, error) {
	ctx = llm.WithPurpose(ctx, "roadmap")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      roadmapSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf("Career domain: %s", domain)}},
		Schema:      RoadmapSchema,
		MaxTokens:   g.cfg.RoadmapMaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("roadmap generation for %q: %w", domain, err)
	}

	var out roadmapOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("%w: parse roadmap response: %v", ErrMalformed, err)
	}

	if len(out.Steps) != StepCount {
		return nil, fmt.Errorf("%w: %d steps, want %d", ErrMalformed, len(out.Steps), StepCount)
	}

	steps := make([]RoadmapStep, 0, StepCount)
	for _, s := range out.Steps {
		steps = append(steps, RoadmapStep{
			Title:            s.Title,
			Duration:         s.Duration,
			Goals:            s.Goals,
			Project:          s.Project,
			SkillsToPractice: s.SkillsToPractice,
		})
	}
	return steps, nil
}
