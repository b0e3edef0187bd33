package llm

import (
	"context"
	"fmt"
	"strings"
)

// Chat is a multi-turn free-form conversation handle built on a Provider.
// It owns its history: each Send appends the user message, calls the
// provider with the full running conversation, and records the reply.
// A Chat belongs to exactly one session and must not be shared.
type Chat struct {
	provider    Provider
	system      string
	history     []Message
	maxTokens   int
	temperature float64
}

// ChatOption configures a Chat at creation time.
type ChatOption func(*Chat)

// WithChatMaxTokens sets the per-reply token limit.
func WithChatMaxTokens(n int) ChatOption {
	return func(c *Chat) { c.maxTokens = n }
}

// WithChatTemperature sets the sampling temperature for replies.
func WithChatTemperature(t float64) ChatOption {
	return func(c *Chat) { c.temperature = t }
}

// NewChat opens a conversation handle with the given system instruction.
func NewChat(provider Provider, system string, opts ...ChatOption) *Chat {
	c := &Chat{
		provider:    provider,
		system:      system,
		maxTokens:   1024,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send submits a user message and returns the assistant's reply.
// On provider failure the user message is not recorded, so the same
// input can be retried without duplicating history.
func (c *Chat) Send(ctx context.Context, text string) (string, error) {
	msgs := make([]Message, 0, len(c.history)+1)
	msgs = append(msgs, c.history...)
	msgs = append(msgs, Message{Role: RoleUser, Content: text})

	resp, err := c.provider.Generate(ctx, Request{
		System:      c.system,
		Messages:    msgs,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat send: %w", err)
	}

	reply := strings.TrimSpace(resp.Text())
	c.history = append(c.history,
		Message{Role: RoleUser, Content: text},
		Message{Role: RoleAssistant, Content: reply},
	)
	return reply, nil
}

// Len returns the number of messages recorded so far.
func (c *Chat) Len() int {
	return len(c.history)
}
