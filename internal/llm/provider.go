// Package llm extracts claim candidates from articles through an external
// chat-completion service.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Chat roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat message.
type Message struct {
	Role    string
	Content string
}

// Generator sends a chat to a text-generation service and returns the
// assistant's text. Failures are *apperr.Error values of kind Upstream.
type Generator interface {
	Name() string
	Generate(ctx context.Context, messages []Message) (string, error)
}

// Config holds generation provider settings.
type Config struct {
	// Provider is "openai" (any OpenAI-compatible API) or "ollama".
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"
	// DefaultTimeout bounds one generation call.
	DefaultTimeout = 30 * time.Second
	// Temperature is the sampling temperature of every call.
	Temperature = 0.2
)

// Enabled reports whether cfg carries enough to reach a provider:
// an API key for OpenAI, a base URL for Ollama.
func (c Config) Enabled() bool {
	switch strings.ToLower(c.Provider) {
	case "ollama":
		return c.BaseURL != ""
	default:
		return c.APIKey != ""
	}
}

// NewGenerator creates the configured Generator, or nil when generation is not enabled.
func NewGenerator(cfg Config) (Generator, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAI(cfg), nil
	case "ollama":
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}
