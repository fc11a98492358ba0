package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"claimdesk/internal/apperr"
)

// Ollama talks to a local or remote Ollama server through its native chat API.
type Ollama struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

// NewOllama creates an Ollama generator for cfg.BaseURL (e.g. http://localhost:11434).
func NewOllama(cfg Config) (*Ollama, error) {
	base := cfg.BaseURL
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url: %w", err)
	}

	return &Ollama{
		client:  api.NewClient(u, &http.Client{}),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Name returns the provider name.
func (o *Ollama) Name() string {
	return "ollama"
}

// Generate runs one non-streaming chat.
func (o *Ollama) Generate(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	msgs := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, api.Message{Role: m.Role, Content: m.Content})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    o.model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"temperature": Temperature},
	}

	var sb strings.Builder
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", apperr.Upstream("LLM error", ollamaDetail(err), err)
	}

	return sb.String(), nil
}

func ollamaDetail(err error) string {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) && statusErr.ErrorMessage != "" {
		return statusErr.ErrorMessage
	}
	return err.Error()
}
