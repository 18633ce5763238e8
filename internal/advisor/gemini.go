package advisor

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/config"
)

// TextGenerator produces a completion for a prompt. Satisfied by the
// Gemini wrapper in production and by fakes in tests.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini wraps the genai client. The client is created only here.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini text generator from config.
func NewGemini(ctx context.Context, cfg *config.Config) (*Gemini, error) {
	var clientConfig *genai.ClientConfig
	if cfg.Gemini.APIKey != "" {
		clientConfig = &genai.ClientConfig{APIKey: cfg.Gemini.APIKey}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  cfg.Gemini.Model,
	}, nil
}

// Generate sends one prompt on a fresh chat and returns the text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	chat, err := g.client.Chats.Create(ctx, g.model, nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}

	resp, err := chat.Send(ctx, &genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
