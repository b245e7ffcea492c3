// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// contentGenerator is the part of genai.Models the Gemini backend uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiBackend calls the Gemini API through the genai SDK.
type GeminiBackend struct {
	models    contentGenerator
	model     string
	maxTokens int
}

// NewGeminiBackend creates a Gemini backend for the given model.
func NewGeminiBackend(ctx context.Context, apiKey, model string, maxTokens int) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiBackend{models: client.Models, model: model, maxTokens: maxTokens}, nil
}

// Name implements Backend.
func (g *GeminiBackend) Name() string { return "gemini" }

// Complete sends prompt as a single user turn.
func (g *GeminiBackend) Complete(ctx context.Context, prompt string, temperature float64) (Completion, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(g.maxTokens),
	}
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return Completion{}, fmt.Errorf("calling Gemini API: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return Completion{}, fmt.Errorf("Gemini API: %w", ErrEmptyResponse)
	}

	comp := Completion{Text: text}
	if u := resp.UsageMetadata; u != nil {
		comp.InputTokens = int(u.PromptTokenCount)
		comp.OutputTokens = int(u.CandidatesTokenCount)
	}
	return comp, nil
}
