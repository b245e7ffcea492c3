// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/autosurvey/internal/httputil"
)

// defaultOpenAIBaseURL is used when OpenAIBackend.BaseURL is empty.
const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIBackend calls an OpenAI-compatible chat-completions endpoint.
// BaseURL points it at any compatible server.
type OpenAIBackend struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	UserAgent string
	Client    *http.Client
}

type openAIRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Name implements Backend.
func (o *OpenAIBackend) Name() string { return "openai" }

// Complete sends prompt as a single user message.
func (o *OpenAIBackend) Complete(ctx context.Context, prompt string, temperature float64) (Completion, error) {
	bodyBytes, err := json.Marshal(openAIRequest{
		Model:       o.Model,
		MaxTokens:   o.MaxTokens,
		Temperature: temperature,
		Messages:    []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Completion{}, fmt.Errorf("marshaling request: %w", err)
	}

	base := o.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	url := strings.TrimSuffix(base, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return Completion{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.APIKey)
	}
	if o.UserAgent != "" {
		req.Header.Set("User-Agent", o.UserAgent)
	}

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return Completion{}, fmt.Errorf("calling chat completions API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Completion{}, fmt.Errorf("chat completions API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return Completion{}, fmt.Errorf("decoding chat completions response: %w", err)
	}
	if len(oResp.Choices) == 0 || oResp.Choices[0].Message.Content == "" {
		return Completion{}, fmt.Errorf("chat completions API: %w", ErrEmptyResponse)
	}

	return Completion{
		Text:         oResp.Choices[0].Message.Content,
		InputTokens:  oResp.Usage.PromptTokens,
		OutputTokens: oResp.Usage.CompletionTokens,
	}, nil
}
