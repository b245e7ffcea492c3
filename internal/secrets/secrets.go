// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: anthropic-api-key, gemini-api-key, openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/autosurvey/pkg/types"
)

// Key file names.
const (
	AnthropicAPIKey = "anthropic-api-key"
	GeminiAPIKey    = "gemini-api-key"
	OpenAIAPIKey    = "openai-api-key"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// KeyFor returns the key file name that holds the API key of provider.
func KeyFor(provider types.Provider) string {
	switch provider {
	case types.ProviderGemini:
		return GeminiAPIKey
	case types.ProviderOpenAI:
		return OpenAIAPIKey
	default:
		return AnthropicAPIKey
	}
}

// APIKey picks the API key for provider: an explicit value wins, then the
// loaded secret file, then the provider's conventional environment variable.
func APIKey(loaded map[string]string, provider types.Provider, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v, ok := loaded[KeyFor(provider)]; ok {
		return v
	}
	return os.Getenv(envFor(provider))
}

func envFor(provider types.Provider) string {
	switch provider {
	case types.ProviderGemini:
		return "GEMINI_API_KEY"
	case types.ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "ANTHROPIC_API_KEY"
	}
}
