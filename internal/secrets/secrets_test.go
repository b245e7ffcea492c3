// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/autosurvey/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		subdirs []string
		want    map[string]string
	}{
		{
			name: "provider keys trimmed",
			files: map[string]string{
				AnthropicAPIKey: "  ak_abc123  \n",
				GeminiAPIKey:    "gk_xyz789",
				OpenAIAPIKey:    "sk-local\n",
			},
			want: map[string]string{
				AnthropicAPIKey: "ak_abc123",
				GeminiAPIKey:    "gk_xyz789",
				OpenAIAPIKey:    "sk-local",
			},
		},
		{
			name: "blank values dropped",
			files: map[string]string{
				AnthropicAPIKey: "valid-key",
				GeminiAPIKey:    "",
				OpenAIAPIKey:    "   \n\t  ",
			},
			want: map[string]string{AnthropicAPIKey: "valid-key"},
		},
		{
			name: "dotfiles and directories ignored",
			files: map[string]string{
				".gitkeep":    "",
				".hidden-key": "secret",
				GeminiAPIKey:  "gk_real",
			},
			subdirs: []string{"backup"},
			want:    map[string]string{GeminiAPIKey: "gk_real"},
		},
		{
			name: "empty directory",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}
			for _, sub := range tt.subdirs {
				require.NoError(t, os.Mkdir(filepath.Join(dir, sub), 0o755))
			}

			got, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), ".secrets"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadSkipsUnreadableEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, AnthropicAPIKey, "ak_ok")
	// A dangling symlink is listed but cannot be read.
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, GeminiAPIKey)))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{AnthropicAPIKey: "ak_ok"}, got)
}

func TestLoadNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets")
	writeFile(t, filepath.Dir(path), "secrets", "oops")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading secrets directory")
}

func TestAPIKey(t *testing.T) {
	loaded := map[string]string{AnthropicAPIKey: "from-file"}

	assert.Equal(t, "explicit", APIKey(loaded, types.ProviderClaude, "explicit"))
	assert.Equal(t, "from-file", APIKey(loaded, types.ProviderClaude, ""))

	t.Setenv("GEMINI_API_KEY", "from-env")
	assert.Equal(t, "from-env", APIKey(loaded, types.ProviderGemini, ""))

	t.Setenv("OPENAI_API_KEY", "")
	assert.Equal(t, "", APIKey(loaded, types.ProviderOpenAI, ""))
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		provider types.Provider
		want     string
	}{
		{types.ProviderClaude, AnthropicAPIKey},
		{"", AnthropicAPIKey},
		{types.ProviderGemini, GeminiAPIKey},
		{types.ProviderOpenAI, OpenAIAPIKey},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyFor(tt.provider), "provider %q", tt.provider)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
