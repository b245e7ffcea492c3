// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/autosurvey/pkg/types"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{Use: "test"}
	addCorpusFlags(cmd.Flags())
	addModelFlags(cmd.Flags())
	addSurveyFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestSurveyConfigPrecedence(t *testing.T) {
	cmd := newTestCommand(t, "--section-num", "3")
	viper.Set("survey.section_num", 9)
	viper.Set("survey.rag_num", 12)

	cfg := surveyConfig(cmd, "graph neural networks")
	assert.Equal(t, "graph neural networks", cfg.Topic)
	assert.Equal(t, 3, cfg.SectionNum, "flag wins over config")
	assert.Equal(t, 12, cfg.RAGNum, "config wins over flag default")
	assert.Equal(t, 500, cfg.SubsectionLen, "flag default")
	assert.Equal(t, types.CitationOmit, cfg.CitationPolicy)
}

func TestSurveyConfigTopicFromConfig(t *testing.T) {
	cmd := newTestCommand(t)
	viper.Set("survey.topic", "retrieval augmented generation")

	assert.Equal(t, "retrieval augmented generation", surveyConfig(cmd, "").Topic)
}

func TestLLMConfig(t *testing.T) {
	loadedSecrets = map[string]string{"gemini-api-key": "from-file"}
	t.Cleanup(func() { loadedSecrets = nil })

	cmd := newTestCommand(t, "--provider", "gemini", "--temperature", "0.3", "--failure-policy", "fail-fast")
	viper.Set("llm.concurrency", 2)

	cfg := llmConfig(cmd)
	assert.Equal(t, types.ProviderGemini, cfg.Provider)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, 0.3, cfg.SamplingTemperature())
	assert.Equal(t, types.PolicyFailFast, cfg.FailurePolicy)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 8192, cfg.MaxTokens, "flag default")
	assert.Equal(t, "autosurvey/0.1", cfg.UserAgent)
}

func TestLLMConfigFromConfigFile(t *testing.T) {
	cmd := newTestCommand(t)
	viper.Set("llm.max_tokens", 1024)
	viper.Set("llm.user_agent", "survey-bot/2")
	viper.Set("llm.temperature", 0.0)

	cfg := llmConfig(cmd)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, "survey-bot/2", cfg.UserAgent)
	assert.Equal(t, 0.0, cfg.SamplingTemperature(), "explicit zero is kept")
}

func TestLLMConfigFlagsWin(t *testing.T) {
	cmd := newTestCommand(t, "--max-tokens", "2048", "--temperature", "0")
	viper.Set("llm.max_tokens", 1024)
	viper.Set("llm.temperature", 0.9)

	cfg := llmConfig(cmd)
	assert.Equal(t, 2048, cfg.MaxTokens)
	assert.Equal(t, 0.0, cfg.SamplingTemperature())
}

func TestLLMConfigDefaultTemperature(t *testing.T) {
	cfg := llmConfig(newTestCommand(t))
	assert.Equal(t, types.DefaultTemperature, cfg.SamplingTemperature())
}

func TestCorpusConfig(t *testing.T) {
	cmd := newTestCommand(t, "--corpus-dir", "refs")
	cfg := corpusConfig(cmd)
	assert.Equal(t, "refs", cfg.Dir)
	assert.Equal(t, 20, cfg.MaxResults)
}

func TestValidateConfig(t *testing.T) {
	ok := types.PipelineConfig{
		LLM:    types.LLMConfig{}.WithDefaults(),
		Survey: types.SurveyConfig{}.WithDefaults(),
	}
	assert.NoError(t, validateConfig(ok))

	bad := ok
	bad.LLM.FailurePolicy = "sometimes"
	assert.ErrorContains(t, validateConfig(bad), "failure policy")

	bad = ok
	bad.Survey.CitationPolicy = "guess"
	assert.ErrorContains(t, validateConfig(bad), "citation policy")
}
