// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/autosurvey/internal/secrets"
	"github.com/pdiddy/autosurvey/pkg/types"
)

// A flag set on the command line wins over the config file and
// AUTOSURVEY_* environment variables, which win over the flag default.

func stringSetting(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func floatSetting(cmd *cobra.Command, flag, key string) float64 {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	v, _ := cmd.Flags().GetFloat64(flag)
	return v
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetBool(key)
	}
	v, _ := cmd.Flags().GetBool(flag)
	return v
}

// addCorpusFlags registers the corpus location flags.
func addCorpusFlags(fs *pflag.FlagSet) {
	fs.String("corpus-dir", "corpus", "base directory for the corpus (contains sources/, index/)")
	fs.Int("max-results", 20, "default number of references returned by a query")
}

// addModelFlags registers the language-model flags.
func addModelFlags(fs *pflag.FlagSet) {
	fs.String("provider", "claude", "model provider: claude, gemini, or openai")
	fs.String("model", "", "model identifier (default depends on provider)")
	fs.String("base-url", "", "endpoint of an openai-compatible server")
	fs.Int("concurrency", 5, "worker-pool width of one batch call")
	fs.Int("max-in-flight", 0, "cap on concurrent model calls across batches (0 = none)")
	fs.Int("requests-per-minute", 0, "throttle model calls (0 = no throttling)")
	fs.Int("max-attempts", 5, "attempts per model call")
	fs.Int("max-tokens", 8192, "completion length cap per model call")
	fs.String("user-agent", "", "User-Agent header for HTTP backends (default autosurvey/0.1)")
	fs.Float64("temperature", 1, "sampling temperature")
	fs.String("failure-policy", string(types.PolicyBestEffort), "best-effort or fail-fast")
	fs.Duration("timeout", 0, "HTTP request timeout (default 5m)")
}

// addSurveyFlags registers the generation flags.
func addSurveyFlags(fs *pflag.FlagSet) {
	fs.String("output-dir", "output", "directory for survey artifacts")
	fs.Int("reference-num", 600, "references retrieved for the rough outline")
	fs.Int("section-num", 6, "target number of sections")
	fs.Int("chunk-size", 30000, "token budget of one rough-outline batch")
	fs.Int("outline-rag-num", 50, "references retrieved per section when expanding subsections")
	fs.Int("rag-num", 30, "references retrieved per subsection when writing")
	fs.Int("subsection-len", 500, "target words per subsection")
	fs.Int("citation-num", 8, "target citations per subsection")
	fs.Bool("refine", false, "run the coherence-refinement pass")
	fs.Bool("strict-outline", false, "fail when outline headings lack description lines")
	fs.String("citation-policy", string(types.CitationOmit), "unresolved citations: omit, placeholder, or error")
}

func corpusConfig(cmd *cobra.Command) types.CorpusConfig {
	return types.CorpusConfig{
		Dir:        stringSetting(cmd, "corpus-dir", "corpus.dir"),
		MaxResults: intSetting(cmd, "max-results", "corpus.max_results"),
	}
}

func llmConfig(cmd *cobra.Command) types.LLMConfig {
	provider := types.Provider(stringSetting(cmd, "provider", "llm.provider"))
	temperature := floatSetting(cmd, "temperature", "llm.temperature")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if !cmd.Flags().Changed("timeout") && viper.IsSet("llm.timeout") {
		timeout = viper.GetDuration("llm.timeout")
	}
	cfg := types.LLMConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: stringSetting(cmd, "user-agent", "llm.user_agent"),
		},
		Provider:          provider,
		Model:             stringSetting(cmd, "model", "llm.model"),
		APIKey:            secrets.APIKey(loadedSecrets, provider, viper.GetString("llm.api_key")),
		BaseURL:           stringSetting(cmd, "base-url", "llm.base_url"),
		MaxTokens:         intSetting(cmd, "max-tokens", "llm.max_tokens"),
		MaxAttempts:       intSetting(cmd, "max-attempts", "llm.max_attempts"),
		Concurrency:       intSetting(cmd, "concurrency", "llm.concurrency"),
		MaxInFlight:       intSetting(cmd, "max-in-flight", "llm.max_in_flight"),
		RequestsPerMinute: intSetting(cmd, "requests-per-minute", "llm.requests_per_minute"),
		Temperature:       &temperature,
		FailurePolicy:     types.FailurePolicy(stringSetting(cmd, "failure-policy", "llm.failure_policy")),
	}
	return cfg.WithDefaults()
}

func surveyConfig(cmd *cobra.Command, topic string) types.SurveyConfig {
	cfg := types.SurveyConfig{
		Topic:          topic,
		ReferenceNum:   intSetting(cmd, "reference-num", "survey.reference_num"),
		SectionNum:     intSetting(cmd, "section-num", "survey.section_num"),
		ChunkSize:      intSetting(cmd, "chunk-size", "survey.chunk_size"),
		OutlineRAGNum:  intSetting(cmd, "outline-rag-num", "survey.outline_rag_num"),
		RAGNum:         intSetting(cmd, "rag-num", "survey.rag_num"),
		SubsectionLen:  intSetting(cmd, "subsection-len", "survey.subsection_len"),
		CitationNum:    intSetting(cmd, "citation-num", "survey.citation_num"),
		Refine:         boolSetting(cmd, "refine", "survey.refine"),
		StrictOutline:  boolSetting(cmd, "strict-outline", "survey.strict_outline"),
		CitationPolicy: types.CitationPolicy(stringSetting(cmd, "citation-policy", "survey.citation_policy")),
		OutputDir:      stringSetting(cmd, "output-dir", "survey.output_dir"),
	}
	if cfg.Topic == "" {
		cfg.Topic = viper.GetString("survey.topic")
	}
	return cfg.WithDefaults()
}
