package types

import "time"

// HTTPConfig holds shared HTTP settings used by backends that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "autosurvey/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Provider identifies the language-model API behind the chat interface.
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// FailurePolicy decides what happens when a model call exhausts its retries.
type FailurePolicy string

const (
	// PolicyBestEffort substitutes a placeholder for the failed item and
	// keeps going.
	PolicyBestEffort FailurePolicy = "best-effort"

	// PolicyFailFast aborts the stage with the first failure.
	PolicyFailFast FailurePolicy = "fail-fast"
)

// CitationPolicy decides how citation keys that match no corpus entry are
// rendered.
type CitationPolicy string

const (
	// CitationOmit drops unresolved keys from their bracket. A bracket with
	// no resolved key is left as written.
	CitationOmit CitationPolicy = "omit"

	// CitationPlaceholder renders unresolved keys as "?".
	CitationPlaceholder CitationPolicy = "placeholder"

	// CitationError fails resolution on the first unresolved key.
	CitationError CitationPolicy = "error"
)

// LLMConfig holds settings for the language-model boundary.
type LLMConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the backend: claude, gemini, or openai.
	Provider Provider `json:"provider" yaml:"provider"`

	// Model is the model identifier passed to the provider.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (openai-compatible servers).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxTokens caps the length of one completion (default 8192).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxAttempts bounds the attempts per chat call (default 5).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// Concurrency is the worker-pool width of one batch call (default 5).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// MaxInFlight caps concurrent backend calls across all batches.
	// Zero means no global cap.
	MaxInFlight int `json:"max_in_flight" yaml:"max_in_flight"`

	// RequestsPerMinute throttles backend calls. Zero disables throttling.
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`

	// Temperature is the sampling temperature for every generation stage.
	// Nil means the default of 1; an explicit 0 is kept.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`

	// FailurePolicy is best-effort or fail-fast (default best-effort).
	FailurePolicy FailurePolicy `json:"failure_policy" yaml:"failure_policy"`
}

// DefaultTemperature is the sampling temperature used when none is configured.
const DefaultTemperature = 1.0

// SamplingTemperature returns the configured temperature, or
// DefaultTemperature when none is set.
func (c LLMConfig) SamplingTemperature() float64 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (c LLMConfig) WithDefaults() LLMConfig {
	if c.Provider == "" {
		c.Provider = ProviderClaude
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 8192
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 5
	}
	if c.Temperature == nil {
		t := DefaultTemperature
		c.Temperature = &t
	}
	if c.FailurePolicy == "" {
		c.FailurePolicy = PolicyBestEffort
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Minute
	}
	if c.UserAgent == "" {
		c.UserAgent = "autosurvey/0.1"
	}
	return c
}

// CorpusConfig holds settings for the reference corpus.
type CorpusConfig struct {
	// Dir is the base directory for the corpus (contains sources/, index/).
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default number of ids returned by a query (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// SurveyConfig holds settings for one survey-generation run.
type SurveyConfig struct {
	// Topic is the subject of the survey.
	Topic string `json:"topic" yaml:"topic"`

	// ReferenceNum is the number of references retrieved for the rough outline.
	ReferenceNum int `json:"reference_num" yaml:"reference_num"`

	// SectionNum is the target number of top-level sections.
	SectionNum int `json:"section_num" yaml:"section_num"`

	// ChunkSize is the token budget of one rough-outline batch.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// OutlineRAGNum is the number of references retrieved per section when
	// expanding subsections.
	OutlineRAGNum int `json:"outline_rag_num" yaml:"outline_rag_num"`

	// RAGNum is the number of references retrieved per subsection when drafting.
	RAGNum int `json:"rag_num" yaml:"rag_num"`

	// SubsectionLen is the target word count of one subsection.
	SubsectionLen int `json:"subsection_len" yaml:"subsection_len"`

	// CitationNum is the target number of citations per subsection.
	CitationNum int `json:"citation_num" yaml:"citation_num"`

	// Refine runs the coherence-refinement pass after drafting.
	Refine bool `json:"refine" yaml:"refine"`

	// StrictOutline fails the outline stage when headings lack descriptions.
	StrictOutline bool `json:"strict_outline" yaml:"strict_outline"`

	// CitationPolicy handles citation keys that match no corpus entry.
	CitationPolicy CitationPolicy `json:"citation_policy" yaml:"citation_policy"`

	// OutputDir receives the markdown artifacts.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (c SurveyConfig) WithDefaults() SurveyConfig {
	if c.ReferenceNum <= 0 {
		c.ReferenceNum = 600
	}
	if c.SectionNum <= 0 {
		c.SectionNum = 6
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 30000
	}
	if c.OutlineRAGNum <= 0 {
		c.OutlineRAGNum = 50
	}
	if c.RAGNum <= 0 {
		c.RAGNum = 30
	}
	if c.SubsectionLen <= 0 {
		c.SubsectionLen = 500
	}
	if c.CitationNum <= 0 {
		c.CitationNum = 8
	}
	if c.CitationPolicy == "" {
		c.CitationPolicy = CitationOmit
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	return c
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	LLM    LLMConfig    `json:"llm" yaml:"llm"`
	Corpus CorpusConfig `json:"corpus" yaml:"corpus"`
	Survey SurveyConfig `json:"survey" yaml:"survey"`
}
