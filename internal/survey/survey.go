// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package survey generates a literature survey from a topic. It drafts an
// outline from retrieved references, writes every subsection with citations,
// optionally smooths adjacent subsections, and assembles the document.
//
// Every stage fans out concurrently and joins before the next stage starts.
// Model failures arrive as per-item results; the configured FailurePolicy
// decides whether a failed item aborts the stage or is replaced.
package survey

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/autosurvey/internal/llm"
	"github.com/pdiddy/autosurvey/internal/metrics"
	"github.com/pdiddy/autosurvey/pkg/types"
)

// Corpus is the reference store the pipeline retrieves from.
type Corpus interface {
	QueryTopK(ctx context.Context, text string, k int, shuffle bool) ([]string, error)
	FetchByIDs(ctx context.Context, ids []string) ([]types.Reference, error)
	LookupByCitation(ctx context.Context, text string) (string, error)
}

// Model is the chat interface the generation stages call.
type Model interface {
	Chat(ctx context.Context, prompt string, temperature float64) (string, error)
	BatchChat(ctx context.Context, prompts []string, temperature float64) []llm.Result
}

// Options configures the generation stages.
type Options struct {
	Survey types.SurveyConfig

	// Temperature is passed to every model call as given; zero is valid.
	Temperature   float64
	FailurePolicy types.FailurePolicy
	Logger        *zap.Logger

	// Provider and ModelName are recorded in the run manifest.
	Provider  string
	ModelName string
}

func (o Options) withDefaults() Options {
	o.Survey = o.Survey.WithDefaults()
	if o.FailurePolicy == "" {
		o.FailurePolicy = types.PolicyBestEffort
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// settle applies the failure policy to batch results. Under fail-fast the
// first failed item is returned as the error. Under best-effort a failed
// item takes fallback(i) and a warning is logged.
func settle(opts Options, stage string, results []llm.Result, fallback func(i int) string) ([]string, error) {
	out := make([]string, len(results))
	for i, r := range results {
		if r.OK() {
			out[i] = r.Text
			continue
		}
		if opts.FailurePolicy == types.PolicyFailFast {
			return nil, fmt.Errorf("%s item %d: %w", stage, i, r.Err)
		}
		metrics.ItemsFailed.WithLabelValues(stage).Inc()
		opts.Logger.Warn("model call failed, substituting",
			zap.String("stage", stage),
			zap.Int("index", i),
			zap.Error(r.Err))
		out[i] = fallback(i)
	}
	return out, nil
}

// settleOne applies the failure policy to a single chat call.
func settleOne(opts Options, stage string, text string, err error, fallback string) (string, error) {
	out, serr := settle(opts, stage, []llm.Result{{Text: text, Err: err}}, func(int) string { return fallback })
	if serr != nil {
		return "", serr
	}
	return out[0], nil
}

func noResponse(int) string { return llm.NoResponse }
