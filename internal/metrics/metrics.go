// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the prometheus collectors of the survey pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Model boundary
	ModelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autosurvey_model_calls_total",
			Help: "Total number of chat calls by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	ModelAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autosurvey_model_attempts_total",
			Help: "Total number of backend attempts including retries",
		},
		[]string{"backend"},
	)

	ModelLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "autosurvey_model_call_duration_seconds",
			Help:    "Duration of one backend attempt in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"backend"},
	)

	ModelTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autosurvey_model_tokens_total",
			Help: "Estimated tokens sent and received",
		},
		[]string{"direction"},
	)

	// Pipeline
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "autosurvey_stage_duration_seconds",
			Help:    "Duration of one pipeline stage in seconds",
			Buckets: []float64{1, 10, 60, 300, 900, 1800, 3600},
		},
		[]string{"stage"},
	)

	ItemsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autosurvey_items_failed_total",
			Help: "Generation items replaced under the best-effort policy",
		},
		[]string{"stage"},
	)

	CitationsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autosurvey_citations_total",
			Help: "Citation keys seen during resolution by outcome",
		},
		[]string{"outcome"},
	)

	// Corpus
	CorpusQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autosurvey_corpus_queries_total",
			Help: "Total number of corpus queries by kind",
		},
		[]string{"kind"},
	)
)

// WriteFile writes the default registry in the node-exporter textfile format.
func WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
