// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/autosurvey/internal/corpus"
	"github.com/pdiddy/autosurvey/internal/draft"
	"github.com/pdiddy/autosurvey/internal/llm"
	"github.com/pdiddy/autosurvey/internal/survey"
	"github.com/pdiddy/autosurvey/pkg/types"
)

var outlineCmd = &cobra.Command{
	Use:   "outline [topic]",
	Short: "Draft a survey outline and write outline.md",
	Long: `Outline retrieves references for the topic, drafts rough outlines over
token-bounded batches, merges them, expands every section into subsections,
and writes the edited outline to <output-dir>/outline.md.`,
	RunE: runOutline,
}

var writeCmd = &cobra.Command{
	Use:   "write [topic]",
	Short: "Write the survey for an existing outline",
	Long: `Write drafts every subsection of an outline with citations, checks the
citations, optionally refines adjacent subsections, and writes the raw and
refined surveys with their reference lists. The outline is read from
--outline, or from <output-dir>/outline.md.`,
	RunE: runWrite,
}

var runCmd = &cobra.Command{
	Use:   "run [topic]",
	Short: "Draft the outline and write the survey",
	RunE:  runRun,
}

// session holds the resources one generation command needs.
type session struct {
	pipeline *survey.Pipeline
	store    *corpus.Store
	cfg      types.PipelineConfig
}

func (s *session) Close() error { return s.store.Close() }

func newSession(cmd *cobra.Command, args []string) (*session, error) {
	topic := strings.TrimSpace(strings.Join(args, " "))
	cfg := types.PipelineConfig{
		LLM:    llmConfig(cmd),
		Corpus: corpusConfig(cmd),
		Survey: surveyConfig(cmd, topic),
	}
	if cfg.Survey.Topic == "" {
		return nil, fmt.Errorf("provide a topic as an argument or survey.topic in the config file")
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	store, err := corpus.NewStore(cfg.Corpus, logger)
	if err != nil {
		return nil, err
	}
	backend, err := llm.NewBackend(cmd.Context(), cfg.LLM)
	if err != nil {
		store.Close()
		return nil, err
	}
	client := llm.New(backend, cfg.LLM, logger)

	p := survey.NewPipeline(store, client, survey.Options{
		Survey:        cfg.Survey,
		Temperature:   cfg.LLM.SamplingTemperature(),
		FailurePolicy: cfg.LLM.FailurePolicy,
		Logger:        logger,
		Provider:      string(cfg.LLM.Provider),
		ModelName:     llm.ModelFor(cfg.LLM),
	}, os.Stdout)

	logger.Info("survey session",
		zap.String("run_id", p.RunID()),
		zap.String("topic", cfg.Survey.Topic),
		zap.String("provider", string(cfg.LLM.Provider)),
		zap.String("model", llm.ModelFor(cfg.LLM)),
		zap.String("output_dir", cfg.Survey.OutputDir))
	return &session{pipeline: p, store: store, cfg: cfg}, nil
}

func validateConfig(cfg types.PipelineConfig) error {
	switch cfg.LLM.FailurePolicy {
	case types.PolicyBestEffort, types.PolicyFailFast:
	default:
		return fmt.Errorf("unknown failure policy %q (want best-effort or fail-fast)", cfg.LLM.FailurePolicy)
	}
	switch cfg.Survey.CitationPolicy {
	case types.CitationOmit, types.CitationPlaceholder, types.CitationError:
	default:
		return fmt.Errorf("unknown citation policy %q (want omit, placeholder, or error)", cfg.Survey.CitationPolicy)
	}
	return nil
}

func runOutline(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.pipeline.Outline(cmd.Context(), s.cfg.Survey.Topic)
	return err
}

func runWrite(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	path, _ := cmd.Flags().GetString("outline")
	if path == "" {
		path = filepath.Join(s.cfg.Survey.OutputDir, draft.OutlineFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading outline: %w", err)
	}

	_, err = s.pipeline.Write(cmd.Context(), s.cfg.Survey.Topic, string(data))
	return err
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.pipeline.Run(cmd.Context(), s.cfg.Survey.Topic)
	return err
}

func init() {
	for _, c := range []*cobra.Command{outlineCmd, writeCmd, runCmd} {
		addCorpusFlags(c.Flags())
		addModelFlags(c.Flags())
		addSurveyFlags(c.Flags())
		rootCmd.AddCommand(c)
	}
	writeCmd.Flags().String("outline", "", "outline markdown file (default <output-dir>/outline.md)")
}
