// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/autosurvey/internal/draft"
	"github.com/pdiddy/autosurvey/internal/llm"
	"github.com/pdiddy/autosurvey/internal/outline"
	"github.com/pdiddy/autosurvey/pkg/types"
)

// usageReporter is implemented by models that account for tokens.
type usageReporter interface {
	Usage() llm.Usage
}

// Pipeline coordinates one survey run and writes its artifacts to the
// configured output directory. Artifacts already written stay on disk when
// a later stage fails.
type Pipeline struct {
	corpus Corpus
	model  Model
	opts   Options
	out    io.Writer
	runID  string
}

// NewPipeline creates a Pipeline with a fresh run ID. Progress lines are
// written to out.
func NewPipeline(corpus Corpus, model Model, opts Options, out io.Writer) *Pipeline {
	opts = opts.withDefaults()
	runID := uuid.NewString()
	opts.Logger = opts.Logger.With(zap.String("run_id", runID))
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{corpus: corpus, model: model, opts: opts, out: out, runID: runID}
}

// RunID returns the identifier recorded in logs and the manifest.
func (p *Pipeline) RunID() string { return p.runID }

// OutputDir returns the directory artifacts are written to.
func (p *Pipeline) OutputDir() string { return p.opts.Survey.OutputDir }

// Outline drafts the outline for topic and writes outline.md.
func (p *Pipeline) Outline(ctx context.Context, topic string) (string, error) {
	fmt.Fprintf(p.out, "Drafting outline for %q\n", topic)
	text, err := NewDrafter(p.corpus, p.model, p.opts).Draft(ctx, topic)
	if err != nil {
		return "", fmt.Errorf("drafting outline: %w", err)
	}
	if err := draft.WriteOutline(p.opts.Survey.OutputDir, text); err != nil {
		return "", err
	}
	for _, line := range strings.Split(outline.StripDescriptions(text), "\n") {
		if strings.TrimSpace(line) != "" {
			fmt.Fprintf(p.out, "  %s\n", line)
		}
	}
	fmt.Fprintf(p.out, "  wrote %s\n", draft.OutlineFile)
	return text, nil
}

// Write drafts the survey body for an existing outline, writes the
// document artifacts, and records the run manifest. When a stage fails,
// the documents it already produced are still written before the error
// is returned; the manifest is written only for a complete run.
func (p *Pipeline) Write(ctx context.Context, topic, outlineText string) (Documents, error) {
	start := time.Now()
	parsed := outline.Parse(outlineText)
	fmt.Fprintf(p.out, "Writing %d sections, %d subsections\n", len(parsed.Sections), parsed.SubsectionCount())

	docs, werr := NewWriter(p.corpus, p.model, p.opts).Write(ctx, topic, outlineText)

	artifacts, err := p.writeDocuments(outlineText, docs)
	for _, name := range artifacts {
		fmt.Fprintf(p.out, "  wrote %s\n", name)
	}
	if werr != nil {
		if err != nil {
			p.opts.Logger.Warn("writing partial artifacts failed", zap.Error(err))
		}
		return docs, fmt.Errorf("writing survey: %w", werr)
	}
	if err != nil {
		return docs, err
	}
	if len(docs.Unresolved) > 0 {
		fmt.Fprintf(p.out, "  %d citation keys matched no reference\n", len(docs.Unresolved))
	}

	m := p.manifest(topic, start, docs, artifacts)
	if err := draft.WriteManifest(p.opts.Survey.OutputDir, m); err != nil {
		return docs, err
	}
	p.logUsage()
	return docs, nil
}

// Run drafts the outline and writes the survey for topic.
func (p *Pipeline) Run(ctx context.Context, topic string) (Documents, error) {
	p.opts.Logger.Info("survey run started", zap.String("topic", topic))
	outlineText, err := p.Outline(ctx, topic)
	if err != nil {
		return Documents{}, err
	}
	return p.Write(ctx, topic, outlineText)
}

// writeDocuments writes the outline and whichever documents and reference
// tables docs holds, and returns the file names written. The BibTeX and
// CSL exports follow the last resolved table: refined when present, raw
// otherwise.
func (p *Pipeline) writeDocuments(outlineText string, docs Documents) ([]string, error) {
	dir := p.opts.Survey.OutputDir
	var written []string
	put := func(name, content string) error {
		if err := draft.WriteFile(dir, name, content); err != nil {
			return err
		}
		written = append(written, name)
		return nil
	}
	putRefs := func(name string, table types.ReferenceTable) error {
		if err := draft.WriteReferences(dir, name, table); err != nil {
			return err
		}
		written = append(written, name)
		return nil
	}

	if err := put(draft.OutlineFile, outlineText); err != nil {
		return written, err
	}
	if docs.Raw == "" {
		return written, nil
	}
	if err := put(draft.RawFile, docs.Raw); err != nil {
		return written, err
	}
	if docs.RawWithReferences == "" {
		return written, nil
	}
	if err := put(draft.RawWithReferencesFile, docs.RawWithReferences); err != nil {
		return written, err
	}
	if err := putRefs(draft.ReferencesFile, docs.RawReferences); err != nil {
		return written, err
	}

	final := docs.RawReferences
	if docs.Refined != "" {
		if err := put(draft.RefinedFile, docs.Refined); err != nil {
			return written, err
		}
		if err := putRefs(draft.RefinedReferencesFile, docs.RefinedReferences); err != nil {
			return written, err
		}
		final = docs.RefinedReferences
	}

	if err := put(draft.BibTeXFile, draft.GenerateBibTeX(final)); err != nil {
		return written, err
	}
	if err := draft.WriteCSL(dir, final); err != nil {
		return written, err
	}
	written = append(written, draft.CSLFile)
	return written, nil
}

func (p *Pipeline) manifest(topic string, start time.Time, docs Documents, artifacts []string) types.Manifest {
	refs := docs.RawReferences.Len()
	if p.opts.Survey.Refine {
		refs = docs.RefinedReferences.Len()
	}
	m := types.Manifest{
		RunID:       p.runID,
		Topic:       topic,
		Model:       p.opts.ModelName,
		Provider:    p.opts.Provider,
		StartedAt:   start.UTC(),
		Duration:    time.Since(start).Round(time.Millisecond).String(),
		Sections:    len(docs.Outline.Sections),
		Subsections: docs.Outline.SubsectionCount(),
		References:  refs,
		Artifacts:   artifacts,
	}
	if u, ok := p.model.(usageReporter); ok {
		usage := u.Usage()
		m.InputTokens = int(usage.InputTokens)
		m.OutputTokens = int(usage.OutputTokens)
	}
	return m
}

func (p *Pipeline) logUsage() {
	u, ok := p.model.(usageReporter)
	if !ok {
		return
	}
	usage := u.Usage()
	p.opts.Logger.Info("token usage",
		zap.Int64("calls", usage.Calls),
		zap.Int64("input_tokens", usage.InputTokens),
		zap.Int64("output_tokens", usage.OutputTokens))
	fmt.Fprintf(p.out, "Model calls: %d, input tokens: %d, output tokens: %d\n",
		usage.Calls, usage.InputTokens, usage.OutputTokens)
}
