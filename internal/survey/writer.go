// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/autosurvey/internal/citation"
	"github.com/pdiddy/autosurvey/internal/metrics"
	"github.com/pdiddy/autosurvey/internal/outline"
	"github.com/pdiddy/autosurvey/internal/prompt"
	"github.com/pdiddy/autosurvey/pkg/types"
)

// Documents holds the texts produced by one writing run.
type Documents struct {
	Outline types.Outline

	// Raw is the assembled document before citation resolution.
	Raw string

	// RawWithReferences is Raw with numbered citations and a references block.
	RawWithReferences string
	RawReferences     types.ReferenceTable

	// Refined and RefinedReferences are set only when refinement ran.
	Refined           string
	RefinedReferences types.ReferenceTable

	// Unresolved lists citation keys no corpus entry matched.
	Unresolved []string
}

// Writer drafts every subsection of an outline with citations.
type Writer struct {
	corpus  Corpus
	model   Model
	refiner *Refiner
	opts    Options
}

// NewWriter creates a Writer.
func NewWriter(corpus Corpus, model Model, opts Options) *Writer {
	opts = opts.withDefaults()
	return &Writer{
		corpus:  corpus,
		model:   model,
		refiner: NewRefiner(model, opts),
		opts:    opts,
	}
}

// Write drafts the subsections of outlineText, assembles the raw document,
// resolves its citations, and, when refinement is enabled, smooths the
// drafts and resolves the refined document. Prompts embed the parsed
// outline rendered back to markdown, so headings the parser dropped are
// never presented to the model as planned content.
func (w *Writer) Write(ctx context.Context, topic, outlineText string) (Documents, error) {
	parsed := outline.Parse(outlineText)
	overall := outline.Render(parsed)
	docs := Documents{Outline: parsed}

	contents, err := w.Draft(ctx, topic, overall, parsed)
	if err != nil {
		return docs, err
	}

	policy := w.opts.Survey.CitationPolicy
	docs.Raw = Assemble(parsed, contents)
	resolved, res, err := citation.Process(ctx, w.corpus, docs.Raw, policy)
	if err != nil {
		return docs, fmt.Errorf("resolving citations: %w", err)
	}
	docs.RawWithReferences, docs.RawReferences = resolved, res.Table
	docs.Unresolved = res.Unresolved
	w.logUnresolved(res.Unresolved)

	if !w.opts.Survey.Refine {
		return docs, nil
	}

	refined, err := w.refiner.Refine(ctx, topic, overall, contents)
	if err != nil {
		return docs, fmt.Errorf("refining: %w", err)
	}
	resolved, res, err = citation.Process(ctx, w.corpus, Assemble(parsed, refined), policy)
	if err != nil {
		return docs, fmt.Errorf("resolving refined citations: %w", err)
	}
	docs.Refined, docs.RefinedReferences = resolved, res.Table
	w.logUnresolved(res.Unresolved)
	return docs, nil
}

func (w *Writer) logUnresolved(keys []string) {
	for _, k := range keys {
		w.opts.Logger.Warn("citation matched no reference",
			zap.String("key", k),
			zap.String("policy", string(w.opts.Survey.CitationPolicy)))
	}
}

// Draft writes and citation-checks every subsection of parsed. It returns
// one SectionContent per section, index-aligned with its subsections.
func (w *Writer) Draft(ctx context.Context, topic, outlineText string, parsed types.Outline) ([]types.SectionContent, error) {
	start := time.Now()
	defer func() { metrics.StageDuration.WithLabelValues("write").Observe(time.Since(start).Seconds()) }()

	refs, err := collect(ctx, len(parsed.Sections), func(ctx context.Context, i int) ([][]types.Reference, error) {
		subs := parsed.Sections[i].Subsections
		out := make([][]types.Reference, len(subs))
		for j, sub := range subs {
			r, err := retrieve(ctx, w.corpus, sub.Description, w.opts.Survey.RAGNum, false)
			if err != nil {
				return nil, err
			}
			out[j] = r
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("retrieving subsection references: %w", err)
	}

	w.opts.Logger.Info("writing sections",
		zap.Int("sections", len(parsed.Sections)),
		zap.Int("subsections", parsed.SubsectionCount()))

	return collect(ctx, len(parsed.Sections), func(ctx context.Context, i int) (types.SectionContent, error) {
		return w.writeSection(ctx, topic, outlineText, parsed.Sections[i], refs[i])
	})
}

// writeSection drafts one section's subsections in a single batch, then
// checks their citations in a second batch.
func (w *Writer) writeSection(ctx context.Context, topic, outlineText string, sec types.Section, refs [][]types.Reference) (types.SectionContent, error) {
	cfg := w.opts.Survey
	paperLists := make([]string, len(sec.Subsections))
	prompts := make([]string, len(sec.Subsections))
	for j, sub := range sec.Subsections {
		paperLists[j] = prompt.PaperList(refs[j])
		p, err := prompt.Render(prompt.WriteSubsectionTmpl, prompt.WriteSubsection{
			Topic:          topic,
			OverallOutline: outlineText,
			SectionName:    sec.Name,
			SubsectionName: sub.Name,
			Description:    sub.Description,
			PaperList:      paperLists[j],
			WordNum:        cfg.SubsectionLen,
			CitationNum:    cfg.CitationNum,
		})
		if err != nil {
			return nil, err
		}
		prompts[j] = p
	}

	results := w.model.BatchChat(ctx, prompts, w.opts.Temperature)
	drafts, err := settle(w.opts, "write", results, noResponse)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", sec.Name, err)
	}

	// Failed drafts keep the placeholder and skip the citation check.
	var checkIdx []int
	var checkPrompts []string
	for j := range drafts {
		drafts[j] = prompt.StripFormat(drafts[j])
		if !results[j].OK() {
			continue
		}
		p, err := prompt.Render(prompt.CheckCitationTmpl, prompt.CheckCitation{
			Topic:      topic,
			Subsection: drafts[j],
			PaperList:  paperLists[j],
		})
		if err != nil {
			return nil, err
		}
		checkIdx = append(checkIdx, j)
		checkPrompts = append(checkPrompts, p)
	}

	checked, err := settle(w.opts, "check-citation", w.model.BatchChat(ctx, checkPrompts, w.opts.Temperature),
		func(k int) string { return drafts[checkIdx[k]] })
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", sec.Name, err)
	}

	content := make(types.SectionContent, len(drafts))
	copy(content, drafts)
	for k, j := range checkIdx {
		content[j] = prompt.StripFormat(checked[k])
	}
	return content, nil
}
