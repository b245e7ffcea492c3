// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/autosurvey/internal/chunk"
	"github.com/pdiddy/autosurvey/internal/metrics"
	"github.com/pdiddy/autosurvey/internal/outline"
	"github.com/pdiddy/autosurvey/internal/prompt"
	"github.com/pdiddy/autosurvey/pkg/types"
)

// Drafter produces a markdown outline for a topic through rough-draft,
// merge, subsection-expansion, and edit passes.
type Drafter struct {
	corpus Corpus
	model  Model
	opts   Options
}

// NewDrafter creates a Drafter.
func NewDrafter(corpus Corpus, model Model, opts Options) *Drafter {
	return &Drafter{corpus: corpus, model: model, opts: opts.withDefaults()}
}

// Draft returns the edited markdown outline for topic. Headings the model
// writes without a description line are logged; with StrictOutline set
// they fail the stage with outline.ErrMalformed.
func (d *Drafter) Draft(ctx context.Context, topic string) (string, error) {
	start := time.Now()
	defer func() { metrics.StageDuration.WithLabelValues("outline").Observe(time.Since(start).Seconds()) }()

	cfg := d.opts.Survey
	log := d.opts.Logger.With(zap.String("stage", "outline"))

	refs, err := retrieve(ctx, d.corpus, topic, cfg.ReferenceNum, true)
	if err != nil {
		return "", fmt.Errorf("retrieving references for topic: %w", err)
	}
	if len(refs) == 0 {
		return "", fmt.Errorf("corpus returned no references for topic %q", topic)
	}

	titles := make([]string, len(refs))
	contents := make([]string, len(refs))
	for i, r := range refs {
		titles[i], contents[i] = r.Title, r.Content
	}
	chunks := chunk.Plan(contents, titles, cfg.ChunkSize, nil)
	log.Info("drafting rough outlines", zap.Int("references", len(refs)), zap.Int("chunks", len(chunks)))

	candidates, err := d.roughOutlines(ctx, topic, chunks)
	if err != nil {
		return "", err
	}

	merged := candidates[0]
	if len(candidates) > 1 {
		merged, err = d.merge(ctx, topic, candidates)
		if err != nil {
			return "", err
		}
	}

	rough := outline.ParseRough(merged)
	if len(rough.Sections) == 0 {
		return "", fmt.Errorf("%w: merged outline has no numbered sections with descriptions", outline.ErrMalformed)
	}
	log.Info("expanding sections", zap.Int("sections", len(rough.Sections)))

	subOutlines, err := d.subsectionOutlines(ctx, topic, merged, rough)
	if err != nil {
		return "", err
	}

	combined := outline.Combine(rough, subOutlines)
	final, err := d.edit(ctx, combined)
	if err != nil {
		return "", err
	}

	for _, issue := range outline.Validate(final) {
		log.Warn("outline entry will be dropped", zap.String("issue", issue.String()))
	}
	if cfg.StrictOutline {
		if err := outline.Check(final); err != nil {
			return "", err
		}
	}
	return final, nil
}

// roughOutlines issues one rough-outline prompt per chunk. Failed
// candidates are dropped under best-effort; at least one must succeed.
func (d *Drafter) roughOutlines(ctx context.Context, topic string, chunks []chunk.Chunk) ([]string, error) {
	prompts := make([]string, len(chunks))
	for i, c := range chunks {
		p, err := prompt.Render(prompt.RoughOutlineTmpl, prompt.RoughOutline{
			Topic:      topic,
			PaperList:  prompt.PaperListFromChunk(c.Titles, c.Contents),
			SectionNum: d.opts.Survey.SectionNum,
		})
		if err != nil {
			return nil, err
		}
		prompts[i] = p
	}

	texts, err := settle(d.opts, "rough-outline", d.model.BatchChat(ctx, prompts, d.opts.Temperature), func(int) string { return "" })
	if err != nil {
		return nil, err
	}
	var candidates []string
	for _, t := range texts {
		if t != "" {
			candidates = append(candidates, prompt.StripFormat(t))
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("all %d rough outline calls failed", len(prompts))
	}
	return candidates, nil
}

// merge combines the candidates into one rough outline. Under best-effort a
// failed merge falls back to the first candidate.
func (d *Drafter) merge(ctx context.Context, topic string, candidates []string) (string, error) {
	p, err := prompt.Render(prompt.MergeOutlinesTmpl, prompt.MergeOutlines{
		Topic:       topic,
		OutlineList: prompt.OutlineList(candidates),
	})
	if err != nil {
		return "", err
	}
	text, err := d.model.Chat(ctx, p, d.opts.Temperature)
	text, err = settleOne(d.opts, "merge-outline", text, err, candidates[0])
	if err != nil {
		return "", err
	}
	return prompt.StripFormat(text), nil
}

// subsectionOutlines retrieves references per section description and
// asks for each section's subsections. A failed section gets no
// subsections under best-effort.
func (d *Drafter) subsectionOutlines(ctx context.Context, topic, overall string, rough outline.Rough) ([]string, error) {
	cfg := d.opts.Survey
	sectionRefs, err := collect(ctx, len(rough.Sections), func(ctx context.Context, i int) ([]types.Reference, error) {
		return retrieve(ctx, d.corpus, rough.Sections[i].Description, cfg.OutlineRAGNum, true)
	})
	if err != nil {
		return nil, fmt.Errorf("retrieving section references: %w", err)
	}

	prompts := make([]string, len(rough.Sections))
	for i, s := range rough.Sections {
		p, err := prompt.Render(prompt.SubsectionOutlineTmpl, prompt.SubsectionOutline{
			Topic:              topic,
			OverallOutline:     overall,
			SectionName:        s.Name,
			SectionDescription: s.Description,
			PaperList:          prompt.PaperList(sectionRefs[i]),
		})
		if err != nil {
			return nil, err
		}
		prompts[i] = p
	}

	texts, err := settle(d.opts, "subsection-outline", d.model.BatchChat(ctx, prompts, d.opts.Temperature), func(int) string { return "" })
	if err != nil {
		return nil, err
	}
	for i, t := range texts {
		texts[i] = prompt.StripFormat(t)
	}
	return texts, nil
}

// edit normalizes the combined outline. Under best-effort a failed edit
// keeps the combined outline.
func (d *Drafter) edit(ctx context.Context, combined string) (string, error) {
	p, err := prompt.Render(prompt.EditOutlineTmpl, prompt.EditOutline{OverallOutline: combined})
	if err != nil {
		return "", err
	}
	text, err := d.model.Chat(ctx, p, d.opts.Temperature)
	text, err = settleOne(d.opts, "edit-outline", text, err, combined)
	if err != nil {
		return "", err
	}
	return prompt.StripFormat(text), nil
}

// retrieve queries the corpus and fetches the matching references.
func retrieve(ctx context.Context, corpus Corpus, text string, k int, shuffle bool) ([]types.Reference, error) {
	ids, err := corpus.QueryTopK(ctx, text, k, shuffle)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return corpus.FetchByIDs(ctx, ids)
}
