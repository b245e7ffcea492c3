// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/autosurvey/internal/metrics"
	"github.com/pdiddy/autosurvey/internal/prompt"
	"github.com/pdiddy/autosurvey/pkg/types"
)

// Refiner rewrites each subsection against its neighbors in two phases.
// Phase one rewrites even indices reading the original drafts; phase two
// rewrites odd indices reading the phase-one output. Within a phase no
// rewrite reads a slot another rewrite of the same phase writes.
type Refiner struct {
	model Model
	opts  Options
}

// NewRefiner creates a Refiner.
func NewRefiner(model Model, opts Options) *Refiner {
	return &Refiner{model: model, opts: opts.withDefaults()}
}

// slot addresses one subsection.
type slot struct{ section, index int }

// Refine returns refined copies of contents; contents itself is not
// modified.
func (r *Refiner) Refine(ctx context.Context, topic, outlineText string, contents []types.SectionContent) ([]types.SectionContent, error) {
	start := time.Now()
	defer func() { metrics.StageDuration.WithLabelValues("refine").Observe(time.Since(start).Seconds()) }()

	even, err := r.phase(ctx, topic, outlineText, contents, 0)
	if err != nil {
		return nil, err
	}
	return r.phase(ctx, topic, outlineText, even, 1)
}

// phase rewrites every index with the given parity, reading neighbors from
// src, and returns a copy of src with those indices replaced.
func (r *Refiner) phase(ctx context.Context, topic, outlineText string, src []types.SectionContent, parity int) ([]types.SectionContent, error) {
	var slots []slot
	for i, sec := range src {
		for j := parity; j < len(sec); j += 2 {
			slots = append(slots, slot{i, j})
		}
	}
	r.opts.Logger.Debug("coherence phase", zap.Int("parity", parity), zap.Int("rewrites", len(slots)))

	rewritten, err := collect(ctx, len(slots), func(ctx context.Context, k int) (string, error) {
		s := slots[k]
		prev, self, next := triplet(src[s.section], s.index)
		p, err := prompt.Render(prompt.CoherenceTmpl, prompt.Coherence{
			Topic:          topic,
			OverallOutline: outlineText,
			Previous:       prev,
			Subsection:     self,
			Following:      next,
		})
		if err != nil {
			return "", err
		}
		text, err := r.model.Chat(ctx, p, r.opts.Temperature)
		if err == nil {
			text = prompt.StripRefined(text)
		}
		return settleOne(r.opts, "refine", text, err, self)
	})
	if err != nil {
		return nil, err
	}

	out := types.CloneContents(src)
	for k, s := range slots {
		out[s.section][s.index] = rewritten[k]
	}
	return out, nil
}

// triplet returns the neighbors and the entry at j. Neighbors outside the
// list are empty.
func triplet(sec types.SectionContent, j int) (prev, self, next string) {
	if j > 0 {
		prev = sec[j-1]
	}
	if j+1 < len(sec) {
		next = sec[j+1]
	}
	return prev, sec[j], next
}
