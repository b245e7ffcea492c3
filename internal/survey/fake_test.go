// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pdiddy/autosurvey/internal/corpus"
	"github.com/pdiddy/autosurvey/internal/llm"
	"github.com/pdiddy/autosurvey/pkg/types"
)

const (
	gcnTitle = "Semi-Supervised Classification with Graph Convolutional Networks"
	gatTitle = "Graph Attention Networks"
)

// fakeModel answers prompts through respond and records every prompt.
type fakeModel struct {
	respond func(prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (m *fakeModel) Chat(_ context.Context, prompt string, _ float64) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.respond(prompt)
}

func (m *fakeModel) BatchChat(ctx context.Context, prompts []string, temperature float64) []llm.Result {
	out := make([]llm.Result, len(prompts))
	for i, p := range prompts {
		text, err := m.Chat(ctx, p, temperature)
		out[i] = llm.Result{Text: text, Err: err}
	}
	return out
}

func (m *fakeModel) Usage() llm.Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.prompts))
	return llm.Usage{Calls: n, InputTokens: 100 * n, OutputTokens: 10 * n}
}

// count returns how many recorded prompts contain substr.
func (m *fakeModel) count(substr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.prompts {
		if strings.Contains(p, substr) {
			n++
		}
	}
	return n
}

// fakeCorpus serves a fixed reference list. QueryTopK returns the first k ids.
type fakeCorpus struct {
	refs []types.Reference

	mu      sync.Mutex
	queries []string
}

func newFakeCorpus() *fakeCorpus {
	return &fakeCorpus{refs: []types.Reference{
		{ID: "gcn", Title: gcnTitle, Content: "Spectral graph convolutions approximated to first order."},
		{ID: "gat", Title: gatTitle, Content: "Masked self-attention over node neighborhoods."},
		{ID: "sage", Title: "Inductive Representation Learning on Large Graphs", Content: "Sampling and aggregating neighbor features."},
		{ID: "gin", Title: "How Powerful are Graph Neural Networks?", Content: "Expressivity bounded by the Weisfeiler-Lehman test."},
	}}
}

func (c *fakeCorpus) QueryTopK(_ context.Context, text string, k int, _ bool) ([]string, error) {
	c.mu.Lock()
	c.queries = append(c.queries, text)
	c.mu.Unlock()
	var ids []string
	for _, r := range c.refs {
		if len(ids) == k {
			break
		}
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func (c *fakeCorpus) FetchByIDs(_ context.Context, ids []string) ([]types.Reference, error) {
	var out []types.Reference
	for _, id := range ids {
		for _, r := range c.refs {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (c *fakeCorpus) LookupByCitation(_ context.Context, text string) (string, error) {
	for _, r := range c.refs {
		if strings.EqualFold(r.Title, text) {
			return r.ID, nil
		}
	}
	return "", corpus.ErrNotFound
}

// between returns the text after the first start and before the next end.
func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	s = s[i+len(start):]
	if j := strings.Index(s, end); j >= 0 {
		s = s[:j]
	}
	return s
}

const roughOutline = `Title: Graph Neural Networks: A Survey
Section 1: Foundations
Description 1: Spectral and spatial graph convolutions.

Section 2: Applications
Description 2: Uses of graph learning in science.
`

// surveyResponder plays every generation stage for a two-section survey.
func surveyResponder(prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "You need to draft an outline based on the given papers"):
		return "<format>\n" + roughOutline + "</format>", nil

	case strings.Contains(prompt, "list of outlines as candidates"):
		return roughOutline, nil

	case strings.Contains(prompt, "You need to enrich the section"):
		name := between(prompt, "You need to enrich the section ", ".\n")
		return fmt.Sprintf("Subsection 1: %s Basics\nDescription 1: Basics of %s.\n\nSubsection 2: %s Advances\nDescription 2: Advances in %s.\n",
			name, name, name, name), nil

	case strings.Contains(prompt, "You have created a draft outline below"):
		return "<format>\n" + between(prompt, "draft outline below:\n---\n", "\n---\nThe outline contains") + "</format>", nil

	case strings.Contains(prompt, "Now you need to write the content for the subsection"):
		name := between(prompt, "write the content for the subsection:\n\"", "\"")
		return fmt.Sprintf("<format>\nDraft of %s [%s; %s].\n</format>", name, gcnTitle, gatTitle), nil

	case strings.Contains(prompt, "check whether the citations"):
		return between(prompt, "You have written a subsection below:\n---\n", "\n---\n<instruction>"), nil

	case strings.Contains(prompt, "help refine one of the subsections"):
		return "Here is the refined subsection:\nRefined " + between(prompt, "Subsection to Refine:\n---\n", "\n---"), nil
	}
	return "", fmt.Errorf("unexpected prompt: %.60s", prompt)
}
