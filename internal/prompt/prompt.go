// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt renders the generation prompts of the survey pipeline.
// Each stage has a typed data struct and a text/template; values are
// inserted as data, never re-scanned for placeholders.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/autosurvey/pkg/types"
)

// RoughOutline is the data for one rough-outline batch.
type RoughOutline struct {
	Topic      string
	PaperList  string
	SectionNum int
}

// MergeOutlines is the data for merging rough-outline candidates.
type MergeOutlines struct {
	Topic       string
	OutlineList string
}

// SubsectionOutline is the data for expanding one section into subsections.
type SubsectionOutline struct {
	Topic              string
	OverallOutline     string
	SectionName        string
	SectionDescription string
	PaperList          string
}

// EditOutline is the data for the final outline normalization pass.
type EditOutline struct {
	OverallOutline string
}

// WriteSubsection is the data for drafting one subsection.
type WriteSubsection struct {
	Topic          string
	OverallOutline string
	SectionName    string
	SubsectionName string
	Description    string
	PaperList      string
	WordNum        int
	CitationNum    int
}

// CheckCitation is the data for verifying the citations of one draft.
type CheckCitation struct {
	Topic      string
	Subsection string
	PaperList  string
}

// Coherence is the data for one local coherence rewrite.
type Coherence struct {
	Topic          string
	OverallOutline string
	Previous       string
	Subsection     string
	Following      string
}

// Render executes tmpl with data.
func Render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// PaperList formats references as the delimited list embedded in prompts.
func PaperList(refs []types.Reference) string {
	var b strings.Builder
	for _, r := range refs {
		fmt.Fprintf(&b, "---\npaper_title: %s\n\npaper_content:\n\n%s\n", r.Title, r.Content)
	}
	b.WriteString("---\n")
	return b.String()
}

// PaperListFromChunk formats index-aligned titles and contents.
func PaperListFromChunk(titles, contents []string) string {
	refs := make([]types.Reference, len(contents))
	for i, c := range contents {
		refs[i].Content = c
		if i < len(titles) {
			refs[i].Title = titles[i]
		}
	}
	return PaperList(refs)
}

// OutlineList formats outline candidates tagged with their index.
func OutlineList(outlines []string) string {
	var b strings.Builder
	for i, o := range outlines {
		fmt.Fprintf(&b, "---\noutline_id: %d\n\noutline_content:\n\n%s\n", i, o)
	}
	b.WriteString("---\n")
	return b.String()
}

// formatWrapper is echoed back by models that copy the format block.
var formatWrapper = strings.NewReplacer("<format>\n", "", "<format>", "", "</format>", "")

// StripFormat removes literal <format> wrapper markers from a response.
func StripFormat(s string) string {
	return formatWrapper.Replace(s)
}

// refinedPrefix is the preamble some models put before a rewritten subsection.
const refinedPrefix = "Here is the refined subsection:\n"

// StripRefined removes wrapper markers and the rewrite preamble.
func StripRefined(s string) string {
	return strings.TrimPrefix(strings.TrimLeft(StripFormat(s), "\n"), refinedPrefix)
}
