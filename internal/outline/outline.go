// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline parses and builds survey outlines. Two textual forms are
// handled: the markdown outline ("# Title", "## Section", "### Subsection",
// each heading followed by a "Description: ..." line) and the rough form the
// drafting prompts ask for ("Title: ...", "Section i: ...", "Description i: ...").
package outline

import (
	"strings"

	"github.com/pdiddy/autosurvey/pkg/types"
)

const (
	titleMarker       = "# "
	sectionMarker     = "## "
	subsectionMarker  = "### "
	descriptionMarker = "Description:"
)

// Parse reads a markdown outline into a structured tree.
//
// A "# " line sets the title. A "## " line opens a new section only when
// the next line starts with "Description:"; otherwise the heading is ignored
// and later subsections keep attaching to the previously opened section. A
// "### " line is appended to the most recently opened section under the
// same description rule. Entries that break the rule are dropped without
// error; use Validate to report them.
func Parse(text string) types.Outline {
	var out types.Outline
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, titleMarker):
			out.Title = strings.TrimSpace(line[len(titleMarker):])

		case strings.HasPrefix(line, sectionMarker):
			desc, ok := descriptionAt(lines, i+1)
			if !ok {
				continue
			}
			out.Sections = append(out.Sections, types.Section{
				Name:        strings.TrimSpace(line[len(sectionMarker):]),
				Description: desc,
			})

		case strings.HasPrefix(line, subsectionMarker):
			if len(out.Sections) == 0 {
				continue
			}
			desc, ok := descriptionAt(lines, i+1)
			if !ok {
				continue
			}
			last := &out.Sections[len(out.Sections)-1]
			last.Subsections = append(last.Subsections, types.Subsection{
				Name:        strings.TrimSpace(line[len(subsectionMarker):]),
				Description: desc,
			})
		}
	}
	return out
}

// descriptionAt returns the description on line i if that line is a
// literal description line.
func descriptionAt(lines []string, i int) (string, bool) {
	if i >= len(lines) || !strings.HasPrefix(lines[i], descriptionMarker) {
		return "", false
	}
	return strings.TrimSpace(lines[i][len(descriptionMarker):]), true
}

// Render writes an Outline back to the markdown form Parse reads.
func Render(o types.Outline) string {
	var b strings.Builder
	b.WriteString(titleMarker + o.Title + "\n\n")
	for _, s := range o.Sections {
		b.WriteString(sectionMarker + s.Name + "\n")
		b.WriteString(descriptionMarker + " " + s.Description + "\n\n")
		for _, sub := range s.Subsections {
			b.WriteString(subsectionMarker + sub.Name + "\n")
			b.WriteString(descriptionMarker + " " + sub.Description + "\n\n")
		}
	}
	return b.String()
}

// StripDescriptions removes description lines, leaving only headings.
func StripDescriptions(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "Description") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
