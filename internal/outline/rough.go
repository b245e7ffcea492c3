// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/autosurvey/pkg/types"
)

var (
	roughTitleRe       = regexp.MustCompile(`(?m)^\s*\**Title:\**\s*(.+?)\s*$`)
	roughSectionRe     = regexp.MustCompile(`(?m)^\s*\**Section\s+(\d+):\**\s*(.+?)\s*$`)
	roughSubsectionRe  = regexp.MustCompile(`(?m)^\s*\**Subsection\s+(\d+):\**\s*(.+?)\s*$`)
	roughDescriptionRe = regexp.MustCompile(`(?m)^\s*\**Description\s+(\d+):\**\s*(.+?)\s*$`)
)

// Rough is a section-level outline in the rough form.
type Rough struct {
	Title    string
	Sections []types.Section
}

// ParseRough reads "Title:", "Section i:" and "Description i:" lines. A
// section is kept only when a description with the same number exists;
// sections are ordered by number. The first occurrence of each number wins.
func ParseRough(text string) Rough {
	var r Rough
	if m := roughTitleRe.FindStringSubmatch(text); m != nil {
		r.Title = m[1]
	}
	for _, p := range pairNumbered(text, roughSectionRe) {
		r.Sections = append(r.Sections, types.Section{Name: p.name, Description: p.description})
	}
	return r
}

// ParseSubsections reads "Subsection j:" and "Description j:" lines with the
// same pairing rule as ParseRough.
func ParseSubsections(text string) []types.Subsection {
	var subs []types.Subsection
	for _, p := range pairNumbered(text, roughSubsectionRe) {
		subs = append(subs, types.Subsection{Name: p.name, Description: p.description})
	}
	return subs
}

type numbered struct {
	n           int
	name        string
	description string
}

func pairNumbered(text string, headingRe *regexp.Regexp) []numbered {
	descriptions := firstByNumber(text, roughDescriptionRe)
	headings := firstByNumber(text, headingRe)

	var out []numbered
	for n, name := range headings {
		desc, ok := descriptions[n]
		if !ok {
			continue
		}
		out = append(out, numbered{n: n, name: name, description: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].n < out[j].n })
	return out
}

func firstByNumber(text string, re *regexp.Regexp) map[int]string {
	m := make(map[int]string)
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if _, seen := m[n]; !seen {
			m[n] = strings.Trim(match[2], "* ")
		}
	}
	return m
}

// Combine merges a section-level outline with one subsection outline per
// section into the markdown form, numbering headings "## i Name" and
// "### i.j Name". Missing subsection outlines leave a section empty.
func Combine(rough Rough, subsectionOutlines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rough.Title)
	for i, s := range rough.Sections {
		fmt.Fprintf(&b, "## %d %s\n%s %s\n\n", i+1, s.Name, descriptionMarker, s.Description)
		if i >= len(subsectionOutlines) {
			continue
		}
		for j, sub := range ParseSubsections(subsectionOutlines[i]) {
			fmt.Fprintf(&b, "### %d.%d %s\n%s %s\n\n", i+1, j+1, sub.Name, descriptionMarker, sub.Description)
		}
	}
	return b.String()
}
