// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Subsection is a leaf of the survey outline.
type Subsection struct {
	// Name is the heading text, including any "i.j" numbering prefix.
	Name string `json:"name" yaml:"name"`

	// Description is the one-line plan read from the "Description:" line.
	Description string `json:"description" yaml:"description"`
}

// Section is a top-level outline entry with its ordered subsections.
type Section struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Subsections []Subsection `json:"subsections" yaml:"subsections"`
}

// Outline is the structured survey plan. Every Section and Subsection in
// the tree had a description line directly under its heading in the
// source text; entries without one never make it into an Outline.
type Outline struct {
	Title    string    `json:"title" yaml:"title"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// SubsectionCount returns the total number of subsections across sections.
func (o Outline) SubsectionCount() int {
	n := 0
	for _, s := range o.Sections {
		n += len(s.Subsections)
	}
	return n
}

// SectionContent holds the drafts for one section, index-aligned with that
// section's Subsections.
type SectionContent []string

// CloneContents returns a deep copy of per-section content lists.
func CloneContents(contents []SectionContent) []SectionContent {
	out := make([]SectionContent, len(contents))
	for i, c := range contents {
		out[i] = append(SectionContent(nil), c...)
	}
	return out
}
