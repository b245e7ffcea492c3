// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Reference is one corpus entry used to ground generation. It is
// immutable once fetched from the corpus.
type Reference struct {
	// ID is the corpus-assigned identifier.
	ID string `json:"id" yaml:"id"`

	// Title is the reference title. Titles are the unit of deduplication
	// in the final reference list.
	Title string `json:"title" yaml:"title"`

	// Content is the text embedded into prompts (abstract or body chunk).
	Content string `json:"content" yaml:"content"`
}

// ReferenceEntry is one numbered row of a rendered document's reference list.
type ReferenceEntry struct {
	// Number is the display number used inside citation brackets.
	Number int `json:"number" yaml:"number"`

	// ID is the corpus identifier the number resolves to.
	ID string `json:"id" yaml:"id"`

	// Title is the canonical title shown in the references block.
	Title string `json:"title" yaml:"title"`
}

// ReferenceTable maps display numbers to references, ordered by number.
// Numbers are contiguous starting at 1.
type ReferenceTable struct {
	Entries []ReferenceEntry `json:"entries" yaml:"entries"`
}

// Len returns the number of distinct references in the table.
func (t ReferenceTable) Len() int {
	return len(t.Entries)
}

// Title returns the title for a display number and whether it exists.
func (t ReferenceTable) Title(n int) (string, bool) {
	if n < 1 || n > len(t.Entries) {
		return "", false
	}
	return t.Entries[n-1].Title, true
}
