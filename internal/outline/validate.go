// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed reports an outline whose structure Parse would silently
// truncate.
var ErrMalformed = errors.New("malformed outline")

// Issue describes one heading Parse drops or one structural gap.
type Issue struct {
	// Line is the 1-based line number, or 0 for whole-outline issues.
	Line    int
	Heading string
	Reason  string
}

func (i Issue) String() string {
	if i.Line == 0 {
		return i.Reason
	}
	return fmt.Sprintf("line %d %q: %s", i.Line, i.Heading, i.Reason)
}

// Validate lists the structural problems of a markdown outline. It returns
// nil when Parse keeps every heading in the text.
func Validate(text string) []Issue {
	var issues []Issue
	lines := strings.Split(text, "\n")
	hasTitle := false
	sections := 0

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, titleMarker):
			hasTitle = true
		case strings.HasPrefix(line, sectionMarker):
			if _, ok := descriptionAt(lines, i+1); !ok {
				issues = append(issues, Issue{Line: i + 1, Heading: line, Reason: "section heading without description line"})
				continue
			}
			sections++
		case strings.HasPrefix(line, subsectionMarker):
			if sections == 0 {
				issues = append(issues, Issue{Line: i + 1, Heading: line, Reason: "subsection before any section"})
				continue
			}
			if _, ok := descriptionAt(lines, i+1); !ok {
				issues = append(issues, Issue{Line: i + 1, Heading: line, Reason: "subsection heading without description line"})
			}
		}
	}

	if !hasTitle {
		issues = append(issues, Issue{Reason: "missing title heading"})
	}
	if sections == 0 {
		issues = append(issues, Issue{Reason: "no sections with descriptions"})
	}
	return issues
}

// Check wraps Validate's issues into an ErrMalformed error, or returns nil.
func Check(text string) error {
	issues := Validate(text)
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, len(issues))
	for i, is := range issues {
		msgs[i] = is.String()
	}
	return fmt.Errorf("%w: %s", ErrMalformed, strings.Join(msgs, "; "))
}
