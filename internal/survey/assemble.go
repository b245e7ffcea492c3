// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"strings"

	"github.com/pdiddy/autosurvey/pkg/types"
)

// Assemble renders the survey document: the title heading, then each
// section heading followed by its subsection headings and contents.
// Subsections without a content entry get their heading only.
func Assemble(o types.Outline, contents []types.SectionContent) string {
	var blocks []string
	blocks = append(blocks, "# "+o.Title+"\n")
	for i, sec := range o.Sections {
		blocks = append(blocks, "## "+sec.Name+"\n")
		for j, sub := range sec.Subsections {
			blocks = append(blocks, "### "+sub.Name+"\n")
			if i < len(contents) && j < len(contents[i]) {
				blocks = append(blocks, contents[i][j]+"\n")
			}
		}
	}
	return strings.Join(blocks, "\n")
}
