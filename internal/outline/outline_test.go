// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/autosurvey/pkg/types"
)

const wellFormed = `# A Survey of Graph Neural Networks

## 1 Foundations
Description: Message passing and spectral views.

### 1.1 Spectral Methods
Description: Graph Fourier transforms and ChebNet.

### 1.2 Spatial Methods
Description: Neighborhood aggregation schemes.

## 2 Applications
Description: Where GNNs are used in practice.

### 2.1 Chemistry
Description: Molecular property prediction.
`

func TestParseWellFormed(t *testing.T) {
	o := Parse(wellFormed)

	assert.Equal(t, "A Survey of Graph Neural Networks", o.Title)
	require.Len(t, o.Sections, 2)
	assert.Equal(t, "1 Foundations", o.Sections[0].Name)
	assert.Equal(t, "Message passing and spectral views.", o.Sections[0].Description)
	require.Len(t, o.Sections[0].Subsections, 2)
	assert.Equal(t, "1.2 Spatial Methods", o.Sections[0].Subsections[1].Name)
	assert.Equal(t, "Neighborhood aggregation schemes.", o.Sections[0].Subsections[1].Description)
	require.Len(t, o.Sections[1].Subsections, 1)
	assert.Equal(t, 3, o.SubsectionCount())
	assert.Empty(t, Validate(wellFormed))
}

func TestParseDropsEntriesWithoutDescription(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantSections []string
		wantSubs     [][]string
	}{
		{
			name: "section without description is ignored",
			text: "# T\n## A\nDescription: a\n## B\n\n### B1\nDescription: b1\n",
			// B is dropped, so B1 attaches to A, the most recently opened section.
			wantSections: []string{"A"},
			wantSubs:     [][]string{{"B1"}},
		},
		{
			name:         "subsection without description is dropped",
			text:         "# T\n## A\nDescription: a\n### A1\nsome prose\n### A2\nDescription: a2\n",
			wantSections: []string{"A"},
			wantSubs:     [][]string{{"A2"}},
		},
		{
			name:         "subsection before any section is dropped",
			text:         "# T\n### Orphan\nDescription: o\n## A\nDescription: a\n",
			wantSections: []string{"A"},
			wantSubs:     [][]string{nil},
		},
		{
			name:         "description must be on the very next line",
			text:         "# T\n## A\n\nDescription: a\n",
			wantSections: nil,
		},
		{
			name:         "indented description does not count",
			text:         "# T\n## A\n  Description: a\n",
			wantSections: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Parse(tt.text)
			var names []string
			for _, s := range o.Sections {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.wantSections, names)
			for i, want := range tt.wantSubs {
				var got []string
				for _, sub := range o.Sections[i].Subsections {
					got = append(got, sub.Name)
				}
				assert.Equal(t, want, got)
			}
			assert.NotEmpty(t, Validate(tt.text))
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	o := Parse(wellFormed)
	again := Parse(Render(o))
	assert.Equal(t, o, again)
}

func TestHeadingCountMatchesSource(t *testing.T) {
	o := Parse(wellFormed)
	sections := strings.Count(wellFormed, "\n## ")
	subsections := strings.Count(wellFormed, "\n### ")
	assert.Equal(t, sections, len(o.Sections))
	assert.Equal(t, subsections, o.SubsectionCount())
}

func TestStripDescriptions(t *testing.T) {
	got := StripDescriptions("# T\n## A\nDescription: a\n### A1\n  Description: x\n")
	assert.Equal(t, "# T\n## A\n### A1\n", got)
}

func TestParseRough(t *testing.T) {
	text := `<format>
Title: Graph Neural Networks: A Survey
Section 1: Introduction
Description 1: Why graphs matter.

Section 2: **Architectures**
Description 2: Convolutional and attentional variants.

Section 3: Orphan section
</format>`
	r := ParseRough(text)
	assert.Equal(t, "Graph Neural Networks: A Survey", r.Title)
	require.Len(t, r.Sections, 2)
	assert.Equal(t, types.Section{Name: "Introduction", Description: "Why graphs matter."}, r.Sections[0])
	assert.Equal(t, "Architectures", r.Sections[1].Name)
}

func TestParseRoughOrdersByNumber(t *testing.T) {
	text := "Title: T\nSection 2: B\nDescription 2: b\nSection 1: A\nDescription 1: a\n"
	r := ParseRough(text)
	require.Len(t, r.Sections, 2)
	assert.Equal(t, "A", r.Sections[0].Name)
	assert.Equal(t, "B", r.Sections[1].Name)
}

func TestParseSubsections(t *testing.T) {
	text := "Subsection 1: Spectral\nDescription 1: s\n\nSubsection 2: Spatial\nDescription 2: p\n"
	subs := ParseSubsections(text)
	require.Len(t, subs, 2)
	assert.Equal(t, "Spatial", subs[1].Name)
	assert.Equal(t, "p", subs[1].Description)
}

func TestCombine(t *testing.T) {
	rough := Rough{
		Title: "T",
		Sections: []types.Section{
			{Name: "Intro", Description: "i"},
			{Name: "Methods", Description: "m"},
		},
	}
	combined := Combine(rough, []string{
		"Subsection 1: Motivation\nDescription 1: mo\n",
		"Subsection 1: Spectral\nDescription 1: sp\nSubsection 2: Spatial\nDescription 2: sa\n",
	})

	assert.Contains(t, combined, "## 1 Intro\nDescription: i\n")
	assert.Contains(t, combined, "### 2.2 Spatial\nDescription: sa\n")
	assert.Empty(t, Validate(combined))

	o := Parse(combined)
	require.Len(t, o.Sections, 2)
	assert.Len(t, o.Sections[0].Subsections, 1)
	assert.Len(t, o.Sections[1].Subsections, 2)
}

func TestCombineMissingSubsectionOutline(t *testing.T) {
	rough := Rough{Title: "T", Sections: []types.Section{{Name: "A", Description: "a"}, {Name: "B", Description: "b"}}}
	o := Parse(Combine(rough, []string{"Subsection 1: A1\nDescription 1: x\n"}))
	require.Len(t, o.Sections, 2)
	assert.Empty(t, o.Sections[1].Subsections)
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(wellFormed))

	err := Check("## A\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Contains(t, err.Error(), "missing title heading")
	assert.Contains(t, err.Error(), "section heading without description line")
}
