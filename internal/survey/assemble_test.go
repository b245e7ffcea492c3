// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/autosurvey/pkg/types"
)

func sampleOutline() types.Outline {
	return types.Outline{
		Title: "Survey",
		Sections: []types.Section{
			{Name: "1 Intro", Subsections: []types.Subsection{{Name: "1.1 Scope"}, {Name: "1.2 History"}}},
			{Name: "2 Methods", Subsections: []types.Subsection{{Name: "2.1 GCN"}}},
		},
	}
}

func TestAssemble(t *testing.T) {
	got := Assemble(sampleOutline(), []types.SectionContent{
		{"Scope text.", "History text."},
		{"GCN text."},
	})
	want := "# Survey\n" +
		"\n## 1 Intro\n" +
		"\n### 1.1 Scope\n" +
		"\nScope text.\n" +
		"\n### 1.2 History\n" +
		"\nHistory text.\n" +
		"\n## 2 Methods\n" +
		"\n### 2.1 GCN\n" +
		"\nGCN text.\n"
	assert.Equal(t, want, got)
}

func TestAssembleMissingEntries(t *testing.T) {
	tests := []struct {
		name     string
		contents []types.SectionContent
		want     string
	}{
		{
			name:     "short section",
			contents: []types.SectionContent{{"Scope text."}, {"GCN text."}},
			want:     "# Survey\n\n## 1 Intro\n\n### 1.1 Scope\n\nScope text.\n\n### 1.2 History\n\n## 2 Methods\n\n### 2.1 GCN\n\nGCN text.\n",
		},
		{
			name:     "missing section",
			contents: []types.SectionContent{{"Scope text.", "History text."}},
			want:     "# Survey\n\n## 1 Intro\n\n### 1.1 Scope\n\nScope text.\n\n### 1.2 History\n\nHistory text.\n\n## 2 Methods\n\n### 2.1 GCN\n",
		},
		{
			name: "no contents",
			want: "# Survey\n\n## 1 Intro\n\n### 1.1 Scope\n\n### 1.2 History\n\n## 2 Methods\n\n### 2.1 GCN\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assemble(sampleOutline(), tt.contents))
		})
	}
}
