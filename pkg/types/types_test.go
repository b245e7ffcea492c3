// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferenceTableTitle(t *testing.T) {
	table := ReferenceTable{Entries: []ReferenceEntry{
		{Number: 1, ID: "a", Title: "Paper A"},
		{Number: 2, ID: "b", Title: "Paper B"},
	}}

	title, ok := table.Title(2)
	assert.True(t, ok)
	assert.Equal(t, "Paper B", title)

	_, ok = table.Title(0)
	assert.False(t, ok)
	_, ok = table.Title(3)
	assert.False(t, ok)
	assert.Equal(t, 2, table.Len())
}

func TestCloneContentsIsDeep(t *testing.T) {
	orig := []SectionContent{{"a", "b"}, {"c"}}
	cp := CloneContents(orig)
	cp[0][0] = "changed"

	assert.Equal(t, "a", orig[0][0])
	assert.Equal(t, 3, len(cp[0])+len(cp[1]))
}

func TestOutlineSubsectionCount(t *testing.T) {
	o := Outline{Sections: []Section{
		{Name: "1", Subsections: []Subsection{{Name: "1.1"}, {Name: "1.2"}}},
		{Name: "2"},
	}}
	assert.Equal(t, 2, o.SubsectionCount())
}

func TestConfigDefaults(t *testing.T) {
	llm := LLMConfig{}.WithDefaults()
	assert.Equal(t, ProviderClaude, llm.Provider)
	assert.Equal(t, 5, llm.MaxAttempts)
	assert.Equal(t, 5, llm.Concurrency)
	assert.Equal(t, 1.0, llm.SamplingTemperature())
	assert.Equal(t, PolicyBestEffort, llm.FailurePolicy)

	survey := SurveyConfig{SectionNum: 2}.WithDefaults()
	assert.Equal(t, 2, survey.SectionNum)
	assert.Equal(t, 30000, survey.ChunkSize)
	assert.Equal(t, CitationOmit, survey.CitationPolicy)
}

func TestTemperatureZeroIsKept(t *testing.T) {
	zero := 0.0
	cfg := LLMConfig{Temperature: &zero}.WithDefaults()
	assert.Equal(t, 0.0, cfg.SamplingTemperature())

	assert.Equal(t, DefaultTemperature, LLMConfig{}.SamplingTemperature())
}
