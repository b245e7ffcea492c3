// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/autosurvey/internal/citation"
	"github.com/pdiddy/autosurvey/internal/draft"
	"github.com/pdiddy/autosurvey/internal/outline"
	"github.com/pdiddy/autosurvey/pkg/types"
)

var referenceLine = regexp.MustCompile(`(?m)^\[(\d+)\] `)

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	model := &fakeModel{respond: surveyResponder}
	var out bytes.Buffer
	p := NewPipeline(newFakeCorpus(), model, Options{
		Survey:    types.SurveyConfig{SectionNum: 2, Refine: true, OutputDir: dir},
		Provider:  "claude",
		ModelName: "test-model",
	}, &out)

	docs, err := p.Run(context.Background(), "graph neural networks")
	require.NoError(t, err)

	// Outline: exactly two sections, each with a description.
	outlineText, err := draft.LoadOutline(dir)
	require.NoError(t, err)
	o := outline.Parse(outlineText)
	require.Len(t, o.Sections, 2)
	for _, s := range o.Sections {
		assert.NotEmpty(t, s.Description, s.Name)
	}
	assert.Equal(t, o, docs.Outline)

	// The final top-level block is the references section, numbered 1..N.
	final := docs.Refined
	last := strings.LastIndex(final, "\n## ")
	require.GreaterOrEqual(t, last, 0)
	refsBlock := final[last+1:]
	assert.True(t, strings.HasPrefix(refsBlock, "## References\n"), refsBlock)
	matches := referenceLine.FindAllStringSubmatch(refsBlock, -1)
	require.NotEmpty(t, matches)
	for i, m := range matches {
		assert.Equal(t, strconv.Itoa(i+1), m[1])
	}
	assert.Len(t, matches, docs.RefinedReferences.Len())

	// Every subsection heading is followed by its content block.
	for _, s := range o.Sections {
		for _, sub := range s.Subsections {
			assert.Contains(t, final, "### "+sub.Name+"\n\nRefined Draft of "+sub.Name)
		}
	}

	for _, name := range []string{
		draft.OutlineFile, draft.RawFile, draft.RawWithReferencesFile, draft.RefinedFile,
		draft.ReferencesFile, draft.RefinedReferencesFile, draft.BibTeXFile, draft.CSLFile, draft.ManifestFile,
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	refined, err := os.ReadFile(filepath.Join(dir, draft.RefinedFile))
	require.NoError(t, err)
	assert.Equal(t, final, string(refined))

	missing, err := draft.ValidateCitations(dir, draft.RefinedFile, draft.RefinedReferencesFile)
	require.NoError(t, err)
	assert.Empty(t, missing)

	m, err := draft.LoadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, p.RunID(), m.RunID)
	assert.Equal(t, "graph neural networks", m.Topic)
	assert.Equal(t, "test-model", m.Model)
	assert.Equal(t, "claude", m.Provider)
	assert.Equal(t, 2, m.Sections)
	assert.Equal(t, 4, m.Subsections)
	assert.Equal(t, 2, m.References)
	assert.Positive(t, m.InputTokens)
	assert.Contains(t, m.Artifacts, draft.RefinedFile)
	assert.Contains(t, m.Artifacts, draft.BibTeXFile)

	assert.Contains(t, out.String(), "Drafting outline for \"graph neural networks\"")
	assert.Contains(t, out.String(), "  ## "+o.Sections[0].Name+"\n")
	assert.NotContains(t, out.String(), "Description:")
	assert.Contains(t, out.String(), "wrote "+draft.RefinedFile)
	assert.Contains(t, out.String(), "Model calls:")
}

func TestPipelineOutlineOnly(t *testing.T) {
	dir := t.TempDir()
	p := NewPipeline(newFakeCorpus(), &fakeModel{respond: surveyResponder},
		Options{Survey: types.SurveyConfig{SectionNum: 2, OutputDir: dir}}, nil)

	text, err := p.Outline(context.Background(), "graph neural networks")
	require.NoError(t, err)

	saved, err := draft.LoadOutline(dir)
	require.NoError(t, err)
	assert.Equal(t, text, saved)
	assert.NoFileExists(t, filepath.Join(dir, draft.RawFile))
	assert.NoFileExists(t, filepath.Join(dir, draft.ManifestFile))
}

func TestPipelineWriteWithoutRefine(t *testing.T) {
	dir := t.TempDir()
	model := &fakeModel{respond: surveyResponder}
	p := NewPipeline(newFakeCorpus(), model, Options{Survey: types.SurveyConfig{OutputDir: dir}}, nil)

	docs, err := p.Write(context.Background(), "graph neural networks", testOutline)
	require.NoError(t, err)
	assert.Empty(t, docs.Refined)

	assert.FileExists(t, filepath.Join(dir, draft.OutlineFile))
	assert.FileExists(t, filepath.Join(dir, draft.RawWithReferencesFile))
	assert.NoFileExists(t, filepath.Join(dir, draft.RefinedFile))
	assert.NoFileExists(t, filepath.Join(dir, draft.RefinedReferencesFile))

	raw, err := os.ReadFile(filepath.Join(dir, draft.RawFile))
	require.NoError(t, err)
	assert.Equal(t, docs.Raw, string(raw))

	table, err := draft.LoadReferences(dir, draft.ReferencesFile)
	require.NoError(t, err)
	assert.Equal(t, docs.RawReferences, table)

	bib, err := os.ReadFile(filepath.Join(dir, draft.BibTeXFile))
	require.NoError(t, err)
	assert.Contains(t, string(bib), "@misc{gcn,")
	assert.Contains(t, string(bib), "@misc{gat,")
}

func TestPipelineFailedOutlineWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	p := NewPipeline(&fakeCorpus{}, &fakeModel{respond: surveyResponder},
		Options{Survey: types.SurveyConfig{OutputDir: dir}}, nil)

	_, err := p.Run(context.Background(), "graph neural networks")
	require.Error(t, err)
	assert.NoDirExists(t, dir)
}

func TestPipelineUnresolvedCitationKeepsRawSurvey(t *testing.T) {
	dir := t.TempDir()
	respond := func(p string) (string, error) {
		if strings.Contains(p, "Now you need to write the content for the subsection") {
			return "Claim [Made Up 2020].", nil
		}
		return surveyResponder(p)
	}
	p := NewPipeline(newFakeCorpus(), &fakeModel{respond: respond}, Options{
		Survey: types.SurveyConfig{OutputDir: dir, CitationPolicy: types.CitationError},
	}, nil)

	docs, err := p.Write(context.Background(), "graph neural networks", testOutline)
	require.ErrorIs(t, err, citation.ErrUnresolved)
	require.NotEmpty(t, docs.Raw)

	raw, err := os.ReadFile(filepath.Join(dir, draft.RawFile))
	require.NoError(t, err)
	assert.Equal(t, docs.Raw, string(raw))
	assert.FileExists(t, filepath.Join(dir, draft.OutlineFile))
	assert.NoFileExists(t, filepath.Join(dir, draft.RawWithReferencesFile))
	assert.NoFileExists(t, filepath.Join(dir, draft.ReferencesFile))
	assert.NoFileExists(t, filepath.Join(dir, draft.ManifestFile))
}

func TestPipelineRefineFailureKeepsRawArtifacts(t *testing.T) {
	dir := t.TempDir()
	respond := func(p string) (string, error) {
		if strings.Contains(p, "help refine one of the subsections") {
			return "", errors.New("boom")
		}
		return surveyResponder(p)
	}
	p := NewPipeline(newFakeCorpus(), &fakeModel{respond: respond}, Options{
		Survey:        types.SurveyConfig{OutputDir: dir, Refine: true},
		FailurePolicy: types.PolicyFailFast,
	}, nil)

	docs, err := p.Write(context.Background(), "graph neural networks", testOutline)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refining")
	assert.Empty(t, docs.Refined)

	for _, name := range []string{draft.RawFile, draft.RawWithReferencesFile, draft.ReferencesFile, draft.BibTeXFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.NoFileExists(t, filepath.Join(dir, draft.RefinedFile))
	assert.NoFileExists(t, filepath.Join(dir, draft.ManifestFile))

	table, err := draft.LoadReferences(dir, draft.ReferencesFile)
	require.NoError(t, err)
	assert.Equal(t, docs.RawReferences, table)
}
