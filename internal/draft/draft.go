// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft reads and writes the artifacts of a survey run: the
// markdown outline, the rendered survey documents, the reference table,
// a BibTeX export of that table, and the run manifest.
package draft

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/autosurvey/pkg/types"
)

// Artifact file names inside an output directory.
const (
	OutlineFile           = "outline.md"
	RawFile               = "raw_survey.md"
	RawWithReferencesFile = "raw_survey_with_references.md"
	RefinedFile           = "refined_survey.md"
	ReferencesFile        = "references.yaml"
	RefinedReferencesFile = "refined_references.yaml"
	BibTeXFile            = "references.bib"
	CSLFile               = "references.csl.yaml"
	ManifestFile          = "manifest.yaml"
)

// citationPattern matches bracketed citation groups: [1] or [1; 2].
var citationPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// WriteFile writes one artifact into dir, creating dir when needed.
func WriteFile(dir, name, content string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// WriteOutline writes the markdown outline to outline.md.
func WriteOutline(dir, text string) error {
	return WriteFile(dir, OutlineFile, text)
}

// LoadOutline reads outline.md from an output directory.
func LoadOutline(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, OutlineFile))
	if err != nil {
		return "", fmt.Errorf("reading outline: %w", err)
	}
	return string(data), nil
}

// WriteReferences writes a reference table as YAML under name.
func WriteReferences(dir, name string, table types.ReferenceTable) error {
	data, err := yaml.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshaling references: %w", err)
	}
	return WriteFile(dir, name, string(data))
}

// LoadReferences reads a reference table written by WriteReferences.
func LoadReferences(dir, name string) (types.ReferenceTable, error) {
	var table types.ReferenceTable
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return table, fmt.Errorf("reading references: %w", err)
	}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return table, fmt.Errorf("parsing references: %w", err)
	}
	return table, nil
}

// WriteManifest writes the run manifest to manifest.yaml.
func WriteManifest(dir string, m types.Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return WriteFile(dir, ManifestFile, string(data))
}

// LoadManifest reads manifest.yaml from an output directory.
func LoadManifest(dir string) (types.Manifest, error) {
	var m types.Manifest
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return m, fmt.Errorf("reading manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

// ValidateCitations scans a rendered survey file for numeric citations and
// returns the numbers that have no entry in the reference table stored
// under refsName. Bracket groups that are not all numeric are ignored.
func ValidateCitations(dir, surveyName, refsName string) ([]int, error) {
	table, err := LoadReferences(dir, refsName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, surveyName))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", surveyName, err)
	}

	seen := make(map[int]bool)
	var missing []int
	for _, n := range extractCitationNumbers(string(data)) {
		if _, ok := table.Title(n); ok || seen[n] {
			continue
		}
		seen[n] = true
		missing = append(missing, n)
	}
	sort.Ints(missing)
	return missing, nil
}

// extractCitationNumbers finds numbers in bracket groups whose parts are
// all integers, such as [3] or [1; 4]. Markdown link text is skipped.
func extractCitationNumbers(text string) []int {
	var nums []int
	for _, loc := range citationPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[1] < len(text) && text[loc[1]] == '(' {
			continue
		}
		var group []int
		for _, p := range strings.Split(text[loc[2]:loc[3]], ";") {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				group = nil
				break
			}
			group = append(group, n)
		}
		nums = append(nums, group...)
	}
	return nums
}

// GenerateBibTeX produces BibTeX content from a reference table. Each
// entry's key is derived from its corpus id.
func GenerateBibTeX(table types.ReferenceTable) string {
	var b strings.Builder
	for _, e := range table.Entries {
		fmt.Fprintf(&b, "@misc{%s,\n", bibKey(e))
		fmt.Fprintf(&b, "  title = {%s},\n", strings.Join(strings.Fields(e.Title), " "))
		fmt.Fprintf(&b, "  note = {[%d]},\n", e.Number)
		fmt.Fprintf(&b, "}\n\n")
	}
	return b.String()
}

// bibKey keeps letters, digits, hyphens, and underscores of the id. An id
// with none of those falls back to ref<number>.
func bibKey(e types.ReferenceEntry) string {
	key := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			return r
		}
		return -1
	}, e.ID)
	if key == "" {
		return "ref" + strconv.Itoa(e.Number)
	}
	return key
}
