// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/autosurvey/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form.
// Field names follow the CSL-YAML schema so Pandoc and reference managers
// can read the output.
type CSLItem struct {
	ID             string `yaml:"id"`
	Type           string `yaml:"type"`
	Title          string `yaml:"title"`
	CitationNumber int    `yaml:"citation-number"`
}

// FormatCSL writes the reference table as a CSL-YAML list to w.
func FormatCSL(table types.ReferenceTable, w io.Writer) error {
	items := make([]CSLItem, len(table.Entries))
	for i, e := range table.Entries {
		items[i] = CSLItem{
			ID:             bibKey(e),
			Type:           "article",
			Title:          strings.Join(strings.Fields(e.Title), " "),
			CitationNumber: e.Number,
		}
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding CSL: %w", err)
	}
	return nil
}

// WriteCSL writes the reference table to references.csl.yaml.
func WriteCSL(dir string, table types.ReferenceTable) error {
	var buf bytes.Buffer
	if err := FormatCSL(table, &buf); err != nil {
		return err
	}
	return WriteFile(dir, CSLFile, buf.String())
}
