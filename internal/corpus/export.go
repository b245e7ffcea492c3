// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/autosurvey/pkg/types"
)

// ExportEntry is one reference with the source file it came from.
type ExportEntry struct {
	types.Reference `yaml:",inline"`
	Source          string `json:"source,omitempty" yaml:"source,omitempty"`
}

// ExportYAML writes all references to dir/index/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, indexDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes all references to dir/index/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, indexDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, COALESCE(source, '') FROM refs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()

	entries := []ExportEntry{}
	for rows.Next() {
		var e ExportEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Content, &e.Source); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
