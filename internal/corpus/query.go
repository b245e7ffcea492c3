// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/pdiddy/autosurvey/internal/metrics"
	"github.com/pdiddy/autosurvey/pkg/types"
)

// maxQueryTerms bounds the number of terms taken from free text.
const maxQueryTerms = 64

// fetchBatch bounds the number of ids bound into one IN clause.
const fetchBatch = 500

// QueryTopK returns the ids of up to k references most relevant to text,
// best first. With shuffle set the same ids are returned in random order.
// A k of zero or less uses the store's MaxResults. Text without any
// searchable term yields no ids.
func (s *Store) QueryTopK(ctx context.Context, text string, k int, shuffle bool) ([]string, error) {
	metrics.CorpusQueries.WithLabelValues("topk").Inc()
	if k <= 0 {
		k = s.maxResults
	}
	match := matchQuery(text)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id
		FROM refs_fts
		JOIN refs r ON r.rowid = refs_fts.rowid
		WHERE refs_fts MATCH ?
		ORDER BY bm25(refs_fts)
		LIMIT ?`, match, k)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if shuffle {
		rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}
	return ids, nil
}

// FetchByIDs returns the references for ids in the order given. Ids with
// no stored reference are skipped.
func (s *Store) FetchByIDs(ctx context.Context, ids []string) ([]types.Reference, error) {
	metrics.CorpusQueries.WithLabelValues("fetch").Inc()
	found := make(map[string]types.Reference, len(ids))

	for start := 0; start < len(ids); start += fetchBatch {
		end := min(start+fetchBatch, len(ids))
		batch := ids[start:end]

		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")

		rows, err := s.db.QueryContext(ctx,
			`SELECT id, title, content FROM refs WHERE id IN (`+placeholders+`)`, args...)
		if err != nil {
			return nil, fmt.Errorf("fetching references: %w", err)
		}
		for rows.Next() {
			var r types.Reference
			if err := rows.Scan(&r.ID, &r.Title, &r.Content); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning row: %w", err)
			}
			found[r.ID] = r
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}

	refs := make([]types.Reference, 0, len(ids))
	for _, id := range ids {
		r, ok := found[id]
		if !ok {
			s.log.Debug("reference id not in corpus", zap.String("id", id))
			continue
		}
		refs = append(refs, r)
	}
	return refs, nil
}

// LookupByCitation resolves free citation text to the id of its best match.
// An exact case-insensitive title match wins; otherwise the bm25 nearest
// reference, with titles weighted over content, is returned. Text matching
// nothing yields ErrNotFound.
func (s *Store) LookupByCitation(ctx context.Context, text string) (string, error) {
	metrics.CorpusQueries.WithLabelValues("citation").Inc()
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNotFound
	}

	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM refs WHERE title = ? COLLATE NOCASE ORDER BY rowid LIMIT 1`, text,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("looking up title: %w", err)
	}

	match := matchQuery(text)
	if match == "" {
		return "", ErrNotFound
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT r.id
		FROM refs_fts
		JOIN refs r ON r.rowid = refs_fts.rowid
		WHERE refs_fts MATCH ?
		ORDER BY bm25(refs_fts, 10.0, 1.0)
		LIMIT 1`, match,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("looking up citation: %w", err)
	}
	return id, nil
}

// matchQuery turns free text into an FTS5 query: lowercased letter and
// digit runs of two or more characters, deduplicated, quoted, and joined
// with OR.
func matchQuery(text string) string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, `"`+f+`"`)
		if len(terms) == maxQueryTerms {
			break
		}
	}
	return strings.Join(terms, " OR ")
}
