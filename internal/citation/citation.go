// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation turns the free-text citation keys a model writes inside
// square brackets into numbered references.
//
// Keys are resolved to corpus references and numbered by first appearance of
// each distinct title, so two keys that resolve to the same title share one
// number. Rewriting replaces keys in place: separators, whitespace and
// repeated keys inside a bracket are kept as written.
package citation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/autosurvey/internal/corpus"
	"github.com/pdiddy/autosurvey/internal/metrics"
	"github.com/pdiddy/autosurvey/pkg/types"
)

// ErrUnresolved reports a citation key that matches no corpus reference
// under the error policy.
var ErrUnresolved = errors.New("unresolved citation")

// Placeholder is the rendered number of an unresolved key under the
// placeholder policy.
const Placeholder = "?"

// bracketRe matches a bracketed span with no nested brackets.
var bracketRe = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Lookup resolves citation text against the reference corpus. A key with no
// match yields an error wrapping corpus.ErrNotFound.
type Lookup interface {
	LookupByCitation(ctx context.Context, text string) (string, error)
	FetchByIDs(ctx context.Context, ids []string) ([]types.Reference, error)
}

// Resolution maps citation keys to display numbers.
type Resolution struct {
	// Numbers maps each resolved key to its display number.
	Numbers map[string]int

	// Table lists the numbered references in number order.
	Table types.ReferenceTable

	// Unresolved lists keys that matched no reference, in first-appearance order.
	Unresolved []string
}

// span is one citation bracket in a document. Link text ("[text](url)")
// is not a citation.
type span struct {
	start, end int // byte offsets of the whole bracket
	inner      string
}

func spans(doc string) []span {
	var out []span
	for _, m := range bracketRe.FindAllStringSubmatchIndex(doc, -1) {
		if m[1] < len(doc) && doc[m[1]] == '(' {
			continue
		}
		out = append(out, span{start: m[0], end: m[1], inner: doc[m[2]:m[3]]})
	}
	return out
}

// Extract returns every distinct citation key in doc in order of first
// appearance. Bracket contents are split on ";" and trimmed.
func Extract(doc string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, sp := range spans(doc) {
		for _, part := range strings.Split(sp.inner, ";") {
			key := strings.TrimSpace(part)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// Resolve looks up each key and numbers the distinct titles 1..N in order of
// first appearance. Keys the lookup cannot match are collected in
// Unresolved, or fail the call with ErrUnresolved under CitationError.
func Resolve(ctx context.Context, lookup Lookup, keys []string, policy types.CitationPolicy) (Resolution, error) {
	ids := make([]string, len(keys))
	var found []string
	for i, key := range keys {
		id, err := lookup.LookupByCitation(ctx, key)
		if err != nil {
			if !errors.Is(err, corpus.ErrNotFound) {
				return Resolution{}, fmt.Errorf("resolving citation %q: %w", key, err)
			}
			if policy == types.CitationError {
				return Resolution{}, fmt.Errorf("%w: %q", ErrUnresolved, key)
			}
			continue
		}
		ids[i] = id
		found = append(found, id)
	}

	refs, err := lookup.FetchByIDs(ctx, found)
	if err != nil {
		return Resolution{}, fmt.Errorf("fetching cited references: %w", err)
	}
	titles := make(map[string]string, len(refs))
	for _, r := range refs {
		titles[r.ID] = r.Title
	}

	res := Resolution{Numbers: make(map[string]int)}
	byTitle := make(map[string]int)
	for i, key := range keys {
		title, ok := titles[ids[i]]
		if ids[i] == "" || !ok {
			if policy == types.CitationError {
				return Resolution{}, fmt.Errorf("%w: %q", ErrUnresolved, key)
			}
			res.Unresolved = append(res.Unresolved, key)
			metrics.CitationsResolved.WithLabelValues("unresolved").Inc()
			continue
		}
		n, seen := byTitle[title]
		if !seen {
			n = len(res.Table.Entries) + 1
			byTitle[title] = n
			res.Table.Entries = append(res.Table.Entries, types.ReferenceEntry{
				Number: n,
				ID:     ids[i],
				Title:  title,
			})
		}
		res.Numbers[key] = n
		metrics.CitationsResolved.WithLabelValues("resolved").Inc()
	}
	return res, nil
}

// Rewrite replaces the keys inside each citation bracket with their display
// numbers. Under CitationOmit unresolved keys are dropped with their
// separator, and a bracket with no resolved key is left as written. Under
// CitationPlaceholder every unresolved key renders as "?".
func Rewrite(doc string, res Resolution, policy types.CitationPolicy) string {
	var b strings.Builder
	last := 0
	for _, sp := range spans(doc) {
		b.WriteString(doc[last:sp.start])
		if inner, ok := rewriteInner(sp.inner, res, policy); ok {
			b.WriteString("[" + inner + "]")
		} else {
			b.WriteString(doc[sp.start:sp.end])
		}
		last = sp.end
	}
	b.WriteString(doc[last:])
	return b.String()
}

// rewriteInner rewrites one bracket body. It reports false when the bracket
// should be left untouched.
func rewriteInner(inner string, res Resolution, policy types.CitationPolicy) (string, bool) {
	parts := strings.Split(inner, ";")
	kept := make([]string, 0, len(parts))
	resolved := 0
	for _, part := range parts {
		key := strings.TrimSpace(part)
		if key == "" {
			continue
		}
		lead := part[:strings.Index(part, key)]
		trail := part[len(lead)+len(key):]

		n, ok := res.Numbers[key]
		switch {
		case ok:
			resolved++
			kept = append(kept, lead+strconv.Itoa(n)+trail)
		case policy == types.CitationPlaceholder:
			kept = append(kept, lead+Placeholder+trail)
		}
	}
	if len(kept) == 0 || (resolved == 0 && policy != types.CitationPlaceholder) {
		return "", false
	}
	// The bracket keeps the leading whitespace of its first written key.
	lead := parts[0][:len(parts[0])-len(strings.TrimLeft(parts[0], " \t"))]
	kept[0] = lead + strings.TrimLeft(kept[0], " \t")
	return strings.Join(kept, ";"), true
}

// Block renders the references section appended to a document. Line
// breaks inside titles are removed.
func Block(table types.ReferenceTable) string {
	var b strings.Builder
	b.WriteString("\n\n## References\n\n")
	for _, e := range table.Entries {
		fmt.Fprintf(&b, "[%d] %s\n\n", e.Number, strings.ReplaceAll(e.Title, "\n", ""))
	}
	return b.String()
}

// Process extracts, resolves, and rewrites the citations of doc and appends
// the references block.
func Process(ctx context.Context, lookup Lookup, doc string, policy types.CitationPolicy) (string, Resolution, error) {
	res, err := Resolve(ctx, lookup, Extract(doc), policy)
	if err != nil {
		return "", Resolution{}, err
	}
	return Rewrite(doc, res, policy) + Block(res.Table), res, nil
}
