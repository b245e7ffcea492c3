// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk splits an ordered reference list into token-bounded batches
// for outline drafting.
package chunk

import "github.com/pdiddy/autosurvey/internal/tokens"

// Chunk is one order-preserving slice of the reference list.
type Chunk struct {
	Contents []string
	Titles   []string
}

// Plan splits contents (and the index-aligned titles) into batches whose
// token totals are close to budget. It computes the chunk count as
// total/budget + 1 and the target length as total/chunks + 1, walks the
// references accumulating tokens, and cuts a boundary at every reference
// whose running total exceeds the target. The reference that crossed the
// target opens the next chunk and its tokens start that chunk's running
// total, so no chunk exceeds the target unless it holds a single reference
// that does on its own.
//
// Every reference lands in exactly one chunk, in its original order. A
// single reference larger than the budget is never split. The final chunk
// takes the remainder and is always present, so an empty input yields one
// empty chunk. A nil count uses tokens.Estimate.
func Plan(contents, titles []string, budget int, count tokens.Counter) []Chunk {
	if count == nil {
		count = tokens.Estimate
	}
	if budget <= 0 {
		budget = 1
	}

	total := tokens.Sum(count, contents)
	numChunks := total/budget + 1
	avgLen := total/numChunks + 1

	var cuts []int
	running := 0
	for i, c := range contents {
		n := count(c)
		running += n
		if running > avgLen {
			running = n
			cuts = append(cuts, i)
		}
	}

	chunks := make([]Chunk, 0, len(cuts)+1)
	start := 0
	for _, cut := range cuts {
		if cut == start {
			// A leading oversize reference would open an empty chunk.
			continue
		}
		chunks = append(chunks, slice(contents, titles, start, cut))
		start = cut
	}
	chunks = append(chunks, slice(contents, titles, start, len(contents)))
	return chunks
}

func slice(contents, titles []string, start, end int) Chunk {
	c := Chunk{Contents: contents[start:end:end]}
	if start < len(titles) {
		e := end
		if e > len(titles) {
			e = len(titles)
		}
		c.Titles = titles[start:e:e]
	}
	return c
}
