// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tokens estimates prompt and completion sizes.
package tokens

import "unicode/utf8"

// Counter returns the token count of one string.
type Counter func(s string) int

// Estimate approximates the token count of s: ASCII text counts
// ceil(chars/4) and every other rune counts as one token, which keeps
// CJK text close to BPE tokenizer counts. Actual tokenization varies by
// model.
func Estimate(s string) int {
	ascii, other := 0, 0
	for i := 0; i < len(s); {
		if s[i] < utf8.RuneSelf {
			ascii++
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		other++
		i += size
	}
	return (ascii+3)/4 + other
}

// Sum applies count to every string and returns the total. A nil count
// uses Estimate.
func Sum(count Counter, ss []string) int {
	if count == nil {
		count = Estimate
	}
	total := 0
	for _, s := range ss {
		total += count(s)
	}
	return total
}
