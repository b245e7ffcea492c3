// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"one char", "a", 1},
		{"four chars", "abcd", 1},
		{"five chars", "abcde", 2},
		{"hundred chars", strings.Repeat("x", 100), 25},
		{"cjk runes", "图神经网络", 5},
		{"mixed", "abcd 图", 3},
		{"accented", "café", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Estimate(tt.in))
		})
	}
}

func TestSum(t *testing.T) {
	assert.Equal(t, 3, Sum(nil, []string{"abcd", "abcde"}))
	assert.Equal(t, 2, Sum(func(string) int { return 1 }, []string{"", "x"}))
	assert.Equal(t, 0, Sum(nil, nil))
}
