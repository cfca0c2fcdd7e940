package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxLength int
		want      []string
	}{
		{
			name:      "empty text",
			text:      "",
			maxLength: 10,
			want:      nil,
		},
		{
			name:      "single short sentence",
			text:      "Take Paracetamol 500mg twice daily for 5 to 7 days.",
			maxLength: 500,
			want:      []string{"Take Paracetamol 500mg twice daily for 5 to 7 days."},
		},
		{
			name:      "sentences packed until the limit",
			text:      "aaaa. bbbb. cccc",
			maxLength: 10,
			want:      []string{"aaaa. bbbb", "cccc"},
		},
		{
			name:      "separator counts towards the limit",
			text:      "aaaa. bbbbb",
			maxLength: 10,
			want:      []string{"aaaa", "bbbbb"},
		},
		{
			name:      "oversized sentence stays alone",
			text:      "aa. bbbbbbbbbbbbbbbb. cc",
			maxLength: 8,
			want:      []string{"aa", "bbbbbbbbbbbbbbbb", "cc"},
		},
		{
			name:      "leading separator is kept",
			text:      ". aa",
			maxLength: 10,
			want:      []string{". aa"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text, tt.maxLength))
		})
	}
}

func TestSplitSentences_ReconstructsInput(t *testing.T) {
	inputs := []string{
		"One. Two. Three. Four. Five",
		"पैरासिटामोल 500mg दिन में दो बार लें. 5 से 7 दिनों तक लें. खाने के बाद लें.",
		strings.Repeat("x", 40) + ". " + strings.Repeat("y", 3) + ". " + strings.Repeat("z", 25),
		"no separators at all",
		"a. . b",
	}

	for _, limit := range []int{1, 5, 12, 30, 500} {
		for _, input := range inputs {
			chunks := SplitSentences(input, limit)
			assert.Equal(t, input, strings.Join(chunks, SentenceSeparator), "limit %d", limit)

			for _, chunk := range chunks {
				if utf8.RuneCountInString(chunk) <= limit {
					continue
				}
				// only a lone sentence may exceed the limit
				assert.NotContains(t, chunk, SentenceSeparator, "limit %d chunk %q", limit, chunk)
			}
		}
	}
}

func TestSplitSentences_CountsCharactersNotBytes(t *testing.T) {
	// 4 Devanagari runes = 12 bytes each side
	text := "दवाई. दवाई"
	chunks := SplitSentences(text, 10)
	assert.Equal(t, []string{text}, chunks)
}
