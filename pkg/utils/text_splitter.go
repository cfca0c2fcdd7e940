package utils

import (
	"strings"
	"unicode/utf8"
)

// SentenceSeparator is the boundary SplitSentences cuts on and re-inserts between sentences
const SentenceSeparator = ". "

// SplitSentences splits text on ". " and greedily packs consecutive sentences into chunks
// of at most maxLength characters (separators included).
// A sentence that alone exceeds maxLength becomes its own chunk and is not split further.
// strings.Join(chunks, ". ") always reproduces the input.
func SplitSentences(text string, maxLength int) []string {
	if text == "" {
		return nil
	}

	sepLen := utf8.RuneCountInString(SentenceSeparator)
	sentences := strings.Split(text, SentenceSeparator)

	var chunks []string
	var current strings.Builder
	currentLen := 0
	started := false

	for _, sentence := range sentences {
		sentenceLen := utf8.RuneCountInString(sentence)

		if !started {
			current.WriteString(sentence)
			currentLen = sentenceLen
			started = true
			continue
		}

		if currentLen+sepLen+sentenceLen <= maxLength {
			current.WriteString(SentenceSeparator)
			current.WriteString(sentence)
			currentLen += sepLen + sentenceLen
			continue
		}

		chunks = append(chunks, current.String())
		current.Reset()
		current.WriteString(sentence)
		currentLen = sentenceLen
	}

	if started {
		chunks = append(chunks, current.String())
	}

	return chunks
}
