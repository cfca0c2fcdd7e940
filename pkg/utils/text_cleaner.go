package utils

import (
	"strings"
	"unicode/utf8"
)

var markdownReplacer = strings.NewReplacer(
	"**", "",
	"#", "",
	"-", "",
	"\n", " ",
)

// StripMarkdown removes emphasis/heading markers and list dashes, then collapses whitespace.
// Hyphens inside words are dropped too ("5-7" becomes "57"); the extraction prompt asks the
// model to spell ranges out for that reason.
func StripMarkdown(text string) string {
	cleaned := markdownReplacer.Replace(text)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Truncate cuts text to at most limit characters without splitting a UTF-8 sequence
func Truncate(text string, limit int) string {
	if limit < 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}
