package form

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// DefaultLabeler turns an input name such as "full_name" into "Full name".
// Only the first word is capitalised.
func DefaultLabeler(name string) string {
	words := splitWordsPattern.Split(strings.TrimSpace(name), -1)
	segments := make([]string, 0, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		segments = append(segments, strings.ToLower(word))
	}
	if len(segments) == 0 {
		return ""
	}
	first := segments[0]
	r, size := utf8.DecodeRuneInString(first)
	segments[0] = string(unicode.ToUpper(r)) + first[size:]
	return strings.Join(segments, " ")
}
