// Package choices decodes the line-oriented choice lists used by selection
// style field units.
//
// Each non-blank line describes one choice. A line of the form
// "VALUE | LABEL" uses the trimmed left side as the submitted value and the
// trimmed right side as the label. A bare line uses its slug as the value and
// the line itself as the label. The decoder keeps input order, never
// deduplicates and never injects placeholder rows.
package choices

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Separator splits an explicit value from its label.
const Separator = "|"

// Choice is one (value, label) pair.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Parse decodes text into ordered choices.
func Parse(text string) []Choice {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	out := make([]Choice, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if value, label, ok := strings.Cut(line, Separator); ok {
			out = append(out, Choice{
				Value: strings.TrimSpace(value),
				Label: strings.TrimSpace(label),
			})
			continue
		}
		out = append(out, Choice{Value: Slugify(line), Label: line})
	}
	return out
}

// Values returns the values of list in order.
func Values(list []Choice) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, choice := range list {
		out[i] = choice.Value
	}
	return out
}

// Contains reports whether value is one of the decoded values.
func Contains(list []Choice, value string) bool {
	for _, choice := range list {
		if choice.Value == value {
			return true
		}
	}
	return false
}

// LabelFor returns the label of the first choice carrying value.
func LabelFor(list []Choice, value string) (string, bool) {
	for _, choice := range list {
		if choice.Value == value {
			return choice.Label, true
		}
	}
	return "", false
}

var fold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases s, folds accented letters to ASCII and collapses every
// run of other characters into a single hyphen. Leading and trailing hyphens
// are dropped.
func Slugify(s string) string {
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pending := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
