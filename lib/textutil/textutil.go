package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// StripWhitespace removes every whitespace character, including the ones in
// the middle of the string. secrets pasted into CI settings often pick up
// stray newlines and tabs.
func StripWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, "")
}

// NormalizeLabel trims a scraped label and collapses its inner whitespace so
// that it can be compared against a fixed landmark.
func NormalizeLabel(label string) string {
	label = strings.Trim(label, " \n\t\r ")
	return whitespaceRegex.ReplaceAllString(label, " ")
}
