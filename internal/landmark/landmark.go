// Package landmark finds numeric values in unstructured pages by looking for
// a fixed label next to them. it is the only place that knows about page
// layouts, the rest of the program only sees the extracted fields.
package landmark

import (
	"regexp"
	"strconv"
	"strings"
)

// Fields maps a stat name to the value found next to its landmark.
type Fields map[string]int64

// Extractor pulls whatever fields it can find out of a page. fields whose
// landmark is missing are omitted, never reported as zero.
type Extractor interface {
	Extract(page string) Fields
}

// Chain runs every extractor in order, the first extractor to find a field wins.
type Chain []Extractor

func (c Chain) Extract(page string) Fields {
	out := Fields{}
	for _, extractor := range c {
		for name, value := range extractor.Extract(page) {
			if _, found := out[name]; found {
				continue
			}
			out[name] = value
		}
	}
	return out
}

var separatorReplacer = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "\n", "", "\t", "")

// ParseCount parses a count that may contain thousands separators, ex. "12,345".
func ParseCount(text string) (int64, bool) {
	cleaned := separatorReplacer.Replace(text)
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Pattern is a landmark expressed as a regular expression, its first
// submatch is the count.
type Pattern struct {
	Field  string
	Regexp *regexp.Regexp
}

// PatternExtractor matches each pattern against the raw page text.
// when several patterns target the same field the first match wins.
type PatternExtractor []Pattern

func (p PatternExtractor) Extract(page string) Fields {
	out := Fields{}
	for _, pattern := range p {
		if _, found := out[pattern.Field]; found {
			continue
		}
		groups := pattern.Regexp.FindStringSubmatch(page)
		if len(groups) < 2 {
			continue
		}
		value, ok := ParseCount(groups[1])
		if !ok {
			continue
		}
		out[pattern.Field] = value
	}
	return out
}
