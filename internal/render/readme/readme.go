// Package readme substitutes stat placeholders (<!--TOKEN-->) inside a
// document with the formatted values from the snapshots.
package readme

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"profilestats/internal/components/assert"
	"profilestats/internal/components/telemetry"
	"profilestats/internal/config"
	"profilestats/internal/render"
	"profilestats/internal/snapshot"

	"github.com/antzucaro/matchr"
)

const (
	report_update_sources = "update.sources"
	report_update_unknown = "update.unknown-token"
)

// minSuggestionScore is the jaro-winkler similarity above which an unknown
// token is assumed to be a typo of a known one.
const minSuggestionScore = 0.85

var markerRegex = regexp.MustCompile(`<!--([A-Z0-9_]+)-->`)

// Binding ties a placeholder token to a field of a source's snapshot.
type Binding struct {
	Token  string
	Source string
	Field  string
}

// Placeholder is the literal marker replaced in the document.
func (b Binding) Placeholder() string {
	return "<!--" + b.Token + "-->"
}

// BindingsFromConfig returns the bindings of the configured tokens sorted by
// token name.
func BindingsFromConfig(tokens map[string]config.Token) []Binding {
	bindings := make([]Binding, 0, len(tokens))
	for token, target := range tokens {
		bindings = append(bindings, Binding{Token: token, Source: target.Source, Field: target.Field})
	}
	slices.SortFunc(bindings, func(a, b Binding) int {
		return strings.Compare(a.Token, b.Token)
	})
	return bindings
}

// Unknown is a placeholder shaped marker that matches no binding.
type Unknown struct {
	Token string
	// Suggestion is the closest known token, it is empty when nothing is close.
	Suggestion string
}

type Report struct {
	// Replaced is the formatted value of every token found in the document.
	Replaced map[string]string
	// SkippedSources are the sources without a record, their tokens are left as is.
	SkippedSources []string
	Unknown        []Unknown
}

// Apply replaces the placeholder of each binding with the formatted field of
// its source's record. tokens absent from the document are ignored, fields
// absent from a record are formatted as 0, bindings whose source has no
// record are left untouched.
func Apply(doc string, bindings []Binding, records map[string]snapshot.Record) (string, Report) {
	report := Report{Replaced: map[string]string{}}
	known := map[string]struct{}{}

	for _, binding := range bindings {
		known[binding.Token] = struct{}{}

		record, ok := records[binding.Source]
		if !ok {
			if !slices.Contains(report.SkippedSources, binding.Source) {
				report.SkippedSources = append(report.SkippedSources, binding.Source)
			}
			continue
		}

		placeholder := binding.Placeholder()
		if !strings.Contains(doc, placeholder) {
			continue
		}
		value := render.FormatNumber(record.IntOr(binding.Field))
		doc = strings.ReplaceAll(doc, placeholder, value)
		report.Replaced[binding.Token] = value
	}

	seen := map[string]struct{}{}
	for _, groups := range markerRegex.FindAllStringSubmatch(doc, -1) {
		token := groups[1]
		if _, ok := known[token]; ok {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		report.Unknown = append(report.Unknown, Unknown{
			Token:      token,
			Suggestion: suggest(token, bindings),
		})
	}

	return doc, report
}

func suggest(token string, bindings []Binding) string {
	best := ""
	bestScore := 0.0
	for _, binding := range bindings {
		score := matchr.JaroWinkler(token, binding.Token, false)
		if score > bestScore {
			best = binding.Token
			bestScore = score
		}
	}
	if bestScore < minSuggestionScore {
		return ""
	}
	return best
}

type Updater struct {
	loader   render.Loader
	bindings []Binding
	tel      telemetry.API
}

func NewUpdater(loader render.Loader, bindings []Binding, tel telemetry.API) Updater {
	assert.NotNil(loader)
	assert.NotNil(tel)
	return Updater{
		loader:   loader,
		bindings: bindings,
		tel:      telemetry.NewScopedAPI("readme", tel),
	}
}

func (u Updater) records() (map[string]snapshot.Record, error) {
	records := map[string]snapshot.Record{}
	for _, binding := range u.bindings {
		if _, loaded := records[binding.Source]; loaded {
			continue
		}
		record, err := u.loader.Load(binding.Source)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s snapshot: %w", binding.Source, err)
		}
		records[binding.Source] = record
	}
	return records, nil
}

// UpdateFile rewrites the document at `path` in place with every placeholder
// substituted. the file keeps its permissions.
func (u Updater) UpdateFile(path string) (Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Report{}, err
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}

	records, err := u.records()
	if err != nil {
		return Report{}, err
	}

	updated, report := Apply(string(contents), u.bindings, records)
	for _, source := range report.SkippedSources {
		u.tel.ReportWarning(report_update_sources, fmt.Sprintf("no %s snapshot, its tokens were left as is", source))
	}
	for _, unknown := range report.Unknown {
		if unknown.Suggestion != "" {
			u.tel.ReportWarning(report_update_unknown, unknown.Token, "did you mean "+unknown.Suggestion+"?")
			continue
		}
		u.tel.ReportWarning(report_update_unknown, unknown.Token)
	}

	err = os.WriteFile(path, []byte(updated), info.Mode().Perm())
	if err != nil {
		return report, err
	}
	return report, nil
}
