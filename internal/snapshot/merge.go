package snapshot

import (
	"time"

	"dario.cat/mergo"
)

// Skip describes an observed field that failed validation.
type Skip struct {
	Field    string
	Rejected int64
	// Kept is the value still stored for the field, nil if there is none.
	Kept any
}

type MergeResult struct {
	Record  Record
	Updated []string
	Skipped []Skip
	// Written is true once the record has been persisted, Merge itself never
	// sets it.
	Written bool
}

// Changed reports whether at least one field was accepted.
func (m MergeResult) Changed() bool {
	return len(m.Updated) > 0
}

// Valid reports whether an observed value may replace a stored one.
func Valid(value int64) bool {
	return value > 0
}

// Merge applies `observed` on top of `prior`. a field is only overwritten
// when the observed value is valid, every other field of prior is kept as is.
// last_updated is set to `now` if and only if at least one field was accepted.
// prior is never modified.
func Merge(prior Record, observed Fields, now time.Time) (MergeResult, error) {
	result := MergeResult{Record: prior.clone()}

	accepted := Record{}
	for _, name := range observed.Names() {
		value := observed[name]
		if !Valid(value) {
			result.Skipped = append(result.Skipped, Skip{
				Field:    name,
				Rejected: value,
				Kept:     prior[name],
			})
			continue
		}
		accepted[name] = value
		result.Updated = append(result.Updated, name)
	}

	if len(accepted) == 0 {
		return result, nil
	}
	accepted[FieldLastUpdated] = now.Format(TimeLayout)

	err := mergo.Merge(&result.Record, accepted, mergo.WithOverride)
	if err != nil {
		return MergeResult{Record: prior.clone()}, err
	}
	return result, nil
}
