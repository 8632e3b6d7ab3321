package snapshot

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
)

const (
	FieldLastUpdated = "last_updated"
	// TimeLayout is the layout of the last_updated field.
	TimeLayout = "2006-01-02 15:04:05"
)

// Fields is a set of freshly observed stats. a key being present means the
// stat was observed, its value may still be invalid (<= 0).
type Fields map[string]int64

// Names returns the observed stat names in sorted order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Record is the persisted snapshot of one source. it is a flat json object,
// keys this program does not know about are carried along untouched.
type Record map[string]any

// Int returns the integer value of `name`, ok is false when the field is
// absent or not a number.
func (r Record) Int(name string) (value int64, ok bool) {
	switch v := r[name].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return parsed, true
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		return parsed, err == nil
	}
	return 0, false
}

// IntOr returns the integer value of `name` or 0.
func (r Record) IntOr(name string) int64 {
	v, _ := r.Int(name)
	return v
}

// LastUpdated returns the last_updated field or "".
func (r Record) LastUpdated() string {
	s, _ := r[FieldLastUpdated].(string)
	return s
}

func (r Record) clone() Record {
	if r == nil {
		return Record{}
	}
	return maps.Clone(r)
}
