package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var (
	before = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.Local)
	now    = time.Date(2024, time.March, 2, 9, 30, 15, 0, time.Local)
)

func TestMergeRule(t *testing.T) {
	prior := Record{
		"follower":       json.Number("100"),
		"views":          json.Number("500"),
		"likes":          json.Number("7"),
		"custom":         "kept",
		FieldLastUpdated: before.Format(TimeLayout),
	}

	testCases := []struct {
		name     string
		observed Fields
		expected Record
		updated  []string
		skipped  []Skip
	}{
		{
			name:     "valid fields overwrite, others untouched",
			observed: Fields{"follower": 120, "creations": 4},
			expected: Record{
				"follower":       int64(120),
				"creations":      int64(4),
				"views":          json.Number("500"),
				"likes":          json.Number("7"),
				"custom":         "kept",
				FieldLastUpdated: "2024-03-02 09:30:15",
			},
			updated: []string{"creations", "follower"},
		},
		{
			name:     "invalid fields never overwrite",
			observed: Fields{"views": 0, "likes": -3, "follower": 101},
			expected: Record{
				"follower":       int64(101),
				"views":          json.Number("500"),
				"likes":          json.Number("7"),
				"custom":         "kept",
				FieldLastUpdated: "2024-03-02 09:30:15",
			},
			updated: []string{"follower"},
			skipped: []Skip{
				{Field: "likes", Rejected: -3, Kept: json.Number("7")},
				{Field: "views", Rejected: 0, Kept: json.Number("500")},
			},
		},
		{
			name:     "invalid unknown field stays absent",
			observed: Fields{"creations": 0},
			expected: prior,
			skipped:  []Skip{{Field: "creations", Rejected: 0}},
		},
		{
			name:     "nothing observed",
			observed: Fields{},
			expected: prior,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			result, err := Merge(prior, test.observed, now)
			require.NoError(t, err)

			diff := cmp.Diff(test.expected, result.Record)
			if diff != "" {
				t.Fatal(diff)
			}
			require.Equal(t, test.updated, result.Updated)
			require.Equal(t, test.skipped, result.Skipped)
			require.Equal(t, len(test.updated) > 0, result.Changed())
			require.False(t, result.Written)
		})
	}

	// prior is never modified
	require.Equal(t, json.Number("100"), prior["follower"])
	require.Len(t, prior, 5)
}

func TestMergeProperties(t *testing.T) {
	priors := []Record{
		nil,
		{},
		{"views": json.Number("500")},
		{"views": int64(500), "likes": int64(3), FieldLastUpdated: before.Format(TimeLayout)},
	}
	observations := []Fields{
		{},
		{"views": 0},
		{"views": -1, "likes": 0},
		{"views": 501},
		{"views": 0, "likes": 9, "fans": 1},
	}

	for _, prior := range priors {
		for _, observed := range observations {
			once, err := Merge(prior, observed, now)
			require.NoError(t, err)

			// idempotence
			twice, err := Merge(once.Record, observed, now)
			require.NoError(t, err)
			if diff := cmp.Diff(once.Record, twice.Record); diff != "" {
				t.Fatalf("merge is not idempotent for %v + %v: %s", prior, observed, diff)
			}

			for field, value := range prior {
				if field == FieldLastUpdated {
					continue
				}
				observedValue, present := observed[field]
				if present && Valid(observedValue) {
					require.Equal(t, observedValue, once.Record[field])
					continue
				}
				// preserved verbatim
				require.Equal(t, value, once.Record[field])
			}

			for field, value := range observed {
				if Valid(value) {
					continue
				}
				// a non-positive observation is never a change
				require.Equal(t, prior[field], once.Record[field])
			}

			// last_updated changes iff a field was accepted
			if once.Changed() {
				require.Equal(t, now.Format(TimeLayout), once.Record.LastUpdated())
			} else {
				require.Equal(t, Record(prior).LastUpdated(), once.Record.LastUpdated())
			}
		}
	}
}

func TestRecordInt(t *testing.T) {
	record := Record{
		"a": json.Number("12"),
		"b": float64(3),
		"c": int64(4),
		"d": "5",
		"e": "nope",
		"f": json.Number("1.5e3"),
	}

	cases := []struct {
		field    string
		expected int64
		ok       bool
	}{
		{"a", 12, true},
		{"b", 3, true},
		{"c", 4, true},
		{"d", 5, true},
		{"e", 0, false},
		{"f", 1500, true},
		{"missing", 0, false},
	}
	for _, test := range cases {
		value, ok := record.Int(test.field)
		require.Equal(t, test.ok, ok, test.field)
		require.Equal(t, test.expected, value, test.field)
		require.Equal(t, test.expected, record.IntOr(test.field))
	}
}
