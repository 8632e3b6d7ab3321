package snapshot

import (
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer, source string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.SetTitle(source)
	return t
}

func formatValue(record Record, field string) any {
	value, ok := record[field]
	if !ok {
		return "N/A"
	}
	return value
}

// trackedFields returns `tracked` followed by any other numeric-looking
// field found in the record, last_updated excluded.
func trackedFields(tracked []string, record Record) []string {
	fields := slices.Clone(tracked)
	var extra []string
	for name := range record {
		if name == FieldLastUpdated || slices.Contains(fields, name) {
			continue
		}
		extra = append(extra, name)
	}
	slices.Sort(extra)
	return append(fields, extra...)
}

// WriteSummary renders the final value of every tracked field after a merge
// and whether it was updated or skipped on this run.
func WriteSummary(w io.Writer, source string, tracked []string, result MergeResult) {
	t := newTable(w, source)
	t.AppendHeader(table.Row{"Field", "Value", "Status"})

	for _, field := range trackedFields(tracked, result.Record) {
		status := ""
		if slices.Contains(result.Updated, field) {
			status = "updated"
		}
		for _, skip := range result.Skipped {
			if skip.Field == field {
				status = fmt.Sprintf("skipped (got %d)", skip.Rejected)
			}
		}
		t.AppendRow(table.Row{field, formatValue(result.Record, field), status})
	}
	t.AppendFooter(table.Row{FieldLastUpdated, formatValue(result.Record, FieldLastUpdated), ""})
	t.Render()
}

// WriteRecord renders a stored record.
func WriteRecord(w io.Writer, source string, tracked []string, record Record) {
	t := newTable(w, source)
	t.AppendHeader(table.Row{"Field", "Value"})
	for _, field := range trackedFields(tracked, record) {
		t.AppendRow(table.Row{field, formatValue(record, field)})
	}
	t.AppendFooter(table.Row{FieldLastUpdated, formatValue(record, FieldLastUpdated)})
	t.Render()
}
