// Package telemetrytest provides a telemetry.API that records reports so
// tests can assert on diagnostics.
package telemetrytest

import (
	"fmt"
	"strings"
	"sync"
)

type Kind int

const (
	KindBroken Kind = iota
	KindWarning
	KindDebug
	KindCount
)

type Report struct {
	Kind   Kind
	ID     string
	Params []any
	Count  int64
}

type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

func (r *Recorder) add(report Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Kind: KindBroken, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Kind: KindWarning, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Kind: KindDebug, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Kind: KindCount, ID: id, Count: count})
}

// Reports returns every report of the given kind.
func (r *Recorder) Reports(kind Kind) []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// Contains reports whether a report of `kind` has an id containing `id`, or a
// param whose formatted value contains `id`.
func (r *Recorder) Contains(kind Kind, id string) bool {
	for _, report := range r.Reports(kind) {
		if strings.Contains(report.ID, id) {
			return true
		}
		for _, p := range report.Params {
			if strings.Contains(fmt.Sprint(p), id) {
				return true
			}
		}
	}
	return false
}

// Counts returns the last count reported per id.
func (r *Recorder) Counts() map[string]int64 {
	out := map[string]int64{}
	for _, report := range r.Reports(KindCount) {
		out[report.ID] = report.Count
	}
	return out
}
