// Package collect runs every configured source once and merges what each of
// them observed into its snapshot.
package collect

import (
	"context"
	"errors"
	"fmt"
	"io"

	"profilestats/internal/components/assert"
	"profilestats/internal/components/telemetry"
	"profilestats/internal/snapshot"
)

const (
	report_run_fetch = "run.fetch"
	report_run_merge = "run.merge"
)

// ErrNothingFetched is returned when not a single source observed any field.
var ErrNothingFetched = errors.New("collect: every fetch failed")

// Source is a platform stats can be scraped from.
type Source interface {
	// Name is the name of the snapshot the source writes to.
	Name() string
	// Tracked lists the fields the source knows about.
	Tracked() []string
	// Fetch returns every field the source could observe. it may return
	// fields and an error together when only part of the source failed.
	Fetch(ctx context.Context) (snapshot.Fields, error)
}

type Merger interface {
	Merge(source string, observed snapshot.Fields) (snapshot.MergeResult, error)
}

// Outcome is what happened to a single source during a run.
type Outcome struct {
	Source   string
	Observed snapshot.Fields
	Result   snapshot.MergeResult
	FetchErr error
	MergeErr error
}

// Fetched reports whether the source observed at least one field, even an
// invalid one.
func (o Outcome) Fetched() bool {
	return len(o.Observed) > 0
}

type Collector struct {
	merger  Merger
	summary io.Writer
	tel     telemetry.API
}

// NewCollector creates a collector merging into `merger`. a table of every
// merge is written to `summary` if it is not nil.
func NewCollector(merger Merger, summary io.Writer, tel telemetry.API) Collector {
	assert.NotNil(merger)
	assert.NotNil(tel)
	return Collector{
		merger:  merger,
		summary: summary,
		tel:     telemetry.NewScopedAPI("collect", tel),
	}
}

func (c Collector) runSource(ctx context.Context, source Source) Outcome {
	outcome := Outcome{Source: source.Name()}

	observed, err := source.Fetch(ctx)
	outcome.Observed = observed
	outcome.FetchErr = err
	if err != nil {
		c.tel.ReportDebug(report_run_fetch, source.Name(), err)
	}
	if !outcome.Fetched() {
		c.tel.ReportWarning(report_run_fetch, fmt.Errorf("nothing fetched from %s", source.Name()))
		return outcome
	}

	result, err := c.merger.Merge(source.Name(), observed)
	if err != nil {
		c.tel.ReportBroken(report_run_merge, err, source.Name())
		outcome.MergeErr = err
		return outcome
	}
	outcome.Result = result

	if c.summary != nil {
		snapshot.WriteSummary(c.summary, source.Name(), source.Tracked(), result)
	}
	return outcome
}

// Run fetches every source one after the other. a failing source never stops
// the others. the only error returned is ErrNothingFetched when no source
// observed anything, merge failures are reported and left in the outcomes.
func (c Collector) Run(ctx context.Context, sources ...Source) ([]Outcome, error) {
	var outcomes []Outcome
	fetched := false

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome := c.runSource(ctx, source)
		outcomes = append(outcomes, outcome)
		if outcome.Fetched() {
			fetched = true
		}
	}

	if !fetched {
		return outcomes, ErrNothingFetched
	}
	return outcomes, nil
}
