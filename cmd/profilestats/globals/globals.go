package globals

import (
	"context"

	"profilestats/internal/components/telemetry"
	"profilestats/internal/config"
	"profilestats/internal/snapshot"
	"profilestats/lib/restyutil"
)

type key int

const valueKey key = iota

// Value is everything the commands share, it is built once before any
// command runs.
type Value struct {
	Config config.Config
	Tel    telemetry.API
	Store  snapshot.Store
	// Output is nil unless --dump-http is given.
	Output restyutil.Output
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, valueKey, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(valueKey).(*Value)
}
