package telemetry

import (
	"context"
	"errors"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
)

// RecordRunStats records the resource usage of the process so far on the
// global meter provider. it is called once before the providers shut down.
func RecordRunStats(ctx context.Context, meterName string) error {
	meter := otel.Meter(meterName)
	cpuGauge, err := meter.Float64Gauge("process.cpu_seconds")
	if err != nil {
		return err
	}
	memoryGauge, err := meter.Int64Gauge("process.rss_mb")
	if err != nil {
		return err
	}
	liveObjectsGauge, err := meter.Int64Gauge("process.live_objects")
	if err != nil {
		return err
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return err
	}

	var errs []error
	times, err := proc.TimesWithContext(ctx)
	if err == nil {
		cpuGauge.Record(ctx, times.User+times.System)
	} else {
		errs = append(errs, err)
	}
	mem, err := proc.MemoryInfoWithContext(ctx)
	if err == nil {
		memoryGauge.Record(ctx, int64(mem.RSS/1_000_000))
	} else {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
