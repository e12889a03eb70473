// Package telemetry provides hierarchical timing collection for operations.
//
// Collectors travel through the context so instrumentation stays
// non-intrusive: code paths time themselves against whatever collector the
// caller installed, and a no-op collector is used when none is present.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.FromContext(ctx).Start("load book")
//	defer timer.End()
//
//	child := timer.Child("parse")
//	// ... work ...
//	child.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var collectorKey = contextKey{}

// Collector collects operation timings.
type Collector interface {
	// Start begins timing an operation and returns a Timer that must be
	// ended when the operation completes.
	Start(name string) Timer

	// Report writes the collected timings to w.
	Report(w io.Writer)
}

// Timer tracks a single operation's timing. Timers nest via Child.
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a nested timer under this timer.
	Child(name string) Timer
}

// WithCollector installs a collector into the context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from the context, or a no-op collector
// when none is installed.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}
