// Package telemetry provides hierarchical timing collection for
// operations. Collectors travel through the context so instrumentation
// stays non-intrusive: code paths call StartTimer and get a no-op timer
// when telemetry is disabled.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "forecast.build")
//	// ... work ...
//	timer.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey int

const (
	collectorKey contextKey = iota
	rootTimerKey
)

// Collector collects operation timings.
type Collector interface {
	// Start begins timing an operation and returns a Timer that must be
	// ended with End() when the operation completes.
	Start(name string) Timer

	// Report writes the collected timing tree to w.
	Report(w io.Writer)
}

// Timer tracks a single operation's timing. Timers nest via Child.
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a nested timer under this timer.
	Child(name string) Timer
}

// WithCollector attaches a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from a context, returning a no-op
// collector when none is present.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// WithRootTimer attaches a timer that StartTimer nests new timers under.
func WithRootTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, rootTimerKey, timer)
}

// StartTimer begins timing an operation as a child of the context's root
// timer, or directly on the context's collector when no root timer is set.
// Without a collector the returned timer does nothing.
func StartTimer(ctx context.Context, name string) Timer {
	if timer, ok := ctx.Value(rootTimerKey).(Timer); ok {
		return timer.Child(name)
	}
	return FromContext(ctx).Start(name)
}

// noOpCollector provides zero overhead when telemetry is disabled.
type noOpCollector struct{}

func (noOpCollector) Start(name string) Timer { return noOpTimer{} }

func (noOpCollector) Report(w io.Writer) {}

type noOpTimer struct{}

func (noOpTimer) End() {}

func (noOpTimer) Child(name string) Timer { return noOpTimer{} }
