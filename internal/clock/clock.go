// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package clock abstracts the time source used by the tracer so that tests
// can substitute a deterministic clock instead of wall time.
package clock

import "time"

// TimePoint pairs a wall-clock reading with a monotonic tick. Wall is only
// ever used for display/export, Tick is the only value used to compute
// durations.
type TimePoint struct {
	Wall time.Time
	Tick int64 // nanoseconds, monotonic
}

// Clock provides the current TimePoint.
type Clock interface {
	Now() TimePoint
}

// Real is the production Clock backed by time.Now().
type Real struct{}

// realEpoch anchors Tick to the monotonic clock reading time.Now() carries
// internally: subtracting two time.Time values that both carry a monotonic
// reading uses it instead of the wall clock, so Tick stays correct across
// NTP adjustments even though it is stored as a plain int64.
var realEpoch = time.Now()

// Now returns the current wall time and a monotonic tick derived from it.
func (Real) Now() TimePoint {
	t := time.Now()
	return TimePoint{Wall: t, Tick: int64(t.Sub(realEpoch))}
}

// Since returns the duration between two TimePoints using only their
// monotonic ticks.
func Since(start, end TimePoint) time.Duration {
	return time.Duration(end.Tick - start.Tick)
}

// Frozen is a Clock that always returns the same TimePoint, or one advanced
// manually by tests via Advance.
type Frozen struct {
	tp TimePoint
}

// NewFrozen returns a Frozen clock seeded at t.
func NewFrozen(t time.Time) *Frozen {
	return &Frozen{tp: TimePoint{Wall: t, Tick: t.UnixNano()}}
}

// Now returns the frozen TimePoint.
func (f *Frozen) Now() TimePoint { return f.tp }

// Advance moves the frozen clock forward by d.
func (f *Frozen) Advance(d time.Duration) {
	f.tp.Wall = f.tp.Wall.Add(d)
	f.tp.Tick += int64(d)
}
