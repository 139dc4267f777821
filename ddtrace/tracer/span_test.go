// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/dd-trace-go-core/internal/clock"
)

func TestNewSpanAppliesConfig(t *testing.T) {
	clk := clock.NewFrozen(time.Now())
	s := newSpan("web.request", &StartSpanConfig{
		Service:  "my-svc",
		Resource: "GET /users",
		SpanType: "web",
		Tags:     map[string]string{"a": "b"},
		StartTime: clk.Now(),
	})
	snap := func() spanSnapshot {
		s.Finish(clk.Now())
		return s.snapshot()
	}()
	assert.Equal(t, "web.request", snap.Name)
	assert.Equal(t, "my-svc", snap.Service)
	assert.Equal(t, "GET /users", snap.Resource)
	assert.Equal(t, "web", snap.Type)
	assert.Equal(t, "b", snap.Meta["a"])
}

func TestSetTagRoutesNumericToMetrics(t *testing.T) {
	clk := clock.NewFrozen(time.Now())
	s := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})
	s.SetTag("count", 3)
	s.SetTag("ratio", 0.5)
	s.SetTag("name", "value")
	s.SetTag("flag", true)

	s.Finish(clk.Now())
	snap := s.snapshot()
	assert.Equal(t, float64(3), snap.Metrics["count"])
	assert.Equal(t, 0.5, snap.Metrics["ratio"])
	assert.Equal(t, "value", snap.Meta["name"])
	assert.Equal(t, "true", snap.Meta["flag"])
}

func TestSetTagErrorValueSetsErrorFields(t *testing.T) {
	clk := clock.NewFrozen(time.Now())
	s := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})
	s.SetTag("error", errors.New("boom"))

	s.Finish(clk.Now())
	snap := s.snapshot()
	assert.Equal(t, int32(1), snap.Error)
	assert.Equal(t, "boom", snap.Meta["error.message"])
}

func TestSetTagNoopAfterFinish(t *testing.T) {
	clk := clock.NewFrozen(time.Now())
	s := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})
	s.Finish(clk.Now())
	s.SetTag("late", "value")

	snap := s.snapshot()
	_, ok := snap.Meta["late"]
	assert.False(t, ok)
}

func TestFinishIsIdempotentAndClampsDuration(t *testing.T) {
	clk := clock.NewFrozen(time.Now())
	s := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})

	// end before start must clamp to zero, not go negative.
	past := clk.Now()
	past.Tick -= int64(time.Second)
	s.Finish(past)
	assert.Equal(t, int64(0), s.duration)

	durBefore := s.duration
	s.Finish(clk.Now())
	assert.Equal(t, durBefore, s.duration, "second Finish must not alter duration")
}

func TestSpanContextAndTraceIDAccessors(t *testing.T) {
	clk := clock.NewFrozen(time.Now())
	s := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})
	require.NotNil(t, s.Context())
	assert.Equal(t, s.context.traceID, s.TraceID())
	assert.Equal(t, s.spanID, s.SpanID())
}
