// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"fmt"
	"sync"

	"github.com/DataDog/dd-trace-go-core/internal/clock"
)

// Span represents a single unit of work: a named, timed operation that may
// carry metadata tags and numeric metrics, and that belongs to exactly one
// trace. Span methods are safe to call from the goroutine that owns the
// span; concurrent mutation of the same Span from multiple goroutines is
// not supported, matching every other tracer of this lineage.
type Span struct {
	mu sync.Mutex

	name     string
	service  string
	resource string
	spanType string

	spanID   uint64
	parentID uint64

	start    clock.TimePoint
	duration int64 // nanoseconds, set once on Finish

	meta    map[string]string
	metrics map[string]float64

	error bool

	context *SpanContext

	finished bool
}

// StartSpanConfig carries the fields set at span-creation time. Only Parent
// needs special handling (it establishes the trace this span belongs to);
// everything else except Clock is copied verbatim onto the new Span. Clock
// is not read by newSpan.
type StartSpanConfig struct {
	Service  string
	Resource string
	SpanType string
	Tags     map[string]string
	Parent   *SpanContext
	StartTime clock.TimePoint
	Clock    clock.Clock
}

// newSpan allocates a Span and its SpanContext, attaching it to the
// parent's trace segment when a parent is given, or starting a new trace
// otherwise.
func newSpan(operationName string, cfg *StartSpanConfig) *Span {
	s := &Span{
		name:     operationName,
		service:  cfg.Service,
		resource: cfg.Resource,
		spanType: cfg.SpanType,
		spanID:   generateSpanID(),
		start:    cfg.StartTime,
		meta:     make(map[string]string, len(cfg.Tags)),
		metrics:  make(map[string]float64),
	}
	for k, v := range cfg.Tags {
		s.meta[k] = v
	}

	if cfg.Parent != nil {
		s.parentID = cfg.Parent.spanID
		s.context = newSpanContextChild(s, cfg.Parent)
	} else {
		s.context = newSpanContextRoot(s)
	}
	s.context.trace.push(s)

	return s
}

// Context returns the SpanContext identifying this span's trace, used to
// start children or to inject into an outgoing request.
func (s *Span) Context() *SpanContext { return s.context }

// SpanID returns the span's own identifier.
func (s *Span) SpanID() uint64 { return s.spanID }

// TraceID returns the 128-bit identifier of the trace this span belongs
// to.
func (s *Span) TraceID() TraceID { return s.context.traceID }

// SetTag attaches a string, numeric, or error tag to the span. A value
// implementing error sets the span's error flag and expands into the
// conventional error.message/error.type tags. Numeric values (any Go
// numeric kind) are stored as metrics rather than meta so they serialize
// as floats on export.
func (s *Span) SetTag(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	switch key {
	case "error":
		s.setErrorLocked(value)
		return
	}
	switch v := value.(type) {
	case string:
		s.meta[key] = v
	case bool:
		if v {
			s.meta[key] = "true"
		} else {
			s.meta[key] = "false"
		}
	case error:
		s.setErrorLocked(v)
	case float64:
		s.metrics[key] = v
	case float32:
		s.metrics[key] = float64(v)
	case int:
		s.metrics[key] = float64(v)
	case int8:
		s.metrics[key] = float64(v)
	case int16:
		s.metrics[key] = float64(v)
	case int32:
		s.metrics[key] = float64(v)
	case int64:
		s.metrics[key] = float64(v)
	case uint:
		s.metrics[key] = float64(v)
	case uint8:
		s.metrics[key] = float64(v)
	case uint16:
		s.metrics[key] = float64(v)
	case uint32:
		s.metrics[key] = float64(v)
	case uint64:
		s.metrics[key] = float64(v)
	default:
		s.meta[key] = fmt.Sprint(v)
	}
}

func (s *Span) setErrorLocked(value interface{}) {
	err, ok := value.(error)
	if !ok || err == nil {
		return
	}
	s.error = true
	s.meta["error.message"] = err.Error()
	s.meta["error.type"] = fmt.Sprintf("%T", err)
}

// SetOperationName renames the span.
func (s *Span) SetOperationName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		s.name = name
	}
}

// Finish marks the span complete and notifies the owning trace segment. A
// second call to Finish is a no-op, matching every other span
// implementation in this lineage: a finished span's fields are frozen.
func (s *Span) Finish(endTime clock.TimePoint) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.duration = endTime.Tick - s.start.Tick
	if s.duration < 0 {
		s.duration = 0
	}
	s.mu.Unlock()

	s.context.trace.finishedOne(s)
}

// snapshot returns a read-only copy of the span's exportable fields. Called
// only after the span has finished, so no locking is required.
func (s *Span) snapshot() spanSnapshot {
	meta := make(map[string]string, len(s.meta))
	for k, v := range s.meta {
		meta[k] = v
	}
	metrics := make(map[string]float64, len(s.metrics))
	for k, v := range s.metrics {
		metrics[k] = v
	}
	errFlag := int32(0)
	if s.error {
		errFlag = 1
	}
	return spanSnapshot{
		Name:     s.name,
		Service:  s.service,
		Resource: s.resource,
		Type:     s.spanType,
		TraceID:  s.context.traceID.Lower(),
		SpanID:   s.spanID,
		ParentID: s.parentID,
		Start:    s.start.Wall.UnixNano(),
		Duration: s.duration,
		Error:    errFlag,
		Meta:     meta,
		Metrics:  metrics,
	}
}

// spanSnapshot is the exportable, immutable view of a finished Span used by
// the collector to build the agent payload.
type spanSnapshot struct {
	Name     string
	Service  string
	Resource string
	Type     string
	TraceID  uint64
	SpanID   uint64
	ParentID uint64
	Start    int64
	Duration int64
	Error    int32
	Meta     map[string]string
	Metrics  map[string]float64
}
