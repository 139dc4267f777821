// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"sync"
	"sync/atomic"

	"github.com/DataDog/dd-trace-go-core/internal/samplernames"
)

const (
	// traceStartSize is the initial capacity reserved for a segment's span
	// slice; most traces are small enough that this avoids any
	// reallocation.
	traceStartSize = 10
	// traceMaxSize caps the number of spans a single segment will retain;
	// when the cap is reached the segment is marked full, the spans it
	// retained are discarded, and the segment is never handed to onFinish,
	// rather than risk unbounded memory growth on a runaway trace.
	traceMaxSize = 1e5
)

// SpanContext carries the identifiers and propagation state needed to
// create or extend a trace: which trace and span a new child should attach
// to, and a pointer to the shared segment bookkeeping every span in the
// trace uses to decide when the trace is complete.
type SpanContext struct {
	traceID TraceID
	spanID  uint64

	mu      sync.RWMutex
	origin  string
	baggage map[string]string

	trace *traceSegment
	span  *Span

	isRemote bool
}

// TraceID returns the 128-bit trace identifier.
func (c *SpanContext) TraceID() TraceID { return c.traceID }

// SpanID returns the 64-bit span identifier this context was created for.
func (c *SpanContext) SpanID() uint64 { return c.spanID }

// Origin returns the product that originated the trace (e.g. "synthetics"),
// or "" if none was set.
func (c *SpanContext) Origin() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.origin
}

// ForeachBaggageItem calls fn for every baggage item carried by the
// context, stopping early if fn returns false.
func (c *SpanContext) ForeachBaggageItem(fn func(k, v string) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.baggage {
		if !fn(k, v) {
			return
		}
	}
}

func (c *SpanContext) setBaggageItem(k, v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.baggage == nil {
		c.baggage = make(map[string]string, 1)
	}
	c.baggage[k] = v
}

func (c *SpanContext) baggageItem(k string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.baggage[k]
	return v, ok
}

// samplingPriority returns the trace's sampling priority and whether it has
// been set at all.
func (c *SpanContext) samplingPriority() (float64, bool) {
	if c.trace == nil {
		return 0, false
	}
	return c.trace.samplingPriority()
}

// newSpanContextRoot creates the SpanContext for a brand-new root span: a
// fresh trace ID, a fresh segment, and no parent.
func newSpanContextRoot(span *Span) *SpanContext {
	var traceID TraceID
	traceID.SetLower(generateSpanID())

	ctx := &SpanContext{
		traceID: traceID,
		spanID:  span.spanID,
		span:    span,
	}
	ctx.trace = newTraceSegment(ctx)
	ctx.trace.root = span
	return ctx
}

// newSpanContextChild creates the SpanContext for a span started as a
// child of parent, attaching it to the parent's trace segment.
func newSpanContextChild(span *Span, parent *SpanContext) *SpanContext {
	ctx := &SpanContext{
		traceID: parent.traceID,
		spanID:  span.spanID,
		span:    span,
		trace:   parent.trace,
	}
	parent.mu.RLock()
	ctx.origin = parent.origin
	if len(parent.baggage) > 0 {
		ctx.baggage = make(map[string]string, len(parent.baggage))
		for k, v := range parent.baggage {
			ctx.baggage[k] = v
		}
	}
	parent.mu.RUnlock()
	return ctx
}

// newSpanContextExtracted creates a remote SpanContext from propagated
// values. Its trace segment is created here, before any local span
// exists; a local span started with ChildOf(ctx) attaches to it.
func newSpanContextExtracted(traceID TraceID, spanID uint64, origin string, priority *float64, baggage map[string]string) *SpanContext {
	ctx := &SpanContext{
		traceID:  traceID,
		spanID:   spanID,
		origin:   origin,
		baggage:  baggage,
		isRemote: true,
	}
	ctx.trace = newTraceSegment(ctx)
	if priority != nil {
		ctx.trace.setSamplingPriority(*priority, samplernames.Unknown)
		ctx.trace.locked = true
	}
	return ctx
}

// newSpanContextFreshRoot creates a context for a brand-new local trace
// with no owning span yet: used when extraction fails and the caller must
// recover by starting a fresh trace rather than getting back no context
// at all. A local span attaching via ChildOf(ctx) becomes that trace's
// root the same way any other child-of-context span does.
func newSpanContextFreshRoot() *SpanContext {
	var traceID TraceID
	traceID.SetLower(generateSpanID())
	ctx := &SpanContext{
		traceID: traceID,
		spanID:  generateSpanID(),
	}
	ctx.trace = newTraceSegment(ctx)
	return ctx
}

// traceSegment holds the per-trace state shared by every Span belonging to
// the same trace within this process: the list of spans created so far,
// how many have finished, and the sampling decision. A traceSegment seals
// (is handed to the collector) the moment every span created in it has
// finished.
type traceSegment struct {
	mu sync.Mutex

	spans    []*Span
	finished int
	full     bool

	tags            map[string]string
	propagatingTags map[string]string

	priority *float64
	locked   bool
	mechanism samplernames.SamplerName

	root *Span

	// openSpans counts spans that have been pushed but not yet finished.
	// It is kept up to date atomically, but trace completeness is decided
	// in finishedOne under mu from the finished count, not from openSpans.
	openSpans atomic.Int64

	onFinish func(spans []*Span)
}

func newTraceSegment(ctx *SpanContext) *traceSegment {
	return &traceSegment{
		spans: make([]*Span, 0, traceStartSize),
	}
}

// push registers a newly created span with the segment.
func (t *traceSegment) push(s *Span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.full {
		return
	}
	if len(t.spans) >= traceMaxSize {
		t.full = true
		t.spans = nil
		return
	}
	t.spans = append(t.spans, s)
	t.openSpans.Add(1)
}

// samplingPriority returns the trace's sampling priority and whether one
// has been assigned yet.
func (t *traceSegment) samplingPriority() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.priority == nil {
		return 0, false
	}
	return *t.priority, true
}

// setSamplingPriority assigns the trace's sampling priority, unless the
// decision has already been locked (e.g. by an extracted, already-sampled
// context).
func (t *traceSegment) setSamplingPriority(p float64, mechanism samplernames.SamplerName) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.locked {
		return false
	}
	t.priority = &p
	t.mechanism = mechanism
	return true
}

// lockSamplingPriority prevents any further changes to the sampling
// priority, called once the root span finishes.
func (t *traceSegment) lockSamplingPriority() {
	t.mu.Lock()
	t.locked = true
	t.mu.Unlock()
}

func (t *traceSegment) setTag(k, v string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tags == nil {
		t.tags = make(map[string]string)
	}
	t.tags[k] = v
}

func (t *traceSegment) setPropagatingTag(k, v string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.propagatingTags == nil {
		t.propagatingTags = make(map[string]string)
	}
	t.propagatingTags[k] = v
}

func (t *traceSegment) propagatingTagsSnapshot() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]string, len(t.propagatingTags))
	for k, v := range t.propagatingTags {
		out[k] = v
	}
	return out
}

// finishedOne is called by a Span when it finishes. It applies the
// segment-level bookkeeping (locking the sampling decision on root
// finish) and, once every pushed span has
// finished, seals the segment by invoking onFinish with the finished
// spans exactly once.
func (t *traceSegment) finishedOne(s *Span) {
	t.openSpans.Add(-1)

	t.mu.Lock()
	t.finished++
	isRoot := t.root == s
	seal := t.full || (len(t.spans) > 0 && t.finished >= len(t.spans))
	var spans []*Span
	if seal && !t.full {
		spans = t.spans
		t.spans = nil
		t.finished = 0
	}
	t.mu.Unlock()

	if isRoot {
		t.lockSamplingPriority()
	}

	if spans != nil && t.onFinish != nil {
		t.onFinish(spans)
	}
}
