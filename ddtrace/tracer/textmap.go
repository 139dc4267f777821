// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"errors"
	"net/http"
)

// Errors returned by Propagator.Extract.
var (
	ErrInvalidCarrier      = errors.New("tracer: invalid carrier")
	ErrInvalidSpanContext  = errors.New("tracer: invalid span context")
	ErrSpanContextCorrupted = errors.New("tracer: span context corrupted")
	ErrSpanContextNotFound = errors.New("tracer: no span context found")
)

// Default header names used by the Datadog propagator.
const (
	DefaultTraceIDHeader  = "x-datadog-trace-id"
	DefaultParentIDHeader = "x-datadog-parent-id"
)

// TextMapWriter is implemented by carriers that support setting key/value
// string pairs, used by Inject.
type TextMapWriter interface {
	Set(key, value string)
}

// TextMapReader is implemented by carriers that support enumerating
// key/value string pairs, used by Extract.
type TextMapReader interface {
	ForeachKey(handler func(key, val string) error) error
}

// TextMapCarrier implements TextMapWriter/TextMapReader over a plain
// string map, e.g. for protocols that aren't HTTP.
type TextMapCarrier map[string]string

// Set implements TextMapWriter.
func (c TextMapCarrier) Set(key, value string) { c[key] = value }

// ForeachKey implements TextMapReader.
func (c TextMapCarrier) ForeachKey(handler func(key, val string) error) error {
	for k, v := range c {
		if err := handler(k, v); err != nil {
			return err
		}
	}
	return nil
}

// HTTPHeadersCarrier implements TextMapWriter/TextMapReader over
// http.Header, canonicalizing header names per net/http's conventions.
type HTTPHeadersCarrier http.Header

// Set implements TextMapWriter.
func (c HTTPHeadersCarrier) Set(key, value string) {
	http.Header(c).Set(key, value)
}

// ForeachKey implements TextMapReader.
func (c HTTPHeadersCarrier) ForeachKey(handler func(key, val string) error) error {
	for k, vs := range c {
		for _, v := range vs {
			if err := handler(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Propagator injects a SpanContext into, and extracts one from, a carrier
// in a specific wire format (Datadog headers, W3C traceparent/tracestate,
// or B3).
type Propagator interface {
	Inject(ctx *SpanContext, carrier interface{}) error
	Extract(carrier interface{}) (*SpanContext, error)
}

// PropagatorConfig customizes the baggage key prefix used by the
// Datadog-style propagator. TraceHeader, ParentHeader and MaxTagsHeaderLen
// are filled with defaults but not read by the propagator: it always uses
// the x-datadog-* header names and does not cap the tags header.
type PropagatorConfig struct {
	BaggagePrefix string
	TraceHeader   string
	ParentHeader  string
	MaxTagsHeaderLen int
}

func (c *PropagatorConfig) fillDefaults() {
	if c.BaggagePrefix == "" {
		c.BaggagePrefix = "ot-baggage-"
	}
	if c.TraceHeader == "" {
		c.TraceHeader = DefaultTraceIDHeader
	}
	if c.ParentHeader == "" {
		c.ParentHeader = DefaultParentIDHeader
	}
	if c.MaxTagsHeaderLen == 0 {
		c.MaxTagsHeaderLen = 512
	}
}

// chainedPropagator tries each configured injector on Inject (all of them,
// best-effort) and each extractor on Extract in order, keeping the first
// successfully extracted SpanContext ("first wins"): a later extractor
// never overwrites its identifiers. The remaining extractors are still
// probed, and one that decodes a different trace or span ID causes the
// winning context to be tagged _dd.propagation_error.
type chainedPropagator struct {
	injectors  []Propagator
	extractors []Propagator
}

// NewPropagator returns the composite Propagator configured for the given
// extraction/injection styles, in the style-specific order the styles were
// listed (matching DD_PROPAGATION_STYLE_EXTRACT / _INJECT semantics).
func NewPropagator(cfg *PropagatorConfig, extract, inject []string) Propagator {
	if cfg == nil {
		cfg = &PropagatorConfig{}
	}
	cfg.fillDefaults()

	styles := map[string]Propagator{
		"datadog": &datadogPropagator{cfg: cfg},
		"tracecontext": &w3cPropagator{cfg: cfg},
		"b3":          &b3Propagator{cfg: cfg, multiHeader: true},
		"b3multi":     &b3Propagator{cfg: cfg, multiHeader: true},
		"b3 single header": &b3Propagator{cfg: cfg, multiHeader: false},
	}

	cp := &chainedPropagator{}
	for _, s := range extract {
		if p, ok := styles[s]; ok {
			cp.extractors = append(cp.extractors, p)
		}
	}
	for _, s := range inject {
		if p, ok := styles[s]; ok {
			cp.injectors = append(cp.injectors, p)
		}
	}
	if len(cp.extractors) == 0 {
		cp.extractors = []Propagator{styles["datadog"]}
	}
	if len(cp.injectors) == 0 {
		cp.injectors = []Propagator{styles["datadog"]}
	}
	return cp
}

// Inject runs every configured injector over carrier. The first one to
// fail with ErrInvalidCarrier aborts immediately (the carrier type itself
// is unusable); other injection errors are collected but don't stop later
// injectors from running, since a later style's encoding is independent.
func (cp *chainedPropagator) Inject(ctx *SpanContext, carrier interface{}) error {
	var firstErr error
	for _, p := range cp.injectors {
		if err := p.Inject(ctx, carrier); err != nil {
			if err == ErrInvalidCarrier {
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Extract tries each configured extractor in order, keeping the first
// successful result ("first wins"). It still probes every remaining
// extractor after that: if a later one decodes a different trace or span
// ID from the same carrier, the two propagation styles disagree about the
// incoming trace, and the winning context is tagged with
// tagPropagationError rather than silently overwritten.
func (cp *chainedPropagator) Extract(carrier interface{}) (*SpanContext, error) {
	var (
		winner   *SpanContext
		firstErr error
	)
	for _, p := range cp.extractors {
		ctx, err := p.Extract(carrier)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if winner == nil {
			winner = ctx
			continue
		}
		if ctx.traceID != winner.traceID || ctx.spanID != winner.spanID {
			winner.trace.setTag(tagPropagationError, "extract_conflicting_style")
		}
	}
	if winner != nil {
		return winner, nil
	}
	if firstErr == nil {
		firstErr = ErrSpanContextNotFound
	}
	return nil, firstErr
}
