// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"net/url"
	"strconv"
	"strings"
)

// datadogPropagator implements the original Datadog header format:
// x-datadog-trace-id, x-datadog-parent-id, x-datadog-sampling-priority,
// x-datadog-origin, and x-datadog-tags (a "k=v,k=v" list carrying
// propagated tags, notably "_dd.p.tid" for the upper 64 bits of a 128-bit
// trace ID).
type datadogPropagator struct {
	cfg *PropagatorConfig
}

const (
	headerTraceID       = "x-datadog-trace-id"
	headerParentID      = "x-datadog-parent-id"
	headerPriority      = "x-datadog-sampling-priority"
	headerOrigin        = "x-datadog-origin"
	headerPropagatedTags = "x-datadog-tags"
	tagUpperTraceID     = "_dd.p.tid"
	tagPropagationError = "_dd.propagation_error"
)

func (p *datadogPropagator) Inject(ctx *SpanContext, carrier interface{}) error {
	writer, ok := carrier.(TextMapWriter)
	if !ok {
		return ErrInvalidCarrier
	}
	if ctx == nil {
		return ErrInvalidSpanContext
	}

	writer.Set(headerTraceID, strconv.FormatUint(ctx.traceID.Lower(), 10))
	writer.Set(headerParentID, strconv.FormatUint(ctx.spanID, 10))

	if prio, ok := ctx.samplingPriority(); ok {
		writer.Set(headerPriority, strconv.Itoa(int(prio)))
	}
	if ctx.origin != "" {
		writer.Set(headerOrigin, ctx.origin)
	}

	tags := ctx.trace.propagatingTagsSnapshot()
	if ctx.traceID.HasUpper() {
		tags[tagUpperTraceID] = ctx.traceID.UpperHex()
	}
	if len(tags) > 0 {
		writer.Set(headerPropagatedTags, encodeDatadogTags(tags))
	}

	ctx.ForeachBaggageItem(func(k, v string) bool {
		writer.Set(p.cfg.BaggagePrefix+k, url.QueryEscape(v))
		return true
	})

	return nil
}

func (p *datadogPropagator) Extract(carrier interface{}) (*SpanContext, error) {
	reader, ok := carrier.(TextMapReader)
	if !ok {
		return nil, ErrInvalidCarrier
	}

	var (
		traceIDStr, parentIDStr, priorityStr, origin, tagsStr string
		baggage                                               map[string]string
	)

	err := reader.ForeachKey(func(k, v string) error {
		switch strings.ToLower(k) {
		case headerTraceID:
			traceIDStr = v
		case headerParentID:
			parentIDStr = v
		case headerPriority:
			priorityStr = v
		case headerOrigin:
			origin = v
		case headerPropagatedTags:
			tagsStr = v
		default:
			if strings.HasPrefix(strings.ToLower(k), p.cfg.BaggagePrefix) {
				if baggage == nil {
					baggage = make(map[string]string)
				}
				key := k[len(p.cfg.BaggagePrefix):]
				if uv, err := url.QueryUnescape(v); err == nil {
					baggage[key] = uv
				} else {
					baggage[key] = v
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if traceIDStr == "" || parentIDStr == "" {
		return nil, ErrSpanContextNotFound
	}

	lower, err := strconv.ParseUint(traceIDStr, 10, 64)
	if err != nil {
		return nil, ErrSpanContextCorrupted
	}
	spanID, err := strconv.ParseUint(parentIDStr, 10, 64)
	if err != nil {
		return nil, ErrSpanContextCorrupted
	}

	traceID := TraceIDFromUint64(lower)
	var propagationErr string
	if tagsStr != "" {
		for k, v := range decodeDatadogTags(tagsStr) {
			if k == tagUpperTraceID {
				if e := traceID.SetUpperFromHex(v); e != nil {
					propagationErr = "malformed_tid " + v
				}
			}
		}
	}

	var priority *float64
	if priorityStr != "" {
		if pr, err := strconv.ParseFloat(priorityStr, 64); err == nil {
			priority = &pr
		}
	}

	ctx := newSpanContextExtracted(traceID, spanID, origin, priority, baggage)
	if propagationErr != "" {
		ctx.trace.setTag(tagPropagationError, propagationErr)
	}
	return ctx, nil
}

// encodeDatadogTags renders a propagated-tags map as "k=v,k=v", percent
// encoding neither key nor value: values placed in this map are controlled
// by this module and never contain '=' or ','.
func encodeDatadogTags(tags map[string]string) string {
	var sb strings.Builder
	first := true
	for k, v := range tags {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(v)
	}
	return sb.String()
}

func decodeDatadogTags(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		out[kv[0]] = kv[1]
	}
	return out
}
