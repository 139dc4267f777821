// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"fmt"
	"strconv"
	"strings"
)

// w3cPropagator implements the W3C Trace Context propagation format:
// "traceparent" carries the mandatory 128-bit trace ID, span ID, and a
// sampled flag; "tracestate" carries a vendor-specific "dd=" section with
// the Datadog sampling priority, origin, and propagated tags, so a round
// trip through a non-Datadog intermediary preserves Datadog-specific state
// it doesn't otherwise understand.
type w3cPropagator struct {
	cfg *PropagatorConfig
}

const (
	headerTraceparent = "traceparent"
	headerTracestate  = "tracestate"
)

func (p *w3cPropagator) Inject(ctx *SpanContext, carrier interface{}) error {
	writer, ok := carrier.(TextMapWriter)
	if !ok {
		return ErrInvalidCarrier
	}
	if ctx == nil {
		return ErrInvalidSpanContext
	}

	sampled := "00"
	if prio, ok := ctx.samplingPriority(); ok && prio > 0 {
		sampled = "01"
	}
	// HexEncoded always renders the full 128 bits, zero-extending the upper
	// half when the trace ID was generated locally as a 64-bit ID.
	traceparent := fmt.Sprintf("00-%s-%s-%s", ctx.traceID.HexEncoded(), hexEncode(ctx.spanID, 16), sampled)
	writer.Set(headerTraceparent, traceparent)

	var dd strings.Builder
	if prio, ok := ctx.samplingPriority(); ok {
		fmt.Fprintf(&dd, "s:%d", int(prio))
	}
	if ctx.origin != "" {
		if dd.Len() > 0 {
			dd.WriteByte(';')
		}
		fmt.Fprintf(&dd, "o:%s", sanitizeTracestateValue(ctx.origin))
	}
	for k, v := range ctx.trace.propagatingTagsSnapshot() {
		if dd.Len() > 0 {
			dd.WriteByte(';')
		}
		// tracestate keys can't contain '=' or ';'; Datadog propagated
		// tags are re-keyed "t.<suffix>" after stripping the "_dd.p."
		// prefix, per the dd= section grammar.
		key := strings.TrimPrefix(k, "_dd.p.")
		fmt.Fprintf(&dd, "t.%s:%s", key, sanitizeTracestateValue(v))
	}
	if dd.Len() > 0 {
		writer.Set(headerTracestate, "dd="+dd.String())
	}

	return nil
}

func sanitizeTracestateValue(v string) string {
	return strings.NewReplacer(",", "_", ";", "_", "=", "~").Replace(v)
}

func (p *w3cPropagator) Extract(carrier interface{}) (*SpanContext, error) {
	reader, ok := carrier.(TextMapReader)
	if !ok {
		return nil, ErrInvalidCarrier
	}

	var traceparent, tracestate string
	err := reader.ForeachKey(func(k, v string) error {
		switch strings.ToLower(k) {
		case headerTraceparent:
			traceparent = v
		case headerTracestate:
			tracestate = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if traceparent == "" {
		return nil, ErrSpanContextNotFound
	}

	parts := strings.Split(traceparent, "-")
	if len(parts) < 4 || len(parts[1]) != 32 || len(parts[2]) != 16 {
		return nil, ErrSpanContextCorrupted
	}

	var traceID TraceID
	upperHex, lowerHex := parts[1][:16], parts[1][16:]
	if err := traceID.SetUpperFromHex(upperHex); err != nil {
		return nil, ErrSpanContextCorrupted
	}
	lower, err := strconv.ParseUint(lowerHex, 16, 64)
	if err != nil {
		return nil, ErrSpanContextCorrupted
	}
	traceID.SetLower(lower)

	spanID, err := strconv.ParseUint(parts[2], 16, 64)
	if err != nil {
		return nil, ErrSpanContextCorrupted
	}

	flags, err := strconv.ParseUint(parts[3], 16, 8)
	if err != nil {
		return nil, ErrSpanContextCorrupted
	}
	sampled := flags&0x1 == 1

	var priority *float64
	var origin string
	if dd := extractDDSection(tracestate); dd != "" {
		for _, field := range strings.Split(dd, ";") {
			kv := strings.SplitN(field, ":", 2)
			if len(kv) != 2 {
				continue
			}
			switch {
			case kv[0] == "s":
				if pr, err := strconv.ParseFloat(kv[1], 64); err == nil {
					priority = &pr
				}
			case kv[0] == "o":
				origin = kv[1]
			}
		}
	}
	if priority == nil {
		p := 0.0
		if sampled {
			p = 1
		}
		priority = &p
	}

	return newSpanContextExtracted(traceID, spanID, origin, priority, nil), nil
}

func extractDDSection(tracestate string) string {
	for _, member := range strings.Split(tracestate, ",") {
		member = strings.TrimSpace(member)
		if strings.HasPrefix(member, "dd=") {
			return strings.TrimPrefix(member, "dd=")
		}
	}
	return ""
}
