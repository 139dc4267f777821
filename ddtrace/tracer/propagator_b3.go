// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"strconv"
	"strings"
)

// b3Propagator implements the B3 propagation format, either as separate
// X-B3-* headers (multiHeader) or as a single "b3: trace-span-sampled"
// header.
type b3Propagator struct {
	cfg         *PropagatorConfig
	multiHeader bool
}

const (
	headerB3TraceID = "x-b3-traceid"
	headerB3SpanID  = "x-b3-spanid"
	headerB3Sampled = "x-b3-sampled"
	headerB3Single  = "b3"
)

func (p *b3Propagator) Inject(ctx *SpanContext, carrier interface{}) error {
	writer, ok := carrier.(TextMapWriter)
	if !ok {
		return ErrInvalidCarrier
	}
	if ctx == nil {
		return ErrInvalidSpanContext
	}

	sampled := "0"
	if prio, ok := ctx.samplingPriority(); ok && prio > 0 {
		sampled = "1"
	}
	traceIDHex := ctx.traceID.HexEncoded()
	spanIDHex := hexEncode(ctx.spanID, 16)

	if p.multiHeader {
		writer.Set(headerB3TraceID, traceIDHex)
		writer.Set(headerB3SpanID, spanIDHex)
		writer.Set(headerB3Sampled, sampled)
		return nil
	}

	writer.Set(headerB3Single, traceIDHex+"-"+spanIDHex+"-"+sampled)
	return nil
}

func (p *b3Propagator) Extract(carrier interface{}) (*SpanContext, error) {
	reader, ok := carrier.(TextMapReader)
	if !ok {
		return nil, ErrInvalidCarrier
	}

	var traceIDHex, spanIDHex, sampledStr, single string
	err := reader.ForeachKey(func(k, v string) error {
		switch strings.ToLower(k) {
		case headerB3TraceID:
			traceIDHex = v
		case headerB3SpanID:
			spanIDHex = v
		case headerB3Sampled:
			sampledStr = v
		case headerB3Single:
			single = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if single != "" {
		parts := strings.Split(single, "-")
		if len(parts) < 2 {
			return nil, ErrSpanContextCorrupted
		}
		traceIDHex, spanIDHex = parts[0], parts[1]
		if len(parts) >= 3 {
			sampledStr = parts[2]
		}
	}

	if traceIDHex == "" || spanIDHex == "" {
		return nil, ErrSpanContextNotFound
	}

	traceID, err := parseB3TraceID(traceIDHex)
	if err != nil {
		return nil, ErrSpanContextCorrupted
	}
	spanID, err := strconv.ParseUint(spanIDHex, 16, 64)
	if err != nil {
		return nil, ErrSpanContextCorrupted
	}

	var priority *float64
	if sampledStr != "" {
		pr := 0.0
		if sampledStr == "1" || sampledStr == "d" {
			pr = 1
		}
		priority = &pr
	}

	return newSpanContextExtracted(traceID, spanID, "", priority, nil), nil
}

// parseB3TraceID accepts both the 16-hex-digit (64-bit) and 32-hex-digit
// (128-bit) forms B3 allows.
func parseB3TraceID(hex string) (TraceID, error) {
	var t TraceID
	switch len(hex) {
	case 16:
		lower, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return t, err
		}
		t.SetLower(lower)
	case 32:
		if err := t.SetUpperFromHex(hex[:16]); err != nil {
			return t, err
		}
		lower, err := strconv.ParseUint(hex[16:], 16, 64)
		if err != nil {
			return t, err
		}
		t.SetLower(lower)
	default:
		return t, ErrSpanContextCorrupted
	}
	return t, nil
}
