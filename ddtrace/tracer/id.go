// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"strconv"

	"github.com/DataDog/dd-trace-go-core/internal/idgen"
)

// SpanID is a 64-bit span identifier.
type SpanID = uint64

// TraceID is a 128-bit trace identifier stored as big-endian bytes. Lower()
// is the value every Datadog agent and non-128-bit-aware tracer sees;
// Upper() carries the extra 64 bits used for W3C interop and the
// "_dd.p.tid" propagated tag.
type TraceID [16]byte

// TraceIDFromUint64 builds a TraceID whose lower 64 bits equal lower and
// whose upper 64 bits are zero (pre-128-bit-generation behavior).
func TraceIDFromUint64(lower uint64) TraceID {
	var t TraceID
	t.SetLower(lower)
	return t
}

// Lower returns the trace ID's low 64 bits, the historically significant
// value used as the wire trace-id by non-128-bit-aware consumers.
func (t TraceID) Lower() uint64 {
	return beUint64(t[8:16])
}

// Upper returns the trace ID's high 64 bits.
func (t TraceID) Upper() uint64 {
	return beUint64(t[0:8])
}

// SetLower overwrites the low 64 bits.
func (t *TraceID) SetLower(v uint64) { putBeUint64(t[8:16], v) }

// SetUpper overwrites the high 64 bits.
func (t *TraceID) SetUpper(v uint64) { putBeUint64(t[0:8], v) }

// HasUpper reports whether the upper 64 bits are non-zero, i.e. whether
// this is a "true" 128-bit trace ID rather than one zero-extended from a
// legacy 64-bit value.
func (t TraceID) HasUpper() bool { return t.Upper() != 0 }

// UpperHex renders the upper 64 bits as 16 lowercase hex digits, the form
// used by the "_dd.p.tid" propagated tag.
func (t TraceID) UpperHex() string { return hexEncode(t.Upper(), 16) }

// SetUpperFromHex parses a 16-hex-digit string into the upper 64 bits.
func (t *TraceID) SetUpperFromHex(s string) error {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return err
	}
	t.SetUpper(v)
	return nil
}

// HexEncoded renders the full 128 bits as 32 lowercase hex digits, zero
// padded, the form used by the W3C traceparent header.
func (t TraceID) HexEncoded() string {
	return hexEncode(t.Upper(), 16) + hexEncode(t.Lower(), 16)
}

// Empty reports whether the trace ID is the zero value.
func (t TraceID) Empty() bool {
	return t == TraceID{}
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func putBeUint64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

// hexEncode renders v as exactly padding lowercase hex digits. Written by
// hand, right to left, rather than via fmt, since this sits on the span
// creation hot path.
func hexEncode(v uint64, padding int) string {
	const digits = "0123456789abcdef"
	buf := make([]byte, padding)
	for i := padding - 1; i >= 0; i-- {
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf)
}

func spanIDHexEncoded(v uint64, padding int) string {
	return hexEncode(v, padding)
}

// generateSpanID returns a new random 64-bit span identifier.
func generateSpanID() uint64 { return idgen.RandUint64() }
