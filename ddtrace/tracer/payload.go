// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"github.com/tinylib/msgp/msgp"
)

// The agent's /v0.4/traces endpoint expects an array of traces, each trace
// an array of spans, each span a fixed-layout map. The MarshalMsg method
// below is hand-written against the msgp runtime rather than generated,
// since the wire layout is small and fixed and doesn't change across
// versions.

// MarshalMsg appends the msgpack encoding of a single span to b.
func (s spanSnapshot) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 12)

	b = msgp.AppendString(b, "name")
	b = msgp.AppendString(b, s.Name)
	b = msgp.AppendString(b, "service")
	b = msgp.AppendString(b, s.Service)
	b = msgp.AppendString(b, "resource")
	b = msgp.AppendString(b, s.Resource)
	b = msgp.AppendString(b, "type")
	b = msgp.AppendString(b, s.Type)
	b = msgp.AppendString(b, "trace_id")
	b = msgp.AppendUint64(b, s.TraceID)
	b = msgp.AppendString(b, "span_id")
	b = msgp.AppendUint64(b, s.SpanID)
	b = msgp.AppendString(b, "parent_id")
	b = msgp.AppendUint64(b, s.ParentID)
	b = msgp.AppendString(b, "start")
	b = msgp.AppendInt64(b, s.Start)
	b = msgp.AppendString(b, "duration")
	b = msgp.AppendInt64(b, s.Duration)
	b = msgp.AppendString(b, "error")
	b = msgp.AppendInt32(b, s.Error)

	b = msgp.AppendString(b, "meta")
	b = msgp.AppendMapHeader(b, uint32(len(s.Meta)))
	for k, v := range s.Meta {
		b = msgp.AppendString(b, k)
		b = msgp.AppendString(b, v)
	}

	b = msgp.AppendString(b, "metrics")
	b = msgp.AppendMapHeader(b, uint32(len(s.Metrics)))
	for k, v := range s.Metrics {
		b = msgp.AppendString(b, k)
		b = msgp.AppendFloat64(b, v)
	}

	return b, nil
}

// encodeTracesPayload encodes a batch of trace chunks (each a slice of
// finished spans belonging to the same trace) as the array-of-array-of-map
// msgpack document the agent's /v0.4/traces endpoint expects.
func encodeTracesPayload(chunks [][]*Span) ([]byte, error) {
	b := msgp.AppendArrayHeader(nil, uint32(len(chunks)))
	for _, chunk := range chunks {
		b = msgp.AppendArrayHeader(b, uint32(len(chunk)))
		for _, span := range chunk {
			var err error
			b, err = span.snapshot().MarshalMsg(b)
			if err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}
