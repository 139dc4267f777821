// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylib/msgp/msgp"

	"github.com/DataDog/dd-trace-go-core/internal/clock"
)

func TestSpanSnapshotMarshalMsg(t *testing.T) {
	clk := clock.NewFrozen(time.Now())
	s := newSpan("op", &StartSpanConfig{Service: "svc", Resource: "res", StartTime: clk.Now()})
	s.SetTag("k", "v")
	s.Finish(clk.Now())

	b, err := s.snapshot().MarshalMsg(nil)
	require.NoError(t, err)

	r := msgp.NewReader(bytes.NewReader(b))
	n, err := r.ReadMapHeader()
	require.NoError(t, err)
	assert.Equal(t, uint32(12), n)

	fields := map[string]interface{}{}
	for i := uint32(0); i < n; i++ {
		key, err := r.ReadString()
		require.NoError(t, err)
		switch key {
		case "name", "service", "resource", "type":
			v, err := r.ReadString()
			require.NoError(t, err)
			fields[key] = v
		case "trace_id", "span_id", "parent_id":
			v, err := r.ReadUint64()
			require.NoError(t, err)
			fields[key] = v
		case "start", "duration":
			v, err := r.ReadInt64()
			require.NoError(t, err)
			fields[key] = v
		case "error":
			v, err := r.ReadInt32()
			require.NoError(t, err)
			fields[key] = v
		case "meta":
			mn, err := r.ReadMapHeader()
			require.NoError(t, err)
			m := map[string]string{}
			for j := uint32(0); j < mn; j++ {
				k, _ := r.ReadString()
				v, _ := r.ReadString()
				m[k] = v
			}
			fields[key] = m
		case "metrics":
			mn, err := r.ReadMapHeader()
			require.NoError(t, err)
			m := map[string]float64{}
			for j := uint32(0); j < mn; j++ {
				k, _ := r.ReadString()
				v, _ := r.ReadFloat64()
				m[k] = v
			}
			fields[key] = m
		}
	}

	assert.Equal(t, "op", fields["name"])
	assert.Equal(t, "svc", fields["service"])
	assert.Equal(t, "res", fields["resource"])
	meta := fields["meta"].(map[string]string)
	assert.Equal(t, "v", meta["k"])
}

func TestEncodeTracesPayloadShape(t *testing.T) {
	clk := clock.NewFrozen(time.Now())
	s := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})
	s.Finish(clk.Now())

	b, err := encodeTracesPayload([][]*Span{{s}})
	require.NoError(t, err)

	r := msgp.NewReader(bytes.NewReader(b))
	chunks, err := r.ReadArrayHeader()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), chunks)

	spans, err := r.ReadArrayHeader()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), spans)
}
