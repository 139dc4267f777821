// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/dd-trace-go-core/internal/clock"
	"github.com/DataDog/dd-trace-go-core/internal/samplernames"
)

func TestSampledByRateBounds(t *testing.T) {
	assert.True(t, sampledByRate(12345, 1))
	assert.False(t, sampledByRate(12345, 0))
	assert.False(t, sampledByRate(12345, -1))
}

func TestSampledByRateDeterministic(t *testing.T) {
	// the same trace ID at the same rate must always produce the same
	// keep/drop decision, the whole point of hash-based sampling.
	var traceID uint64 = 0xABCDEF0123456789
	first := sampledByRate(traceID, 0.3)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, sampledByRate(traceID, 0.3))
	}
}

func TestSampledByRateRoughlyMatchesTarget(t *testing.T) {
	kept := 0
	const n = 20000
	for i := uint64(0); i < n; i++ {
		if sampledByRate(i*0x9E3779B97F4A7C15+1, 0.25) {
			kept++
		}
	}
	ratio := float64(kept) / float64(n)
	assert.InDelta(t, 0.25, ratio, 0.05)
}

func TestPrioritySamplerReadRatesJSON(t *testing.T) {
	ps := newPrioritySampler()
	body := `{"rate_by_service":{"service:web,env:prod":0.5,"service:,env:":0.1}}`
	require.NoError(t, ps.readRatesJSON(strings.NewReader(body)))
	assert.Equal(t, 0.5, ps.getRate("service:web,env:prod"))
	assert.Equal(t, 0.1, ps.getRate("service:unknown,env:prod"))
}

func TestPrioritySamplerSampleTrace(t *testing.T) {
	ps := newPrioritySampler()
	require.NoError(t, ps.readRatesJSON(strings.NewReader(`{"rate_by_service":{"service:,env:":1}}`)))

	clk := clock.NewFrozen(time.Now())
	span := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})
	d := ps.sampleTrace(span, "service:,env:")
	assert.Equal(t, PriorityAutoKeep, d.Priority)
	assert.Equal(t, samplernames.AgentRate, d.Mechanism)
}
