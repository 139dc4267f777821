// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/dd-trace-go-core/internal/clock"
	"github.com/DataDog/dd-trace-go-core/internal/samplernames"
)

func TestRulesSamplerExtractedWins(t *testing.T) {
	rs := newRulesSampler(nil, nil, math.NaN(), 0, nil, "")
	clk := clock.NewFrozen(time.Now())
	span := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})

	extracted := &Decision{Priority: PriorityUserKeep, Mechanism: samplernames.Manual}
	got := rs.sampleTrace(span, extracted)
	assert.Equal(t, *extracted, got)
}

func TestRulesSamplerKeepAllWhenUnconfigured(t *testing.T) {
	rs := newRulesSampler(nil, nil, math.NaN(), 0, nil, "")
	clk := clock.NewFrozen(time.Now())
	span := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})

	got := rs.sampleTrace(span, nil)
	assert.Equal(t, PriorityAutoKeep, got.Priority)
	assert.Equal(t, samplernames.Default, got.Mechanism)
}

func TestRulesSamplerGlobalRate(t *testing.T) {
	rs := newRulesSampler(nil, nil, 0, 0, nil, "")
	clk := clock.NewFrozen(time.Now())
	span := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})

	got := rs.sampleTrace(span, nil)
	assert.Equal(t, PriorityAutoReject, got.Priority)
	assert.Equal(t, samplernames.Default, got.Mechanism)
}

func TestRulesSamplerTraceRuleTakesPrecedenceOverGlobalRate(t *testing.T) {
	rules := []SamplingRule{{Service: "checkout*", Name: "", Rate: 1}}
	rs := newRulesSampler(rules, nil, 0, 100, nil, "")
	clk := clock.NewFrozen(time.Now())
	span := newSpan("op", &StartSpanConfig{Service: "checkout-svc", StartTime: clk.Now()})

	got := rs.sampleTrace(span, nil)
	assert.Equal(t, PriorityUserKeep, got.Priority)
	assert.Equal(t, samplernames.RuleRate, got.Mechanism)
}

func TestRulesSamplerTraceRuleRejectedByLimiter(t *testing.T) {
	rules := []SamplingRule{{Service: "checkout*", Rate: 1}}
	rs := newRulesSampler(rules, nil, math.NaN(), 0, nil, "") // 0 rate limit allows nothing through
	clk := clock.NewFrozen(time.Now())
	span := newSpan("op", &StartSpanConfig{Service: "checkout-svc", StartTime: clk.Now()})

	got := rs.sampleTrace(span, nil)
	assert.Equal(t, PriorityUserReject, got.Priority)
}

func TestSamplingRuleMatchWithTags(t *testing.T) {
	rule := SamplingRule{
		Service: "*",
		Tags:    map[string]globPattern{"http.route": "/checkout"},
	}
	assert.True(t, rule.match("svc", "op", "", map[string]string{"http.route": "/checkout"}))
	assert.False(t, rule.match("svc", "op", "", map[string]string{"http.route": "/cart"}))
}

func TestSamplingRuleMatchesResource(t *testing.T) {
	rule := SamplingRule{Service: "*", Resource: "resource-*-abc"}
	assert.True(t, rule.match("svc", "op", "resource-1-abc", nil))
	assert.False(t, rule.match("svc", "op", "resource-1-xyz", nil))
}

func TestRulesSamplerFallsBackToAgentRateWhenUnconfigured(t *testing.T) {
	ps := newPrioritySampler()
	require.NoError(t, ps.readRatesJSON(strings.NewReader(`{"rate_by_service":{"service:checkout,env:prod":0.3}}`)))

	rs := newRulesSampler(nil, nil, math.NaN(), 0, ps, "prod")
	clk := clock.NewFrozen(time.Now())
	span := newSpan("op", &StartSpanConfig{Service: "checkout", StartTime: clk.Now()})

	got := rs.sampleTrace(span, nil)
	assert.Equal(t, samplernames.AgentRate, got.Mechanism)
	assert.Equal(t, 0.3, got.RateApplied)
}

func TestRulesSamplerSampleSpanMatchesAndLimits(t *testing.T) {
	spanRules := []SamplingRule{{Service: "*", Name: "db.query", Rate: 1, MaxPerSecond: 1000}}
	rs := newRulesSampler(nil, spanRules, math.NaN(), 0, nil, "")
	clk := clock.NewFrozen(time.Now())
	span := newSpan("db.query", &StartSpanConfig{StartTime: clk.Now()})

	d, ok := rs.sampleSpan(span)
	assert.True(t, ok)
	assert.Equal(t, samplernames.SingleSpan, d.Mechanism)
}

func TestRulesSamplerSampleSpanNoMatch(t *testing.T) {
	rs := newRulesSampler(nil, nil, math.NaN(), 0, nil, "")
	clk := clock.NewFrozen(time.Now())
	span := newSpan("db.query", &StartSpanConfig{StartTime: clk.Now()})

	_, ok := rs.sampleSpan(span)
	assert.False(t, ok)
}
