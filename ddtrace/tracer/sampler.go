// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/DataDog/dd-trace-go-core/internal/samplernames"
)

// Sampling priorities, mirroring the wire values carried in the
// "x-datadog-sampling-priority" header and the "_sampling_priority_v1" tag.
const (
	PriorityUserReject    = -1
	PriorityAutoReject    = 0
	PriorityAutoKeep      = 1
	PriorityUserKeep      = 2
)

// Decision is the outcome of running a span or trace through the sampler:
// whether to keep it, which mechanism decided that, and the rate that was
// applied (used to populate the _dd.limit_psr tag).
type Decision struct {
	Priority    int
	Mechanism   samplernames.SamplerName
	RateApplied float64
}

// knuthFactor is the odd 64-bit multiplicative-hash constant (Knuth's
// "fibonacci hashing" constant, 0x9E3779B97F4A7C15) used to turn a trace
// ID into a value uniformly distributed across [0, 2^64) for deterministic
// rate sampling: the same trace ID always yields the same hash, so every
// process that sees a given trace reaches the same keep/drop decision for
// a given rate.
const knuthFactor uint64 = 0x9E3779B97F4A7C15

// sampledByRate deterministically decides whether a trace ID should be
// kept at the given rate, in [0,1].
func sampledByRate(traceIDLower uint64, rate float64) bool {
	if rate >= 1 {
		return true
	}
	if rate <= 0 {
		return false
	}
	threshold := uint64(rate * float64(^uint64(0)))
	return traceIDLower*knuthFactor <= threshold
}

// prioritySampler applies the agent-provided per-service sampling rates
// received from the /v0.4/traces response's rate_by_service map, falling
// back to a configured default.
type prioritySampler struct {
	mu      sync.RWMutex
	rates   map[string]float64
	defRate float64
}

func newPrioritySampler() *prioritySampler {
	return &prioritySampler{rates: make(map[string]float64), defRate: 1}
}

// readRatesJSON decodes a {"rate_by_service": {...}} document such as the
// agent returns on every successful /v0.4/traces POST.
func (ps *prioritySampler) readRatesJSON(r io.Reader) error {
	var payload struct {
		RateByService map[string]float64 `json:"rate_by_service"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.rates = payload.RateByService
	if r, ok := ps.rates["service:,env:"]; ok {
		ps.defRate = r
	}
	return nil
}

// serviceEnvKey builds the rate_by_service lookup key the agent uses for
// a span's service and the tracer's configured env.
func serviceEnvKey(service, env string) string {
	return "service:" + service + ",env:" + env
}

func (ps *prioritySampler) getRate(serviceEnvKey string) float64 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	if r, ok := ps.rates[serviceEnvKey]; ok {
		return r
	}
	return ps.defRate
}

// sampleTrace assigns a priority sampling Decision to a newly created root
// span's trace from the agent-provided per-service rate alone. It does not
// look at an extracted decision; rulesSampler handles that before falling
// back to this sampler.
func (ps *prioritySampler) sampleTrace(span *Span, serviceEnvKey string) Decision {
	rate := ps.getRate(serviceEnvKey)
	if sampledByRate(span.context.traceID.Lower(), rate) {
		return Decision{Priority: PriorityAutoKeep, Mechanism: samplernames.AgentRate, RateApplied: rate}
	}
	return Decision{Priority: PriorityAutoReject, Mechanism: samplernames.AgentRate, RateApplied: rate}
}
