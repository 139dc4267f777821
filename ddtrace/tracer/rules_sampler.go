// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"github.com/DataDog/dd-trace-go-core/internal/glob"
	"github.com/DataDog/dd-trace-go-core/internal/ratelimiter"
	"github.com/DataDog/dd-trace-go-core/internal/samplernames"
)

// globPattern is a compiled "*"/"?" pattern, matched case-insensitively.
// An empty pattern matches everything.
type globPattern string

func (p globPattern) match(s string) bool {
	if p == "" {
		return true
	}
	return glob.Match(string(p), s)
}

// SamplingRule is one entry of a DD_TRACE_SAMPLING_RULES or
// DD_SPAN_SAMPLING_RULES list: a pair of service/name globs, a sample rate,
// and (span-sampling rules only) a per-rule rate limit.
type SamplingRule struct {
	Service  globPattern
	Name     globPattern
	Resource globPattern
	// Tags further constrains a span-sampling rule to spans carrying a
	// matching tag value; unset for trace-sampling rules.
	Tags map[string]globPattern

	Rate          float64
	MaxPerSecond  float64 // 0 means unlimited, span-sampling rules only

	limiter *ratelimiter.Limiter
}

func (r *SamplingRule) match(service, name, resource string, tags map[string]string) bool {
	if !r.Service.match(service) || !r.Name.match(name) || !r.Resource.match(resource) {
		return false
	}
	for k, pat := range r.Tags {
		if !pat.match(tags[k]) {
			return false
		}
	}
	return true
}

// rulesSampler evaluates the configured sampling pipeline for a trace:
// an already-extracted decision always wins; otherwise the first matching
// trace rule decides; otherwise the global configured rate decides;
// otherwise priSampler's per-service agent rate decides. Every trace is
// kept (keep-all) only when priSampler is nil.
type rulesSampler struct {
	traceRules       []SamplingRule
	spanRules        []SamplingRule
	globalSampleRate float64 // NaN means "unset" -> fall back to priSampler
	limiter          *ratelimiter.Limiter
	// priSampler and env back the keep-all fallback: when no rule and no
	// global rate are configured (the default production case), the
	// agent's per-service priority rates decide instead of an
	// unconditional keep.
	priSampler *prioritySampler
	env        string
}

func newRulesSampler(traceRules, spanRules []SamplingRule, globalSampleRate, rateLimitPerSecond float64, priSampler *prioritySampler, env string) *rulesSampler {
	return &rulesSampler{
		traceRules:       traceRules,
		spanRules:        spanRules,
		globalSampleRate: globalSampleRate,
		limiter:          ratelimiter.New(rateLimitPerSecond),
		priSampler:       priSampler,
		env:              env,
	}
}

// sampleTrace runs the trace-sampling pipeline for a root span. extracted,
// if non-nil, is an already-decided priority inherited from an upstream
// service and takes precedence over everything else.
func (rs *rulesSampler) sampleTrace(span *Span, extracted *Decision) Decision {
	if extracted != nil {
		return *extracted
	}

	if rule, ok := rs.matchTraceRule(span); ok {
		d := Decision{Mechanism: samplernames.RuleRate, RateApplied: rule.Rate}
		if sampledByRate(span.context.traceID.Lower(), rule.Rate) && rs.limiter.Allow() {
			d.Priority = PriorityUserKeep
		} else {
			d.Priority = PriorityUserReject
		}
		return d
	}

	if rs.globalSampleRate == rs.globalSampleRate { // not NaN
		d := Decision{Mechanism: samplernames.Default, RateApplied: rs.globalSampleRate}
		if sampledByRate(span.context.traceID.Lower(), rs.globalSampleRate) {
			d.Priority = PriorityAutoKeep
		} else {
			d.Priority = PriorityAutoReject
		}
		return d
	}

	// No rule and no global rate configured: fall back to the agent's
	// per-service priority rate, the default production scenario. Only
	// when no priority sampler is wired at all (e.g. a bare rulesSampler
	// in a unit test) does this keep everything.
	if rs.priSampler != nil {
		return rs.priSampler.sampleTrace(span, serviceEnvKey(span.service, rs.env))
	}
	return Decision{Priority: PriorityAutoKeep, Mechanism: samplernames.Default, RateApplied: 1}
}

func (rs *rulesSampler) matchTraceRule(span *Span) (*SamplingRule, bool) {
	for i := range rs.traceRules {
		if rs.traceRules[i].match(span.service, span.name, span.resource, nil) {
			return &rs.traceRules[i], true
		}
	}
	return nil, false
}

// sampleSpan is applied, independently of trace sampling, to every span
// when its trace has been dropped, giving operators a way to keep a
// sampled subset of high-value spans even on unsampled traces. A span kept
// this way is tagged with mechanism 8 (SingleSpan) per the wire protocol.
func (rs *rulesSampler) sampleSpan(span *Span) (Decision, bool) {
	for i := range rs.spanRules {
		r := &rs.spanRules[i]
		if !r.match(span.service, span.name, span.resource, span.meta) {
			continue
		}
		if !sampledByRate(span.spanID, r.Rate) {
			return Decision{}, false
		}
		if r.MaxPerSecond > 0 {
			if r.limiter == nil {
				r.limiter = ratelimiter.New(r.MaxPerSecond)
			}
			if !r.limiter.Allow() {
				return Decision{}, false
			}
		}
		return Decision{Priority: PriorityUserKeep, Mechanism: samplernames.SingleSpan, RateApplied: r.Rate}, true
	}
	return Decision{}, false
}
