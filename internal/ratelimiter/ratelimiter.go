// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package ratelimiter wraps golang.org/x/time/rate with the bookkeeping
// the sampler needs to compute the effective rate it applied
// (the _dd.limit_psr tag), which the bare rate.Limiter does not expose.
package ratelimiter

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter is a token-bucket limiter that additionally tracks the fraction
// of requests it has allowed through, so callers can tag spans with the
// effective post-sampling rate.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	allowed uint64
	seen    uint64
}

// New returns a Limiter allowing up to limit events per second, with a
// burst equal to limit (minimum burst of 1 for a positive limit). A limit
// of 0 or less allows nothing through.
func New(limit float64) *Limiter {
	burst := int(limit)
	if burst < 1 && limit > 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(limit), burst)}
}

// Allow reports whether the current event may proceed and updates the
// running allowed/seen counters used by EffectiveRate.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen++
	ok := l.limiter.Allow()
	if ok {
		l.allowed++
	}
	return ok
}

// EffectiveRate returns allowed/seen across the lifetime of the limiter,
// or 1.0 if no events have been observed yet.
func (l *Limiter) EffectiveRate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == 0 {
		return 1
	}
	return float64(l.allowed) / float64(l.seen)
}
