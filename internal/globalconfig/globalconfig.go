// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package globalconfig stores process-wide values that must be visible
// across package boundaries without an import cycle back into the tracer
// package (service name, the currently analytics sample rate, and the
// header-tag mapping).
package globalconfig

import (
	"math"
	"sync"
)

var cfg = &config{
	analyticsRate: math.NaN(),
	headerTagMap:  newMap(),
}

type config struct {
	mu            sync.RWMutex
	serviceName   string
	analyticsRate float64
	headerTagMap  *headerTagMap
	rid           uint64
}

// SetServiceName sets the global service name seen by components that
// don't carry their own (e.g. the endpoint inferrer's default tag).
func SetServiceName(name string) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	cfg.serviceName = name
}

// ServiceName returns the global service name.
func ServiceName() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.serviceName
}

// SetAnalyticsRate sets the sample rate for App Analytics events, NaN to
// disable.
func SetAnalyticsRate(rate float64) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	cfg.analyticsRate = rate
}

// AnalyticsRate returns the sample rate for App Analytics events.
func AnalyticsRate() float64 {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.analyticsRate
}

// SetRuntimeID sets the per-process runtime identifier used by the
// remote-config client's request payload.
func SetRuntimeID(id uint64) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	cfg.rid = id
}

// RuntimeID returns the per-process runtime identifier.
func RuntimeID() uint64 {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.rid
}

type headerTagMap struct {
	mu sync.RWMutex
	m  map[string]string
}

func newMap() *headerTagMap {
	return &headerTagMap{m: make(map[string]string)}
}

// HeaderTagMap exposes the canonical-header -> tag-name mapping configured
// via DD_TRACE_HEADER_TAGS-style options.
func HeaderTagMap() *headerTagMap { return cfg.headerTagMap }

// Set records that HTTP header canonicalHeader should be tagged as
// tagName.
func (h *headerTagMap) Set(canonicalHeader, tagName string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.m[canonicalHeader] = tagName
}

// Get returns the tag name configured for canonicalHeader, if any.
func (h *headerTagMap) Get(canonicalHeader string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.m[canonicalHeader]
	return v, ok
}

// Len returns the number of configured header-tag mappings.
func (h *headerTagMap) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.m)
}

// Iter calls fn for every configured (header, tag) pair.
func (h *headerTagMap) Iter(fn func(header, tag string)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for k, v := range h.m {
		fn(k, v)
	}
}
