// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package idgen generates the random 64-bit span/trace identifiers used
// throughout the tracer. IDs are restricted to the positive int64 range
// (top bit clear) for interoperability with older agent versions and
// non-Go tracers that represent them as signed 64-bit integers.
package idgen

import (
	"math/rand"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	rng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandUint64 returns a random 64-bit identifier with the top bit cleared.
func RandUint64() uint64 {
	mu.Lock()
	defer mu.Unlock()
	return uint64(rng.Int63())
}

// Seed reseeds the package-global generator. Exposed for deterministic
// tests only.
func Seed(seed int64) {
	mu.Lock()
	defer mu.Unlock()
	rng = rand.New(rand.NewSource(seed))
}
