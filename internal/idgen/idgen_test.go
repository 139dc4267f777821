// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandUint64TopBitClear(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := RandUint64()
		assert.Zero(t, id&(1<<63), "top bit must be clear for cross-language int64 interop")
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	Seed(42)
	a := RandUint64()
	Seed(42)
	b := RandUint64()
	assert.Equal(t, a, b)
}

func TestRandUint64Varies(t *testing.T) {
	Seed(1)
	seen := make(map[uint64]bool)
	for i := 0; i < 50; i++ {
		seen[RandUint64()] = true
	}
	assert.Greater(t, len(seen), 40, "successive draws should rarely collide")
}
