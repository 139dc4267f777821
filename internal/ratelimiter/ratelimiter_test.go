// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package ratelimiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveRateNoEvents(t *testing.T) {
	l := New(100)
	assert.Equal(t, 1.0, l.EffectiveRate())
}

func TestAllowAndRate(t *testing.T) {
	l := New(2)
	allowed := 0
	for i := 0; i < 10; i++ {
		if l.Allow() {
			allowed++
		}
	}
	assert.LessOrEqual(t, allowed, 10)
	rate := l.EffectiveRate()
	assert.GreaterOrEqual(t, rate, 0.0)
	assert.LessOrEqual(t, rate, 1.0)
}
