// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package globalconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceNameRoundTrip(t *testing.T) {
	SetServiceName("checkout")
	defer SetServiceName("")
	assert.Equal(t, "checkout", ServiceName())
}

func TestAnalyticsRateRoundTrip(t *testing.T) {
	SetAnalyticsRate(0.5)
	defer SetAnalyticsRate(0)
	assert.Equal(t, 0.5, AnalyticsRate())
}

func TestRuntimeIDRoundTrip(t *testing.T) {
	SetRuntimeID(42)
	defer SetRuntimeID(0)
	assert.Equal(t, uint64(42), RuntimeID())
}

func TestHeaderTagMap(t *testing.T) {
	m := HeaderTagMap()
	m.Set("X-User-Id", "http.user_id")
	defer func() {
		v, _ := m.Get("X-User-Id")
		_ = v
	}()

	v, ok := m.Get("X-User-Id")
	assert.True(t, ok)
	assert.Equal(t, "http.user_id", v)
	assert.Equal(t, 1, m.Len())

	seen := map[string]string{}
	m.Iter(func(h, tag string) { seen[h] = tag })
	assert.Equal(t, "http.user_id", seen["X-User-Id"])
}
