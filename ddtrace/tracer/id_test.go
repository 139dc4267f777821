// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDFromUint64(t *testing.T) {
	id := TraceIDFromUint64(0x1234)
	assert.Equal(t, uint64(0x1234), id.Lower())
	assert.Equal(t, uint64(0), id.Upper())
	assert.False(t, id.HasUpper())
}

func TestTraceIDSetUpperLower(t *testing.T) {
	var id TraceID
	id.SetLower(0xAABBCCDD)
	id.SetUpper(0x1122334455667788)
	assert.Equal(t, uint64(0xAABBCCDD), id.Lower())
	assert.Equal(t, uint64(0x1122334455667788), id.Upper())
	assert.True(t, id.HasUpper())
}

func TestTraceIDHexEncoded(t *testing.T) {
	var id TraceID
	id.SetUpper(0)
	id.SetLower(0xdeadbeef)
	assert.Equal(t, "000000000000000000000000deadbeef", id.HexEncoded())
}

func TestTraceIDSetUpperFromHex(t *testing.T) {
	var id TraceID
	require.NoError(t, id.SetUpperFromHex("0000000000000001"))
	assert.Equal(t, uint64(1), id.Upper())
	assert.Equal(t, "0000000000000001", id.UpperHex())
}

func TestTraceIDSetUpperFromHexInvalid(t *testing.T) {
	var id TraceID
	err := id.SetUpperFromHex("not-hex")
	assert.Error(t, err)
}

func TestTraceIDEmpty(t *testing.T) {
	var id TraceID
	assert.True(t, id.Empty())
	id.SetLower(1)
	assert.False(t, id.Empty())
}

func TestGenerateSpanIDRarelyCollides(t *testing.T) {
	// Not a strict guarantee, but collisions across a handful of draws would
	// indicate a broken generator.
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		seen[generateSpanID()] = true
	}
	assert.Greater(t, len(seen), 90)
}
