// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package log

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestDebugSuppressedBelowDebugLevel(t *testing.T) {
	SetLevel(LevelWarn)
	out := captureStderr(t, func() { Debug("hidden %d", 1) })
	assert.Empty(t, out)
}

func TestDebugEmittedAtDebugLevel(t *testing.T) {
	SetLevel(LevelDebug)
	defer SetLevel(LevelWarn)
	out := captureStderr(t, func() { Debug("shown %d", 1) })
	assert.Contains(t, out, "DEBUG: shown 1")
}

func TestErrorAlwaysEmitted(t *testing.T) {
	SetLevel(LevelError)
	defer SetLevel(LevelWarn)
	out := captureStderr(t, func() { Error("boom %s", "now") })
	assert.Contains(t, out, "ERROR: boom now")
}

func TestSetDebugToggle(t *testing.T) {
	SetDebug(true)
	assert.Equal(t, LevelDebug, Level(level.Load()))
	SetDebug(false)
	assert.Equal(t, LevelWarn, Level(level.Load()))
}
