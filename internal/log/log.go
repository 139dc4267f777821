// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package log implements a minimal level-gated logger shared by every
// component of the tracer. It never panics and never blocks callers on I/O
// errors: a failed write to stderr is simply dropped.
package log

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// Level controls which severities are emitted.
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelDebug
)

var level atomic.Int32

func init() {
	level.Store(int32(LevelWarn))
}

// SetLevel changes the minimum severity that will be printed. It is safe to
// call concurrently with logging calls.
func SetLevel(l Level) { level.Store(int32(l)) }

// SetDebug is a convenience toggle matching DD_TRACE_DEBUG semantics.
func SetDebug(on bool) {
	if on {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelWarn)
	}
}

var mu sync.Mutex

func printf(prefix, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}

// Debug logs a message when the debug level is enabled.
func Debug(format string, args ...interface{}) {
	if Level(level.Load()) >= LevelDebug {
		printf("DEBUG: ", format, args...)
	}
}

// Warn logs a warning-level message.
func Warn(format string, args ...interface{}) {
	if Level(level.Load()) >= LevelWarn {
		printf("WARN: ", format, args...)
	}
}

// Error logs an error-level message. Error logs are always emitted.
func Error(format string, args ...interface{}) {
	printf("ERROR: ", format, args...)
}

var startupOnce sync.Once

// Startup emits its message the first time it is called for the lifetime
// of the process; later calls print nothing. It does not read
// DD_TRACE_STARTUP_LOGS: callers decide whether to call it.
func Startup(format string, args ...interface{}) {
	startupOnce.Do(func() {
		printf("INFO: ", format, args...)
	})
}
