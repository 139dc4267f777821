// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package internal holds the minimal, dependency-free interfaces shared
// between ddtrace/tracer and any future sibling package, avoiding an
// import cycle a direct dependency on ddtrace/tracer would create.
package internal

import "sync/atomic"

// Tracer is the subset of *tracer.Tracer's surface referenced through the
// global-tracer indirection. It exposes only Stop, so ddtrace/internal
// never needs to import ddtrace/tracer.
type Tracer interface {
	Stop()
}

var globalTracer atomic.Value

func init() {
	globalTracer.Store(tracerHolder{})
}

type tracerHolder struct {
	t Tracer
}

// SetGlobalTracer installs t as the process-wide tracer returned by
// GetGlobalTracer.
func SetGlobalTracer(t Tracer) {
	globalTracer.Store(tracerHolder{t: t})
}

// GetGlobalTracer returns the process-wide tracer, or nil if none has been
// started.
func GetGlobalTracer() Tracer {
	return globalTracer.Load().(tracerHolder).t
}
