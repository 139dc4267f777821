// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import "github.com/DataDog/dd-trace-go-core/ddtrace/internal"

// GlobalTracer returns the tracer most recently started with Start, or nil
// if none has been started (or it was subsequently stopped).
func GlobalTracer() *Tracer {
	t, _ := internal.GetGlobalTracer().(*Tracer)
	return t
}
