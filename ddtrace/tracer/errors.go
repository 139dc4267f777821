// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import "fmt"

// errBufferFull is reported when the collector's queue was full and an
// older chunk had to be dropped to make room for a newer one.
type errBufferFull struct {
	name string
	size int
}

func (e *errBufferFull) Error() string {
	return fmt.Sprintf("%s queue full (size: %d), dropping oldest chunk", e.name, e.size)
}

// errLostData is reported when count items of name were dropped outright
// (e.g. a trace rejected by the agent, or lost to a msgpack encode
// failure).
type errLostData struct {
	name  string
	count int
}

func (e *errLostData) Error() string {
	return fmt.Sprintf("lost %d %s", e.count, e.name)
}

// errorSummary aggregates repeated occurrences of the same error message
// so the startup/debug log doesn't repeat an identical line once per
// dropped item.
type errorSummary struct {
	Count   int
	Example string
}

// aggregateErrors drains errCh and groups errors by their Error() string,
// returning a count and one example message per distinct error.
func aggregateErrors(errCh <-chan error) map[string]errorSummary {
	summary := make(map[string]errorSummary)
	for {
		select {
		case err, ok := <-errCh:
			if !ok {
				return summary
			}
			key := err.Error()
			s := summary[key]
			s.Count++
			s.Example = key
			summary[key] = s
		default:
			return summary
		}
	}
}
