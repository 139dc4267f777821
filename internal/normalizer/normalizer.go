// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package normalizer hosts small, dependency-free string transforms shared
// by the configuration layer: HTTP header canonicalization for header-tag
// mappings (C12) and endpoint path placeholder inference (C11).
package normalizer

import (
	"net/textproto"
	"strings"
)

// HeaderTagSlice parses a "header:tag" slice (as configured via
// DD_TRACE_HEADER_TAGS) into a map from canonical MIME header name to tag
// name.
func HeaderTagSlice(headerAsTags []string) map[string]string {
	m := make(map[string]string, len(headerAsTags))
	for _, h := range headerAsTags {
		parts := strings.SplitN(h, ":", 2)
		header := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(parts[0]))
		tag := header
		if len(parts) == 2 {
			tag = strings.TrimSpace(parts[1])
		}
		m[header] = tag
	}
	return m
}
