// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package env centralizes lookup of the DD_* environment variables this
// module recognizes, including their legacy dashed aliases (e.g.
// "DD-API-KEY" for "DD_API_KEY").
package env

import (
	"os"
	"strconv"
	"strings"
)

// supported lists every environment variable this module understands. A
// variable not in this set is invisible to LookupEnv/Getenv even if it is
// present in the process environment.
var supported = map[string]bool{
	"DD_AGENT_HOST":                          true,
	"DD_TRACE_AGENT_PORT":                    true,
	"DD_TRACE_AGENT_URL":                     true,
	"DD_ENV":                                 true,
	"DD_SERVICE":                             true,
	"DD_VERSION":                             true,
	"DD_TAGS":                                true,
	"DD_TRACE_SAMPLE_RATE":                   true,
	"DD_TRACE_SAMPLING_RULES":                true,
	"DD_SPAN_SAMPLING_RULES":                 true,
	"DD_SPAN_SAMPLING_RULES_FILE":            true,
	"DD_TRACE_RATE_LIMIT":                    true,
	"DD_PROPAGATION_STYLE_EXTRACT":           true,
	"DD_PROPAGATION_STYLE_INJECT":            true,
	"DD_TRACE_TAGS_PROPAGATION_MAX_LENGTH":   true,
	"DD_TRACE_DEBUG":                         true,
	"DD_TRACE_ENABLED":                       true,
	"DD_TRACE_STARTUP_LOGS":                  true,
	"DD_TRACE_REPORT_HOSTNAME":               true,
	"DD_API_KEY":                             true,
	"DD_TRACE_AGENT_TIMEOUT_SECONDS":         true,
}

// aliases maps a dashed legacy spelling to its canonical underscore name.
var aliases = map[string]string{
	"DD-API-KEY": "DD_API_KEY",
}

func canonicalize(key string) string {
	if canon, ok := aliases[key]; ok {
		return canon
	}
	return key
}

// LookupEnv behaves like os.LookupEnv but only for recognized DD_*
// variables (including their aliases), and resolves aliases to their
// canonical name before reading the process environment.
func LookupEnv(key string) (string, bool) {
	key = canonicalize(key)
	if !supported[key] {
		return "", false
	}
	for alias, canon := range aliases {
		if canon == key {
			if v, ok := os.LookupEnv(alias); ok {
				return v, true
			}
		}
	}
	return os.LookupEnv(key)
}

// Getenv is LookupEnv without the presence flag, returning "" when unset or
// unrecognized.
func Getenv(key string) string {
	v, _ := LookupEnv(key)
	return v
}

// GetenvBool parses a boolean env var using the same truthy/falsy spellings
// accepted throughout the configuration layer ("true"/"1"/"yes").
func GetenvBool(key string, def bool) bool {
	v, ok := LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return def
	}
}

// GetenvFloat parses a float64 env var, returning def on absence or parse
// failure.
func GetenvFloat(key string, def float64) float64 {
	v, ok := LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// GetenvInt parses an int env var, returning def on absence or parse
// failure.
func GetenvInt(key string, def int) int {
	v, ok := LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}
