// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package samplernames enumerates the sampling mechanisms a decision can be
// attributed to, used to populate the _dd.p.dm propagated tag.
package samplernames

import "strconv"

// SamplerName identifies which sampling mechanism produced a decision.
type SamplerName int8

const (
	Unknown           SamplerName = -1
	Default           SamplerName = 0
	AgentRate         SamplerName = 1
	RemoteRate        SamplerName = 2
	RuleRate          SamplerName = 3
	Manual            SamplerName = 4
	AppSec            SamplerName = 5
	RemoteUserRate    SamplerName = 6
	SingleSpan        SamplerName = 8
	RemoteUserRule    SamplerName = 11
	RemoteDynamicRule SamplerName = 12
)

// DecisionMaker renders the _dd.p.dm tag value for this mechanism, e.g.
// "-3" for RuleRate. Unrecognized values render as Unknown's "--1".
func (s SamplerName) DecisionMaker() string {
	if !s.valid() {
		s = Unknown
	}
	return "-" + strconv.Itoa(int(s))
}

func (s SamplerName) valid() bool {
	switch s {
	case Unknown, Default, AgentRate, RemoteRate, RuleRate, Manual, AppSec,
		RemoteUserRate, SingleSpan, RemoteUserRule, RemoteDynamicRule:
		return true
	default:
		return false
	}
}
