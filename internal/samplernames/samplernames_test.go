// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package samplernames

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecisionMaker(t *testing.T) {
	tests := []struct {
		name SamplerName
		want string
	}{
		{Default, "-0"},
		{AgentRate, "-1"},
		{RemoteRate, "-2"},
		{RuleRate, "-3"},
		{SingleSpan, "-8"},
		{Unknown, "--1"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.name.DecisionMaker())
	}
}

func TestDecisionMakerFallsBackToUnknown(t *testing.T) {
	invalid := SamplerName(100)
	assert.Equal(t, "--1", invalid.DecisionMaker())
}
