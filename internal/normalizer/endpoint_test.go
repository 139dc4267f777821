// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "/"},
		{"no-leading-slash", "/"},
		{"/", "/"},
		{"/api/users/123", "/api/users/{param:int}"},
		{"/api/users/123/", "/api/users/{param:int}/"},
		{"/api/users/0123", "/api/users/{param:int_id}"},
		{"/api/users/0a", "/api/users/0a"},
		{"/files/deadbeef12", "/files/{param:hex}"},
		{"/files/not-hex-at-all-zz", "/files/not-hex-at-all-zz"},
		{"/a/b/c/d/e/f/g/h/i/j", "/a/b/c/d/e/f/g/h"},
		{"/orders/123_456_789", "/orders/{param:int_id}"},
		{"/users/averylongusernamethatexceedstwenty", "/users/{param:str}"},
		{"/users/name%20with%20percent", "/users/{param:str}"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, InferEndpoint(tc.path))
		})
	}
}

func TestInferEndpointCapsComponents(t *testing.T) {
	got := InferEndpoint("/1/2/3/4/5/6/7/8/9/10")
	assert.Equal(t, "/1/2/3/4/5/6/7/8", got)
}

func TestHeaderTagSlice(t *testing.T) {
	m := HeaderTagSlice([]string{"x-datadog-id:tag", "plain-header"})
	assert.Equal(t, "tag", m["X-Datadog-Id"])
	assert.Equal(t, "Plain-Header", m["Plain-Header"])
}
