// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// HTTPClient is the abstract collaborator the collector posts payloads
// through. Production code uses newHTTPClient's net/http-backed
// implementation; tests substitute a stub to avoid a real network
// dependency.
type HTTPClient interface {
	Post(ctx context.Context, url string, contentType string, body []byte, headers map[string]string) (status int, respBody []byte, err error)
}

type httpClient struct {
	c *http.Client
}

func newHTTPClient() *httpClient {
	return &httpClient{c: &http.Client{Timeout: 10 * time.Second}}
}

func (h *httpClient) Post(ctx context.Context, url string, contentType string, body []byte, headers map[string]string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}
