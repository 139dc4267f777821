// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/dd-trace-go-core/internal/clock"
)

// fakeHTTPClient is a stub HTTPClient recording every POST it receives,
// returning a canned status/body (or invoking respond for custom logic).
type fakeHTTPClient struct {
	mu          sync.Mutex
	posts       int
	lastBody    []byte
	lastHeaders map[string]string
	status      int
	body        []byte
	err         error
	respond     func(attempt int) (int, []byte, error)
}

func (f *fakeHTTPClient) Post(ctx context.Context, url, contentType string, body []byte, headers map[string]string) (int, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts++
	f.lastBody = body
	f.lastHeaders = headers
	if f.respond != nil {
		return f.respond(f.posts)
	}
	return f.status, f.body, f.err
}

func (f *fakeHTTPClient) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts
}

func newTestConfig(client HTTPClient) *config {
	c := newConfig(WithHTTPClient(client))
	c.clock = clock.NewFrozen(time.Now())
	return c
}

func TestCollectorEnqueueDropsOldestWhenFull(t *testing.T) {
	c := newCollector(newTestConfig(&fakeHTTPClient{status: 200}), newPrioritySampler())
	c.maxQueue = 2
	c.enqueue([]*Span{{}})
	c.enqueue([]*Span{{}})
	c.enqueue([]*Span{{}})

	assert.Len(t, c.queue, 2)
	assert.Equal(t, uint64(1), c.dropped)
}

func TestCollectorEnqueueDropReportsError(t *testing.T) {
	c := newCollector(newTestConfig(&fakeHTTPClient{status: 200}), newPrioritySampler())
	c.maxQueue = 1
	c.enqueue([]*Span{{}})
	c.enqueue([]*Span{{}})

	select {
	case err := <-c.errCh:
		assert.Contains(t, err.Error(), "trace chunk")
	default:
		t.Fatal("expected a buffer-full error on errCh after dropping a chunk")
	}
}

func TestCollectorFlushPostsQueuedChunks(t *testing.T) {
	clk := clock.NewFrozen(time.Now())
	client := &fakeHTTPClient{status: 200}
	cfg := newTestConfig(client)
	c := newCollector(cfg, newPrioritySampler())

	s := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})
	s.Finish(clk.Now())
	c.enqueue([]*Span{s})

	c.flush()
	assert.Equal(t, 1, client.postCount())
	assert.Empty(t, c.queue)
}

func TestCollectorFlushNoopWhenEmpty(t *testing.T) {
	client := &fakeHTTPClient{status: 200}
	c := newCollector(newTestConfig(client), newPrioritySampler())
	c.flush()
	assert.Equal(t, 0, client.postCount())
}

func TestCollectorPostRetriesOn5xx(t *testing.T) {
	client := &fakeHTTPClient{
		respond: func(attempt int) (int, []byte, error) {
			if attempt < 2 {
				return 503, nil, nil
			}
			return 200, nil, nil
		},
	}
	c := newCollector(newTestConfig(client), newPrioritySampler())
	c.postWithRetry([]byte("payload"), 1)
	assert.Equal(t, 2, client.postCount())
}

func TestCollectorPostSendsRequiredHeaders(t *testing.T) {
	client := &fakeHTTPClient{status: 200}
	c := newCollector(newTestConfig(client), newPrioritySampler())
	c.postWithRetry([]byte("payload"), 3)

	require.NotNil(t, client.lastHeaders)
	assert.Equal(t, "3", client.lastHeaders["X-Datadog-Trace-Count"])
	assert.Equal(t, "go", client.lastHeaders["Datadog-Meta-Lang"])
	assert.NotEmpty(t, client.lastHeaders["Datadog-Meta-Lang-Version"])
	assert.NotEmpty(t, client.lastHeaders["Datadog-Meta-Tracer-Version"])
}

func TestCollectorPostDoesNotRetryOn4xx(t *testing.T) {
	client := &fakeHTTPClient{status: 400}
	c := newCollector(newTestConfig(client), newPrioritySampler())
	c.postWithRetry([]byte("payload"), 1)
	assert.Equal(t, 1, client.postCount())

	select {
	case err := <-c.errCh:
		assert.Contains(t, err.Error(), "lost 1")
	default:
		t.Fatal("expected a lost-data error on errCh after a 4xx rejection")
	}
}

func TestCollectorPostGivesUpAfterMaxRetries(t *testing.T) {
	client := &fakeHTTPClient{status: 500}
	c := newCollector(newTestConfig(client), newPrioritySampler())
	c.postWithRetry([]byte("payload"), 1)
	assert.Equal(t, maxRetries+1, client.postCount())

	select {
	case err := <-c.errCh:
		assert.Contains(t, err.Error(), "lost 1")
	default:
		t.Fatal("expected a lost-data error on errCh after exhausting retries")
	}
}

func TestCollectorStartStopJoinsWorker(t *testing.T) {
	client := &fakeHTTPClient{status: 200}
	c := newCollector(newTestConfig(client), newPrioritySampler())
	c.flushInterval = time.Hour
	c.start()
	c.stop()
}

func TestCollectorFlushNowWaitsForCompletion(t *testing.T) {
	client := &fakeHTTPClient{status: 200}
	c := newCollector(newTestConfig(client), newPrioritySampler())
	c.flushInterval = time.Hour
	c.start()
	defer c.stop()

	clk := clock.NewFrozen(time.Now())
	s := newSpan("op", &StartSpanConfig{StartTime: clk.Now()})
	s.Finish(clk.Now())
	c.enqueue([]*Span{s})

	c.flushNow(time.Now().Add(time.Second))
	require.Equal(t, 1, client.postCount())
}

func TestItoa(t *testing.T) {
	assert.Equal(t, "0", itoa(0))
	assert.Equal(t, "42", itoa(42))
	assert.Equal(t, "-7", itoa(-7))
}
