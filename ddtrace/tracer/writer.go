// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/DataDog/dd-trace-go-core/internal/log"
)

const (
	defaultMaxQueuedChunks = 1000
	maxRetries             = 3
	initialBackoff         = 100 * time.Millisecond
	maxBackoff             = 30 * time.Second

	// tracerVersion is reported to the agent via Datadog-Meta-Tracer-Version.
	tracerVersion = "1.0.0"
)

// collector is the agent-export pipeline (spec's "Collector"): a bounded,
// non-blocking queue of finished trace chunks drained by a single
// background worker on a fixed tick, serialized so only one POST is ever
// in flight at a time.
type collector struct {
	cfg *config

	mu       sync.Mutex
	queue    [][]*Span
	maxQueue int
	dropped  uint64

	client HTTPClient
	url    string
	ps     *prioritySampler

	flushInterval time.Duration
	flushReq      chan chan struct{}
	stopCh        chan struct{}
	wg            sync.WaitGroup

	postMu sync.Mutex // serializes POSTs: flush never overlaps a forced flush

	// errCh carries errBufferFull/errLostData reports from the hot enqueue
	// path and from postWithRetry; logErrors drains and aggregates them on
	// every flush so a sustained drop storm produces one summary line
	// instead of one line per dropped chunk.
	errCh chan error
}

func newCollector(cfg *config, ps *prioritySampler) *collector {
	return &collector{
		cfg:           cfg,
		maxQueue:      defaultMaxQueuedChunks,
		client:        cfg.httpClient,
		url:           cfg.agentURL + "/v0.4/traces",
		ps:            ps,
		flushInterval: defaultFlushInterval,
		flushReq:      make(chan chan struct{}),
		stopCh:        make(chan struct{}),
		errCh:         make(chan error, 64),
	}
}

// reportError records err without blocking the caller: the errCh buffer is
// bounded, and a full buffer means a summary is already overdue, so the
// report is simply dropped rather than stalling the hot path.
func (c *collector) reportError(err error) {
	select {
	case c.errCh <- err:
	default:
	}
}

// logErrors aggregates and logs whatever errors have accumulated on errCh
// since the last call, one summary line per distinct error message.
func (c *collector) logErrors() {
	for _, s := range aggregateErrors(c.errCh) {
		log.Warn("tracer: %s (x%d)", s.Example, s.Count)
	}
}

// enqueue adds a finished trace chunk to the queue. If the queue is full,
// the oldest chunk is dropped to make room: export favors recency over
// completeness, since an unbounded queue under sustained overload would
// eventually exhaust memory instead.
func (c *collector) enqueue(spans []*Span) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) >= c.maxQueue {
		c.queue = c.queue[1:]
		c.dropped++
		c.reportError(&errBufferFull{name: "trace chunk", size: c.maxQueue})
	}
	c.queue = append(c.queue, spans)
}

// start launches the background flush worker. It is the sole background
// goroutine this collector owns; stop joins it.
func (c *collector) start() {
	c.wg.Add(1)
	go c.loop()
}

func (c *collector) loop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.flush()
		case done := <-c.flushReq:
			c.flush()
			close(done)
		case <-c.stopCh:
			return
		}
	}
}

// flushNow requests an out-of-band flush and waits for it to complete or
// for deadline to pass, whichever comes first. flush() itself does not
// cancel an in-flight POST that was already underway when deadline was
// set: deadline only bounds how long the caller waits, not the network
// call.
func (c *collector) flushNow(deadline time.Time) {
	done := make(chan struct{})
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case c.flushReq <- done:
		select {
		case <-done:
		case <-timer.C:
		}
	case <-timer.C:
	case <-c.stopCh:
	}
}

// drain is flushNow with a description matching the shutdown vocabulary:
// it is the drain(deadline) operation run before Stop joins the worker.
func (c *collector) drain(deadline time.Time) { c.flushNow(deadline) }

func (c *collector) stop() {
	close(c.stopCh)
	c.wg.Wait()
}

// flush pops every currently queued chunk and attempts to deliver them in
// a single POST, with retry-with-backoff on transient failures.
func (c *collector) flush() {
	c.mu.Lock()
	if len(c.queue) == 0 {
		c.mu.Unlock()
		return
	}
	chunks := c.queue
	c.queue = nil
	c.mu.Unlock()

	payload, err := encodeTracesPayload(chunks)
	if err != nil {
		log.Error("tracer: failed to encode payload: %s", err)
		c.reportError(&errLostData{name: "trace chunks", count: len(chunks)})
		c.logErrors()
		return
	}

	c.postMu.Lock()
	c.postWithRetry(payload, len(chunks))
	c.postMu.Unlock()

	c.logErrors()
}

func (c *collector) postWithRetry(payload []byte, chunkCount int) {
	backoff := initialBackoff
	headers := map[string]string{
		"X-Datadog-Trace-Count":       itoa(chunkCount),
		"Datadog-Meta-Lang":           "go",
		"Datadog-Meta-Lang-Version":   runtime.Version(),
		"Datadog-Meta-Tracer-Version": tracerVersion,
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.agentTimeout)
		status, body, err := c.client.Post(ctx, c.url, "application/msgpack", payload, headers)
		cancel()

		if err == nil && status >= 200 && status < 300 {
			if status == 200 && len(body) > 0 {
				if perr := c.ps.readRatesJSON(bytes.NewReader(body)); perr != nil {
					log.Debug("tracer: could not decode rate_by_service: %s", perr)
				}
			}
			return
		}
		if err == nil && status >= 400 && status < 500 {
			c.reportError(&errLostData{name: fmt.Sprintf("trace chunks (agent status %d)", status), count: chunkCount})
			return
		}

		// 5xx, network error, or timeout: retryable.
		if attempt == maxRetries {
			c.reportError(&errLostData{name: "trace chunks (retries exhausted)", count: chunkCount})
			return
		}

		jitter := 1 + (rand.Float64()*0.4 - 0.2) // +/-20%
		sleep := time.Duration(float64(backoff) * jitter)
		time.Sleep(sleep)

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
