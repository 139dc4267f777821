// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package tracer implements the core span/trace lifecycle, the sampling
// pipeline, context propagation, and the agent-export collector.
package tracer

import (
	"encoding/json"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/dd-trace-go-core/ddtrace/internal"
	"github.com/DataDog/dd-trace-go-core/internal/globalconfig"
	"github.com/DataDog/dd-trace-go-core/internal/log"
	"github.com/DataDog/dd-trace-go-core/internal/remoteconfig"
)

// SpanDefaults holds the values a new span inherits when its caller
// doesn't specify them explicitly: the tracer's configured service name
// and the env/version tags.
type SpanDefaults struct {
	Service string
	Env     string
	Version string
}

// Tracer creates spans, propagates context across process boundaries, and
// exports finished traces to the agent. Export happens on a dedicated
// background worker; only Flush and Stop wait for it, each up to a
// deadline.
type Tracer struct {
	cfg        *config
	priSampler *prioritySampler
	// rules is read lock-free off the hot path via an atomic pointer;
	// writes (only from applyRemoteSamplingRules) are serialized by
	// rulesWriteMu so two concurrent remote-config updates can't race
	// each other's read-modify-write of the pointer.
	rules      atomic.Pointer[rulesSampler]
	rulesWriteMu sync.Mutex
	propagator Propagator
	collector  *collector
	rc         *remoteconfig.Client
}

// Start constructs and returns a running Tracer, applying opts over the
// environment-derived defaults. The returned Tracer owns two background
// workers (the collector's flush loop and the remote-config poller)
// started at construction and joined by Stop.
func Start(opts ...StartOption) *Tracer {
	cfg := newConfig(opts...)

	t := &Tracer{
		cfg:        cfg,
		priSampler: newPrioritySampler(),
		propagator: NewPropagator(&cfg.propagatorConfig, cfg.propagationExtract, cfg.propagationInject),
	}
	t.rules.Store(newRulesSampler(cfg.traceSamplingRules, cfg.spanSamplingRules, cfg.sampleRate, cfg.rateLimitPerSecond, t.priSampler, cfg.env))

	t.collector = newCollector(cfg, t.priSampler)
	t.collector.start()

	t.startRemoteConfig()

	if cfg.startupLogs {
		log.Startup("tracer: started, agent=%s service=%q env=%q", cfg.agentURL, cfg.service, cfg.env)
	}

	internal.SetGlobalTracer(t)

	return t
}

// startRemoteConfig launches the remote-config polling worker and
// subscribes it to APM_TRACING updates, which replace the rule sampler's
// trace/span rule sets via an atomic pointer swap (an RCU-style update:
// readers on the hot path never block behind the writer, and never
// observe a partially-updated rule set).
func (t *Tracer) startRemoteConfig() {
	rcCfg := remoteconfig.DefaultClientConfig()
	rcCfg.AgentURL = t.cfg.agentURL
	rcCfg.Service = t.cfg.service
	rcCfg.Env = t.cfg.env
	rcCfg.Version = t.cfg.version
	rcCfg.RuntimeID = runtimeID()
	rcCfg.HTTPClient = t.cfg.httpClient

	t.rc = remoteconfig.NewClient(rcCfg)
	t.rc.Subscribe(remoteconfig.ProductAPMTracing, t.applyRemoteSamplingRules)
	t.rc.Start()
}

// remoteSamplingRuleSet is the payload shape of an APM_TRACING
// configuration entry relevant to sampling.
type remoteSamplingRuleSet struct {
	TracingSamplingRate  *float64           `json:"tracing_sampling_rate"`
	TracingSamplingRules []jsonSamplingRule `json:"tracing_sampling_rules"`
}

func (t *Tracer) applyRemoteSamplingRules(update remoteconfig.ProductUpdate) map[string]remoteconfig.ApplyStatus {
	statuses := make(map[string]remoteconfig.ApplyStatus, len(update))
	if len(update) == 0 {
		return statuses
	}

	t.rulesWriteMu.Lock()
	defer t.rulesWriteMu.Unlock()

	current := t.rules.Load()
	traceRules := current.traceRules
	globalRate := current.globalSampleRate

	for path, raw := range update {
		var set remoteSamplingRuleSet
		if err := json.Unmarshal(raw, &set); err != nil {
			statuses[path] = remoteconfig.ApplyStatus{State: remoteconfig.ApplyStateError, Error: err.Error()}
			continue
		}
		if set.TracingSamplingRate != nil {
			globalRate = *set.TracingSamplingRate
		}
		if set.TracingSamplingRules != nil {
			traceRules = jsonRulesToSamplingRules(set.TracingSamplingRules)
		}
		statuses[path] = remoteconfig.ApplyStatus{State: remoteconfig.ApplyStateAcknowledged}
	}

	next := newRulesSampler(traceRules, current.spanRules, globalRate, t.cfg.rateLimitPerSecond, t.priSampler, t.cfg.env)
	t.rules.Store(next)

	return statuses
}

func runtimeID() string {
	return hexEncode(globalconfig.RuntimeID(), 16)
}

// SpanDefaults returns the values new spans inherit by default.
func (t *Tracer) SpanDefaults() SpanDefaults {
	return SpanDefaults{Service: t.cfg.service, Env: t.cfg.env, Version: t.cfg.version}
}

// StartSpanOption configures an individual span at creation time.
type StartSpanOption func(*StartSpanConfig)

// ChildOf attaches the new span to parent's trace.
func ChildOf(parent *SpanContext) StartSpanOption {
	return func(c *StartSpanConfig) { c.Parent = parent }
}

// ServiceName overrides the span's service, otherwise inherited from the
// tracer's configured default.
func ServiceName(name string) StartSpanOption {
	return func(c *StartSpanConfig) { c.Service = name }
}

// ResourceName sets the span's resource.
func ResourceName(name string) StartSpanOption {
	return func(c *StartSpanConfig) { c.Resource = name }
}

// SpanType sets the span's type (web, db, cache, ...).
func SpanType(t string) StartSpanOption {
	return func(c *StartSpanConfig) { c.SpanType = t }
}

// Tag sets a tag at span-creation time.
func Tag(k string, v string) StartSpanOption {
	return func(c *StartSpanConfig) {
		if c.Tags == nil {
			c.Tags = make(map[string]string)
		}
		c.Tags[k] = v
	}
}

// StartTime overrides the span's start time, otherwise the tracer's clock
// is used.
func StartTime(tm time.Time) StartSpanOption {
	return func(c *StartSpanConfig) {
		c.StartTime.Wall = tm
		c.StartTime.Tick = tm.UnixNano()
	}
}

// StartSpan creates and starts a new span, attaching it to parent's trace
// when ChildOf is given, or starting a new trace otherwise.
func (t *Tracer) StartSpan(operationName string, opts ...StartSpanOption) *Span {
	defaults := t.SpanDefaults()
	cfg := &StartSpanConfig{
		Service:   defaults.Service,
		StartTime: t.cfg.clock.Now(),
		Clock:     t.cfg.clock,
	}
	for _, o := range opts {
		o(cfg)
	}

	span := newSpan(operationName, cfg)
	span.context.trace.onFinish = t.onTraceFinished

	if cfg.Parent == nil {
		d := t.rules.Load().sampleTrace(span, extractedDecision(nil))
		span.context.trace.setSamplingPriority(float64(d.Priority), d.Mechanism)
		if d.RateApplied > 0 && d.RateApplied < 1 {
			span.SetTag("_dd.limit_psr", d.RateApplied)
		}
	}

	return span
}

func extractedDecision(ctx *SpanContext) *Decision {
	if ctx == nil {
		return nil
	}
	p, ok := ctx.samplingPriority()
	if !ok {
		return nil
	}
	return &Decision{Priority: int(p)}
}

// onTraceFinished is the traceSegment.onFinish callback: it applies
// span-sampling to spans in a dropped trace and hands the finished chunk
// to the collector.
func (t *Tracer) onTraceFinished(spans []*Span) {
	priority := PriorityAutoKeep
	if len(spans) > 0 {
		if p, ok := spans[0].context.samplingPriority(); ok {
			priority = int(p)
		}
	}

	if priority <= PriorityAutoReject {
		rules := t.rules.Load()
		kept := spans[:0]
		for _, s := range spans {
			if d, ok := rules.sampleSpan(s); ok {
				s.SetTag("_dd.span_sampling.mechanism", int64(d.Mechanism))
				kept = append(kept, s)
			}
		}
		spans = kept
		if len(spans) == 0 {
			return
		}
	}

	t.collector.enqueue(spans)
}

// Extract reads a SpanContext from carrier using the configured
// propagation styles, returning ErrSpanContextNotFound if none of them
// found anything to extract.
func (t *Tracer) Extract(carrier interface{}) (*SpanContext, error) {
	return t.propagator.Extract(carrier)
}

// ExtractOrCreate behaves like Extract, but returns a brand-new root
// SpanContext instead of an error when extraction fails, so callers never
// have to special-case "no incoming trace".
func (t *Tracer) ExtractOrCreate(carrier interface{}) *SpanContext {
	ctx, err := t.Extract(carrier)
	if err != nil {
		return newSpanContextFreshRoot()
	}
	return ctx
}

// Inject writes ctx into carrier using the configured propagation styles.
func (t *Tracer) Inject(ctx *SpanContext, carrier interface{}) error {
	return t.propagator.Inject(ctx, carrier)
}

// Flush forces the collector to send any buffered traces immediately,
// blocking until the in-flight POST completes or deadline elapses.
func (t *Tracer) Flush(deadline time.Time) {
	t.collector.flushNow(deadline)
}

// Stop drains the collector (best effort, within the default drain
// deadline), then stops and joins the collector's and the remote-config
// client's background workers.
func (t *Tracer) Stop() {
	t.collector.drain(time.Now().Add(defaultDrainDeadline))
	t.collector.stop()
	t.rc.Stop()
	internal.SetGlobalTracer(noopGlobalTracer{})
}

type noopGlobalTracer struct{}

func (noopGlobalTracer) Stop() {}

// finalizedConfig is the JSON shape Config reports: every field
// finalize_config resolved from programmatic options and environment
// overrides, for startup logs and telemetry.
type finalizedConfig struct {
	Service            string            `json:"service"`
	Env                string            `json:"env"`
	Version            string            `json:"version"`
	Tags               map[string]string `json:"tags,omitempty"`
	AgentURL           string            `json:"agent_url"`
	SampleRate         *float64          `json:"sample_rate,omitempty"`
	RateLimitPerSecond float64           `json:"rate_limit_per_second"`
	TraceSamplingRules int               `json:"trace_sampling_rules"`
	SpanSamplingRules  int               `json:"span_sampling_rules"`
	PropagationExtract []string          `json:"propagation_extract"`
	PropagationInject  []string          `json:"propagation_inject"`
	Debug              bool              `json:"debug"`
	Enabled            bool              `json:"enabled"`
	ReportHostname     bool              `json:"report_hostname"`
}

// Config returns a JSON description of the finalized configuration, for
// startup logs and diagnostics.
func (t *Tracer) Config() []byte {
	fc := finalizedConfig{
		Service:            t.cfg.service,
		Env:                t.cfg.env,
		Version:            t.cfg.version,
		Tags:               t.cfg.tags,
		AgentURL:           t.cfg.agentURL,
		RateLimitPerSecond: t.cfg.rateLimitPerSecond,
		TraceSamplingRules: len(t.cfg.traceSamplingRules),
		SpanSamplingRules:  len(t.cfg.spanSamplingRules),
		PropagationExtract: t.cfg.propagationExtract,
		PropagationInject:  t.cfg.propagationInject,
		Debug:              t.cfg.debug,
		Enabled:            t.cfg.enabled,
		ReportHostname:     t.cfg.reportHostname,
	}
	if !math.IsNaN(t.cfg.sampleRate) {
		rate := t.cfg.sampleRate
		fc.SampleRate = &rate
	}
	b, err := json.Marshal(fc)
	if err != nil {
		log.Error("tracer: failed to marshal config: %s", err)
		return nil
	}
	return b
}
