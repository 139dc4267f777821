// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

package tracer

import (
	"encoding/json"
	"math"
	"os"
	"strings"
	"time"

	"github.com/DataDog/dd-trace-go-core/internal/clock"
	"github.com/DataDog/dd-trace-go-core/internal/env"
	"github.com/DataDog/dd-trace-go-core/internal/log"
)

// config is the fully-resolved, immutable configuration a Tracer is built
// from: the result of applying every StartOption over the environment
// variable defaults.
type config struct {
	service string
	env     string
	version string
	tags    map[string]string

	agentURL string

	sampleRate         float64 // NaN means unset
	traceSamplingRules []SamplingRule
	spanSamplingRules  []SamplingRule
	rateLimitPerSecond float64

	propagationExtract []string
	propagationInject  []string
	propagatorConfig   PropagatorConfig
	tagsPropagationMaxLen int

	debug          bool
	enabled        bool
	startupLogs    bool
	reportHostname bool

	clock clock.Clock

	httpClient   HTTPClient
	agentTimeout time.Duration
}

// StartOption configures a Tracer at construction time.
type StartOption func(*config)

// WithService sets the global service name.
func WithService(name string) StartOption {
	return func(c *config) { c.service = name }
}

// WithEnv sets the deployment environment tag.
func WithEnv(name string) StartOption {
	return func(c *config) { c.env = name }
}

// WithServiceVersion sets the service version tag.
func WithServiceVersion(version string) StartOption {
	return func(c *config) { c.version = version }
}

// WithGlobalTag adds a tag applied to every span created by the tracer.
func WithGlobalTag(k string, v string) StartOption {
	return func(c *config) {
		if c.tags == nil {
			c.tags = make(map[string]string)
		}
		c.tags[k] = v
	}
}

// WithAgentAddr overrides the agent base URL (scheme://host:port).
func WithAgentAddr(url string) StartOption {
	return func(c *config) { c.agentURL = url }
}

// WithSampleRate sets the global trace sample rate, overriding
// DD_TRACE_SAMPLE_RATE.
func WithSampleRate(rate float64) StartOption {
	return func(c *config) { c.sampleRate = rate }
}

// WithSamplingRules sets the trace-sampling rule list, overriding
// DD_TRACE_SAMPLING_RULES.
func WithSamplingRules(rules []SamplingRule) StartOption {
	return func(c *config) { c.traceSamplingRules = rules }
}

// WithRateLimit sets the maximum number of traces per second the rule
// sampler will keep, overriding DD_TRACE_RATE_LIMIT.
func WithRateLimit(limit float64) StartOption {
	return func(c *config) { c.rateLimitPerSecond = limit }
}

// WithPropagator sets the extraction and injection propagation styles.
func WithPropagator(extract, inject []string) StartOption {
	return func(c *config) {
		c.propagationExtract = extract
		c.propagationInject = inject
	}
}

// WithDebugMode forces debug-level logging regardless of DD_TRACE_DEBUG.
func WithDebugMode(on bool) StartOption {
	return func(c *config) { c.debug = on }
}

// WithHTTPClient overrides the collector's transport, primarily for
// testing.
func WithHTTPClient(client HTTPClient) StartOption {
	return func(c *config) { c.httpClient = client }
}

// WithHTTPTimeout overrides the per-POST deadline, overriding
// DD_TRACE_AGENT_TIMEOUT_SECONDS.
func WithHTTPTimeout(timeout time.Duration) StartOption {
	return func(c *config) { c.agentTimeout = timeout }
}

// withClock overrides the time source, for deterministic tests.
func withClock(cl clock.Clock) StartOption {
	return func(c *config) { c.clock = cl }
}

// newConfig builds the default configuration by reading environment
// variables, then applies opts on top.
func newConfig(opts ...StartOption) *config {
	c := &config{
		sampleRate:            math.NaN(),
		rateLimitPerSecond:    env.GetenvFloat("DD_TRACE_RATE_LIMIT", 100),
		tagsPropagationMaxLen: env.GetenvInt("DD_TRACE_TAGS_PROPAGATION_MAX_LENGTH", 512),
		debug:                 env.GetenvBool("DD_TRACE_DEBUG", false),
		enabled:               env.GetenvBool("DD_TRACE_ENABLED", true),
		startupLogs:           env.GetenvBool("DD_TRACE_STARTUP_LOGS", true),
		reportHostname:        env.GetenvBool("DD_TRACE_REPORT_HOSTNAME", false),
		clock:                 clock.Real{},
		httpClient:            newHTTPClient(),
		agentTimeout:          time.Duration(env.GetenvFloat("DD_TRACE_AGENT_TIMEOUT_SECONDS", 2) * float64(time.Second)),
	}

	c.service = env.Getenv("DD_SERVICE")
	c.env = env.Getenv("DD_ENV")
	c.version = env.Getenv("DD_VERSION")
	c.tags = parseTagsEnv(env.Getenv("DD_TAGS"))
	c.agentURL = resolveAgentURL()

	if v, ok := env.LookupEnv("DD_TRACE_SAMPLE_RATE"); ok && v != "" {
		c.sampleRate = env.GetenvFloat("DD_TRACE_SAMPLE_RATE", math.NaN())
	}

	traceRules, spanRules, err := samplingRulesFromEnv()
	if err != nil {
		log.Warn("tracer: %s", err)
	}
	c.traceSamplingRules = traceRules
	c.spanSamplingRules = spanRules

	c.propagationExtract = splitEnvList(env.Getenv("DD_PROPAGATION_STYLE_EXTRACT"), "datadog,tracecontext")
	c.propagationInject = splitEnvList(env.Getenv("DD_PROPAGATION_STYLE_INJECT"), "datadog,tracecontext")

	for _, o := range opts {
		o(c)
	}

	if c.debug {
		log.SetDebug(true)
	}

	return c
}

func parseTagsEnv(s string) map[string]string {
	tags := make(map[string]string)
	if s == "" {
		return tags
	}
	for _, pair := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) == 2 {
			tags[kv[0]] = kv[1]
		}
	}
	return tags
}

func splitEnvList(s string, def string) []string {
	if s == "" {
		s = def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func resolveAgentURL() string {
	if v := env.Getenv("DD_TRACE_AGENT_URL"); v != "" {
		return v
	}
	host := env.Getenv("DD_AGENT_HOST")
	if host == "" {
		host = "localhost"
	}
	port := env.Getenv("DD_TRACE_AGENT_PORT")
	if port == "" {
		port = "8126"
	}
	return "http://" + host + ":" + port
}

// jsonSamplingRule is the wire shape of one entry in DD_TRACE_SAMPLING_RULES
// / DD_SPAN_SAMPLING_RULES.
type jsonSamplingRule struct {
	Service      string            `json:"service"`
	Name         string            `json:"name"`
	Resource     string            `json:"resource"`
	Tags         map[string]string `json:"tags"`
	SampleRate   *float64          `json:"sample_rate"`
	MaxPerSecond float64           `json:"max_per_second"`
}

// samplingRulesFromEnv parses DD_TRACE_SAMPLING_RULES and
// DD_SPAN_SAMPLING_RULES (or DD_SPAN_SAMPLING_RULES_FILE) into rule lists.
// An empty or absent env var means "no rules configured", not an error.
// Only the span-rules case (no DD_SPAN_SAMPLING_RULES value and no readable
// rules file) is logged at startup; absent trace rules are not logged.
func samplingRulesFromEnv() (traceRules, spanRules []SamplingRule, err error) {
	if v := env.Getenv("DD_TRACE_SAMPLING_RULES"); v != "" {
		traceRules, err = parseJSONRules(v)
		if err != nil {
			return nil, nil, err
		}
	}

	spanRulesJSON := env.Getenv("DD_SPAN_SAMPLING_RULES")
	if spanRulesJSON == "" {
		if path := env.Getenv("DD_SPAN_SAMPLING_RULES_FILE"); path != "" {
			if b, rerr := os.ReadFile(path); rerr == nil {
				spanRulesJSON = string(b)
			} else {
				log.Warn("tracer: could not read DD_SPAN_SAMPLING_RULES_FILE: %s", rerr)
			}
		}
	}
	if spanRulesJSON != "" {
		spanRules, err = parseJSONRules(spanRulesJSON)
		if err != nil {
			return traceRules, nil, err
		}
	} else {
		log.Startup("tracer: no span sampling rules configured")
	}

	return traceRules, spanRules, nil
}

func parseJSONRules(s string) ([]SamplingRule, error) {
	var raw []jsonSamplingRule
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	return jsonRulesToSamplingRules(raw), nil
}

// jsonRulesToSamplingRules converts the wire representation of a rule list
// into the compiled glob-pattern form the sampler evaluates. Used both for
// env-var-sourced rules and for rule sets pushed by remote configuration.
func jsonRulesToSamplingRules(raw []jsonSamplingRule) []SamplingRule {
	rules := make([]SamplingRule, 0, len(raw))
	for _, r := range raw {
		rate := 1.0
		if r.SampleRate != nil {
			rate = *r.SampleRate
		}
		rule := SamplingRule{
			Service:      globPattern(r.Service),
			Name:         globPattern(r.Name),
			Resource:     globPattern(r.Resource),
			Rate:         rate,
			MaxPerSecond: r.MaxPerSecond,
		}
		if len(r.Tags) > 0 {
			rule.Tags = make(map[string]globPattern, len(r.Tags))
			for k, v := range r.Tags {
				rule.Tags[k] = globPattern(v)
			}
		}
		rules = append(rules, rule)
	}
	return rules
}

// defaultFlushInterval is the collector's default background-flush tick,
// per the agent export pipeline design.
const defaultFlushInterval = 2 * time.Second

// defaultDrainDeadline is how long Stop waits for an in-flight flush to
// complete before abandoning it.
const defaultDrainDeadline = time.Second
