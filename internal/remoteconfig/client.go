// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package remoteconfig implements the agent-polling client that fetches
// dynamic configuration (sampling rules, feature flags) published through
// the Datadog remote-config product and applies it to registered
// callbacks.
package remoteconfig

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/DataDog/dd-trace-go-core/internal/log"
)

// ProductAPMTracing is the product name carrying sampling-rule updates.
const ProductAPMTracing = "APM_TRACING"

// ProductASMFeatures is the product name carrying ASM feature toggles.
const ProductASMFeatures = "ASM_FEATURES"

// ApplyStatus reports, per config path, whether a callback accepted or
// rejected an update.
type ApplyStatus struct {
	State int
	Error string
}

const (
	ApplyStateUnacknowledged = 0
	ApplyStateAcknowledged   = 1
	ApplyStateError          = 2
)

// ProductUpdate maps a config path to its raw decoded bytes for one
// product in one poll response.
type ProductUpdate map[string][]byte

// Callback is invoked with the updates for every product it was
// registered against, and returns the ApplyStatus for each path it
// processed.
type Callback func(updates map[string]ProductUpdate) map[string]ApplyStatus

// HTTPClient is the abstract transport collaborator, matching the
// tracer's own HTTPClient shape so a single concrete implementation can
// serve both.
type HTTPClient interface {
	Post(ctx context.Context, url string, contentType string, body []byte, headers map[string]string) (status int, respBody []byte, err error)
}

// ClientConfig configures a remote-config Client.
type ClientConfig struct {
	AgentURL       string
	RuntimeID      string
	Service        string
	Env            string
	Version        string
	PollInterval   time.Duration
	HTTPClient     HTTPClient
}

// DefaultClientConfig returns a ClientConfig with the default 5 second
// poll interval and no identifying fields set; callers fill in
// Service/Env/Version/RuntimeID before constructing a Client.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{PollInterval: 5 * time.Second}
}

// Client polls the agent's /v0.7/config endpoint and dispatches updates to
// registered callbacks.
type Client struct {
	cfg ClientConfig

	mu        sync.Mutex
	products  map[string]bool
	callbacks map[string][]Callback

	state clientState

	stopCh chan struct{}
	wg     sync.WaitGroup
}

type clientState struct {
	targetsVersion   int64
	backendClientState string
	cachedTargetFiles map[string]string // path -> sha256 hex
}

// NewClient constructs a Client from cfg. It does not start polling until
// Start is called.
func NewClient(cfg ClientConfig) *Client {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &Client{
		cfg:       cfg,
		products:  make(map[string]bool),
		callbacks: make(map[string][]Callback),
		state:     clientState{cachedTargetFiles: make(map[string]string)},
		stopCh:    make(chan struct{}),
	}
}

// RegisterProduct marks product as one this client should request updates
// for on every poll.
func (c *Client) RegisterProduct(product string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product] = true
	return nil
}

// RegisterCallback attaches fn to every currently registered product.
func (c *Client) RegisterCallback(fn Callback) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for p := range c.products {
		c.callbacks[p] = append(c.callbacks[p], fn)
	}
	return nil
}

// Subscribe registers product and attaches fn to it in one call, wrapping
// fn (which only sees that product's updates) into the general Callback
// shape.
func (c *Client) Subscribe(product string, fn func(ProductUpdate) map[string]ApplyStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product] = true
	c.callbacks[product] = append(c.callbacks[product], func(updates map[string]ProductUpdate) map[string]ApplyStatus {
		u, ok := updates[product]
		if !ok {
			return nil
		}
		return fn(u)
	})
	return nil
}

// Start launches the background polling worker. It is the sole background
// goroutine this client owns; Stop joins it.
func (c *Client) Start() {
	c.wg.Add(1)
	go c.loop()
}

// Stop terminates the polling worker and waits for it to exit.
func (c *Client) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

func (c *Client) loop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.poll(); err != nil {
				log.Debug("remoteconfig: poll failed: %s", err)
			}
		case <-c.stopCh:
			return
		}
	}
}

// clientGetConfigsRequest is the body of a POST /v0.7/config request.
type clientGetConfigsRequest struct {
	Client struct {
		State struct {
			RootVersion    int    `json:"root_version"`
			TargetsVersion int64  `json:"targets_version"`
			ConfigStates   []struct{} `json:"config_states"`
			HasError       bool   `json:"has_error"`
		} `json:"state"`
		ID       string   `json:"id"`
		Products []string `json:"products"`
		IsTracer bool     `json:"is_tracer"`
		ClientTracer struct {
			RuntimeID string `json:"runtime_id"`
			Service   string `json:"service"`
			Env       string `json:"env"`
			Version   string `json:"app_version"`
		} `json:"client_tracer"`
	} `json:"client"`
}

// clientGetConfigsResponse is the relevant subset of a /v0.7/config
// response: a map of target file path to base64-encoded raw content, plus
// the list of paths the client should now consider active.
type clientGetConfigsResponse struct {
	TargetFiles []struct {
		Path string `json:"path"`
		Raw  string `json:"raw"`
	} `json:"target_files"`
	ClientConfigs []string `json:"client_configs"`
}

// poll performs a single request/response cycle: builds the request
// carrying the client's identity and current state token, validates and
// decodes the response's target files, groups them by product, dispatches
// to callbacks, and advances the state token only if every callback
// succeeded.
func (c *Client) poll() error {
	c.mu.Lock()
	products := make([]string, 0, len(c.products))
	for p := range c.products {
		products = append(products, p)
	}
	c.mu.Unlock()
	if len(products) == 0 {
		return nil
	}

	var req clientGetConfigsRequest
	req.Client.ID = c.cfg.RuntimeID
	req.Client.Products = products
	req.Client.IsTracer = true
	req.Client.ClientTracer.RuntimeID = c.cfg.RuntimeID
	req.Client.ClientTracer.Service = c.cfg.Service
	req.Client.ClientTracer.Env = c.cfg.Env
	req.Client.ClientTracer.Version = c.cfg.Version
	req.Client.State.TargetsVersion = c.state.targetsVersion

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	status, respBody, err := c.cfg.HTTPClient.Post(ctx, c.cfg.AgentURL+"/v0.7/config", "application/json", body, nil)
	if err != nil {
		return err
	}
	if status == 404 {
		// remote config not enabled on this agent; not an error.
		return nil
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("remoteconfig: agent returned status %d", status)
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	var resp clientGetConfigsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("remoteconfig: malformed response: %w", err)
	}

	updatesByProduct := make(map[string]ProductUpdate)
	newHashes := make(map[string]string, len(resp.TargetFiles))
	for _, tf := range resp.TargetFiles {
		raw, err := base64.StdEncoding.DecodeString(tf.Raw)
		if err != nil {
			return fmt.Errorf("remoteconfig: invalid base64 in target file %s: %w", tf.Path, err)
		}
		sum := sha256.Sum256(raw)
		newHashes[tf.Path] = hex.EncodeToString(sum[:])

		product := productFromPath(tf.Path)
		if updatesByProduct[product] == nil {
			updatesByProduct[product] = make(ProductUpdate)
		}
		updatesByProduct[product][tf.Path] = raw
	}

	ok := true
	c.mu.Lock()
	callbacks := make(map[string][]Callback, len(c.callbacks))
	for k, v := range c.callbacks {
		callbacks[k] = v
	}
	c.mu.Unlock()

	for product, cbs := range callbacks {
		for _, cb := range cbs {
			statuses := cb(updatesByProduct)
			for _, st := range statuses {
				if st.State == ApplyStateError {
					ok = false
				}
			}
			_ = product
		}
	}

	if ok {
		c.mu.Lock()
		c.state.targetsVersion++
		c.state.cachedTargetFiles = newHashes
		c.mu.Unlock()
	}

	return nil
}

// productFromPath extracts the product segment from a target-file path of
// the form "datadog/2/<PRODUCT>/<config_id>/config".
func productFromPath(path string) string {
	parts := bytes.Split([]byte(path), []byte("/"))
	if len(parts) >= 3 {
		return string(parts[2])
	}
	return ""
}
