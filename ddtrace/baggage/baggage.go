// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package baggage implements W3C baggage: a small set of key/value pairs
// propagated alongside a trace, independent of sampling. It offers two
// layers: a wire-format codec (Baggage, ParseBaggage, Inject, Extract) and a
// copy-on-write context.Context accessor API (Set, Get, All, Remove,
// Clear) built on top of it.
package baggage

import (
	"context"
	"fmt"
	"strings"
)

// ErrorCode classifies a baggage failure.
type ErrorCode int

const (
	// MissingHeader means no "baggage" header was present to extract.
	MissingHeader ErrorCode = iota
	// MalformedBaggageHeader means the header value could not be parsed;
	// Pos holds the byte offset of the offending character, when known.
	MalformedBaggageHeader
	// MaximumCapacityReached means the item count limit was exceeded
	// while injecting.
	MaximumCapacityReached
	// MaximumBytesReached means the serialized byte length limit was
	// exceeded while injecting.
	MaximumBytesReached
)

// Error is returned by Baggage operations that can fail.
type Error struct {
	Code ErrorCode
	Pos  int // valid only for MalformedBaggageHeader
}

func (e Error) Error() string {
	switch e.Code {
	case MissingHeader:
		return "baggage: missing header"
	case MalformedBaggageHeader:
		return fmt.Sprintf("baggage: malformed header at byte %d", e.Pos)
	case MaximumCapacityReached:
		return "baggage: maximum capacity reached"
	case MaximumBytesReached:
		return "baggage: maximum bytes reached"
	default:
		return "baggage: unknown error"
	}
}

const (
	// DefaultMaxItems is the default item-count cap enforced on Set and on
	// Inject.
	DefaultMaxItems = 64
	// DefaultMaxBytes is the default serialized-size cap enforced on
	// Inject.
	DefaultMaxBytes = 8192
)

// Baggage holds a bounded set of key/value pairs.
type Baggage struct {
	items       map[string]string
	maxCapacity int
}

// New returns an empty Baggage bounded at maxCapacity items (DefaultMaxItems
// if maxCapacity <= 0).
func New(maxCapacity int) *Baggage {
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxItems
	}
	return &Baggage{items: make(map[string]string), maxCapacity: maxCapacity}
}

// FromMap returns a Baggage seeded from items, bounded at maxCapacity.
func FromMap(items map[string]string, maxCapacity int) *Baggage {
	b := New(maxCapacity)
	for k, v := range items {
		b.items[k] = v
	}
	return b
}

// Get returns the value for key, if present.
func (b *Baggage) Get(key string) (string, bool) {
	v, ok := b.items[key]
	return v, ok
}

// Set stores key=value, silently rejecting the write once the capacity is
// reached (it does not evict an existing entry to make room).
func (b *Baggage) Set(key, value string) bool {
	if _, exists := b.items[key]; !exists && len(b.items) >= b.maxCapacity {
		return false
	}
	b.items[key] = value
	return true
}

// Remove deletes key, if present.
func (b *Baggage) Remove(key string) { delete(b.items, key) }

// Clear removes every item.
func (b *Baggage) Clear() { b.items = make(map[string]string) }

// Size returns the number of items.
func (b *Baggage) Size() int { return len(b.items) }

// Empty reports whether there are no items.
func (b *Baggage) Empty() bool { return len(b.items) == 0 }

// Contains reports whether key is present.
func (b *Baggage) Contains(key string) bool {
	_, ok := b.items[key]
	return ok
}

// Visit calls fn for every key/value pair, in unspecified order.
func (b *Baggage) Visit(fn func(key, value string)) {
	for k, v := range b.items {
		fn(k, v)
	}
}

// DictWriter is the minimal carrier write surface Inject needs.
type DictWriter interface {
	Set(key, value string)
}

// DictReader is the minimal carrier read surface Extract needs.
type DictReader interface {
	Lookup(key string) (string, bool)
}

// Inject serializes the baggage as "k1=v1,k2=v2" and writes it to w under
// the "baggage" key, enforcing maxItems and maxBytes. An empty Baggage
// injects nothing and returns nil.
func (b *Baggage) Inject(w DictWriter, maxItems, maxBytes int) error {
	if b.Empty() {
		return nil
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(b.items) > maxItems {
		return Error{Code: MaximumCapacityReached}
	}

	var sb strings.Builder
	first := true
	for k, v := range b.items {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(v)
	}

	if sb.Len() > maxBytes {
		return Error{Code: MaximumBytesReached}
	}

	w.Set("baggage", sb.String())
	return nil
}

// Extract reads the "baggage" header from r and parses it.
func Extract(r DictReader) (*Baggage, error) {
	header, ok := r.Lookup("baggage")
	if !ok {
		return nil, Error{Code: MissingHeader}
	}
	items, err := ParseBaggage(header)
	if err != nil {
		return nil, err
	}
	return FromMap(items, DefaultMaxItems), nil
}

type parseState int

const (
	stateLeadingSpacesKey parseState = iota
	stateKey
	stateLeadingSpacesValue
	stateValue
)

// ParseBaggage parses the wire representation of a baggage header
// ("k1=v1, k2=v2") into a map. It trims leading spaces around each key and
// value and reports the byte offset of the first structurally invalid
// character via Error{Code: MalformedBaggageHeader}.
func ParseBaggage(input string) (map[string]string, error) {
	result := make(map[string]string)
	if input == "" {
		return result, nil
	}

	state := stateLeadingSpacesKey
	beg, end := 0, 0
	var key string

	for i := 0; i < len(input); i++ {
		c := input[i]
		switch state {
		case stateLeadingSpacesKey:
			if c != ' ' {
				beg, end = i, i
				state = stateKey
			}
		case stateKey:
			switch {
			case c == ',':
				return nil, Error{Code: MalformedBaggageHeader, Pos: i}
			case c == '=':
				key = input[beg : end+1]
				state = stateLeadingSpacesValue
			case c != ' ':
				end = i
			}
		case stateLeadingSpacesValue:
			if c != ' ' {
				beg, end = i, i
				state = stateValue
			}
		case stateValue:
			switch {
			case c == ',':
				result[key] = input[beg : end+1]
				beg, end = i, i
				state = stateLeadingSpacesKey
			case c != ' ':
				end = i
			}
		}
	}

	if state != stateValue {
		return nil, Error{Code: MalformedBaggageHeader, Pos: len(input)}
	}
	result[key] = input[beg : end+1]

	return result, nil
}

// --- context.Context accessor layer -------------------------------------

type ctxKeyType struct{}

var ctxKey = ctxKeyType{}

// baggageMap returns the map stored in ctx, if any. The returned map must
// never be mutated in place: callers fork a new map before writing.
func baggageMap(ctx context.Context) (map[string]string, bool) {
	m, ok := ctx.Value(ctxKey).(map[string]string)
	return m, ok
}

func withBaggage(ctx context.Context, m map[string]string) context.Context {
	return context.WithValue(ctx, ctxKey, m)
}

func clone(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Set returns a new context with key=value added to the baggage, without
// mutating any baggage map reachable from ctx.
func Set(ctx context.Context, key, value string) context.Context {
	m, ok := baggageMap(ctx)
	var next map[string]string
	if ok {
		next = clone(m)
	} else {
		next = make(map[string]string, 1)
	}
	next[key] = value
	return withBaggage(ctx, next)
}

// Get returns the value for key in ctx's baggage, if present.
func Get(ctx context.Context, key string) (string, bool) {
	m, ok := baggageMap(ctx)
	if !ok {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// All returns a copy of ctx's baggage map. Mutating the result never
// affects ctx.
func All(ctx context.Context) map[string]string {
	m, ok := baggageMap(ctx)
	if !ok {
		return map[string]string{}
	}
	return clone(m)
}

// Remove returns a new context with key removed from the baggage.
func Remove(ctx context.Context, key string) context.Context {
	m, ok := baggageMap(ctx)
	if !ok {
		return ctx
	}
	next := clone(m)
	delete(next, key)
	return withBaggage(ctx, next)
}

// Clear returns a new context with an empty baggage map.
func Clear(ctx context.Context) context.Context {
	return withBaggage(ctx, map[string]string{})
}
