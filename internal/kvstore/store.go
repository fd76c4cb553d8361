// Package kvstore is the persistence port for board state that outlives a session
// (active filters, saved presets, selected columns).
package kvstore

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// Well-known keys.
const (
	KeyActiveFilters   = "activeFilters"
	KeySavedPresets    = "savedPresets"
	KeySelectedColumns = "selectedColumns"
)

// ErrCorrupt wraps decode failures of a stored value.
var ErrCorrupt = errors.New("corrupt stored value")

// Store is a string-keyed byte store. Get reports ok=false for missing keys.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// GetJSON decodes key into a T. A missing key returns fallback with no error.
// An undecodable value returns fallback and an error wrapping ErrCorrupt.
func GetJSON[T any](ctx context.Context, s Store, key string, fallback T) (T, error) {
	v, ok, err := LookupJSON[T](ctx, s, key)
	if err != nil || !ok {
		return fallback, err
	}
	return v, nil
}

// LookupJSON is GetJSON that reports whether the key held a value.
func LookupJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var v T
	b, ok, err := s.Get(ctx, key)
	if err != nil || !ok || len(b) == 0 {
		return v, false, err
	}
	if err := json.Unmarshal(b, &v); err != nil {
		var zero T
		return zero, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return v, true, nil
}

func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, b)
}

type prefixed struct {
	s      Store
	prefix string
}

// WithPrefix namespaces every key of s, e.g. per user.
func WithPrefix(s Store, prefix string) Store {
	return prefixed{s: s, prefix: prefix}
}

func (p prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.s.Get(ctx, p.prefix+key)
}

func (p prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.s.Set(ctx, p.prefix+key, value)
}

func (p prefixed) Remove(ctx context.Context, key string) error {
	return p.s.Remove(ctx, p.prefix+key)
}
