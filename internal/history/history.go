// Package history keeps a short, deduplicated list of recently searched
// file numbers on top of an injected key/value storage capability.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

const (
	// DefaultKey is the storage key the list is persisted under.
	DefaultKey = "sikabut.recent-searches"
	// DefaultLimit is the maximum number of entries kept.
	DefaultLimit = 6
)

// Storage is a minimal persistent key/value capability.
type Storage interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// History is a bounded newest-first list of file numbers.
type History struct {
	store Storage
	key   string
	limit int

	mu sync.Mutex
}

// Option configures a History.
type Option func(*History)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(h *History) {
		if key != "" {
			h.key = key
		}
	}
}

// WithLimit overrides the maximum number of entries.
func WithLimit(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.limit = n
		}
	}
}

// New creates a History persisted in store.
func New(store Storage, opts ...Option) *History {
	h := &History{store: store, key: DefaultKey, limit: DefaultLimit}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Limit returns the maximum number of entries kept.
func (h *History) Limit() int { return h.limit }

// Entries returns the stored numbers, newest first. A corrupt stored value
// reads as an empty list.
func (h *History) Entries(ctx context.Context) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

// Push records fileNumber as the newest entry, removing an older duplicate
// and dropping entries beyond the limit. It returns the updated list.
func (h *History) Push(ctx context.Context, fileNumber string) ([]string, error) {
	fileNumber = strings.TrimSpace(fileNumber)

	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	if fileNumber == "" {
		return entries, nil
	}

	next := make([]string, 0, h.limit)
	next = append(next, fileNumber)
	for _, e := range entries {
		if len(next) == h.limit {
			break
		}
		if e != fileNumber {
			next = append(next, e)
		}
	}
	if err := h.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Clear removes every entry.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.save(ctx, []string{})
}

func (h *History) load(ctx context.Context) ([]string, error) {
	raw, ok, err := h.store.Get(ctx, h.key)
	if err != nil {
		return nil, fmt.Errorf("history: load: %w", err)
	}
	entries := []string{}
	if !ok || len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return []string{}, nil
	}
	if len(entries) > h.limit {
		entries = entries[:h.limit]
	}
	return entries, nil
}

func (h *History) save(ctx context.Context, entries []string) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}
	if err := h.store.Set(ctx, h.key, raw); err != nil {
		return fmt.Errorf("history: save: %w", err)
	}
	return nil
}
