// Package listing holds fetched backend collections and the derived views pages render.
package listing

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"sdchassis.be/web/internal/observability"
)

// FetchFunc retrieves a collection from the backend.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// FetchError wraps a failed load of the named collection.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("listing: load %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Loader holds the last successfully fetched collection of one resource.
// A failed load keeps the previous items.
type Loader[T any] struct {
	name  string
	fetch FetchFunc[T]

	mu      sync.RWMutex
	items   []T
	err     error
	started uint64 // loads begun
	applied uint64 // load whose outcome is held
}

// NewLoader returns an empty loader for resource name.
func NewLoader[T any](name string, fetch FetchFunc[T]) *Loader[T] {
	return &Loader[T]{name: name, fetch: fetch}
}

// Load fetches the collection. On success the held items are replaced in server order;
// on failure they are kept, the error is logged, and a *FetchError is returned
// alongside the retained items. A load that finishes after a later-started one has
// been applied does not overwrite it.
func (l *Loader[T]) Load(ctx context.Context) ([]T, error) {
	l.mu.Lock()
	l.started++
	gen := l.started
	l.mu.Unlock()

	items, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		fetchErr := &FetchError{Resource: l.name, Err: err}
		if gen > l.applied {
			l.applied = gen
			l.err = fetchErr
		}
		observability.FromContext(ctx).Warn("listing: fetch failed",
			zap.String("resource", l.name),
			zap.Int("retained", len(l.items)),
			zap.Error(err),
		)
		return clone(l.items), fetchErr
	}
	if gen > l.applied {
		l.applied = gen
		l.items = clone(items)
		l.err = nil
	}
	return clone(l.items), nil
}

// Items returns a copy of the held collection.
func (l *Loader[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.items)
}

// Preview returns the first n held items.
func (l *Loader[T]) Preview(n int) []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Preview(l.items, n)
}

// Err reports the outcome of the most recent load.
func (l *Loader[T]) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Preview returns a copy of the first min(n, len(items)) items in order.
func Preview[T any](items []T, n int) []T {
	if n <= 0 || len(items) == 0 {
		return []T{}
	}
	if n > len(items) {
		n = len(items)
	}
	return clone(items[:n])
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
