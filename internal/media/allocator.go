package media

import (
	"context"
	"fmt"
	"sync"
)

// MaxIDSource reports the highest media id ever issued.
type MaxIDSource interface {
	MaxID(ctx context.Context) (int64, error)
}

// Allocator hands out media ids one greater than the highest id seen, either
// in the store or by this allocator. Calls are serialized so concurrent
// ingestions in one process never receive the same id.
type Allocator struct {
	mu      sync.Mutex
	source  MaxIDSource
	running int64
}

// NewAllocator creates an Allocator backed by source.
func NewAllocator(source MaxIDSource) *Allocator {
	return &Allocator{source: source}
}

// Next returns the next id; 1 for an empty store.
func (a *Allocator) Next(ctx context.Context) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	stored, err := a.source.MaxID(ctx)
	if err != nil {
		return 0, fmt.Errorf("read max media id: %w", err)
	}
	next := max(a.running, stored) + 1
	a.running = next
	return next, nil
}
