// Package ids issues the numeric identifiers of users, events, event requests and tickets.
package ids

import (
	"context"
	"fmt"
	"sync/atomic"

	"campusbooking/internal/domain"
)

// Allocator is the in-process allocator. One atomic counter per category,
// created up front so Next never takes a lock.
type Allocator struct {
	counters map[domain.IDCategory]*atomic.Int64
}

// NewAllocator returns an allocator whose counters all start at zero, so the
// first id of each category is 1.
func NewAllocator() *Allocator {
	counters := make(map[domain.IDCategory]*atomic.Int64, len(domain.IDCategories))
	for _, c := range domain.IDCategories {
		counters[c] = new(atomic.Int64)
	}
	return &Allocator{counters: counters}
}

var _ domain.IDAllocator = (*Allocator)(nil)

// Next returns the next id of category.
func (a *Allocator) Next(_ context.Context, category domain.IDCategory) (int64, error) {
	c, ok := a.counters[category]
	if !ok {
		return 0, domain.NewValidationError(fmt.Sprintf("unknown id category %q", category))
	}
	return c.Add(1), nil
}

// Seed raises the counter of category to at least floor. Called at startup with
// the highest persisted id so a restart never reissues one.
func (a *Allocator) Seed(_ context.Context, category domain.IDCategory, floor int64) error {
	c, ok := a.counters[category]
	if !ok {
		return domain.NewValidationError(fmt.Sprintf("unknown id category %q", category))
	}
	for {
		cur := c.Load()
		if cur >= floor || c.CompareAndSwap(cur, floor) {
			return nil
		}
	}
}
