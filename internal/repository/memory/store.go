// Package memory keeps every repository in process memory. It backs
// STORAGE=memory and the service-level scenario tests.
package memory

import (
	"sort"
	"sync"

	"campusbooking/internal/domain"
)

// Store is the shared state behind the memory repositories. A single mutex
// makes every multi-row write atomic, like a database transaction.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]*domain.User
	emails   map[string]int64
	events   map[int64]*domain.Event
	requests map[int64]*domain.PendingEvent
	tickets  map[int64]*domain.Ticket
	codes    map[string]int64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*domain.User),
		emails:   make(map[string]int64),
		events:   make(map[int64]*domain.Event),
		requests: make(map[int64]*domain.PendingEvent),
		tickets:  make(map[int64]*domain.Ticket),
		codes:    make(map[string]int64),
	}
}

func copyEvent(e *domain.Event) *domain.Event {
	c := *e
	return &c
}

func copyRequest(p *domain.PendingEvent) *domain.PendingEvent {
	c := *p
	return &c
}

func copyTicket(t *domain.Ticket) *domain.Ticket {
	c := *t
	return &c
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

// page sorts items with less and returns the window selected by params.
// A zero PageSize returns everything from the offset on.
func page[T any](items []T, params domain.PaginationParams, less func(a, b T) bool) []T {
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
	start := params.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := len(items)
	if params.PageSize > 0 && start+params.PageSize < end {
		end = start + params.PageSize
	}
	return items[start:end]
}

func maxKey[V any](m map[int64]V) int64 {
	var max int64
	for id := range m {
		if id > max {
			max = id
		}
	}
	return max
}
