package domain

import "context"

// IDCategory names an independent identifier sequence.
type IDCategory string

const (
	CategoryEvent        IDCategory = "event"
	CategoryPendingEvent IDCategory = "pending_event"
	CategoryTicket       IDCategory = "ticket"
	CategoryUser         IDCategory = "user"
)

// IDCategories lists every known category.
var IDCategories = []IDCategory{CategoryEvent, CategoryPendingEvent, CategoryTicket, CategoryUser}

// Valid reports whether c is a known category.
func (c IDCategory) Valid() bool {
	switch c {
	case CategoryEvent, CategoryPendingEvent, CategoryTicket, CategoryUser:
		return true
	}
	return false
}

// IDAllocator issues strictly increasing, never reused identifiers per category.
// Gaps are allowed. Unknown categories return ErrValidation.
type IDAllocator interface {
	Next(ctx context.Context, category IDCategory) (int64, error)
}
