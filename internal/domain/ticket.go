package domain

import (
	"context"
	"fmt"
	"time"
)

// TicketStatus is the lifecycle state of a ticket. Purchased is the only
// non-terminal value.
type TicketStatus string

const (
	TicketPurchased TicketStatus = "purchased"
	TicketUsed      TicketStatus = "used"
	TicketCancelled TicketStatus = "cancelled"
)

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketPurchased: {TicketUsed, TicketCancelled},
}

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketPurchased, TicketUsed, TicketCancelled:
		return true
	}
	return false
}

func (s TicketStatus) IsTerminal() bool {
	return len(ticketTransitions[s]) == 0
}

// CanTransitionTo reports whether s may move to next.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, allowed := range ticketTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Ticket is one admission to one event held by one user.
// swagger:model Ticket
type Ticket struct {
	ID           int64        `json:"id"`
	EventID      int64        `json:"event_id"`
	UserID       int64        `json:"user_id"`
	Code         string       `json:"ticket_code"`
	Status       TicketStatus `json:"status"`
	PurchaseDate time.Time    `json:"purchase_date"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// FormatTicketCode builds the public code of a ticket. Ticket ids are unique,
// so codes are unique too.
func FormatTicketCode(eventID, ticketID int64) string {
	return fmt.Sprintf("TKT-%06d-%08d", eventID, ticketID)
}

// TicketRepository defines the interface for ticket storage.
type TicketRepository interface {
	// Purchase takes one unit of the event's inventory and inserts t in one
	// transaction. Returns ErrNotFound for a missing or deleted event,
	// ErrOutOfInventory when nothing is left and ErrDuplicateTicketCode when
	// t.Code is taken.
	Purchase(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id int64) (*Ticket, error)
	GetByCode(ctx context.Context, code string) (*Ticket, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Ticket, error)
	// Cancel moves a purchased ticket to cancelled and returns its unit to the
	// event in one transaction. Returns ErrInvalidStateTransition otherwise.
	Cancel(ctx context.Context, id int64, at time.Time) (*Ticket, error)
	// Redeem moves a purchased ticket to used.
	Redeem(ctx context.Context, id int64, at time.Time) (*Ticket, error)
	MaxID(ctx context.Context) (int64, error)
}

// BookingService defines the business logic of the ticket booking engine.
type BookingService interface {
	Purchase(ctx context.Context, eventID, userID int64) (*Ticket, error)
	Cancel(ctx context.Context, ticketID, actorID int64) (*Ticket, error)
	Redeem(ctx context.Context, ticketID, actorID int64) (*Ticket, error)
	Availability(ctx context.Context, eventID int64) (*Availability, error)
	GetTicket(ctx context.Context, ticketID, actorID int64) (*Ticket, error)
	GetTicketByCode(ctx context.Context, code string, actorID int64) (*Ticket, error)
	ListUserTickets(ctx context.Context, userID int64) ([]*Ticket, error)
}
