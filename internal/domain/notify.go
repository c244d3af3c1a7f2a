package domain

import (
	"context"
	"time"
)

// NotificationType is the routing key of a published notification.
type NotificationType string

const (
	NotifyTicketPurchased NotificationType = "ticket.purchased"
	NotifyTicketCancelled NotificationType = "ticket.cancelled"
	NotifyRequestReviewed NotificationType = "request.reviewed"
)

// Notification is a committed state change announced to other systems.
type Notification struct {
	Type       NotificationType `json:"type"`
	OccurredAt time.Time        `json:"occurred_at"`
	TicketID   int64            `json:"ticket_id,omitempty"`
	EventID    int64            `json:"event_id,omitempty"`
	UserID     int64            `json:"user_id,omitempty"`
	RequestID  int64            `json:"request_id,omitempty"`
	Status     string           `json:"status,omitempty"`
}

// Publisher delivers notifications. Delivery is best effort: callers log
// failures and never roll back on them.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}
