package domain

import (
	"context"
	"time"
)

// RequestStatus is the lifecycle state of an event request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending: {RequestApproved, RequestRejected},
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s RequestStatus) IsTerminal() bool {
	return len(requestTransitions[s]) == 0
}

// CanTransitionTo reports whether s may move to next.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReviewDecision is the outcome an administrator picks for a request.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

// Status returns the request status the decision leads to, or false for an unknown decision.
func (d ReviewDecision) Status() (RequestStatus, bool) {
	switch d {
	case DecisionApprove:
		return RequestApproved, true
	case DecisionReject:
		return RequestRejected, true
	}
	return "", false
}

// PendingEvent is a proposal for an event awaiting administrative review.
// swagger:model PendingEvent
type PendingEvent struct {
	ID int64 `json:"id"`
	EventDetails
	TotalTickets int           `json:"total_tickets"`
	RequesterID  int64         `json:"requester_id"`
	Status       RequestStatus `json:"status"`
	AdminNotes   string        `json:"admin_notes"`
	ReviewerID   *int64        `json:"reviewer_id,omitempty"`
	EventID      *int64        `json:"event_id,omitempty"`
	ReviewedAt   *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ValidateEventRequest returns the problems of a submitted request. Unlike
// direct event creation, a request must ask for at least one ticket.
func ValidateEventRequest(details EventDetails, totalTickets int) []string {
	return append(details.Validate(), ValidateTotalTickets(totalTickets, false)...)
}

// ReviewOutcome is the state written when a request leaves pending.
type ReviewOutcome struct {
	Status     RequestStatus
	ReviewerID int64
	AdminNotes string
	ReviewedAt time.Time
}

// EventRequestFilter narrows List. Zero values match everything.
type EventRequestFilter struct {
	Status      RequestStatus
	RequesterID int64
}

// EventRequestRepository defines the interface for event request storage.
type EventRequestRepository interface {
	// Create stores r. r.ID must already be set.
	Create(ctx context.Context, r *PendingEvent) error
	GetByID(ctx context.Context, id int64) (*PendingEvent, error)
	List(ctx context.Context, filter EventRequestFilter, params PaginationParams) ([]*PendingEvent, int, error)
	// Approve moves a pending request to approved and inserts event in one
	// transaction. Returns ErrInvalidStateTransition if the request is no longer pending.
	Approve(ctx context.Context, id int64, outcome ReviewOutcome, event *Event) (*PendingEvent, error)
	// Reject moves a pending request to rejected.
	// Returns ErrInvalidStateTransition if the request is no longer pending.
	Reject(ctx context.Context, id int64, outcome ReviewOutcome) (*PendingEvent, error)
	MaxID(ctx context.Context) (int64, error)
}

// OrganizerPolicy decides who organizes the event created on approval.
type OrganizerPolicy string

const (
	OrganizerReviewer  OrganizerPolicy = "reviewer"
	OrganizerRequester OrganizerPolicy = "requester"
)

func (p OrganizerPolicy) Valid() bool {
	return p == OrganizerReviewer || p == OrganizerRequester
}

// Organizer returns the organizer id for a request approved by reviewerID.
func (p OrganizerPolicy) Organizer(req *PendingEvent, reviewerID int64) int64 {
	if p == OrganizerRequester {
		return req.RequesterID
	}
	return reviewerID
}

// EventRequestService defines the business logic of the event request pipeline.
type EventRequestService interface {
	Submit(ctx context.Context, requesterID int64, details EventDetails, totalTickets int) (*PendingEvent, error)
	// Review returns the created event when the decision is approve.
	Review(ctx context.Context, requestID int64, decision ReviewDecision, reviewerID int64, adminNotes string) (*PendingEvent, *Event, error)
	// Get returns the request if callerID is its requester or an admin.
	Get(ctx context.Context, requestID, callerID int64) (*PendingEvent, error)
	// List returns every request for admins and only the caller's own otherwise.
	List(ctx context.Context, callerID int64, filter EventRequestFilter, params PaginationParams) ([]*PendingEvent, int, error)
}
