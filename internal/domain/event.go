package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// EventDetails holds the descriptive fields shared by events and event requests.
type EventDetails struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Date        Date      `json:"date" swaggertype:"string" example:"2026-11-05"`
	TimeStart   TimeOfDay `json:"time_start" swaggertype:"string" example:"18:00"`
	TimeEnd     TimeOfDay `json:"time_end" swaggertype:"string" example:"20:30"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Price       Money     `json:"price" swaggertype:"string" example:"12.50"`
}

// Normalize trims surrounding whitespace from the text fields.
func (d EventDetails) Normalize() EventDetails {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	d.Location = strings.TrimSpace(d.Location)
	d.Category = strings.TrimSpace(d.Category)
	return d
}

// Validate returns the shape problems of d. The date may lie in the past.
func (d EventDetails) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(d.Location) == "" {
		errs = append(errs, "location is required")
	}
	switch {
	case d.Price < 0:
		errs = append(errs, "price must not be negative")
	case d.Price > MaxPrice:
		errs = append(errs, fmt.Sprintf("price must not exceed %s", MaxPrice))
	}
	if d.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	switch {
	case d.TimeStart.IsZero():
		errs = append(errs, "time_start is required")
	case d.TimeEnd.IsZero():
		errs = append(errs, "time_end is required")
	case !d.TimeStart.Before(d.TimeEnd):
		errs = append(errs, "time_end must be after time_start")
	}
	return errs
}

// MaxTotalTickets is the largest inventory an event may hold.
const MaxTotalTickets = math.MaxInt32

// ValidateTotalTickets returns the problems of an inventory size. A direct
// event may start empty; a request must ask for at least one ticket.
func ValidateTotalTickets(n int, allowZero bool) []string {
	switch {
	case n < 0 && allowZero:
		return []string{"total_tickets must not be negative"}
	case n <= 0 && !allowZero:
		return []string{"total_tickets must be greater than zero"}
	case n > MaxTotalTickets:
		return []string{fmt.Sprintf("total_tickets must not exceed %d", MaxTotalTickets)}
	}
	return nil
}

// Event is a published, bookable offering with a fixed ticket inventory.
// swagger:model Event
type Event struct {
	ID int64 `json:"id"`
	EventDetails
	TotalTickets     int        `json:"total_tickets"`
	AvailableTickets int        `json:"available_tickets"`
	OrganizerID      int64      `json:"organizer_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"-"`
}

// NewEvent returns an Event with its full inventory available. ID is assigned by the caller.
func NewEvent(details EventDetails, totalTickets int, organizerID int64, now time.Time) *Event {
	return &Event{
		EventDetails:     details,
		TotalTickets:     totalTickets,
		AvailableTickets: totalTickets,
		OrganizerID:      organizerID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Availability is a consistent snapshot of an event's inventory counters.
type Availability struct {
	EventID   int64 `json:"event_id"`
	Total     int   `json:"total"`
	Available int   `json:"available"`
}

// EventPatch describes an organizer edit. Nil fields are left unchanged.
// Inventory counters are not editable.
type EventPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`
	Date        *Date      `json:"date" swaggertype:"string"`
	TimeStart   *TimeOfDay `json:"time_start" swaggertype:"string"`
	TimeEnd     *TimeOfDay `json:"time_end" swaggertype:"string"`
	Location    *string    `json:"location"`
	Category    *string    `json:"category"`
	Price       *Money     `json:"price" swaggertype:"string"`
}

// Apply returns d with the non-nil fields of p applied.
func (p EventPatch) Apply(d EventDetails) EventDetails {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.ImageURL != nil {
		d.ImageURL = *p.ImageURL
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.TimeStart != nil {
		d.TimeStart = *p.TimeStart
	}
	if p.TimeEnd != nil {
		d.TimeEnd = *p.TimeEnd
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	return d
}

// EventFilter narrows ListEvents. Zero values match everything.
type EventFilter struct {
	Category    string
	OrganizerID int64
}

// EventRepository defines the interface for event storage.
// Deleted events are invisible to every read.
type EventRepository interface {
	// Create stores e. e.ID must already be set.
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	// UpdateDetails overwrites the descriptive fields and leaves the inventory untouched.
	UpdateDetails(ctx context.Context, id int64, details EventDetails, updatedAt time.Time) (*Event, error)
	// SoftDelete marks the event deleted. Returns ErrConflict while any of its
	// tickets is still purchased.
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	Availability(ctx context.Context, id int64) (*Availability, error)
	MaxID(ctx context.Context) (int64, error)
}

// EventService defines the business logic of the event catalog.
type EventService interface {
	CreateEvent(ctx context.Context, organizerID int64, details EventDetails, totalTickets int) (*Event, error)
	UpdateEvent(ctx context.Context, eventID, actorID int64, patch EventPatch) (*Event, error)
	GetEventByID(ctx context.Context, eventID int64) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	DeleteEvent(ctx context.Context, eventID, actorID int64) error
}
