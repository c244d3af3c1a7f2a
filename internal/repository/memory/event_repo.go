package memory

import (
	"context"
	"time"

	"campusbooking/internal/domain"
)

type eventRepository struct {
	s *Store
}

func NewEventRepository(s *Store) domain.EventRepository {
	return &eventRepository{s: s}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[e.ID]; ok {
		return domain.ErrConflict
	}
	r.s.events[e.ID] = copyEvent(e)
	return nil
}

// live returns the event unless it is missing or deleted. Callers hold the lock.
func (s *Store) live(id int64) (*domain.Event, bool) {
	e, ok := s.events[id]
	if !ok || e.DeletedAt != nil {
		return nil, false
	}
	return e, true
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.live(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyEvent(e), nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []*domain.Event
	for _, e := range r.s.events {
		if e.DeletedAt != nil {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.OrganizerID != 0 && e.OrganizerID != filter.OrganizerID {
			continue
		}
		matched = append(matched, copyEvent(e))
	}
	out := page(matched, params, func(a, b *domain.Event) bool {
		if a.Date != b.Date {
			return dateBefore(a.Date, b.Date)
		}
		if a.TimeStart != b.TimeStart {
			return a.TimeStart.Before(b.TimeStart)
		}
		return a.ID < b.ID
	})
	return out, len(matched), nil
}

func dateBefore(a, b domain.Date) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Month != b.Month {
		return a.Month < b.Month
	}
	return a.Day < b.Day
}

func (r *eventRepository) UpdateDetails(ctx context.Context, id int64, details domain.EventDetails, updatedAt time.Time) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.live(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.EventDetails = details
	e.UpdatedAt = updatedAt
	return copyEvent(e), nil
}

func (r *eventRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.live(id)
	if !ok {
		return domain.ErrNotFound
	}
	for _, t := range r.s.tickets {
		if t.EventID == id && t.Status == domain.TicketPurchased {
			return domain.ErrConflict
		}
	}
	e.DeletedAt = &at
	e.UpdatedAt = at
	return nil
}

func (r *eventRepository) Availability(ctx context.Context, id int64) (*domain.Availability, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.live(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Availability{EventID: e.ID, Total: e.TotalTickets, Available: e.AvailableTickets}, nil
}

func (r *eventRepository) MaxID(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return maxKey(r.s.events), nil
}
