package memory

import (
	"context"

	"campusbooking/internal/domain"
)

type eventRequestRepository struct {
	s *Store
}

func NewEventRequestRepository(s *Store) domain.EventRequestRepository {
	return &eventRequestRepository{s: s}
}

func (r *eventRequestRepository) Create(ctx context.Context, p *domain.PendingEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[p.ID]; ok {
		return domain.ErrConflict
	}
	r.s.requests[p.ID] = copyRequest(p)
	return nil
}

func (r *eventRequestRepository) GetByID(ctx context.Context, id int64) (*domain.PendingEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyRequest(p), nil
}

func (r *eventRequestRepository) List(ctx context.Context, filter domain.EventRequestFilter, params domain.PaginationParams) ([]*domain.PendingEvent, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []*domain.PendingEvent
	for _, p := range r.s.requests {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.RequesterID != 0 && p.RequesterID != filter.RequesterID {
			continue
		}
		matched = append(matched, copyRequest(p))
	}
	out := page(matched, params, func(a, b *domain.PendingEvent) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, len(matched), nil
}

func (r *eventRequestRepository) Approve(ctx context.Context, id int64, outcome domain.ReviewOutcome, event *domain.Event) (*domain.PendingEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, err := r.pending(id)
	if err != nil {
		return nil, err
	}
	if _, ok := r.s.events[event.ID]; ok {
		return nil, domain.ErrConflict
	}
	r.s.events[event.ID] = copyEvent(event)
	eventID := event.ID
	apply(p, outcome, &eventID)
	return copyRequest(p), nil
}

func (r *eventRequestRepository) Reject(ctx context.Context, id int64, outcome domain.ReviewOutcome) (*domain.PendingEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, err := r.pending(id)
	if err != nil {
		return nil, err
	}
	apply(p, outcome, nil)
	return copyRequest(p), nil
}

func (r *eventRequestRepository) pending(id int64) (*domain.PendingEvent, error) {
	p, ok := r.s.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Status != domain.RequestPending {
		return nil, domain.ErrInvalidStateTransition
	}
	return p, nil
}

func apply(p *domain.PendingEvent, o domain.ReviewOutcome, eventID *int64) {
	reviewer := o.ReviewerID
	at := o.ReviewedAt
	p.Status = o.Status
	p.ReviewerID = &reviewer
	p.AdminNotes = o.AdminNotes
	p.ReviewedAt = &at
	p.EventID = eventID
	p.UpdatedAt = at
}

func (r *eventRequestRepository) MaxID(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return maxKey(r.s.requests), nil
}
