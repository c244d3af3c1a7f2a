package memory

import (
	"context"
	"sort"
	"time"

	"campusbooking/internal/domain"
)

type ticketRepository struct {
	s *Store
}

func NewTicketRepository(s *Store) domain.TicketRepository {
	return &ticketRepository{s: s}
}

func (r *ticketRepository) Purchase(ctx context.Context, t *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.live(t.EventID)
	if !ok {
		return domain.ErrNotFound
	}
	if e.AvailableTickets <= 0 {
		return domain.ErrOutOfInventory
	}
	if _, taken := r.s.codes[t.Code]; taken {
		return domain.ErrDuplicateTicketCode
	}
	if _, taken := r.s.tickets[t.ID]; taken {
		return domain.ErrDuplicateTicketCode
	}
	e.AvailableTickets--
	e.UpdatedAt = t.PurchaseDate
	r.s.tickets[t.ID] = copyTicket(t)
	r.s.codes[t.Code] = t.ID
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyTicket(t), nil
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.codes[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyTicket(r.s.tickets[id]), nil
}

func (r *ticketRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Ticket, 0)
	for _, t := range r.s.tickets {
		if t.UserID == userID {
			out = append(out, copyTicket(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].PurchaseDate.After(out[j].PurchaseDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *ticketRepository) Cancel(ctx context.Context, id int64, at time.Time) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, err := r.transition(id, domain.TicketCancelled, at)
	if err != nil {
		return nil, err
	}
	if e, ok := r.s.events[t.EventID]; ok && e.AvailableTickets < e.TotalTickets {
		e.AvailableTickets++
		e.UpdatedAt = at
	}
	return copyTicket(t), nil
}

func (r *ticketRepository) Redeem(ctx context.Context, id int64, at time.Time) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, err := r.transition(id, domain.TicketUsed, at)
	if err != nil {
		return nil, err
	}
	return copyTicket(t), nil
}

func (r *ticketRepository) transition(id int64, to domain.TicketStatus, at time.Time) (*domain.Ticket, error) {
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !t.Status.CanTransitionTo(to) {
		return nil, domain.ErrInvalidStateTransition
	}
	t.Status = to
	t.UpdatedAt = at
	return t, nil
}

func (r *ticketRepository) MaxID(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return maxKey(r.s.tickets), nil
}
