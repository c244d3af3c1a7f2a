package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campusbooking/internal/domain"
	"campusbooking/internal/inventory"
)

// maxCodeAttempts bounds the retries after a ticket code collision.
const maxCodeAttempts = 5

type bookingService struct {
	ticketRepo     domain.TicketRepository
	eventRepo      domain.EventRepository
	identity       domain.IdentityProvider
	ids            domain.IDAllocator
	locker         *inventory.Locker
	publisher      domain.Publisher
	contextTimeout time.Duration
	logger         *slog.Logger
}

// NewBookingService returns the ticket booking engine. All inventory changes
// of one event run under locker's lock for that event.
func NewBookingService(
	ticketRepo domain.TicketRepository,
	eventRepo domain.EventRepository,
	identity domain.IdentityProvider,
	ids domain.IDAllocator,
	locker *inventory.Locker,
	publisher domain.Publisher,
	timeout time.Duration,
	logger *slog.Logger,
) domain.BookingService {
	return &bookingService{
		ticketRepo:     ticketRepo,
		eventRepo:      eventRepo,
		identity:       identity,
		ids:            ids,
		locker:         locker,
		publisher:      publisher,
		contextTimeout: timeout,
		logger:         logger,
	}
}

func (s *bookingService) Purchase(ctx context.Context, eventID, userID int64) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.identity.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	ticket, err := s.purchaseLocked(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket purchased", "ticket_id", ticket.ID, "event_id", eventID, "user_id", userID)
	s.notify(ctx, domain.Notification{
		Type:       domain.NotifyTicketPurchased,
		OccurredAt: ticket.PurchaseDate,
		TicketID:   ticket.ID,
		EventID:    eventID,
		UserID:     userID,
		Status:     string(ticket.Status),
	})
	return ticket, nil
}

func (s *bookingService) purchaseLocked(ctx context.Context, eventID, userID int64) (*domain.Ticket, error) {
	unlock, err := s.locker.Lock(ctx, eventID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		id, err := s.ids.Next(ctx, domain.CategoryTicket)
		if err != nil {
			return nil, fmt.Errorf("allocate ticket id: %w", err)
		}
		now := time.Now().UTC()
		ticket := &domain.Ticket{
			ID:           id,
			EventID:      eventID,
			UserID:       userID,
			Code:         domain.FormatTicketCode(eventID, id),
			Status:       domain.TicketPurchased,
			PurchaseDate: now,
			UpdatedAt:    now,
		}
		err = s.ticketRepo.Purchase(ctx, ticket)
		switch {
		case err == nil:
			return ticket, nil
		case errors.Is(err, domain.ErrDuplicateTicketCode):
			s.logger.Warn("ticket code collision, retrying", "code", ticket.Code, "attempt", attempt)
		case errors.Is(err, domain.ErrOutOfInventory):
			s.logger.Info("purchase rejected, event sold out", "event_id", eventID, "user_id", userID)
			return nil, domain.ErrOutOfInventory
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrNotFound
		default:
			return nil, fmt.Errorf("purchase ticket: %w", err)
		}
	}
	return nil, fmt.Errorf("purchase ticket: no free code after %d attempts", maxCodeAttempts)
}

// Cancel returns a purchased ticket's unit to its event. Only the holder or an admin may cancel.
func (s *bookingService) Cancel(ctx context.Context, ticketID, actorID int64) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != actorID {
		role, err := actorRole(ctx, s.identity, actorID)
		if err != nil {
			return nil, err
		}
		if !role.IsPrivileged() {
			return nil, domain.ErrForbidden
		}
	}
	if !ticket.Status.CanTransitionTo(domain.TicketCancelled) {
		return nil, domain.ErrInvalidStateTransition
	}

	unlock, err := s.locker.Lock(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.ticketRepo.Cancel(ctx, ticketID, time.Now().UTC())
	unlock()
	if err != nil {
		return nil, passThrough("cancel ticket", err)
	}

	s.logger.Info("ticket cancelled", "ticket_id", ticketID, "event_id", cancelled.EventID, "actor_id", actorID)
	s.notify(ctx, domain.Notification{
		Type:       domain.NotifyTicketCancelled,
		OccurredAt: cancelled.UpdatedAt,
		TicketID:   cancelled.ID,
		EventID:    cancelled.EventID,
		UserID:     cancelled.UserID,
		Status:     string(cancelled.Status),
	})
	return cancelled, nil
}

// Redeem marks a ticket used at the door. Only the event organizer or an admin may redeem.
func (s *bookingService) Redeem(ctx context.Context, ticketID, actorID int64) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeStaff(ctx, ticket, actorID); err != nil {
		return nil, err
	}
	if !ticket.Status.CanTransitionTo(domain.TicketUsed) {
		return nil, domain.ErrInvalidStateTransition
	}

	unlock, err := s.locker.Lock(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	used, err := s.ticketRepo.Redeem(ctx, ticketID, time.Now().UTC())
	unlock()
	if err != nil {
		return nil, passThrough("redeem ticket", err)
	}
	s.logger.Info("ticket redeemed", "ticket_id", ticketID, "event_id", used.EventID, "actor_id", actorID)
	return used, nil
}

func (s *bookingService) Availability(ctx context.Context, eventID int64) (*domain.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, err := s.eventRepo.Availability(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get availability: %w", err)
	}
	return a, nil
}

// GetTicket returns a ticket to its holder, the event organizer or an admin.
func (s *bookingService) GetTicket(ctx context.Context, ticketID, actorID int64) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID == actorID {
		return ticket, nil
	}
	if err := s.authorizeStaff(ctx, ticket, actorID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetTicketByCode looks a ticket up by its printed code, e.g. at check-in.
func (s *bookingService) GetTicketByCode(ctx context.Context, code string, actorID int64) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ticket, err := s.ticketRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket by code: %w", err)
	}
	if ticket.UserID == actorID {
		return ticket, nil
	}
	if err := s.authorizeStaff(ctx, ticket, actorID); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *bookingService) ListUserTickets(ctx context.Context, userID int64) ([]*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tickets, err := s.ticketRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	if tickets == nil {
		tickets = []*domain.Ticket{}
	}
	return tickets, nil
}

func (s *bookingService) getTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return ticket, nil
}

// authorizeStaff allows the organizer of the ticket's event and admins.
func (s *bookingService) authorizeStaff(ctx context.Context, ticket *domain.Ticket, actorID int64) error {
	event, err := s.eventRepo.GetByID(ctx, ticket.EventID)
	switch {
	case err == nil:
		if event.OrganizerID == actorID {
			return nil
		}
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("get event: %w", err)
	}
	role, err := actorRole(ctx, s.identity, actorID)
	if err != nil {
		return err
	}
	if !role.IsPrivileged() {
		return domain.ErrForbidden
	}
	return nil
}

func (s *bookingService) notify(ctx context.Context, n domain.Notification) {
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Error("publish notification", "type", n.Type, "ticket_id", n.TicketID, "error", err)
	}
}
