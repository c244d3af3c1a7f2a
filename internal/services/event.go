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

type eventService struct {
	eventRepo      domain.EventRepository
	identity       domain.IdentityProvider
	ids            domain.IDAllocator
	locker         *inventory.Locker
	contextTimeout time.Duration
	logger         *slog.Logger
}

// NewEventService returns the event catalog. locker must be the same Locker
// the booking service uses so deletes and purchases of one event serialize.
func NewEventService(
	eventRepo domain.EventRepository,
	identity domain.IdentityProvider,
	ids domain.IDAllocator,
	locker *inventory.Locker,
	timeout time.Duration,
	logger *slog.Logger,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		identity:       identity,
		ids:            ids,
		locker:         locker,
		contextTimeout: timeout,
		logger:         logger,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, organizerID int64, details domain.EventDetails, totalTickets int) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	role, err := s.identity.UserRole(ctx, organizerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get organizer role: %w", err)
	}
	if !role.CanOrganize() {
		return nil, domain.ErrForbidden
	}

	details = details.Normalize()
	problems := append(details.Validate(), domain.ValidateTotalTickets(totalTickets, true)...)
	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}

	id, err := s.ids.Next(ctx, domain.CategoryEvent)
	if err != nil {
		return nil, fmt.Errorf("allocate event id: %w", err)
	}
	event := domain.NewEvent(details, totalTickets, organizerID, time.Now().UTC())
	event.ID = id
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.logger.Info("event created", "event_id", event.ID, "organizer_id", organizerID, "total_tickets", totalTickets)
	return event, nil
}

func (s *eventService) GetEventByID(ctx context.Context, eventID int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, filter, params.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

// UpdateEvent applies patch to the descriptive fields. Concurrent edits are
// last-writer-wins; the inventory is never touched here.
func (s *eventService) UpdateEvent(ctx context.Context, eventID, actorID int64, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.authorizeOrganizer(ctx, eventID, actorID)
	if err != nil {
		return nil, err
	}
	merged := patch.Apply(event.EventDetails).Normalize()
	if problems := merged.Validate(); len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}
	updated, err := s.eventRepo.UpdateDetails(ctx, eventID, merged, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// DeleteEvent soft-deletes an event that has no purchased tickets left.
func (s *eventService) DeleteEvent(ctx context.Context, eventID, actorID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.authorizeOrganizer(ctx, eventID, actorID); err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, eventID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.eventRepo.SoftDelete(ctx, eventID, time.Now().UTC()); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info("event deleted", "event_id", eventID, "actor_id", actorID)
	return nil
}

// authorizeOrganizer loads the event and checks that actorID organizes it or is an admin.
func (s *eventService) authorizeOrganizer(ctx context.Context, eventID, actorID int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID == actorID {
		return event, nil
	}
	role, err := actorRole(ctx, s.identity, actorID)
	if err != nil {
		return nil, err
	}
	if !role.IsPrivileged() {
		return nil, domain.ErrForbidden
	}
	return event, nil
}
