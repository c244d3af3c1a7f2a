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

type eventRequestService struct {
	requestRepo    domain.EventRequestRepository
	userRepo       domain.UserRepository
	identity       domain.IdentityProvider
	ids            domain.IDAllocator
	policy         domain.OrganizerPolicy
	publisher      domain.Publisher
	emailService   domain.EmailService
	reviewLocks    *inventory.Locker
	contextTimeout time.Duration
	logger         *slog.Logger
}

// NewEventRequestService returns the event request pipeline. policy decides
// who organizes approved events.
func NewEventRequestService(
	requestRepo domain.EventRequestRepository,
	userRepo domain.UserRepository,
	identity domain.IdentityProvider,
	ids domain.IDAllocator,
	policy domain.OrganizerPolicy,
	publisher domain.Publisher,
	emailService domain.EmailService,
	timeout time.Duration,
	logger *slog.Logger,
) domain.EventRequestService {
	if !policy.Valid() {
		policy = domain.OrganizerReviewer
	}
	return &eventRequestService{
		requestRepo:    requestRepo,
		userRepo:       userRepo,
		identity:       identity,
		ids:            ids,
		policy:         policy,
		publisher:      publisher,
		emailService:   emailService,
		reviewLocks:    inventory.NewLocker(),
		contextTimeout: timeout,
		logger:         logger,
	}
}

func (s *eventRequestService) Submit(ctx context.Context, requesterID int64, details domain.EventDetails, totalTickets int) (*domain.PendingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.identity.UserExists(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("check requester: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	details = details.Normalize()
	if problems := domain.ValidateEventRequest(details, totalTickets); len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}

	id, err := s.ids.Next(ctx, domain.CategoryPendingEvent)
	if err != nil {
		return nil, fmt.Errorf("allocate request id: %w", err)
	}
	now := time.Now().UTC()
	req := &domain.PendingEvent{
		ID:           id,
		EventDetails: details,
		TotalTickets: totalTickets,
		RequesterID:  requesterID,
		Status:       domain.RequestPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create event request: %w", err)
	}
	s.logger.Info("event request submitted", "request_id", id, "requester_id", requesterID)
	return req, nil
}

// Review approves or rejects a pending request. Approval creates the event in
// the same transaction that closes the request.
func (s *eventRequestService) Review(ctx context.Context, requestID int64, decision domain.ReviewDecision, reviewerID int64, adminNotes string) (*domain.PendingEvent, *domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	role, err := actorRole(ctx, s.identity, reviewerID)
	if err != nil {
		return nil, nil, err
	}
	if !role.IsPrivileged() {
		return nil, nil, domain.ErrForbidden
	}
	status, ok := decision.Status()
	if !ok {
		return nil, nil, domain.NewValidationError(fmt.Sprintf("decision must be %q or %q", domain.DecisionApprove, domain.DecisionReject))
	}

	req, event, err := s.review(ctx, requestID, status, reviewerID, adminNotes)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("event request reviewed", "request_id", requestID, "status", req.Status, "reviewer_id", reviewerID)
	s.announce(ctx, req, event)
	return req, event, nil
}

func (s *eventRequestService) review(ctx context.Context, requestID int64, status domain.RequestStatus, reviewerID int64, adminNotes string) (*domain.PendingEvent, *domain.Event, error) {
	unlock, err := s.reviewLocks.Lock(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event request: %w", err)
	}
	if !req.Status.CanTransitionTo(status) {
		return nil, nil, domain.ErrInvalidStateTransition
	}

	now := time.Now().UTC()
	outcome := domain.ReviewOutcome{Status: status, ReviewerID: reviewerID, AdminNotes: adminNotes, ReviewedAt: now}

	if status == domain.RequestRejected {
		updated, err := s.requestRepo.Reject(ctx, requestID, outcome)
		if err != nil {
			return nil, nil, passThrough("reject event request", err)
		}
		return updated, nil, nil
	}

	eventID, err := s.ids.Next(ctx, domain.CategoryEvent)
	if err != nil {
		return nil, nil, fmt.Errorf("allocate event id: %w", err)
	}
	event := domain.NewEvent(req.EventDetails, req.TotalTickets, s.policy.Organizer(req, reviewerID), now)
	event.ID = eventID
	updated, err := s.requestRepo.Approve(ctx, requestID, outcome, event)
	if err != nil {
		return nil, nil, passThrough("approve event request", err)
	}
	return updated, event, nil
}

// announce publishes the review and emails the requester. Failures are logged only.
func (s *eventRequestService) announce(ctx context.Context, req *domain.PendingEvent, event *domain.Event) {
	n := domain.Notification{
		Type:       domain.NotifyRequestReviewed,
		OccurredAt: req.UpdatedAt,
		RequestID:  req.ID,
		UserID:     req.RequesterID,
		Status:     string(req.Status),
	}
	if event != nil {
		n.EventID = event.ID
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Error("publish review notification", "request_id", req.ID, "error", err)
	}

	requester, err := s.userRepo.GetByID(ctx, req.RequesterID)
	if err != nil {
		s.logger.Error("load requester for review email", "request_id", req.ID, "error", err)
		return
	}
	data := &domain.ReviewOutcomeEmailData{
		Email:      requester.Email,
		Name:       requester.Name,
		Title:      req.Title,
		Approved:   req.Status == domain.RequestApproved,
		AdminNotes: req.AdminNotes,
		EventID:    n.EventID,
	}
	if err := s.emailService.SendReviewOutcome(ctx, data); err != nil {
		s.logger.Error("send review outcome email", "request_id", req.ID, "error", err)
	}
}

func (s *eventRequestService) Get(ctx context.Context, requestID, callerID int64) (*domain.PendingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event request: %w", err)
	}
	if req.RequesterID == callerID {
		return req, nil
	}
	role, err := actorRole(ctx, s.identity, callerID)
	if err != nil {
		return nil, err
	}
	if !role.IsPrivileged() {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

func (s *eventRequestService) List(ctx context.Context, callerID int64, filter domain.EventRequestFilter, params domain.PaginationParams) ([]*domain.PendingEvent, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	role, err := actorRole(ctx, s.identity, callerID)
	if err != nil {
		return nil, 0, err
	}
	if !role.IsPrivileged() {
		filter.RequesterID = callerID
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.NewValidationError(fmt.Sprintf("unknown status %q", filter.Status))
	}
	reqs, total, err := s.requestRepo.List(ctx, filter, params.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list event requests: %w", err)
	}
	if reqs == nil {
		reqs = []*domain.PendingEvent{}
	}
	return reqs, total, nil
}

// passThrough returns domain errors unchanged and wraps everything else with op.
func passThrough(op string, err error) error {
	for _, sentinel := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidStateTransition,
		domain.ErrOutOfInventory,
		domain.ErrConflict,
		domain.ErrForbidden,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
