package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"campusbooking/internal/delivery/http/helpers"
	"campusbooking/internal/delivery/http/middleware"
	"campusbooking/internal/domain"
)

// SubmitEventRequest is the request body for POST /event-requests.
type SubmitEventRequest struct {
	EventDetailsRequest
}

// Validate implements Validator.
func (s SubmitEventRequest) Validate() []string {
	return domain.ValidateEventRequest(s.details(), s.TotalTickets)
}

// ReviewEventRequest is the request body for POST /event-requests/{requestID}/review.
type ReviewEventRequest struct {
	Decision   domain.ReviewDecision `json:"decision" enums:"approve,reject"`
	AdminNotes string                `json:"admin_notes"`
}

// Validate implements Validator.
func (r ReviewEventRequest) Validate() []string {
	if _, ok := r.Decision.Status(); !ok {
		return []string{`decision must be "approve" or "reject"`}
	}
	return nil
}

// PendingEventSuccessResponse is the success response envelope for endpoints returning one event request.
type PendingEventSuccessResponse struct {
	Data  *domain.PendingEvent `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ReviewResponse is the data payload for POST /event-requests/{requestID}/review (200).
// Event is set only when the request was approved.
type ReviewResponse struct {
	Request *domain.PendingEvent `json:"request"`
	Event   *domain.Event        `json:"event,omitempty"`
}

// ReviewSuccessResponse is the success response envelope for POST /event-requests/{requestID}/review (200).
type ReviewSuccessResponse struct {
	Data  ReviewResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventRequestsResponse is the data payload for GET /event-requests (200).
type ListEventRequestsResponse struct {
	Items      []*domain.PendingEvent `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventRequestsSuccessResponse is the success response envelope for GET /event-requests (200).
type ListEventRequestsSuccessResponse struct {
	Data  ListEventRequestsResponse `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

type EventRequestController struct {
	Logger  *slog.Logger
	Service domain.EventRequestService
}

func NewEventRequestController(logger *slog.Logger, svc domain.EventRequestService) *EventRequestController {
	return &EventRequestController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitEventRequest godoc
// @Summary Submit an event request
// @Description Any signed-in user can propose an event. The request waits in pending until an admin reviews it.
// @Tags event-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitEventRequest true "Proposed event"
// @Success 201 {object} controllers.PendingEventSuccessResponse "data contains the pending request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /event-requests [post]
func (c *EventRequestController) SubmitEventRequest(w http.ResponseWriter, r *http.Request) {
	var req SubmitEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	pending, err := c.Service.Submit(r.Context(), userID, req.details(), req.TotalTickets)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, pending)
}

// ReviewEventRequest godoc
// @Summary Review an event request
// @Description Approve or reject a pending request. Admin only. Approval creates the event in the same transaction.
// @Tags event-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestID path int true "Event request ID"
// @Param body body ReviewEventRequest true "Decision and optional notes"
// @Success 200 {object} controllers.ReviewSuccessResponse "data contains the request and, when approved, the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /event-requests/{requestID}/review [post]
func (c *EventRequestController) ReviewEventRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := helpers.PathID(w, r, "requestID")
	if !ok {
		return
	}
	var req ReviewEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	reviewed, event, err := c.Service.Review(r.Context(), requestID, req.Decision, userID, strings.TrimSpace(req.AdminNotes))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ReviewResponse{Request: reviewed, Event: event})
}

// GetEventRequest godoc
// @Summary Get an event request
// @Description Visible to its requester and to admins.
// @Tags event-requests
// @Produce json
// @Security BearerAuth
// @Param requestID path int true "Event request ID"
// @Success 200 {object} controllers.PendingEventSuccessResponse "data contains the request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /event-requests/{requestID} [get]
func (c *EventRequestController) GetEventRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := helpers.PathID(w, r, "requestID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	pending, err := c.Service.Get(r.Context(), requestID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, pending)
}

// ListEventRequests godoc
// @Summary List event requests
// @Description Admins see every request; everyone else sees only their own.
// @Tags event-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventRequestsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /event-requests [get]
func (c *EventRequestController) ListEventRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	filter := domain.EventRequestFilter{Status: domain.RequestStatus(strings.TrimSpace(r.URL.Query().Get("status")))}
	params := helpers.ParsePagination(r)
	items, total, err := c.Service.List(r.Context(), userID, filter, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	meta := helpers.NewPaginationMeta(params, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventRequestsResponse{Items: items, Pagination: meta})
}
