package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"campusbooking/internal/delivery/http/helpers"
	"campusbooking/internal/delivery/http/middleware"
	"campusbooking/internal/domain"
)

// EventDetailsRequest holds the descriptive fields accepted when creating an
// event or submitting an event request.
type EventDetailsRequest struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	ImageURL     string           `json:"image_url"`
	Date         domain.Date      `json:"date" swaggertype:"string" example:"2026-11-05"`
	TimeStart    domain.TimeOfDay `json:"time_start" swaggertype:"string" example:"18:00"`
	TimeEnd      domain.TimeOfDay `json:"time_end" swaggertype:"string" example:"20:30"`
	Location     string           `json:"location"`
	Category     string           `json:"category"`
	Price        domain.Money     `json:"price" swaggertype:"string" example:"12.50"`
	TotalTickets int              `json:"total_tickets"`
}

func (e EventDetailsRequest) details() domain.EventDetails {
	return domain.EventDetails{
		Title:       e.Title,
		Description: e.Description,
		ImageURL:    e.ImageURL,
		Date:        e.Date,
		TimeStart:   e.TimeStart,
		TimeEnd:     e.TimeEnd,
		Location:    e.Location,
		Category:    e.Category,
		Price:       e.Price,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	EventDetailsRequest
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	return append(c.details().Validate(), domain.ValidateTotalTickets(c.TotalTickets, true)...)
}

// EventSuccessResponse is the success response envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Publish a bookable event directly. Only faculty and admins may organize; the caller becomes the organizer and available_tickets starts at total_tickets.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), userID, req.details(), req.TotalTickets)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEventsResponse is the data payload for GET /events (200).
type ListEventsResponse struct {
	Items      []*domain.Event        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListEvents godoc
// @Summary List events
// @Description Lists live events ordered by date and start time. Deleted events are never listed.
// @Tags events
// @Produce json
// @Param category query string false "Only events in this category"
// @Param organizer_id query int false "Only events organized by this user"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{Category: strings.TrimSpace(q.Get("category"))}
	if s := q.Get("organizer_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid organizer_id")
			return
		}
		filter.OrganizerID = id
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	meta := helpers.NewPaginationMeta(params, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Items: events, Pagination: meta})
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEventByID(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. All fields optional; omitted fields are unchanged.
// Ticket counts cannot be changed.
type UpdateEventRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	ImageURL    *string           `json:"image_url"`
	Date        *domain.Date      `json:"date" swaggertype:"string"`
	TimeStart   *domain.TimeOfDay `json:"time_start" swaggertype:"string"`
	TimeEnd     *domain.TimeOfDay `json:"time_end" swaggertype:"string"`
	Location    *string           `json:"location"`
	Category    *string           `json:"category"`
	Price       *domain.Money     `json:"price" swaggertype:"string"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	if u == (UpdateEventRequest{}) {
		return []string{"at least one field is required"}
	}
	return nil
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Updates descriptive fields. Only the organizer or an admin can update. Ticket counts are immutable; concurrent edits are last-writer-wins.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, userID, domain.EventPatch(req))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEventResponse is the data payload for DELETE /events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Soft-deletes an event. Only the organizer or an admin can delete. Fails with 409 while any ticket is still purchased.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data.status: deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}
