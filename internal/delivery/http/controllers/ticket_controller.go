package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"campusbooking/internal/delivery/http/helpers"
	"campusbooking/internal/delivery/http/middleware"
	"campusbooking/internal/domain"
)

// TicketSuccessResponse is the success response envelope for endpoints returning one ticket.
type TicketSuccessResponse struct {
	Data  *domain.Ticket    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// TicketListSuccessResponse is the success response envelope for GET /tickets/me (200).
type TicketListSuccessResponse struct {
	Data  []*domain.Ticket  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AvailabilitySuccessResponse is the success response envelope for GET /events/{eventID}/availability (200).
type AvailabilitySuccessResponse struct {
	Data  *domain.Availability `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type TicketController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewTicketController(logger *slog.Logger, svc domain.BookingService) *TicketController {
	return &TicketController{
		Logger:  logger,
		Service: svc,
	}
}

// PurchaseTicket godoc
// @Summary Buy a ticket
// @Description Takes one ticket from the event's inventory for the caller. Returns 409 sold_out when none is left.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 201 {object} controllers.TicketSuccessResponse "data contains the new ticket"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: sold_out"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/tickets [post]
func (c *TicketController) PurchaseTicket(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	ticket, err := c.Service.Purchase(r.Context(), eventID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ticket)
}

// GetAvailability godoc
// @Summary Get ticket availability
// @Tags tickets
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.AvailabilitySuccessResponse "data contains total and available"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/availability [get]
func (c *TicketController) GetAvailability(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	a, err := c.Service.Availability(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, a)
}

// ListMyTickets godoc
// @Summary List my tickets
// @Description Returns every ticket of the caller, newest first, in any status.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.TicketListSuccessResponse "data contains the tickets"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/me [get]
func (c *TicketController) ListMyTickets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	tickets, err := c.Service.ListUserTickets(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tickets)
}

// GetTicket godoc
// @Summary Get a ticket
// @Description Visible to the holder, the event organizer and admins.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param ticketID path int true "Ticket ID"
// @Success 200 {object} controllers.TicketSuccessResponse "data contains the ticket"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/{ticketID} [get]
func (c *TicketController) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := helpers.PathID(w, r, "ticketID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	ticket, err := c.Service.GetTicket(r.Context(), ticketID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// GetTicketByCode godoc
// @Summary Look up a ticket by code
// @Description Used at check-in. Visible to the holder, the event organizer and admins.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param code path string true "Ticket code, e.g. TKT-000001-00000042"
// @Success 200 {object} controllers.TicketSuccessResponse "data contains the ticket"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/code/{code} [get]
func (c *TicketController) GetTicketByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	if code == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing code")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	ticket, err := c.Service.GetTicketByCode(r.Context(), code, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// CancelTicket godoc
// @Summary Cancel a ticket
// @Description Cancels a purchased ticket and returns its seat to the event. Only the holder or an admin can cancel.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param ticketID path int true "Ticket ID"
// @Success 200 {object} controllers.TicketSuccessResponse "data contains the cancelled ticket"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/{ticketID}/cancel [post]
func (c *TicketController) CancelTicket(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.Cancel)
}

// RedeemTicket godoc
// @Summary Redeem a ticket
// @Description Marks a purchased ticket as used. Only the event organizer or an admin can redeem.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param ticketID path int true "Ticket ID"
// @Success 200 {object} controllers.TicketSuccessResponse "data contains the used ticket"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/{ticketID}/redeem [post]
func (c *TicketController) RedeemTicket(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.Redeem)
}

func (c *TicketController) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, ticketID, actorID int64) (*domain.Ticket, error)) {
	ticketID, ok := helpers.PathID(w, r, "ticketID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	ticket, err := apply(r.Context(), ticketID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}
