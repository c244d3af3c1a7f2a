package http

import (
	"log/slog"
	"net/http"

	"campusbooking/internal/delivery/http/controllers"
	"campusbooking/internal/delivery/http/helpers"
	"campusbooking/internal/delivery/http/middleware"
	"campusbooking/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterDeps holds the controllers and auth dependencies served by NewRouter.
type RouterDeps struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	AllowedOrigins []string

	Auth          *controllers.AuthController
	Events        *controllers.EventController
	EventRequests *controllers.EventRequestController
	Tickets       *controllers.TicketController
}

// NewRouter initializes the HTTP router with all application routes wrapped in
// request id, logging, panic recovery and CORS middleware.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(d.Verifier, d.Logger)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth
	mux.HandleFunc("POST /auth/signup", d.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", d.Auth.Login)

	// Event catalog
	mux.HandleFunc("GET /events", d.Events.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", d.Events.GetEventByID)
	mux.HandleFunc("POST /events", auth(d.Events.CreateEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(d.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(d.Events.DeleteEvent))

	// Booking
	mux.HandleFunc("GET /events/{eventID}/availability", d.Tickets.GetAvailability)
	mux.HandleFunc("POST /events/{eventID}/tickets", auth(d.Tickets.PurchaseTicket))
	mux.HandleFunc("GET /tickets/me", auth(d.Tickets.ListMyTickets))
	mux.HandleFunc("GET /tickets/code/{code}", auth(d.Tickets.GetTicketByCode))
	mux.HandleFunc("GET /tickets/{ticketID}", auth(d.Tickets.GetTicket))
	mux.HandleFunc("POST /tickets/{ticketID}/cancel", auth(d.Tickets.CancelTicket))
	mux.HandleFunc("POST /tickets/{ticketID}/redeem", auth(d.Tickets.RedeemTicket))

	// Event request pipeline
	mux.HandleFunc("POST /event-requests", auth(d.EventRequests.SubmitEventRequest))
	mux.HandleFunc("GET /event-requests", auth(d.EventRequests.ListEventRequests))
	mux.HandleFunc("GET /event-requests/{requestID}", auth(d.EventRequests.GetEventRequest))
	mux.HandleFunc("POST /event-requests/{requestID}/review", auth(d.EventRequests.ReviewEventRequest))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.RequestID(middleware.LoggingMiddleware(d.Logger, middleware.Recover(d.Logger, middleware.CORS(d.AllowedOrigins, mux))))
}
