package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campusbooking/internal/delivery/http/helpers"
	"campusbooking/internal/delivery/http/middleware"
	"campusbooking/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// newRequest builds a request with an optional JSON body and path values given as name, value pairs.
func newRequest(method, target, body string, pathValues ...string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req
}

// asUser returns req authenticated as userID.
func asUser(req *http.Request, userID int64, role domain.Role) *http.Request {
	ctx := middleware.SetPrincipal(req.Context(), domain.Principal{UserID: userID, Role: role})
	return req.WithContext(ctx)
}

// decodeEnvelope decodes the response envelope and its data into data, when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	if data != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Error
}

func sampleEvent() *domain.Event {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Event{
		ID: 7,
		EventDetails: domain.EventDetails{
			Title:     "Fall Concert",
			Date:      domain.Date{Year: 2026, Month: time.November, Day: 5},
			TimeStart: domain.NewTimeOfDay(18, 0),
			TimeEnd:   domain.NewTimeOfDay(20, 30),
			Location:  "Main Hall",
			Category:  "music",
			Price:     1250,
		},
		TotalTickets:     100,
		AvailableTickets: 40,
		OrganizerID:      3,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err         error
	event       *domain.Event
	events      []*domain.Event
	total       int
	lastOrgID   int64
	lastDetails domain.EventDetails
	lastTotal   int
	lastPatch   domain.EventPatch
	lastActorID int64
	lastFilter  domain.EventFilter
	lastParams  domain.PaginationParams
}

func (f *fakeEventService) CreateEvent(ctx context.Context, organizerID int64, details domain.EventDetails, totalTickets int) (*domain.Event, error) {
	f.lastOrgID, f.lastDetails, f.lastTotal = organizerID, details, totalTickets
	return f.event, f.err
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, eventID, actorID int64, patch domain.EventPatch) (*domain.Event, error) {
	f.lastActorID, f.lastPatch = actorID, patch
	return f.event, f.err
}

func (f *fakeEventService) GetEventByID(ctx context.Context, eventID int64) (*domain.Event, error) {
	return f.event, f.err
}

func (f *fakeEventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastFilter, f.lastParams = filter, params
	return f.events, f.total, f.err
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, eventID, actorID int64) error {
	f.lastActorID = actorID
	return f.err
}

// fakeBookingService implements domain.BookingService for handler tests.
type fakeBookingService struct {
	err          error
	ticket       *domain.Ticket
	tickets      []*domain.Ticket
	availability *domain.Availability
	lastEventID  int64
	lastTicketID int64
	lastActorID  int64
	lastCode     string
	called       string
}

func (f *fakeBookingService) Purchase(ctx context.Context, eventID, userID int64) (*domain.Ticket, error) {
	f.called, f.lastEventID, f.lastActorID = "purchase", eventID, userID
	return f.ticket, f.err
}

func (f *fakeBookingService) Cancel(ctx context.Context, ticketID, actorID int64) (*domain.Ticket, error) {
	f.called, f.lastTicketID, f.lastActorID = "cancel", ticketID, actorID
	return f.ticket, f.err
}

func (f *fakeBookingService) Redeem(ctx context.Context, ticketID, actorID int64) (*domain.Ticket, error) {
	f.called, f.lastTicketID, f.lastActorID = "redeem", ticketID, actorID
	return f.ticket, f.err
}

func (f *fakeBookingService) Availability(ctx context.Context, eventID int64) (*domain.Availability, error) {
	f.lastEventID = eventID
	return f.availability, f.err
}

func (f *fakeBookingService) GetTicket(ctx context.Context, ticketID, actorID int64) (*domain.Ticket, error) {
	f.lastTicketID, f.lastActorID = ticketID, actorID
	return f.ticket, f.err
}

func (f *fakeBookingService) GetTicketByCode(ctx context.Context, code string, actorID int64) (*domain.Ticket, error) {
	f.lastCode, f.lastActorID = code, actorID
	return f.ticket, f.err
}

func (f *fakeBookingService) ListUserTickets(ctx context.Context, userID int64) ([]*domain.Ticket, error) {
	f.lastActorID = userID
	return f.tickets, f.err
}

// fakeEventRequestService implements domain.EventRequestService for handler tests.
type fakeEventRequestService struct {
	err          error
	pending      *domain.PendingEvent
	event        *domain.Event
	items        []*domain.PendingEvent
	total        int
	lastDecision domain.ReviewDecision
	lastNotes    string
	lastCallerID int64
	lastFilter   domain.EventRequestFilter
	lastTotal    int
}

func (f *fakeEventRequestService) Submit(ctx context.Context, requesterID int64, details domain.EventDetails, totalTickets int) (*domain.PendingEvent, error) {
	f.lastCallerID, f.lastTotal = requesterID, totalTickets
	return f.pending, f.err
}

func (f *fakeEventRequestService) Review(ctx context.Context, requestID int64, decision domain.ReviewDecision, reviewerID int64, adminNotes string) (*domain.PendingEvent, *domain.Event, error) {
	f.lastDecision, f.lastCallerID, f.lastNotes = decision, reviewerID, adminNotes
	return f.pending, f.event, f.err
}

func (f *fakeEventRequestService) Get(ctx context.Context, requestID, callerID int64) (*domain.PendingEvent, error) {
	f.lastCallerID = callerID
	return f.pending, f.err
}

func (f *fakeEventRequestService) List(ctx context.Context, callerID int64, filter domain.EventRequestFilter, params domain.PaginationParams) ([]*domain.PendingEvent, int, error) {
	f.lastCallerID, f.lastFilter = callerID, filter
	return f.items, f.total, f.err
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	err      error
	user     *domain.User
	token    string
	lastRole domain.Role
}

func (f *fakeAuthService) SignUp(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	f.lastRole = role
	return f.user, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return f.token, f.user, f.err
}

func (f *fakeAuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	return f.user, f.err
}
