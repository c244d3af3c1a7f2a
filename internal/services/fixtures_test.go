package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"campusbooking/internal/domain"
	"campusbooking/internal/ids"
	"campusbooking/internal/inventory"
	"campusbooking/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const testTimeout = 5 * time.Second

// fakePublisher records notifications.
type fakePublisher struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, n domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return f.err
}

func (f *fakePublisher) types() []domain.NotificationType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.NotificationType, len(f.sent))
	for i, n := range f.sent {
		out[i] = n.Type
	}
	return out
}

// fakeEmailService records review outcome emails.
type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.ReviewOutcomeEmailData
	err  error
}

func (f *fakeEmailService) SendReviewOutcome(ctx context.Context, data *domain.ReviewOutcomeEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return f.err
}

// collidingTickets reports a code collision for the first n purchases.
type collidingTickets struct {
	domain.TicketRepository
	n int
}

func (c *collidingTickets) Purchase(ctx context.Context, t *domain.Ticket) error {
	if c.n > 0 {
		c.n--
		return domain.ErrDuplicateTicketCode
	}
	return c.TicketRepository.Purchase(ctx, t)
}

// world wires every service over one memory store.
type world struct {
	store     *memory.Store
	users     domain.UserRepository
	events    domain.EventRepository
	tickets   domain.TicketRepository
	requests  domain.EventRequestRepository
	ids       *ids.Allocator
	identity  domain.IdentityProvider
	locker    *inventory.Locker
	publisher *fakePublisher
	emails    *fakeEmailService

	catalog  domain.EventService
	booking  domain.BookingService
	pipeline domain.EventRequestService
}

func newWorld(t *testing.T) *world {
	t.Helper()
	s := memory.NewStore()
	w := &world{
		store:     s,
		users:     memory.NewUserRepository(s),
		events:    memory.NewEventRepository(s),
		tickets:   memory.NewTicketRepository(s),
		requests:  memory.NewEventRequestRepository(s),
		ids:       ids.NewAllocator(),
		locker:    inventory.NewLocker(),
		publisher: &fakePublisher{},
		emails:    &fakeEmailService{},
	}
	w.identity = NewIdentityProvider(w.users)
	w.catalog = NewEventService(w.events, w.identity, w.ids, w.locker, testTimeout, testLogger)
	w.booking = NewBookingService(w.tickets, w.events, w.identity, w.ids, w.locker, w.publisher, testTimeout, testLogger)
	w.pipeline = NewEventRequestService(w.requests, w.users, w.identity, w.ids, domain.OrganizerReviewer, w.publisher, w.emails, testTimeout, testLogger)
	return w
}

func (w *world) addUser(t *testing.T, role domain.Role) int64 {
	t.Helper()
	ctx := context.Background()
	id, err := w.ids.Next(ctx, domain.CategoryUser)
	require.NoError(t, err)
	u := domain.NewUser("User", fmt.Sprintf("user%d@campus.edu", id), "hash", role, time.Now())
	u.ID = id
	require.NoError(t, w.users.Create(ctx, u))
	return id
}

func (w *world) addEvent(t *testing.T, organizerID int64, total int) *domain.Event {
	t.Helper()
	e, err := w.catalog.CreateEvent(context.Background(), organizerID, validDetails(), total)
	require.NoError(t, err)
	return e
}

func (w *world) available(t *testing.T, eventID int64) int {
	t.Helper()
	a, err := w.booking.Availability(context.Background(), eventID)
	require.NoError(t, err)
	return a.Available
}

func validDetails() domain.EventDetails {
	return domain.EventDetails{
		Title:       "Spring Hackathon",
		Description: "24h hackathon",
		Date:        domain.Date{Year: 2026, Month: time.March, Day: 14},
		TimeStart:   domain.NewTimeOfDay(9, 0),
		TimeEnd:     domain.NewTimeOfDay(21, 0),
		Location:    "Engineering Building",
		Category:    "tech",
		Price:       0,
	}
}
