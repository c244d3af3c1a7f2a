package postgres

import (
	"time"

	"campusbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

var (
	created = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	updated = time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
)

func sampleDetails() domain.EventDetails {
	return domain.EventDetails{
		Title:       "Robotics Expo",
		Description: "Student robotics showcase",
		ImageURL:    "https://img.example.edu/expo.png",
		Date:        domain.Date{Year: 2026, Month: time.November, Day: 5},
		TimeStart:   domain.NewTimeOfDay(18, 0),
		TimeEnd:     domain.NewTimeOfDay(20, 30),
		Location:    "Main Hall",
		Category:    "tech",
		Price:       1250,
	}
}

func sampleEvent(id int64) *domain.Event {
	e := domain.NewEvent(sampleDetails(), 100, 7, created)
	e.ID = id
	return e
}

var eventCols = []string{
	"id", "title", "description", "image_url", "date", "time_start", "time_end", "location", "category", "price",
	"total_tickets", "available_tickets", "organizer_id", "created_at", "updated_at",
}

func addEventRow(rows *sqlmock.Rows, id int64, available int) *sqlmock.Rows {
	return rows.AddRow(
		id, "Robotics Expo", "Student robotics showcase", "https://img.example.edu/expo.png",
		"2026-11-05", "18:00:00", "20:30:00", "Main Hall", "tech", "12.50",
		100, available, int64(7), created, updated,
	)
}

var ticketCols = []string{"id", "event_id", "user_id", "ticket_code", "status", "purchase_date", "updated_at"}

var requestCols = []string{
	"id", "title", "description", "image_url", "date", "time_start", "time_end", "location", "category", "price",
	"total_tickets", "requester_id", "status", "admin_notes", "reviewer_id", "event_id", "reviewed_at", "created_at", "updated_at",
}
