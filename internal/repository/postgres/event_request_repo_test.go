package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"campusbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewedAt = time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC)

func addRequestRow(rows *sqlmock.Rows, id int64, status string, reviewerID, eventID, reviewed any) *sqlmock.Rows {
	return rows.AddRow(
		id, "Robotics Expo", "Student robotics showcase", "https://img.example.edu/expo.png",
		"2026-11-05", "18:00:00", "20:30:00", "Main Hall", "tech", "12.50",
		50, int64(21), status, "", reviewerID, eventID, reviewed, created, created,
	)
}

func TestEventRequestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	req := &domain.PendingEvent{
		ID:           9,
		EventDetails: sampleDetails(),
		TotalTickets: 50,
		RequesterID:  21,
		Status:       domain.RequestPending,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	mock.ExpectExec(`INSERT INTO pending_events`).
		WithArgs(int64(9), "Robotics Expo", sqlmock.AnyArg(), sqlmock.AnyArg(), "2026-11-05", "18:00:00", "20:30:00",
			"Main Hall", "tech", "12.50", 50, int64(21), "pending", "", created, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewEventRequestRepository(db).Create(context.Background(), req))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRequestRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM pending_events\s+WHERE id = \$1`).WithArgs(int64(9)).
		WillReturnRows(addRequestRow(sqlmock.NewRows(requestCols), 9, "approved", int64(1), int64(40), reviewedAt))
	mock.ExpectQuery(`FROM pending_events`).WithArgs(int64(10)).WillReturnError(sql.ErrNoRows)

	repo := NewEventRequestRepository(db)
	got, err := repo.GetByID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestApproved, got.Status)
	require.NotNil(t, got.ReviewerID)
	assert.Equal(t, int64(1), *got.ReviewerID)
	require.NotNil(t, got.EventID)
	assert.Equal(t, int64(40), *got.EventID)
	require.NotNil(t, got.ReviewedAt)
	assert.Equal(t, sampleDetails(), got.EventDetails)

	_, err = repo.GetByID(ctx, 10)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRequestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM pending_events WHERE status = \$1`).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM pending_events WHERE status = \$1\s+ORDER BY created_at ASC, id ASC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("pending", 20, 0).
		WillReturnRows(addRequestRow(sqlmock.NewRows(requestCols), 9, "pending", nil, nil, nil))

	got, total, err := NewEventRequestRepository(db).List(context.Background(),
		domain.EventRequestFilter{Status: domain.RequestPending},
		domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].ReviewerID)
	assert.Nil(t, got[0].EventID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRequestRepository_Approve(t *testing.T) {
	ctx := context.Background()
	outcome := domain.ReviewOutcome{Status: domain.RequestApproved, ReviewerID: 1, AdminNotes: "ok", ReviewedAt: reviewedAt}

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "inserts event and approves",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO events`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`UPDATE pending_events\s+SET status = \$2.*WHERE id = \$1 AND status = 'pending'`).
					WithArgs(int64(9), "approved", int64(1), "ok", reviewedAt, int64(40)).
					WillReturnRows(addRequestRow(sqlmock.NewRows(requestCols), 9, "approved", int64(1), int64(40), reviewedAt))
				mock.ExpectCommit()
			},
		},
		{
			name: "already reviewed rolls back the event",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO events`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`UPDATE pending_events`).WillReturnError(sql.ErrNoRows)
				mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM pending_events`).WithArgs(int64(9)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				mock.ExpectRollback()
			},
			errIs: domain.ErrInvalidStateTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRequestRepository(db).Approve(ctx, 9, outcome, sampleEvent(40))
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.RequestApproved, got.Status)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRequestRepository_Reject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	outcome := domain.ReviewOutcome{Status: domain.RequestRejected, ReviewerID: 1, AdminNotes: "clashes with finals", ReviewedAt: reviewedAt}
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE pending_events`).
		WithArgs(int64(9), "rejected", int64(1), "clashes with finals", reviewedAt, nil).
		WillReturnRows(addRequestRow(sqlmock.NewRows(requestCols), 9, "rejected", int64(1), nil, reviewedAt))
	mock.ExpectCommit()

	got, err := NewEventRequestRepository(db).Reject(context.Background(), 9, outcome)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestRejected, got.Status)
	assert.Nil(t, got.EventID)
	require.NoError(t, mock.ExpectationsWereMet())
}
