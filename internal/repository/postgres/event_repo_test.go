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

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events \(id, title, description`).
					WithArgs(int64(3), "Robotics Expo", "Student robotics showcase", "https://img.example.edu/expo.png",
						"2026-11-05", "18:00:00", "20:30:00", "Main Hall", "tech", "12.50",
						100, 100, int64(7), created, created).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).Create(ctx, sampleEvent(3))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		errIs   error
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, .* FROM events\s+WHERE id = \$1 AND deleted_at IS NULL`).
					WithArgs(int64(3)).
					WillReturnRows(addEventRow(sqlmock.NewRows(eventCols), 3, 42))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events`).WithArgs(int64(3)).WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRepository(db).GetByID(ctx, 3)
			if tt.wantErr {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(3), got.ID)
			assert.Equal(t, sampleDetails(), got.EventDetails)
			assert.Equal(t, 100, got.TotalTickets)
			assert.Equal(t, 42, got.AvailableTickets)
			assert.Equal(t, int64(7), got.OrganizerID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE deleted_at IS NULL AND category = \$1 AND organizer_id = \$2`).
		WithArgs("tech", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	rows := sqlmock.NewRows(eventCols)
	addEventRow(rows, 4, 10)
	addEventRow(rows, 5, 0)
	mock.ExpectQuery(`FROM events WHERE deleted_at IS NULL AND category = \$1 AND organizer_id = \$2\s+ORDER BY date ASC, time_start ASC, id ASC\s+LIMIT \$3 OFFSET \$4`).
		WithArgs("tech", int64(7), 2, 2).
		WillReturnRows(rows)

	events, total, err := NewEventRepository(db).List(ctx,
		domain.EventFilter{Category: "tech", OrganizerID: 7},
		domain.PaginationParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, events, 2)
	assert.Equal(t, int64(4), events[0].ID)
	assert.Equal(t, 0, events[1].AvailableTickets)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_UpdateDetails(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`UPDATE events\s+SET title = \$2.*WHERE id = \$1 AND deleted_at IS NULL\s+RETURNING`).
		WithArgs(int64(3), "Robotics Expo", sqlmock.AnyArg(), sqlmock.AnyArg(), "2026-11-05", "18:00:00", "20:30:00",
			"Main Hall", "tech", "12.50", at).
		WillReturnRows(addEventRow(sqlmock.NewRows(eventCols), 3, 99))

	got, err := NewEventRepository(db).UpdateDetails(ctx, 3, sampleDetails(), at)
	require.NoError(t, err)
	assert.Equal(t, 99, got.AvailableTickets)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "deleted",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT id FROM events WHERE id = \$1 AND deleted_at IS NULL FOR UPDATE`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
				mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM tickets`).WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec(`UPDATE events SET deleted_at = \$2`).
					WithArgs(int64(3), at).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "live tickets conflict",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
				mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM tickets`).WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				mock.ExpectRollback()
			},
			errIs: domain.ErrConflict,
		},
		{
			name: "missing event",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(3)).WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			errIs: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).SoftDelete(ctx, 3, at)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Availability(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, total_tickets, available_tickets\s+FROM events`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_tickets", "available_tickets"}).AddRow(int64(3), 100, 37))
	mock.ExpectQuery(`SELECT id, total_tickets, available_tickets`).
		WithArgs(int64(4)).
		WillReturnError(sql.ErrNoRows)

	repo := NewEventRepository(db)
	got, err := repo.Availability(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, &domain.Availability{EventID: 3, Total: 100, Available: 37}, got)

	_, err = repo.Availability(ctx, 4)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_MaxID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(id\), 0\) FROM events`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(58)))

	id, err := NewEventRepository(db).MaxID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(58), id)
}
