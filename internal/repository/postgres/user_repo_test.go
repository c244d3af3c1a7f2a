package postgres

import (
	"context"
	"database/sql"
	"testing"

	"campusbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success lower-cases email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users \(id, name, email, credential_hash, role, created_at\)`).
					WithArgs(int64(21), "Alice", "alice@campus.edu", "hash", "student", created).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "unique violation returns ErrDuplicateEmail",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).WillReturnError(sql.ErrConnDone)
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
			u := domain.NewUser("Alice", "Alice@Campus.edu", "hash", domain.RoleStudent, created)
			u.ID = 21
			err = NewUserRepository(db).Create(ctx, u)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "name", "email", "credential_hash", "role", "created_at"}
	mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
		WithArgs("alice@campus.edu").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(21), "Alice", "alice@campus.edu", "hash", "faculty", created))
	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	repo := NewUserRepository(db)
	u, err := repo.GetByEmail(ctx, "  Alice@campus.edu ")
	require.NoError(t, err)
	assert.Equal(t, int64(21), u.ID)
	assert.Equal(t, domain.RoleFaculty, u.Role)

	_, err = repo.GetByID(ctx, 99)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
