package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Open connects to Postgres through lib/pq and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		credential_hash TEXT NOT NULL,
		role VARCHAR(20) NOT NULL CHECK (role IN ('admin', 'student', 'faculty')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		date DATE NOT NULL,
		time_start TIME NOT NULL,
		time_end TIME NOT NULL,
		location VARCHAR(255) NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		total_tickets INTEGER NOT NULL CHECK (total_tickets >= 0),
		available_tickets INTEGER NOT NULL CHECK (available_tickets >= 0 AND available_tickets <= total_tickets),
		organizer_id BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS pending_events (
		id BIGINT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		date DATE NOT NULL,
		time_start TIME NOT NULL,
		time_end TIME NOT NULL,
		location VARCHAR(255) NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		total_tickets INTEGER NOT NULL CHECK (total_tickets > 0),
		requester_id BIGINT NOT NULL REFERENCES users(id),
		status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
		admin_notes TEXT NOT NULL DEFAULT '',
		reviewer_id BIGINT REFERENCES users(id),
		event_id BIGINT REFERENCES events(id),
		reviewed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT PRIMARY KEY,
		event_id BIGINT NOT NULL REFERENCES events(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		ticket_code VARCHAR(32) NOT NULL UNIQUE,
		status VARCHAR(20) NOT NULL DEFAULT 'purchased' CHECK (status IN ('purchased', 'used', 'cancelled')),
		purchase_date TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_category ON events(category) WHERE deleted_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_events_organizer_id ON events(organizer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pending_events_status ON pending_events(status)`,
	`CREATE INDEX IF NOT EXISTS idx_pending_events_requester_id ON pending_events(requester_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_user_id ON tickets(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_event_status ON tickets(event_id, status)`,
}

// RunMigrations creates the schema if it does not exist yet.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// whereClause joins conditions into a WHERE clause. Empty when conds is empty.
func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func maxID(ctx context.Context, db *sql.DB, table string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM `+table).Scan(&id)
	return id, err
}
