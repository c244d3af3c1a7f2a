package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campusbooking/internal/domain"
)

const eventColumns = `id, title, description, image_url, date, time_start, time_end, location, category, price,
		total_tickets, available_tickets, organizer_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.ImageURL, &e.Date, &e.TimeStart, &e.TimeEnd, &e.Location, &e.Category, &e.Price,
		&e.TotalTickets, &e.AvailableTickets, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	_, err := r.DB.ExecContext(ctx, insertEventQuery, eventInsertArgs(e)...)
	return err
}

const insertEventQuery = `
		INSERT INTO events (id, title, description, image_url, date, time_start, time_end, location, category, price,
			total_tickets, available_tickets, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

func eventInsertArgs(e *domain.Event) []any {
	return []any{
		e.ID, e.Title, e.Description, e.ImageURL, e.Date, e.TimeStart, e.TimeEnd, e.Location, e.Category, e.Price,
		e.TotalTickets, e.AvailableTickets, e.OrganizerID, e.CreatedAt, e.UpdatedAt,
	}
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND deleted_at IS NULL
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	conds := []string{"deleted_at IS NULL"}
	var args []any
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.OrganizerID != 0 {
		args = append(args, filter.OrganizerID)
		conds = append(conds, fmt.Sprintf("organizer_id = $%d", len(args)))
	}
	where := whereClause(conds)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.PageSize, params.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM events%s
		ORDER BY date ASC, time_start ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, len(args)-1, len(args))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) UpdateDetails(ctx context.Context, id int64, d domain.EventDetails, updatedAt time.Time) (*domain.Event, error) {
	query := `
		UPDATE events
		SET title = $2, description = $3, image_url = $4, date = $5, time_start = $6, time_end = $7,
			location = $8, category = $9, price = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query,
		id, d.Title, d.Description, d.ImageURL, d.Date, d.TimeStart, d.TimeEnd, d.Location, d.Category, d.Price, updatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// SoftDelete locks the event row first. Purchases decrement that same row, so
// a purchase committed by another process is visible to the ticket check.
func (r *eventRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locked int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}

	var live bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE event_id = $1 AND status = 'purchased')`, id).Scan(&live)
	if err != nil {
		return fmt.Errorf("check live tickets: %w", err)
	}
	if live {
		return domain.ErrConflict
	}

	if _, err := tx.ExecContext(ctx, `UPDATE events SET deleted_at = $2, updated_at = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *eventRepository) Availability(ctx context.Context, id int64) (*domain.Availability, error) {
	query := `
		SELECT id, total_tickets, available_tickets
		FROM events
		WHERE id = $1 AND deleted_at IS NULL
	`
	a := &domain.Availability{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&a.EventID, &a.Total, &a.Available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *eventRepository) MaxID(ctx context.Context) (int64, error) {
	return maxID(ctx, r.DB, "events")
}
