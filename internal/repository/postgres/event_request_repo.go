package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campusbooking/internal/domain"
)

const requestColumns = `id, title, description, image_url, date, time_start, time_end, location, category, price,
		total_tickets, requester_id, status, admin_notes, reviewer_id, event_id, reviewed_at, created_at, updated_at`

func scanRequest(row rowScanner) (*domain.PendingEvent, error) {
	p := &domain.PendingEvent{}
	var reviewerID, eventID sql.NullInt64
	var reviewedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.Date, &p.TimeStart, &p.TimeEnd, &p.Location, &p.Category, &p.Price,
		&p.TotalTickets, &p.RequesterID, &p.Status, &p.AdminNotes, &reviewerID, &eventID, &reviewedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reviewerID.Valid {
		p.ReviewerID = &reviewerID.Int64
	}
	if eventID.Valid {
		p.EventID = &eventID.Int64
	}
	if reviewedAt.Valid {
		p.ReviewedAt = &reviewedAt.Time
	}
	return p, nil
}

type eventRequestRepository struct {
	DB *sql.DB
}

func NewEventRequestRepository(db *sql.DB) domain.EventRequestRepository {
	return &eventRequestRepository{DB: db}
}

func (r *eventRequestRepository) Create(ctx context.Context, p *domain.PendingEvent) error {
	query := `
		INSERT INTO pending_events (id, title, description, image_url, date, time_start, time_end, location, category, price,
			total_tickets, requester_id, status, admin_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, p.ImageURL, p.Date, p.TimeStart, p.TimeEnd, p.Location, p.Category, p.Price,
		p.TotalTickets, p.RequesterID, p.Status, p.AdminNotes, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *eventRequestRepository) GetByID(ctx context.Context, id int64) (*domain.PendingEvent, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM pending_events
		WHERE id = $1
	`
	p, err := scanRequest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *eventRequestRepository) List(ctx context.Context, filter domain.EventRequestFilter, params domain.PaginationParams) ([]*domain.PendingEvent, int, error) {
	var conds []string
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.RequesterID != 0 {
		args = append(args, filter.RequesterID)
		conds = append(conds, fmt.Sprintf("requester_id = $%d", len(args)))
	}
	where := whereClause(conds)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_events`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.PageSize, params.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM pending_events%s
		ORDER BY created_at ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, requestColumns, where, len(args)-1, len(args))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*domain.PendingEvent, 0)
	for rows.Next() {
		p, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Approve marks the request approved and publishes its event in one transaction.
func (r *eventRequestRepository) Approve(ctx context.Context, id int64, outcome domain.ReviewOutcome, event *domain.Event) (*domain.PendingEvent, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// the event row must exist before the request can reference it
	if _, err := tx.ExecContext(ctx, insertEventQuery, eventInsertArgs(event)...); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	p, err := r.transition(ctx, tx, id, outcome, &event.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

func (r *eventRequestRepository) Reject(ctx context.Context, id int64, outcome domain.ReviewOutcome) (*domain.PendingEvent, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := r.transition(ctx, tx, id, outcome, nil)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

// transition moves a request out of pending. Only one concurrent caller can
// match the status = 'pending' predicate.
func (r *eventRequestRepository) transition(ctx context.Context, tx *sql.Tx, id int64, o domain.ReviewOutcome, eventID *int64) (*domain.PendingEvent, error) {
	query := `
		UPDATE pending_events
		SET status = $2, reviewer_id = $3, admin_notes = $4, reviewed_at = $5, event_id = $6, updated_at = $5
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + requestColumns
	var ev sql.NullInt64
	if eventID != nil {
		ev = sql.NullInt64{Int64: *eventID, Valid: true}
	}
	p, err := scanRequest(tx.QueryRowContext(ctx, query, id, o.Status, o.ReviewerID, o.AdminNotes, o.ReviewedAt, ev))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update request: %w", err)
	}
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pending_events WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInvalidStateTransition
}

func (r *eventRequestRepository) MaxID(ctx context.Context) (int64, error) {
	return maxID(ctx, r.DB, "pending_events")
}
