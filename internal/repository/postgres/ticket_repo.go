package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campusbooking/internal/domain"
)

const ticketColumns = `id, event_id, user_id, ticket_code, status, purchase_date, updated_at`

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	if err := row.Scan(&t.ID, &t.EventID, &t.UserID, &t.Code, &t.Status, &t.PurchaseDate, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

type ticketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{DB: db}
}

// Purchase decrements the event's inventory and inserts t in one transaction.
// The decrement is conditional so the counter cannot go below zero even when
// another process races on the same row.
func (r *ticketRepository) Purchase(ctx context.Context, t *domain.Ticket) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE events
		SET available_tickets = available_tickets - 1, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL AND available_tickets > 0
	`, t.EventID, t.PurchaseDate)
	if err != nil {
		return fmt.Errorf("decrement inventory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1 AND deleted_at IS NULL)`, t.EventID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrOutOfInventory
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tickets (id, event_id, user_id, ticket_code, status, purchase_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, t.EventID, t.UserID, t.Code, t.Status, t.PurchaseDate, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTicketCode
		}
		return fmt.Errorf("insert ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	t, err := scanTicket(r.DB.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	t, err := scanTicket(r.DB.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE ticket_code = $1`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE user_id = $1
		ORDER BY purchase_date DESC, id DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Cancel returns the ticket's unit to its event in the same transaction that
// cancels it. A second cancel fails with ErrInvalidStateTransition.
func (r *ticketRepository) Cancel(ctx context.Context, id int64, at time.Time) (*domain.Ticket, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := transitionTicket(ctx, tx, id, domain.TicketCancelled, at)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET available_tickets = available_tickets + 1, updated_at = $2
		WHERE id = $1 AND available_tickets < total_tickets
	`, t.EventID, at)
	if err != nil {
		return nil, fmt.Errorf("increment inventory: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

func (r *ticketRepository) Redeem(ctx context.Context, id int64, at time.Time) (*domain.Ticket, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := transitionTicket(ctx, tx, id, domain.TicketUsed, at)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

func transitionTicket(ctx context.Context, tx *sql.Tx, id int64, to domain.TicketStatus, at time.Time) (*domain.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = 'purchased'
		RETURNING ` + ticketColumns
	t, err := scanTicket(tx.QueryRowContext(ctx, query, id, to, at))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInvalidStateTransition
}

func (r *ticketRepository) MaxID(ctx context.Context) (int64, error) {
	return maxID(ctx, r.DB, "tickets")
}
