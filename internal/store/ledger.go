package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

const ledgerColumns = `id, sender_id, receiver_id, booking_id, amount, kind, commission, created_at`

func scanLedgerEntry(row interface{ Scan(...interface{}) error }) (*models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := row.Scan(&e.ID, &e.SenderID, &e.ReceiverID, &e.BookingID,
		&e.Amount, &e.Kind, &e.Commission, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Append writes one immutable ledger row.
func (s *LedgerStore) Append(ctx context.Context, entry *models.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ledger_entries
		 (id, sender_id, receiver_id, booking_id, amount, kind, commission, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.SenderID, entry.ReceiverID, entry.BookingID,
		entry.Amount, entry.Kind, entry.Commission, entry.CreatedAt)
	if err != nil {
		return errors.NewQueryExecutionFailedError("append ledger entry", err)
	}
	return nil
}

// FindPaymentEntry returns the booking's half or full payment row, the one
// eligible for the in-place refund rewrite.
func (s *LedgerStore) FindPaymentEntry(ctx context.Context, bookingID string) (*models.LedgerEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		 WHERE booking_id = $1 AND kind IN ('half', 'full')
		 ORDER BY created_at DESC
		 LIMIT 1`, bookingID)

	e, err := scanLedgerEntry(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("ledger payment entry", bookingID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("find payment entry", err)
	}
	return e, nil
}

// UpgradeToRefund rewrites a half/full entry in place to kind=refund with
// the reduced amount. The kind guard makes a second cancellation a no-op.
func (s *LedgerStore) UpgradeToRefund(ctx context.Context, entryID string, refund models.Money) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ledger_entries SET kind = 'refund', amount = $2
		 WHERE id = $1 AND kind IN ('half', 'full')`,
		entryID, refund)
	if err != nil {
		return errors.NewQueryExecutionFailedError("upgrade ledger entry to refund", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("upgrade ledger entry to refund", err)
	}
	if n == 0 {
		return errors.NewConflictError("ledger entry already refunded or missing")
	}
	return nil
}

func (s *LedgerStore) ListByBooking(ctx context.Context, bookingID string) ([]*models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		 WHERE booking_id = $1 ORDER BY created_at ASC`, bookingID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list ledger entries", err)
	}
	defer rows.Close()

	var out []*models.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan ledger entry", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list ledger entries", err)
	}
	return out, nil
}
