// Package store holds the PostgreSQL persistence layer. Every store takes
// a *sql.DB so tests can substitute sqlmock.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

type BookingStore struct {
	db *sql.DB
}

func NewBookingStore(db *sql.DB) *BookingStore {
	return &BookingStore{db: db}
}

const bookingColumns = `id, client_id, status, event_date, minimum_budget,
	assigned_artists, applied_artists, amount_paid, amount_remaining,
	payment_state, cancellation_reason, cancellation_detail, rated,
	completion_images, completion_video, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (*models.Booking, error) {
	var b models.Booking
	var status string
	var cancelReason, cancelDetail, video sql.NullString

	err := row.Scan(
		&b.ID, &b.ClientID, &status, &b.EventDate, &b.MinimumBudget,
		pq.Array(&b.AssignedArtists), pq.Array(&b.AppliedArtists),
		&b.AmountPaid, &b.AmountRemaining, &b.PaymentState,
		&cancelReason, &cancelDetail, &b.Rated,
		pq.Array(&b.CompletionImages), &video, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Status = models.NormalizeBookingStatus(status)
	b.CancellationReason = cancelReason.String
	b.CancellationDetail = cancelDetail.String
	b.CompletionVideo = video.String
	return &b, nil
}

func (s *BookingStore) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)

	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("booking", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get booking", err)
	}
	return b, nil
}

// AddAppliedArtist registers the artist on the booking's applied list.
// The guard keeps the array duplicate-free under concurrent applies.
func (s *BookingStore) AddAppliedArtist(ctx context.Context, bookingID, artistID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE bookings
		 SET applied_artists = array_append(applied_artists, $2), updated_at = NOW()
		 WHERE id = $1 AND NOT ($2 = ANY(applied_artists))`,
		bookingID, artistID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("add applied artist", err)
	}
	return nil
}

func (s *BookingStore) RemoveAppliedArtist(ctx context.Context, bookingID, artistID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE bookings
		 SET applied_artists = array_remove(applied_artists, $2), updated_at = NOW()
		 WHERE id = $1`,
		bookingID, artistID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("remove applied artist", err)
	}
	return nil
}

// MarkInReview flips a pending booking to in_review once the first
// application lands. Already-reviewing bookings are untouched.
func (s *BookingStore) MarkInReview(ctx context.Context, bookingID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'in_review', updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'`,
		bookingID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("mark booking in review", err)
	}
	return nil
}

func (s *BookingStore) AssignArtist(ctx context.Context, bookingID, artistID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE bookings
		 SET assigned_artists = array_append(assigned_artists, $2), updated_at = NOW()
		 WHERE id = $1 AND NOT ($2 = ANY(assigned_artists))`,
		bookingID, artistID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("assign artist", err)
	}
	return nil
}

func (s *BookingStore) UpdatePayment(ctx context.Context, bookingID string, paid, remaining models.Money, state models.PaymentState) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE bookings
		 SET amount_paid = $2, amount_remaining = $3, payment_state = $4, updated_at = NOW()
		 WHERE id = $1`,
		bookingID, paid, remaining, state)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update booking payment", err)
	}
	return nil
}

// MarkConfirmed flips the booking into confirmed. Terminal bookings are
// left alone; the caller treats zero rows as a conflict.
func (s *BookingStore) MarkConfirmed(ctx context.Context, bookingID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'confirmed', updated_at = NOW()
		 WHERE id = $1 AND status NOT IN ('completed', 'cancelled')`,
		bookingID)
	if err != nil {
		return false, errors.NewQueryExecutionFailedError("confirm booking", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewQueryExecutionFailedError("confirm booking", err)
	}
	return n > 0, nil
}

// MarkCancelled is the commit point of a cancellation: it only succeeds
// if the booking is not already terminal.
func (s *BookingStore) MarkCancelled(ctx context.Context, bookingID, reason, detail string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings
		 SET status = 'cancelled', cancellation_reason = $2, cancellation_detail = $3, updated_at = NOW()
		 WHERE id = $1 AND status NOT IN ('completed', 'cancelled')`,
		bookingID, reason, detail)
	if err != nil {
		return false, errors.NewQueryExecutionFailedError("cancel booking", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewQueryExecutionFailedError("cancel booking", err)
	}
	return n > 0, nil
}

func (s *BookingStore) MarkCompleted(ctx context.Context, bookingID string, images []string, video string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings
		 SET status = 'completed', completion_images = $2, completion_video = $3, updated_at = NOW()
		 WHERE id = $1 AND status NOT IN ('completed', 'cancelled')`,
		bookingID, pq.Array(images), video)
	if err != nil {
		return false, errors.NewQueryExecutionFailedError("complete booking", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewQueryExecutionFailedError("complete booking", err)
	}
	return n > 0, nil
}

// ListStaleConfirmed returns confirmed bookings whose event date passed
// the cutoff, oldest first, for the auto-complete sweep.
func (s *BookingStore) ListStaleConfirmed(ctx context.Context, cutoff time.Time, limit int) ([]*models.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE status = 'confirmed' AND event_date <= $1
		 ORDER BY event_date ASC
		 LIMIT $2`,
		cutoff, limit)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list stale bookings", err)
	}
	defer rows.Close()

	var out []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan stale booking", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list stale bookings", err)
	}
	return out, nil
}
