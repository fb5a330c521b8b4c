package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint hits.
const pqUniqueViolation = "23505"

type ApplicationStore struct {
	db *sql.DB
}

func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

const applicationColumns = `id, booking_id, artist_id, status, proposed_budget,
	proposed_duration, experience, notes, images, video,
	cancellation_reason, cancellation_detail, created_at, updated_at`

func scanApplication(row interface{ Scan(...interface{}) error }) (*models.ApplicationEntry, error) {
	var a models.ApplicationEntry
	var notesJSON []byte
	var video, cancelReason, cancelDetail sql.NullString

	err := row.Scan(
		&a.ID, &a.BookingID, &a.ArtistID, &a.Status, &a.ProposedBudget,
		&a.ProposedDuration, &a.Experience, &notesJSON,
		pq.Array(&a.Images), &video,
		&cancelReason, &cancelDetail, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(notesJSON) > 0 {
		if err := json.Unmarshal(notesJSON, &a.Notes); err != nil {
			return nil, err
		}
	}
	a.Video = video.String
	a.CancellationReason = cancelReason.String
	a.CancellationDetail = cancelDetail.String
	return &a, nil
}

// Create inserts a new application row. The unique index on
// (booking_id, artist_id) turns a duplicate apply into a conflict.
func (s *ApplicationStore) Create(ctx context.Context, entry *models.ApplicationEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	notesJSON, err := json.Marshal(entry.Notes)
	if err != nil {
		return errors.NewQueryExecutionFailedError("marshal application notes", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO applications
		 (id, booking_id, artist_id, status, proposed_budget, proposed_duration,
		  experience, notes, images, video, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		entry.ID, entry.BookingID, entry.ArtistID, entry.Status,
		entry.ProposedBudget, entry.ProposedDuration, entry.Experience,
		notesJSON, pq.Array(entry.Images), entry.Video,
		entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
			return errors.NewConflictError("artist already applied to this booking")
		}
		return errors.NewQueryExecutionFailedError("create application", err)
	}
	return nil
}

func (s *ApplicationStore) GetByID(ctx context.Context, id string) (*models.ApplicationEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("application", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get application", err)
	}
	return a, nil
}

func (s *ApplicationStore) GetByBookingAndArtist(ctx context.Context, bookingID, artistID string) (*models.ApplicationEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE booking_id = $1 AND artist_id = $2`, bookingID, artistID)

	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("application", bookingID+"/"+artistID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get application by pair", err)
	}
	return a, nil
}

// Delete removes the row entirely. Withdrawal erases the application so
// the artist can apply again later.
func (s *ApplicationStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete application", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("application", id)
	}
	return nil
}

func (s *ApplicationStore) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update application status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("application", id)
	}
	return nil
}

// DeclineSiblings declines every still-open application on the booking
// except the accepted artist's. Runs once per booking, on payment
// confirmation.
func (s *ApplicationStore) DeclineSiblings(ctx context.Context, bookingID, keepArtistID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET status = 'declined', updated_at = NOW()
		 WHERE booking_id = $1 AND artist_id <> $2 AND status = 'applied'`,
		bookingID, keepArtistID)
	if err != nil {
		return 0, errors.NewQueryExecutionFailedError("decline sibling applications", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewQueryExecutionFailedError("decline sibling applications", err)
	}
	return n, nil
}

func (s *ApplicationStore) MarkCancelled(ctx context.Context, id, reason, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE applications
		 SET status = 'cancelled', cancellation_reason = $2, cancellation_detail = $3, updated_at = NOW()
		 WHERE id = $1`,
		id, reason, detail)
	if err != nil {
		return errors.NewQueryExecutionFailedError("cancel application", err)
	}
	return nil
}

func (s *ApplicationStore) MarkCompleted(ctx context.Context, id string, images []string, video string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE applications
		 SET status = 'completed', images = $2, video = $3, updated_at = NOW()
		 WHERE id = $1`,
		id, pq.Array(images), video)
	if err != nil {
		return errors.NewQueryExecutionFailedError("complete application", err)
	}
	return nil
}

// AddNote appends one note to the jsonb notes array.
func (s *ApplicationStore) AddNote(ctx context.Context, id string, note models.ApplicationNote) error {
	noteJSON, err := json.Marshal(note)
	if err != nil {
		return errors.NewQueryExecutionFailedError("marshal note", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE applications
		 SET notes = COALESCE(notes, '[]'::jsonb) || $2::jsonb, updated_at = NOW()
		 WHERE id = $1`,
		id, noteJSON)
	if err != nil {
		return errors.NewQueryExecutionFailedError("add application note", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("application", id)
	}
	return nil
}
