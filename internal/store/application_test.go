package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

func TestApplicationStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewApplicationStore(db)
	entry := &models.ApplicationEntry{
		BookingID:        "bk_1",
		ArtistID:         "artist_1",
		Status:           models.ApplicationApplied,
		ProposedBudget:   30000,
		ProposedDuration: 2,
		Experience:       "Ten years of bridal work across three regions, specialising in traditional designs.",
	}
	err = store.Create(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_Create_DuplicatePairIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnError(&pq.Error{Code: "23505"})

	store := NewApplicationStore(db)
	entry := &models.ApplicationEntry{
		BookingID: "bk_1",
		ArtistID:  "artist_1",
		Status:    models.ApplicationApplied,
	}
	err = store.Create(context.Background(), entry)
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeConflict))
}

func applicationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "booking_id", "artist_id", "status", "proposed_budget",
		"proposed_duration", "experience", "notes", "images", "video",
		"cancellation_reason", "cancellation_detail", "created_at", "updated_at",
	})
}

func TestApplicationStore_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := applicationRows().AddRow(
		"app_1", "bk_1", "artist_1", "applied", 30000,
		2, "experience text", []byte(`[{"text":"call back","followUp":true,"createdAt":"2026-01-02T10:00:00Z"}]`),
		"{}", nil, nil, nil, now, now,
	)

	mock.ExpectQuery(`SELECT (.+) FROM applications WHERE id`).
		WithArgs("app_1").
		WillReturnRows(rows)

	store := NewApplicationStore(db)
	entry, err := store.GetByID(context.Background(), "app_1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApplied, entry.Status)
	assert.Equal(t, models.Money(30000), entry.ProposedBudget)
	require.Len(t, entry.Notes, 1)
	assert.True(t, entry.Notes[0].FollowUp)
}

func TestApplicationStore_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM applications WHERE id`).
		WithArgs("app_missing").
		WillReturnRows(applicationRows())

	store := NewApplicationStore(db)
	_, err = store.GetByID(context.Background(), "app_missing")
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeNotFound))
}

func TestApplicationStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM applications`).
		WithArgs("app_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewApplicationStore(db)
	require.NoError(t, store.Delete(context.Background(), "app_1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_DeclineSiblings_OnlyOpenOnes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE applications SET status = 'declined'`).
		WithArgs("bk_1", "artist_1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	store := NewApplicationStore(db)
	n, err := store.DeclineSiblings(context.Background(), "bk_1", "artist_1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
