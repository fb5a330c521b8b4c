package store

import (
	"context"
	"database/sql"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

type ArtistStore struct {
	db *sql.DB
}

func NewArtistStore(db *sql.DB) *ArtistStore {
	return &ArtistStore{db: db}
}

func (s *ArtistStore) GetByID(ctx context.Context, id string) (*models.Artist, error) {
	var a models.Artist
	var phone, payoutAccount sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, phone, payout_account_id, created_at
		 FROM artists WHERE id = $1`, id).
		Scan(&a.ID, &a.Email, &phone, &payoutAccount, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("artist", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get artist", err)
	}

	a.Phone = phone.String
	a.PayoutAccountID = payoutAccount.String
	return &a, nil
}

// SetPayoutAccount records the gateway payout destination after onboarding.
func (s *ArtistStore) SetPayoutAccount(ctx context.Context, artistID, payoutAccountID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE artists SET payout_account_id = $2 WHERE id = $1`,
		artistID, payoutAccountID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("set payout account", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("artist", artistID)
	}
	return nil
}
