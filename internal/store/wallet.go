package store

import (
	"context"
	"database/sql"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

type WalletStore struct {
	db *sql.DB
}

func NewWalletStore(db *sql.DB) *WalletStore {
	return &WalletStore{db: db}
}

// Credit adds to a wallet balance as a single atomic increment, creating
// the wallet on first use. Never read-modify-write: concurrent credits
// must both land.
func (s *WalletStore) Credit(ctx context.Context, userID, role string, amount models.Money) error {
	if amount < 0 {
		return errors.NewValidationError("credit amount must not be negative")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO wallets (user_id, role, balance, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id)
		 DO UPDATE SET balance = wallets.balance + EXCLUDED.balance, updated_at = NOW()`,
		userID, role, amount)
	if err != nil {
		return errors.NewQueryExecutionFailedError("credit wallet", err)
	}
	return nil
}

// Withdraw debits the wallet only if the balance covers the amount.
// Zero rows affected means insufficient funds.
func (s *WalletStore) Withdraw(ctx context.Context, userID string, amount models.Money) error {
	if amount <= 0 {
		return errors.NewValidationError("withdrawal amount must be positive")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE wallets SET balance = balance - $2, updated_at = NOW()
		 WHERE user_id = $1 AND balance >= $2`,
		userID, amount)
	if err != nil {
		return errors.NewQueryExecutionFailedError("withdraw from wallet", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("withdraw from wallet", err)
	}
	if n == 0 {
		return errors.NewConflictError("insufficient wallet balance")
	}
	return nil
}

func (s *WalletStore) Balance(ctx context.Context, userID string) (models.Money, error) {
	var balance models.Money
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM wallets WHERE user_id = $1`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, errors.NewQueryExecutionFailedError("get wallet balance", err)
	}
	return balance, nil
}
