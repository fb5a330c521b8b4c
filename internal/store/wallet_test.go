package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

func TestWalletStore_Credit_UpsertIncrement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO wallets`).
		WithArgs("artist_1", "artist", models.Money(15000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewWalletStore(db)
	err = store.Credit(context.Background(), "artist_1", "artist", 15000)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletStore_Credit_NegativeAmountRejected(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewWalletStore(db)
	err = store.Credit(context.Background(), "artist_1", "artist", -1)
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeValidation))
}

func TestWalletStore_Withdraw_InsufficientBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE wallets SET balance = balance -`).
		WithArgs("artist_1", models.Money(99999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewWalletStore(db)
	err = store.Withdraw(context.Background(), "artist_1", 99999)
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletStore_Withdraw_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE wallets SET balance = balance -`).
		WithArgs("artist_1", models.Money(5000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewWalletStore(db)
	err = store.Withdraw(context.Background(), "artist_1", 5000)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletStore_Balance_MissingWalletIsZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT balance FROM wallets`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))

	store := NewWalletStore(db)
	balance, err := store.Balance(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), balance)
}
