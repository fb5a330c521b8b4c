// Package settlement holds the booking lifecycle and money-movement
// logic: apply, withdraw, respond, checkout, confirmed-payment callback,
// cancellation with tiered refunds, completion and the auto-complete path
// the sweep drives.
package settlement

import (
	"context"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/config"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/logger"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/notify"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/payments"
)

// Store interfaces mirror internal/store. The engine accepts interfaces
// so tests can run against in-memory fakes.

type BookingStore interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	AddAppliedArtist(ctx context.Context, bookingID, artistID string) error
	RemoveAppliedArtist(ctx context.Context, bookingID, artistID string) error
	MarkInReview(ctx context.Context, bookingID string) error
	AssignArtist(ctx context.Context, bookingID, artistID string) error
	UpdatePayment(ctx context.Context, bookingID string, paid, remaining models.Money, state models.PaymentState) error
	MarkConfirmed(ctx context.Context, bookingID string) (bool, error)
	MarkCancelled(ctx context.Context, bookingID, reason, detail string) (bool, error)
	MarkCompleted(ctx context.Context, bookingID string, images []string, video string) (bool, error)
	ListStaleConfirmed(ctx context.Context, cutoff time.Time, limit int) ([]*models.Booking, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, entry *models.ApplicationEntry) error
	GetByID(ctx context.Context, id string) (*models.ApplicationEntry, error)
	GetByBookingAndArtist(ctx context.Context, bookingID, artistID string) (*models.ApplicationEntry, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
	DeclineSiblings(ctx context.Context, bookingID, keepArtistID string) (int64, error)
	MarkCancelled(ctx context.Context, id, reason, detail string) error
	MarkCompleted(ctx context.Context, id string, images []string, video string) error
}

type WalletStore interface {
	Credit(ctx context.Context, userID, role string, amount models.Money) error
	Withdraw(ctx context.Context, userID string, amount models.Money) error
	Balance(ctx context.Context, userID string) (models.Money, error)
}

type LedgerStore interface {
	Append(ctx context.Context, entry *models.LedgerEntry) error
	FindPaymentEntry(ctx context.Context, bookingID string) (*models.LedgerEntry, error)
	UpgradeToRefund(ctx context.Context, entryID string, refund models.Money) error
}

type ArtistStore interface {
	GetByID(ctx context.Context, id string) (*models.Artist, error)
}

// Notifier fires a best-effort notification; never awaited, never fails
// the caller.
type Notifier interface {
	Dispatch(n *models.Notification, rcpt notify.Recipient)
}

// Deduper tracks gateway event ids so a redelivered callback is a no-op.
type Deduper interface {
	// Seen marks the key and reports whether it was already present.
	Seen(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Forget releases a key marked by Seen, reopening the event for a
	// redelivery when its writes did not land.
	Forget(ctx context.Context, key string) error
}

// LedgerIndexer mirrors ledger rows into the audit index, best effort.
type LedgerIndexer interface {
	Index(ctx context.Context, entry *models.LedgerEntry)
}

type Engine struct {
	bookings BookingStore
	apps     ApplicationStore
	wallets  WalletStore
	ledger   LedgerStore
	artists  ArtistStore
	gateway  payments.Gateway
	notifier Notifier
	dedupe   Deduper
	indexer  LedgerIndexer
	logger   logger.Logger

	settlementCfg config.SettlementConfig
	sweepCfg      config.SweepConfig
	currency      string

	now func() time.Time
}

type EngineParams struct {
	Bookings BookingStore
	Apps     ApplicationStore
	Wallets  WalletStore
	Ledger   LedgerStore
	Artists  ArtistStore
	Gateway  payments.Gateway
	Notifier Notifier
	Dedupe   Deduper
	Indexer  LedgerIndexer
	Logger   logger.Logger

	Settlement config.SettlementConfig
	Sweep      config.SweepConfig
	Currency   string

	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

func NewEngine(p EngineParams) *Engine {
	clock := p.Clock
	if clock == nil {
		clock = time.Now
	}
	log := p.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{
		bookings:      p.Bookings,
		apps:          p.Apps,
		wallets:       p.Wallets,
		ledger:        p.Ledger,
		artists:       p.Artists,
		gateway:       p.Gateway,
		notifier:      p.Notifier,
		dedupe:        p.Dedupe,
		indexer:       p.Indexer,
		logger:        log,
		settlementCfg: p.Settlement,
		sweepCfg:      p.Sweep,
		currency:      p.Currency,
		now:           clock,
	}
}

// appendLedger writes the row and mirrors it to the audit index.
func (e *Engine) appendLedger(ctx context.Context, entry *models.LedgerEntry) error {
	if err := e.ledger.Append(ctx, entry); err != nil {
		return err
	}
	if e.indexer != nil {
		e.indexer.Index(ctx, entry)
	}
	return nil
}

func (e *Engine) notify(n *models.Notification, rcpt notify.Recipient) {
	if e.notifier != nil {
		e.notifier.Dispatch(n, rcpt)
	}
}

// artistRecipient resolves delivery addresses, tolerating lookup failure.
func (e *Engine) artistRecipient(ctx context.Context, artistID string) notify.Recipient {
	artist, err := e.artists.GetByID(ctx, artistID)
	if err != nil {
		return notify.Recipient{}
	}
	return notify.Recipient{Email: artist.Email, Phone: artist.Phone}
}
