package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/config"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/logger"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/notify"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/payments"
)

// In-memory fakes mirroring the SQL stores' observable behavior.

type fakeBookings struct {
	m map[string]*models.Booking

	// Runs just before the MarkCancelled compare-and-set, standing in
	// for a concurrent writer.
	beforeMarkCancelled func()
}

func (f *fakeBookings) get(id string) (*models.Booking, bool) {
	b, ok := f.m[id]
	return b, ok
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := f.m[id]
	if !ok {
		return nil, errors.NewNotFoundError("booking", id)
	}
	cp := *b
	cp.AssignedArtists = append([]string(nil), b.AssignedArtists...)
	cp.AppliedArtists = append([]string(nil), b.AppliedArtists...)
	return &cp, nil
}

func (f *fakeBookings) AddAppliedArtist(_ context.Context, bookingID, artistID string) error {
	b := f.m[bookingID]
	for _, id := range b.AppliedArtists {
		if id == artistID {
			return nil
		}
	}
	b.AppliedArtists = append(b.AppliedArtists, artistID)
	return nil
}

func (f *fakeBookings) RemoveAppliedArtist(_ context.Context, bookingID, artistID string) error {
	b := f.m[bookingID]
	out := b.AppliedArtists[:0]
	for _, id := range b.AppliedArtists {
		if id != artistID {
			out = append(out, id)
		}
	}
	b.AppliedArtists = out
	return nil
}

func (f *fakeBookings) MarkInReview(_ context.Context, bookingID string) error {
	b := f.m[bookingID]
	if b.Status == models.BookingPending {
		b.Status = models.BookingInReview
	}
	return nil
}

func (f *fakeBookings) AssignArtist(_ context.Context, bookingID, artistID string) error {
	b := f.m[bookingID]
	for _, id := range b.AssignedArtists {
		if id == artistID {
			return nil
		}
	}
	b.AssignedArtists = append(b.AssignedArtists, artistID)
	return nil
}

func (f *fakeBookings) UpdatePayment(_ context.Context, bookingID string, paid, remaining models.Money, state models.PaymentState) error {
	b := f.m[bookingID]
	b.AmountPaid = paid
	b.AmountRemaining = remaining
	b.PaymentState = state
	return nil
}

func (f *fakeBookings) MarkConfirmed(_ context.Context, bookingID string) (bool, error) {
	b := f.m[bookingID]
	if b.Status.IsTerminal() {
		return false, nil
	}
	b.Status = models.BookingConfirmed
	return true, nil
}

func (f *fakeBookings) MarkCancelled(_ context.Context, bookingID, reason, detail string) (bool, error) {
	if f.beforeMarkCancelled != nil {
		f.beforeMarkCancelled()
	}
	b := f.m[bookingID]
	if b.Status.IsTerminal() {
		return false, nil
	}
	b.Status = models.BookingCancelled
	b.CancellationReason = reason
	b.CancellationDetail = detail
	return true, nil
}

func (f *fakeBookings) MarkCompleted(_ context.Context, bookingID string, images []string, video string) (bool, error) {
	b := f.m[bookingID]
	if b.Status.IsTerminal() {
		return false, nil
	}
	b.Status = models.BookingCompleted
	b.CompletionImages = images
	b.CompletionVideo = video
	return true, nil
}

func (f *fakeBookings) ListStaleConfirmed(_ context.Context, cutoff time.Time, limit int) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range f.m {
		if b.Status == models.BookingConfirmed && !b.EventDate.After(cutoff) {
			out = append(out, b)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeApps struct {
	m    map[string]*models.ApplicationEntry
	next int

	// Consumed by the next UpdateStatus call, then cleared.
	updateStatusErr error
}

func (f *fakeApps) Create(_ context.Context, entry *models.ApplicationEntry) error {
	for _, existing := range f.m {
		if existing.BookingID == entry.BookingID && existing.ArtistID == entry.ArtistID {
			return errors.NewConflictError("artist already applied to this booking")
		}
	}
	f.next++
	entry.ID = fmt.Sprintf("app_%d", f.next)
	cp := *entry
	f.m[entry.ID] = &cp
	return nil
}

func (f *fakeApps) GetByID(_ context.Context, id string) (*models.ApplicationEntry, error) {
	e, ok := f.m[id]
	if !ok {
		return nil, errors.NewNotFoundError("application", id)
	}
	cp := *e
	return &cp, nil
}

func (f *fakeApps) GetByBookingAndArtist(_ context.Context, bookingID, artistID string) (*models.ApplicationEntry, error) {
	for _, e := range f.m {
		if e.BookingID == bookingID && e.ArtistID == artistID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("application", bookingID+"/"+artistID)
}

func (f *fakeApps) Delete(_ context.Context, id string) error {
	if _, ok := f.m[id]; !ok {
		return errors.NewNotFoundError("application", id)
	}
	delete(f.m, id)
	return nil
}

func (f *fakeApps) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus) error {
	if f.updateStatusErr != nil {
		err := f.updateStatusErr
		f.updateStatusErr = nil
		return err
	}
	e, ok := f.m[id]
	if !ok {
		return errors.NewNotFoundError("application", id)
	}
	e.Status = status
	return nil
}

func (f *fakeApps) DeclineSiblings(_ context.Context, bookingID, keepArtistID string) (int64, error) {
	var n int64
	for _, e := range f.m {
		if e.BookingID == bookingID && e.ArtistID != keepArtistID && e.Status == models.ApplicationApplied {
			e.Status = models.ApplicationDeclined
			n++
		}
	}
	return n, nil
}

func (f *fakeApps) MarkCancelled(_ context.Context, id, reason, detail string) error {
	e := f.m[id]
	e.Status = models.ApplicationCancelled
	e.CancellationReason = reason
	e.CancellationDetail = detail
	return nil
}

func (f *fakeApps) MarkCompleted(_ context.Context, id string, images []string, video string) error {
	e := f.m[id]
	e.Status = models.ApplicationCompleted
	e.Images = images
	e.Video = video
	return nil
}

type fakeWallets struct {
	balances map[string]models.Money
}

func (f *fakeWallets) Credit(_ context.Context, userID, _ string, amount models.Money) error {
	if amount < 0 {
		return errors.NewValidationError("credit amount must not be negative")
	}
	f.balances[userID] += amount
	return nil
}

func (f *fakeWallets) Withdraw(_ context.Context, userID string, amount models.Money) error {
	if f.balances[userID] < amount {
		return errors.NewConflictError("insufficient wallet balance")
	}
	f.balances[userID] -= amount
	return nil
}

func (f *fakeWallets) Balance(_ context.Context, userID string) (models.Money, error) {
	return f.balances[userID], nil
}

type fakeLedger struct {
	entries []*models.LedgerEntry
	next    int
}

func (f *fakeLedger) Append(_ context.Context, entry *models.LedgerEntry) error {
	f.next++
	entry.ID = fmt.Sprintf("le_%d", f.next)
	cp := *entry
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeLedger) FindPaymentEntry(_ context.Context, bookingID string) (*models.LedgerEntry, error) {
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if e.BookingID == bookingID && (e.Kind == models.LedgerHalf || e.Kind == models.LedgerFull) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("ledger payment entry", bookingID)
}

func (f *fakeLedger) UpgradeToRefund(_ context.Context, entryID string, refund models.Money) error {
	for _, e := range f.entries {
		if e.ID == entryID && (e.Kind == models.LedgerHalf || e.Kind == models.LedgerFull) {
			e.Kind = models.LedgerRefund
			e.Amount = refund
			return nil
		}
	}
	return errors.NewConflictError("ledger entry already refunded or missing")
}

func (f *fakeLedger) byKind(kind models.LedgerKind) []*models.LedgerEntry {
	var out []*models.LedgerEntry
	for _, e := range f.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type fakeArtists struct {
	m map[string]*models.Artist
}

func (f *fakeArtists) GetByID(_ context.Context, id string) (*models.Artist, error) {
	a, ok := f.m[id]
	if !ok {
		return nil, errors.NewNotFoundError("artist", id)
	}
	cp := *a
	return &cp, nil
}

type fakeGateway struct {
	onboardingCalls int
	checkoutCalls   []payments.CheckoutRequest
	payouts         []models.Money
	checkoutErr     error
}

func (f *fakeGateway) CreateOnboardingLink(_ context.Context, artistID string) (*payments.OnboardingLink, error) {
	f.onboardingCalls++
	return &payments.OnboardingLink{URL: "https://gateway.example/onboard/" + artistID}, nil
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	f.checkoutCalls = append(f.checkoutCalls, req)
	return &payments.CheckoutSession{
		ID:  fmt.Sprintf("cs_%d", len(f.checkoutCalls)),
		URL: "https://gateway.example/pay",
	}, nil
}

func (f *fakeGateway) Payout(_ context.Context, _ string, amount models.Money, _ string) error {
	f.payouts = append(f.payouts, amount)
	return nil
}

type fakeNotifier struct {
	sent []*models.Notification
}

func (f *fakeNotifier) Dispatch(n *models.Notification, _ notify.Recipient) {
	f.sent = append(f.sent, n)
}

func (f *fakeNotifier) ofType(t models.NotificationType) []*models.Notification {
	var out []*models.Notification
	for _, n := range f.sent {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

type memDedupe struct {
	seen map[string]bool
}

func (d *memDedupe) Seen(_ context.Context, key string, _ time.Duration) (bool, error) {
	if d.seen[key] {
		return true, nil
	}
	d.seen[key] = true
	return false, nil
}

func (d *memDedupe) Forget(_ context.Context, key string) error {
	delete(d.seen, key)
	return nil
}

// testWorld bundles the engine with its fakes and a controllable clock.
type testWorld struct {
	engine   *Engine
	bookings *fakeBookings
	apps     *fakeApps
	wallets  *fakeWallets
	ledger   *fakeLedger
	artists  *fakeArtists
	gateway  *fakeGateway
	notifier *fakeNotifier
	dedupe   *memDedupe
	now      time.Time
}

const platformAccount = "acct_platform"

func newTestWorld() *testWorld {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	w := &testWorld{
		bookings: &fakeBookings{m: map[string]*models.Booking{}},
		apps:     &fakeApps{m: map[string]*models.ApplicationEntry{}},
		wallets:  &fakeWallets{balances: map[string]models.Money{}},
		ledger:   &fakeLedger{},
		artists:  &fakeArtists{m: map[string]*models.Artist{}},
		gateway:  &fakeGateway{},
		notifier: &fakeNotifier{},
		dedupe:   &memDedupe{seen: map[string]bool{}},
		now:      now,
	}
	w.engine = NewEngine(EngineParams{
		Bookings: w.bookings,
		Apps:     w.apps,
		Wallets:  w.wallets,
		Ledger:   w.ledger,
		Artists:  w.artists,
		Gateway:  w.gateway,
		Notifier: w.notifier,
		Dedupe:   w.dedupe,
		Logger:   logger.NewNoOpLogger(),
		Settlement: config.SettlementConfig{
			PlatformAccountID:    platformAccount,
			DepositThresholdDays: 14,
			RefundEarlyPercent:   90,
			RefundMidPercent:     50,
			EventDedupeTTLHours:  48,
		},
		Sweep: config.SweepConfig{
			StalenessHours:    24,
			CommissionPercent: 15,
			MinAccountAgeDays: 30,
			BatchLimit:        200,
		},
		Currency: "gbp",
		Clock:    func() time.Time { return now },
	})
	return w
}

func (w *testWorld) addArtist(id string, onboarded bool, ageDays int) {
	payoutAccount := ""
	if onboarded {
		payoutAccount = "acct_" + id
	}
	w.artists.m[id] = &models.Artist{
		ID:              id,
		Email:           id + "@example.com",
		PayoutAccountID: payoutAccount,
		CreatedAt:       w.now.AddDate(0, 0, -ageDays),
	}
}

func (w *testWorld) addBooking(id, clientID string, daysUntilEvent int, status models.BookingStatus) {
	w.bookings.m[id] = &models.Booking{
		ID:           id,
		ClientID:     clientID,
		Status:       status,
		EventDate:    w.now.AddDate(0, 0, daysUntilEvent),
		PaymentState: models.PaymentNone,
	}
}

func validTerms() models.ProposedTerms {
	return models.ProposedTerms{
		Budget:      30000,
		Duration:    2,
		Message:     "Over ten years of bridal mehndi experience with intricate traditional patterns.",
		AgreedTerms: true,
	}
}
