package tests

import (
	"context"
	"errors"
	"testing"

	"shuttle/internal/domain"
	"shuttle/internal/repository"
	"shuttle/internal/service"
)

// ──────────────────────────────────────────────
// 7. WALLET: TOP-UPS, ADJUSTMENTS, HISTORY
// ──────────────────────────────────────────────

func newWalletService(store *MockStore, lockStore *MockLockStore) *service.WalletService {
	return service.NewWalletService(store, store.Riders, store.Ledger, lockStore)
}

func TestWallet_AddFunds_CreditsBalanceAndLedgerTogether(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.Riders.AddRider(&domain.Rider{ID: "rider-1", Username: "alice", Role: domain.RoleRider})
	wallet := newWalletService(store, NewMockLockStore())

	balance, err := wallet.AddFunds(context.Background(), "rider-1", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 500 {
		t.Errorf("expected balance 500, got %d", balance)
	}

	entries := store.Ledger.EntriesForRider("rider-1")
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	if entries[0].AmountCents != 500 {
		t.Errorf("expected entry amount 500, got %d", entries[0].AmountCents)
	}
	if entries[0].Type != domain.EntryTypeAddFunds {
		t.Errorf("expected entry type %s, got %s", domain.EntryTypeAddFunds, entries[0].Type)
	}
}

func TestWallet_AddFunds_NonPositiveAmount_Rejected(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.Riders.AddRider(&domain.Rider{ID: "rider-1", Username: "alice", Role: domain.RoleRider})
	wallet := newWalletService(store, NewMockLockStore())

	testCases := []struct {
		name   string
		amount int64
	}{
		{"zero amount", 0},
		{"negative amount", -100},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := wallet.AddFunds(context.Background(), "rider-1", tc.amount)
			if !errors.Is(err, service.ErrInvalidAmount) {
				t.Errorf("expected ErrInvalidAmount, got %v", err)
			}
		})
	}
}

func TestWallet_AddFunds_UnknownRider_Fails(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	wallet := newWalletService(store, NewMockLockStore())

	_, err := wallet.AddFunds(context.Background(), "no-such-rider", 500)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if store.Ledger.CountEntries() != 0 {
		t.Errorf("expected no ledger entries, got %d", store.Ledger.CountEntries())
	}
}

func TestWallet_AddFunds_LedgerFailure_RollsBackBalance(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.Riders.AddRider(&domain.Rider{ID: "rider-1", Username: "alice", Role: domain.RoleRider, BalanceCents: 100})
	store.Ledger.AppendError = ErrMockTimeout
	wallet := newWalletService(store, NewMockLockStore())

	_, err := wallet.AddFunds(context.Background(), "rider-1", 500)
	if !errors.Is(err, ErrMockTimeout) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if store.Riders.Balance("rider-1") != 100 {
		t.Errorf("expected balance restored to 100, got %d", store.Riders.Balance("rider-1"))
	}
}

func TestWallet_Adjust_AppliesSignedDelta(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.Riders.AddRider(&domain.Rider{ID: "rider-1", Username: "alice", Role: domain.RoleRider, BalanceCents: 300})
	wallet := newWalletService(store, NewMockLockStore())

	balance, err := wallet.Adjust(context.Background(), "rider-1", -120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 180 {
		t.Errorf("expected balance 180, got %d", balance)
	}

	entries := store.Ledger.EntriesForRider("rider-1")
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	if entries[0].Type != domain.EntryTypeAdminAdjustment {
		t.Errorf("expected entry type %s, got %s", domain.EntryTypeAdminAdjustment, entries[0].Type)
	}
	if entries[0].AmountCents != -120 {
		t.Errorf("expected entry amount -120, got %d", entries[0].AmountCents)
	}
}

func TestWallet_Adjust_ZeroDelta_Rejected(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	wallet := newWalletService(store, NewMockLockStore())

	_, err := wallet.Adjust(context.Background(), "rider-1", 0)
	if !errors.Is(err, service.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestWallet_RiderLockHeld_ReturnsBusy(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.Riders.AddRider(&domain.Rider{ID: "rider-1", Username: "alice", Role: domain.RoleRider})
	lockStore := NewMockLockStore()
	lockStore.ForceAcquireFailure = true
	wallet := newWalletService(store, lockStore)

	_, err := wallet.AddFunds(context.Background(), "rider-1", 500)
	if !errors.Is(err, service.ErrRiderBusy) {
		t.Errorf("expected ErrRiderBusy, got %v", err)
	}
}

func TestWallet_RideHistory_ReturnsOnlyRidePayments(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.Riders.AddRider(&domain.Rider{ID: "rider-1", Username: "alice", Role: domain.RoleRider})
	wallet := newWalletService(store, NewMockLockStore())

	ctx := context.Background()
	store.Ledger.Append(ctx, &domain.LedgerEntry{ID: "e1", RiderID: "rider-1", AmountCents: 500, Type: domain.EntryTypeAddFunds})
	store.Ledger.Append(ctx, &domain.LedgerEntry{ID: "e2", RiderID: "rider-1", AmountCents: -88, Type: domain.EntryTypeRidePayment, RelatedTripID: "trip-1"})
	store.Ledger.Append(ctx, &domain.LedgerEntry{ID: "e3", RiderID: "rider-2", AmountCents: -50, Type: domain.EntryTypeRidePayment, RelatedTripID: "trip-2"})

	history, err := wallet.RideHistory(ctx, "rider-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 ride payment, got %d", len(history))
	}
	if history[0].ID != "e2" {
		t.Errorf("expected entry e2, got %s", history[0].ID)
	}
}

// ──────────────────────────────────────────────
// 8. LEDGER INVARIANT
// ──────────────────────────────────────────────

func TestWallet_Reconcile_BalanceEqualsLedgerSum_AfterFullCycle(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture()
	wallet := newWalletService(f.store, NewMockLockStore())

	ctx := context.Background()
	f.store.Riders.AddRider(&domain.Rider{ID: "rider-1", Username: "alice", Role: domain.RoleRider})

	// Top up, ride the loop, top up again.
	if _, err := wallet.AddFunds(ctx, "rider-1", 500); err != nil {
		t.Fatalf("add funds failed: %v", err)
	}
	f.tap(t, "rider-1", loopStopA)
	f.tap(t, "rider-1", loopStopC) // 88 cents
	if _, err := wallet.AddFunds(ctx, "rider-1", 250); err != nil {
		t.Fatalf("add funds failed: %v", err)
	}

	result, err := wallet.Reconcile(ctx, "rider-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Consistent {
		t.Errorf("balance %d diverged from ledger sum %d", result.BalanceCents, result.LedgerSumCents)
	}
	if result.BalanceCents != 662 { // 500 - 88 + 250
		t.Errorf("expected balance 662, got %d", result.BalanceCents)
	}
}

func TestWallet_Reconcile_DetectsDrift(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	// Balance claims 100 but the ledger is empty: drift.
	store.Riders.AddRider(&domain.Rider{ID: "rider-1", Username: "alice", Role: domain.RoleRider, BalanceCents: 100})
	wallet := newWalletService(store, NewMockLockStore())

	result, err := wallet.Reconcile(context.Background(), "rider-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Consistent {
		t.Error("expected reconcile to flag the drifted balance")
	}
	if result.LedgerSumCents != 0 {
		t.Errorf("expected ledger sum 0, got %d", result.LedgerSumCents)
	}
}

// ──────────────────────────────────────────────
// 9. ACCOUNTS
// ──────────────────────────────────────────────

func TestAccount_RegisterThenLogin(t *testing.T) {
	t.Parallel()

	riderRepo := NewMockRiderRepository()
	accounts := service.NewAccountService(riderRepo)

	ctx := context.Background()
	rider, err := accounts.Register(ctx, service.RegisterRequest{
		Username: "alice",
		Email:    "alice@campus.edu",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if rider.BalanceCents != 0 {
		t.Errorf("expected new account balance 0, got %d", rider.BalanceCents)
	}
	if rider.PasswordHash == "hunter2hunter2" {
		t.Error("password must not be stored in the clear")
	}

	logged, err := accounts.Login(ctx, "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != rider.ID {
		t.Errorf("expected account %s, got %s", rider.ID, logged.ID)
	}
}

func TestAccount_Login_WrongPassword_Rejected(t *testing.T) {
	t.Parallel()

	riderRepo := NewMockRiderRepository()
	accounts := service.NewAccountService(riderRepo)

	ctx := context.Background()
	if _, err := accounts.Register(ctx, service.RegisterRequest{
		Username: "alice", Email: "alice@campus.edu", Password: "hunter2hunter2",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := accounts.Login(ctx, "alice", "wrong-password")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccount_Login_UnknownUser_SameErrorAsWrongPassword(t *testing.T) {
	t.Parallel()

	accounts := service.NewAccountService(NewMockRiderRepository())

	_, err := accounts.Login(context.Background(), "nobody", "whatever")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccount_Register_DuplicateUsername_Rejected(t *testing.T) {
	t.Parallel()

	riderRepo := NewMockRiderRepository()
	accounts := service.NewAccountService(riderRepo)

	ctx := context.Background()
	req := service.RegisterRequest{Username: "alice", Email: "alice@campus.edu", Password: "hunter2hunter2"}
	if _, err := accounts.Register(ctx, req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := accounts.Register(ctx, req)
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestAccount_Register_MissingFields_Rejected(t *testing.T) {
	t.Parallel()

	accounts := service.NewAccountService(NewMockRiderRepository())

	testCases := []struct {
		name string
		req  service.RegisterRequest
	}{
		{"missing username", service.RegisterRequest{Email: "a@b.c", Password: "p"}},
		{"missing email", service.RegisterRequest{Username: "alice", Password: "p"}},
		{"missing password", service.RegisterRequest{Username: "alice", Email: "a@b.c"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := accounts.Register(context.Background(), tc.req)
			if !errors.Is(err, service.ErrMissingField) {
				t.Errorf("expected ErrMissingField, got %v", err)
			}
		})
	}
}
