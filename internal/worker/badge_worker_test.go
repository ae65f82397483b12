package worker

import (
	"context"
	"testing"

	"finfamily/internal/core"
	"finfamily/internal/events"
	"finfamily/internal/ledger/memory"
	"finfamily/internal/services"
)

func seedReserveDeposit(t *testing.T, store *memory.Store, userID string) {
	t.Helper()
	store.AddCategory(core.Category{
		UserID:    userID,
		Name:      core.ReserveCategoryName,
		Type:      core.CategorySpecial,
		IsReserve: true,
	})
	store.AddTransaction(core.Transaction{
		UserID:         userID,
		Date:           core.NewDate(2025, 5, 10),
		Description:    "monthly savings",
		Amount:         core.Money{Cents: 20000},
		Type:           core.Income,
		ReserveDeposit: true,
	})
}

func TestHandleLedgerChangeUnlocksBadges(t *testing.T) {
	store := memory.New()
	seedReserveDeposit(t, store, "user-1")

	svc := services.NewGamificationService(store, nil)
	w := NewBadgeWorker(svc, store, 2)

	msg := events.NewLedgerChangedMessage("user-1")
	if err := w.HandleLedgerChange(context.Background(), msg); err != nil {
		t.Fatalf("HandleLedgerChange() error = %v", err)
	}

	badges, err := store.ListBadges(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListBadges() error = %v", err)
	}
	found := false
	for _, b := range badges {
		if b.Criteria == core.BadgeFirstReserveDeposit {
			found = true
		}
	}
	if !found {
		t.Fatal("expected first_reserve_deposit badge after ledger change")
	}
}

func TestSweepAllUsersCoversEveryUser(t *testing.T) {
	store := memory.New()
	seedReserveDeposit(t, store, "user-1")
	seedReserveDeposit(t, store, "user-2")

	svc := services.NewGamificationService(store, nil)
	w := NewBadgeWorker(svc, store, 4)

	if err := w.SweepAllUsers(context.Background()); err != nil {
		t.Fatalf("SweepAllUsers() error = %v", err)
	}

	for _, userID := range []string{"user-1", "user-2"} {
		badges, err := store.ListBadges(context.Background(), userID)
		if err != nil {
			t.Fatalf("ListBadges(%q) error = %v", userID, err)
		}
		if len(badges) == 0 {
			t.Errorf("expected badges for %q after sweep", userID)
		}
	}
}

func TestSweepAllUsersEmptyStore(t *testing.T) {
	store := memory.New()
	svc := services.NewGamificationService(store, nil)
	w := NewBadgeWorker(svc, store, 1)

	if err := w.SweepAllUsers(context.Background()); err != nil {
		t.Fatalf("SweepAllUsers() error = %v", err)
	}
}
