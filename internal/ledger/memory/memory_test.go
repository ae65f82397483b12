package memory

import (
	"context"
	"testing"
	"time"

	"finfamily/internal/core"
)

const user = "user-1"

func TestStore_TransactionsScopedByUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.AddTransaction(core.Transaction{UserID: user, Type: core.Income, Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 1, 1)})
	s.AddTransaction(core.Transaction{UserID: "other", Type: core.Income, Amount: core.Money{Cents: 200}, Date: core.NewDate(2025, 1, 1)})

	got, err := s.ListTransactions(ctx, user)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 1 || got[0].Amount.Cents != 100 {
		t.Errorf("got %+v, want only the user's transaction", got)
	}
}

func TestStore_UnlockBadgeIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()
	badge := core.Badge{UserID: user, Criteria: core.BadgeGoalCompleted, UnlockedAt: time.Now()}

	inserted, err := s.UnlockBadge(ctx, badge)
	if err != nil || !inserted {
		t.Fatalf("first unlock: inserted=%v err=%v", inserted, err)
	}

	inserted, err = s.UnlockBadge(ctx, badge)
	if err != nil {
		t.Fatalf("second unlock: %v", err)
	}
	if inserted {
		t.Error("second unlock reported inserted, want duplicate skip")
	}

	badges, err := s.ListBadges(ctx, user)
	if err != nil {
		t.Fatalf("ListBadges: %v", err)
	}
	if len(badges) != 1 {
		t.Errorf("got %d badges, want 1", len(badges))
	}
}

func TestStore_AddGoalContribution(t *testing.T) {
	s := New()
	ctx := context.Background()
	goal := s.AddGoal(core.Goal{UserID: user, Name: "Trip", Target: core.Money{Cents: 1000}})

	got, err := s.AddGoalContribution(ctx, user, goal.ID, core.Money{Cents: 400})
	if err != nil {
		t.Fatalf("AddGoalContribution: %v", err)
	}
	if got.Current.Cents != 400 {
		t.Errorf("Current = %d, want 400", got.Current.Cents)
	}

	// The stored goal must reflect the update.
	goals, _ := s.ListGoals(ctx, user)
	if goals[0].Current.Cents != 400 {
		t.Errorf("stored Current = %d, want 400", goals[0].Current.Cents)
	}

	t.Run("missing goal", func(t *testing.T) {
		if _, err := s.AddGoalContribution(ctx, user, "nope", core.Money{Cents: 1}); err != core.ErrNotFound {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("invalid amount leaves state untouched", func(t *testing.T) {
		if _, err := s.AddGoalContribution(ctx, user, goal.ID, core.Money{}); err != core.ErrInvalidAmount {
			t.Errorf("got %v, want ErrInvalidAmount", err)
		}
		goals, _ := s.ListGoals(ctx, user)
		if goals[0].Current.Cents != 400 {
			t.Errorf("stored Current = %d after rejected write, want 400", goals[0].Current.Cents)
		}
	})
}

func TestStore_AddChallengeContribution(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ch := s.AddChallenge(core.Challenge{UserID: user, Name: "Save together", Target: core.Money{Cents: 500}})

	got, completedNow, err := s.AddChallengeContribution(ctx, user, ch.ID, core.Money{Cents: 500}, now)
	if err != nil {
		t.Fatalf("AddChallengeContribution: %v", err)
	}
	if !got.Completed || !got.CompletedAt.Equal(now) {
		t.Errorf("completion not stamped: %+v", got)
	}
	if !completedNow {
		t.Error("completedNow = false for the crossing contribution")
	}

	later := now.Add(time.Hour)
	got, completedNow, err = s.AddChallengeContribution(ctx, user, ch.ID, core.Money{Cents: 100}, later)
	if err != nil {
		t.Fatalf("AddChallengeContribution: %v", err)
	}
	if !got.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt re-stamped to %v, want %v", got.CompletedAt, now)
	}
	if completedNow {
		t.Error("completedNow = true after the challenge was already complete")
	}
}

func TestStore_ListUserIDs(t *testing.T) {
	s := New()
	s.AddTransaction(core.Transaction{UserID: "a", Type: core.Income, Amount: core.Money{Cents: 1}, Date: core.NewDate(2025, 1, 1)})
	s.AddGoal(core.Goal{UserID: "b", Name: "g", Target: core.Money{Cents: 1}})
	s.AddGoal(core.Goal{UserID: "a", Name: "g2", Target: core.Money{Cents: 1}})

	ids, err := s.ListUserIDs(context.Background())
	if err != nil {
		t.Fatalf("ListUserIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("got %v, want two distinct users", ids)
	}
}
