package core

import (
	"testing"
	"time"
)

func TestApplyGoalContribution(t *testing.T) {
	goal := Goal{Name: "Trip", Target: Money{Cents: 100000}, Current: Money{Cents: 40000}}

	got, err := ApplyGoalContribution(goal, Money{Cents: 25000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Current.Cents != 65000 {
		t.Errorf("Current = %d, want 65000", got.Current.Cents)
	}

	t.Run("may exceed target", func(t *testing.T) {
		got, err := ApplyGoalContribution(goal, Money{Cents: 999999})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.IsCompleted() {
			t.Error("overfunded goal should report completed")
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		for _, cents := range []int64{0, -100} {
			if _, err := ApplyGoalContribution(goal, Money{Cents: cents}); err != ErrInvalidAmount {
				t.Errorf("amount %d: got %v, want ErrInvalidAmount", cents, err)
			}
		}
	})
}

func TestApplyChallengeContribution(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	challenge := Challenge{Name: "Vacation fund", Target: Money{Cents: 10000}}

	t.Run("completion stamped once on crossing", func(t *testing.T) {
		c, err := ApplyChallengeContribution(challenge, Money{Cents: 10000}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !c.Completed || !c.CompletedAt.Equal(now) {
			t.Fatalf("completion not stamped: %+v", c)
		}

		later := now.Add(48 * time.Hour)
		c, err = ApplyChallengeContribution(c, Money{Cents: 500}, later)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Current.Cents != 10500 {
			t.Errorf("Current = %d, want 10500", c.Current.Cents)
		}
		if !c.CompletedAt.Equal(now) {
			t.Errorf("CompletedAt re-stamped to %v, want %v", c.CompletedAt, now)
		}
	})

	t.Run("partial progress", func(t *testing.T) {
		c, err := ApplyChallengeContribution(challenge, Money{Cents: 4000}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Completed {
			t.Error("challenge completed before reaching target")
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		if _, err := ApplyChallengeContribution(challenge, Money{}, now); err != ErrInvalidAmount {
			t.Errorf("got %v, want ErrInvalidAmount", err)
		}
	})
}
