// Package ledger defines the ports between the aggregation engine and its
// surroundings: read-only views over one user's records and narrow write
// interfaces for the computed side effects (badge unlocks, goal and
// challenge totals). The engine itself never touches a database.
package ledger

import (
	"context"
	"time"

	"finfamily/internal/core"
)

// Ports for outbound adapters. Every method is scoped to a single user; the
// engine never aggregates across users.
type (
	TransactionReader interface {
		// ListTransactions returns the user's full ledger. Records whose
		// stored date could not be parsed carry a zero Date and are skipped
		// by the aggregators.
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	}

	CategoryReader interface {
		ListCategories(ctx context.Context, userID string) ([]core.Category, error)
	}

	GoalReader interface {
		ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	}

	ChallengeReader interface {
		ListChallenges(ctx context.Context, userID string) ([]core.Challenge, error)
	}

	MemberReader interface {
		ListMembers(ctx context.Context, userID string) ([]core.FamilyMember, error)
	}

	UserLister interface {
		// ListUserIDs returns every known user id, for full-sweep workers.
		ListUserIDs(ctx context.Context) ([]string, error)
	}

	// BadgeStore records unlocks. UnlockBadge must be an atomic
	// check-then-act per (user, criteria): it reports false without error
	// when the badge was already unlocked.
	BadgeStore interface {
		ListBadges(ctx context.Context, userID string) ([]core.Badge, error)
		UnlockBadge(ctx context.Context, badge core.Badge) (inserted bool, err error)
	}

	// GoalWriter applies a contribution as a single atomic read-modify-write.
	// Returns core.ErrNotFound when the goal does not exist; no partial
	// state change in that case.
	GoalWriter interface {
		AddGoalContribution(ctx context.Context, userID, goalID string, amount core.Money) (core.Goal, error)
	}

	// ChallengeWriter applies a contribution and stamps completion exactly
	// once when the total first crosses the target. completedNow reports
	// whether this call was the one that crossed it; it is decided inside
	// the store's critical section, so at most one concurrent caller ever
	// sees true.
	ChallengeWriter interface {
		AddChallengeContribution(ctx context.Context, userID, challengeID string, amount core.Money, now time.Time) (c core.Challenge, completedNow bool, err error)
	}
)

// Store is the full set of ports a storage backend provides.
type Store interface {
	TransactionReader
	CategoryReader
	GoalReader
	ChallengeReader
	MemberReader
	UserLister
	BadgeStore
	GoalWriter
	ChallengeWriter
}
