// Package worker runs badge evaluation outside the request path: ledger
// changes arrive as AMQP messages and trigger a re-check for the affected
// user, with a periodic full sweep as a backup for lost messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"finfamily/internal/events"
	"finfamily/internal/ledger"
	applog "finfamily/internal/log"
	"finfamily/internal/services"
)

type BadgeWorker struct {
	gamification *services.GamificationService
	users        ledger.UserLister
	concurrency  int
}

func NewBadgeWorker(gamification *services.GamificationService, users ledger.UserLister, concurrency int) *BadgeWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BadgeWorker{
		gamification: gamification,
		users:        users,
		concurrency:  concurrency,
	}
}

// HandleLedgerChange re-evaluates badges for the user named in the message.
func (w *BadgeWorker) HandleLedgerChange(ctx context.Context, msg *events.LedgerChangedMessage) error {
	newly, err := w.gamification.CheckBadges(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("check badges: %w", err)
	}
	if len(newly) > 0 {
		slog.InfoContext(ctx, "Ledger change unlocked badges",
			applog.FieldUserID, msg.UserID,
			"count", len(newly))
	}
	return nil
}

// SweepAllUsers re-evaluates badges for every known user. Users are
// independent, so the sweep fans out with bounded concurrency; one user's
// failure doesn't stop the rest.
func (w *BadgeWorker) SweepAllUsers(ctx context.Context) error {
	userIDs, err := w.users.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Starting badge sweep", "users", len(userIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, userID := range userIDs {
		g.Go(func() error {
			if _, err := w.gamification.CheckBadges(ctx, userID); err != nil {
				slog.ErrorContext(ctx, "Badge sweep failed for user",
					applog.FieldUserID, userID,
					applog.FieldError, err)
			}
			return nil
		})
	}
	return g.Wait()
}
