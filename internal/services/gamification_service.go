package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finfamily/internal/core"
	"finfamily/internal/events"
	"finfamily/internal/ledger"
	applog "finfamily/internal/log"
)

// EventPublisher is the outbound announcement port. *events.Client
// satisfies it; a nil publisher disables announcements without failing any
// operation.
type EventPublisher interface {
	PublishBadgeUnlocked(ctx context.Context, msg *events.BadgeUnlockedMessage) error
	PublishChallengeCompleted(ctx context.Context, msg *events.ChallengeCompletedMessage) error
}

// GamificationService evaluates the health score and badge predicates and
// applies goal/challenge contributions. Badge unlocks are persisted through
// the atomic BadgeStore port, so re-evaluation is always idempotent.
type GamificationService struct {
	store     ledger.Store
	publisher EventPublisher
	now       func() time.Time
}

func NewGamificationService(store ledger.Store, publisher EventPublisher) *GamificationService {
	return &GamificationService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Tests pin it to a fixed instant
// since the health score and several predicates depend on the current
// month.
func (s *GamificationService) WithClock(now func() time.Time) *GamificationService {
	s.now = now
	return s
}

// HealthScore computes the composite score from a fresh snapshot. Never
// cached: the result depends on the current month.
func (s *GamificationService) HealthScore(ctx context.Context, userID string) (core.HealthScore, error) {
	transactions, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return core.HealthScore{}, fmt.Errorf("read ledger: %w", err)
	}
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return core.HealthScore{}, fmt.Errorf("read goals: %w", err)
	}
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return core.HealthScore{}, fmt.Errorf("read categories: %w", err)
	}

	var reserveCategoryID string
	if cat, ok := core.FindReserveCategory(categories); ok {
		reserveCategoryID = cat.ID
	}
	return core.ComputeHealthScore(transactions, goals, reserveCategoryID, s.now()), nil
}

// BadgeStatus pairs a catalog entry with its unlock state for display.
type BadgeStatus struct {
	core.BadgeDefinition
	Unlocked   bool
	UnlockedAt time.Time
}

// Badges merges the fixed catalog with the user's unlock records.
func (s *GamificationService) Badges(ctx context.Context, userID string) ([]BadgeStatus, error) {
	unlocked, err := s.store.ListBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read badges: %w", err)
	}

	byCriteria := make(map[core.BadgeCriteria]core.Badge, len(unlocked))
	for _, b := range unlocked {
		byCriteria[b.Criteria] = b
	}

	statuses := make([]BadgeStatus, 0, len(core.BadgeCatalog))
	for _, def := range core.BadgeCatalog {
		status := BadgeStatus{BadgeDefinition: def}
		if b, ok := byCriteria[def.Criteria]; ok {
			status.Unlocked = true
			status.UnlockedAt = b.UnlockedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// CheckBadges re-evaluates every locked predicate against a fresh snapshot
// and persists any new unlocks. Safe to run repeatedly: already unlocked
// criteria are skipped, and the store resolves concurrent duplicates to a
// no-op. Returns the definitions of badges newly unlocked by this call.
func (s *GamificationService) CheckBadges(ctx context.Context, userID string) ([]core.BadgeDefinition, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ListBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read badges: %w", err)
	}
	unlocked := make(map[core.BadgeCriteria]bool, len(existing))
	for _, b := range existing {
		unlocked[b.Criteria] = true
	}

	now := s.now()
	earned := core.EvaluateBadges(snap, unlocked, now)

	var newly []core.BadgeDefinition
	for _, criteria := range earned {
		inserted, err := s.store.UnlockBadge(ctx, core.Badge{
			UserID:     userID,
			Criteria:   criteria,
			UnlockedAt: now,
		})
		if err != nil {
			return newly, fmt.Errorf("unlock badge %s: %w", criteria, err)
		}
		if !inserted {
			// Raced with another evaluator; the other one announces.
			continue
		}

		def, _ := core.FindBadgeDefinition(criteria)
		newly = append(newly, def)

		if s.publisher != nil {
			msg := events.NewBadgeUnlockedMessage(userID, criteria, now)
			if err := s.publisher.PublishBadgeUnlocked(ctx, msg); err != nil {
				// Announcement loss is tolerable; the unlock is durable.
				slog.ErrorContext(ctx, "Failed to publish badge unlocked",
					applog.FieldUserID, userID,
					applog.FieldCriteria, criteria,
					applog.FieldError, err)
			}
		}
	}

	if len(newly) > 0 {
		slog.InfoContext(ctx, "Badges unlocked",
			applog.FieldUserID, userID,
			"count", len(newly))
	}
	return newly, nil
}

// Contribute adds a positive amount to a goal.
func (s *GamificationService) Contribute(ctx context.Context, userID, goalID string, amount core.Money) (core.Goal, error) {
	goal, err := s.store.AddGoalContribution(ctx, userID, goalID, amount)
	if err != nil {
		return core.Goal{}, err
	}
	return goal, nil
}

// ContributeChallenge adds a positive amount to a family challenge and
// announces completion when this contribution crosses the target. The store
// decides completedNow inside its critical section, so concurrent
// contributions announce at most once.
func (s *GamificationService) ContributeChallenge(ctx context.Context, userID, challengeID string, amount core.Money) (core.Challenge, error) {
	challenge, completedNow, err := s.store.AddChallengeContribution(ctx, userID, challengeID, amount, s.now())
	if err != nil {
		return core.Challenge{}, err
	}

	if completedNow && s.publisher != nil {
		msg := events.NewChallengeCompletedMessage(challenge)
		if err := s.publisher.PublishChallengeCompleted(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish challenge completed",
				applog.FieldUserID, userID,
				applog.FieldChallengeID, challengeID,
				applog.FieldError, err)
		}
	}
	return challenge, nil
}

func (s *GamificationService) snapshot(ctx context.Context, userID string) (core.BadgeSnapshot, error) {
	transactions, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return core.BadgeSnapshot{}, fmt.Errorf("read ledger: %w", err)
	}
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return core.BadgeSnapshot{}, fmt.Errorf("read goals: %w", err)
	}
	challenges, err := s.store.ListChallenges(ctx, userID)
	if err != nil {
		return core.BadgeSnapshot{}, fmt.Errorf("read challenges: %w", err)
	}
	members, err := s.store.ListMembers(ctx, userID)
	if err != nil {
		return core.BadgeSnapshot{}, fmt.Errorf("read family members: %w", err)
	}
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return core.BadgeSnapshot{}, fmt.Errorf("read categories: %w", err)
	}

	snap := core.BadgeSnapshot{
		Transactions: transactions,
		Goals:        goals,
		Challenges:   challenges,
		Members:      members,
	}
	if cat, ok := core.FindReserveCategory(categories); ok {
		snap.ReserveCategoryID = cat.ID
	}
	return snap, nil
}
