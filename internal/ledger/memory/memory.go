// Package memory is an in-memory ledger store. It backs the default data
// backend and the service tests; the SQLite repository is the durable
// implementation of the same ports.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"finfamily/internal/core"
)

type Store struct {
	mu           sync.Mutex
	transactions map[string][]core.Transaction
	categories   map[string][]core.Category
	goals        map[string][]core.Goal
	challenges   map[string][]core.Challenge
	members      map[string][]core.FamilyMember
	badges       map[string][]core.Badge
}

func New() *Store {
	return &Store{
		transactions: make(map[string][]core.Transaction),
		categories:   make(map[string][]core.Category),
		goals:        make(map[string][]core.Goal),
		challenges:   make(map[string][]core.Challenge),
		members:      make(map[string][]core.FamilyMember),
		badges:       make(map[string][]core.Badge),
	}
}

// AddTransaction records a ledger entry, assigning an id when absent.
func (s *Store) AddTransaction(t core.Transaction) core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.transactions[t.UserID] = append(s.transactions[t.UserID], t)
	return t
}

func (s *Store) AddCategory(c core.Category) core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.categories[c.UserID] = append(s.categories[c.UserID], c)
	return c
}

func (s *Store) AddGoal(g core.Goal) core.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	s.goals[g.UserID] = append(s.goals[g.UserID], g)
	return g
}

func (s *Store) AddChallenge(c core.Challenge) core.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.challenges[c.UserID] = append(s.challenges[c.UserID], c)
	return c
}

func (s *Store) AddMember(m core.FamilyMember) core.FamilyMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	s.members[m.UserID] = append(s.members[m.UserID], m)
	return m
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions[userID]...), nil
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories[userID]...), nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals[userID]...), nil
}

func (s *Store) ListChallenges(_ context.Context, userID string) ([]core.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Challenge(nil), s.challenges[userID]...), nil
}

func (s *Store) ListMembers(_ context.Context, userID string) ([]core.FamilyMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.FamilyMember(nil), s.members[userID]...), nil
}

func (s *Store) ListUserIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for id := range s.transactions {
		add(id)
	}
	for id := range s.goals {
		add(id)
	}
	for id := range s.challenges {
		add(id)
	}
	return ids, nil
}

func (s *Store) ListBadges(_ context.Context, userID string) ([]core.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Badge(nil), s.badges[userID]...), nil
}

// UnlockBadge inserts the unlock unless the (user, criteria) pair already
// exists. The check and insert happen under one lock, mirroring the unique
// index in the SQLite backend.
func (s *Store) UnlockBadge(_ context.Context, badge core.Badge) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.badges[badge.UserID] {
		if b.Criteria == badge.Criteria {
			return false, nil
		}
	}
	if badge.ID == "" {
		badge.ID = uuid.NewString()
	}
	s.badges[badge.UserID] = append(s.badges[badge.UserID], badge)
	return true, nil
}

func (s *Store) AddGoalContribution(_ context.Context, userID, goalID string, amount core.Money) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := s.goals[userID]
	for i, g := range goals {
		if g.ID == goalID {
			updated, err := core.ApplyGoalContribution(g, amount)
			if err != nil {
				return core.Goal{}, err
			}
			goals[i] = updated
			return updated, nil
		}
	}
	return core.Goal{}, core.ErrNotFound
}

func (s *Store) AddChallengeContribution(_ context.Context, userID, challengeID string, amount core.Money, now time.Time) (core.Challenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	challenges := s.challenges[userID]
	for i, c := range challenges {
		if c.ID == challengeID {
			updated, err := core.ApplyChallengeContribution(c, amount, now)
			if err != nil {
				return core.Challenge{}, false, err
			}
			completedNow := updated.Completed && !c.Completed
			challenges[i] = updated
			return updated, completedNow, nil
		}
	}
	return core.Challenge{}, false, core.ErrNotFound
}
