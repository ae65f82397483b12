package events

import (
	"encoding/json"
	"time"

	"finfamily/internal/core"
)

// LedgerChangedMessage tells the badge worker that a user's ledger, goals,
// or challenges changed and their badge predicates should be re-evaluated.
type LedgerChangedMessage struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(userID string) *LedgerChangedMessage {
	return &LedgerChangedMessage{UserID: userID, Timestamp: time.Now().UTC()}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BadgeUnlockedMessage announces a newly earned badge.
type BadgeUnlockedMessage struct {
	UserID     string             `json:"user_id"`
	Criteria   core.BadgeCriteria `json:"criteria"`
	UnlockedAt time.Time          `json:"unlocked_at"`
}

func NewBadgeUnlockedMessage(userID string, criteria core.BadgeCriteria, unlockedAt time.Time) *BadgeUnlockedMessage {
	return &BadgeUnlockedMessage{UserID: userID, Criteria: criteria, UnlockedAt: unlockedAt}
}

func (m *BadgeUnlockedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChallengeCompletedMessage announces that a family challenge crossed its
// target. Published at most once per challenge, matching the one-shot
// completion stamp.
type ChallengeCompletedMessage struct {
	UserID      string    `json:"user_id"`
	ChallengeID string    `json:"challenge_id"`
	Name        string    `json:"name"`
	CompletedAt time.Time `json:"completed_at"`
}

func NewChallengeCompletedMessage(c core.Challenge) *ChallengeCompletedMessage {
	return &ChallengeCompletedMessage{
		UserID:      c.UserID,
		ChallengeID: c.ID,
		Name:        c.Name,
		CompletedAt: c.CompletedAt,
	}
}

func (m *ChallengeCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
