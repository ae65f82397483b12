package events

import (
	"testing"
	"time"

	"finfamily/internal/core"
)

func TestLedgerChangedMessageRoundTrip(t *testing.T) {
	msg := NewLedgerChangedMessage("user-1")

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := LedgerChangedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", got.UserID)
	}
	if got.Timestamp.IsZero() {
		t.Error("Timestamp should be set by the constructor")
	}
}

func TestLedgerChangedMessageFromJSON_Invalid(t *testing.T) {
	if _, err := LedgerChangedMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for invalid payload")
	}
}

func TestNewChallengeCompletedMessage(t *testing.T) {
	completedAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	challenge := core.Challenge{
		ID:          "ch-1",
		UserID:      "user-1",
		Name:        "Save together",
		Completed:   true,
		CompletedAt: completedAt,
	}

	msg := NewChallengeCompletedMessage(challenge)
	if msg.ChallengeID != "ch-1" || msg.UserID != "user-1" {
		t.Errorf("message = %+v, want challenge and user ids carried over", msg)
	}
	if !msg.CompletedAt.Equal(completedAt) {
		t.Errorf("CompletedAt = %v, want %v", msg.CompletedAt, completedAt)
	}
}
