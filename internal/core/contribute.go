package core

import "time"

// ApplyGoalContribution adds a positive amount to the goal's running total.
// The total is monotonic: the engine only ever increases it, and it may
// exceed the target.
func ApplyGoalContribution(g Goal, amount Money) (Goal, error) {
	if amount.Cents <= 0 {
		return g, ErrInvalidAmount
	}
	g.Current.Cents += amount.Cents
	return g, nil
}

// ApplyChallengeContribution adds a positive amount to the challenge and
// stamps completion exactly once when the total first reaches the target.
// Further contributions past completion keep accumulating without
// re-stamping.
func ApplyChallengeContribution(c Challenge, amount Money, now time.Time) (Challenge, error) {
	if amount.Cents <= 0 {
		return c, ErrInvalidAmount
	}
	c.Current.Cents += amount.Cents
	if !c.Completed && c.Target.Cents > 0 && c.Current.Cents >= c.Target.Cents {
		c.Completed = true
		c.CompletedAt = now
	}
	return c, nil
}
