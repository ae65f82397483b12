package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldUserID      = "user_id"
	FieldMonth       = "month"
	FieldYear        = "year"
	FieldGoalID      = "goal_id"
	FieldChallengeID = "challenge_id"
	FieldCriteria    = "criteria"
	FieldAmountCents = "amount_cents"
	FieldSkipped     = "skipped"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
