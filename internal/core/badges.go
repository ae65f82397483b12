package core

import "time"

// BadgeCriteria names one unlockable achievement. The set is fixed; adding
// a badge means adding a criteria constant, a catalog entry, and a
// predicate.
type BadgeCriteria string

const (
	BadgeNoInterestMonth       BadgeCriteria = "no_interest_month"
	BadgeFirstReserveDeposit   BadgeCriteria = "first_reserve_deposit"
	BadgeGoalCompleted         BadgeCriteria = "goal_completed"
	BadgeConsecutiveSavings    BadgeCriteria = "consecutive_savings"
	BadgeAllMembersContributed BadgeCriteria = "all_members_contributed"
	BadgeHighSavingsRate       BadgeCriteria = "high_savings_rate"
	BadgeAllCategorized        BadgeCriteria = "all_categorized"
	BadgeSolidReserve          BadgeCriteria = "solid_reserve"
)

// BadgeDefinition is the display metadata for one badge.
type BadgeDefinition struct {
	Criteria    BadgeCriteria
	Name        string
	Description string
}

// BadgeCatalog lists every known badge in evaluation order.
var BadgeCatalog = []BadgeDefinition{
	{BadgeNoInterestMonth, "Interest-Free Month", "Completed a month without paying interest"},
	{BadgeFirstReserveDeposit, "Beginner Saver", "Made the first emergency reserve deposit"},
	{BadgeGoalCompleted, "Goal Crusher", "Reached 100% of a financial goal"},
	{BadgeConsecutiveSavings, "Consistency Is Everything", "3 consecutive months with reserve contributions"},
	{BadgeAllMembersContributed, "United Family", "Every family member contributed this month"},
	{BadgeHighSavingsRate, "Master Saver", "Savings rate above 30%"},
	{BadgeAllCategorized, "Financial Organizer", "Categorized every transaction this month"},
	{BadgeSolidReserve, "Solid Reserve", "Emergency reserve covers 6+ months of expenses"},
}

// FindBadgeDefinition looks a badge up by criteria.
func FindBadgeDefinition(criteria BadgeCriteria) (BadgeDefinition, bool) {
	for _, d := range BadgeCatalog {
		if d.Criteria == criteria {
			return d, true
		}
	}
	return BadgeDefinition{}, false
}

// BadgeSnapshot is everything the unlock predicates look at: one user's
// ledger plus goal, challenge, and family state.
type BadgeSnapshot struct {
	Transactions      []Transaction
	Goals             []Goal
	Challenges        []Challenge
	Members           []FamilyMember
	ReserveCategoryID string
}

// badgePredicates maps each evaluable criteria to its unlock condition.
// no_interest_month has no automatic signal in the ledger and is only ever
// granted manually, so it carries no predicate.
var badgePredicates = map[BadgeCriteria]func(BadgeSnapshot, time.Time) bool{
	BadgeFirstReserveDeposit:   hasReserveDeposit,
	BadgeGoalCompleted:         hasCompletedGoal,
	BadgeConsecutiveSavings:    hasConsecutiveSavings,
	BadgeAllMembersContributed: allMembersContributed,
	BadgeHighSavingsRate:       hasHighSavingsRate,
	BadgeAllCategorized:        allCategorized,
	BadgeSolidReserve:          hasSolidReserve,
}

// EvaluateBadges runs every predicate not already unlocked and returns the
// newly earned criteria in catalog order. Evaluation is idempotent: already
// unlocked criteria are skipped, never re-reported, and re-running on
// unchanged data yields nothing new.
func EvaluateBadges(snap BadgeSnapshot, unlocked map[BadgeCriteria]bool, now time.Time) []BadgeCriteria {
	var earned []BadgeCriteria
	for _, def := range BadgeCatalog {
		if unlocked[def.Criteria] {
			continue
		}
		predicate, ok := badgePredicates[def.Criteria]
		if !ok {
			continue
		}
		if predicate(snap, now) {
			earned = append(earned, def.Criteria)
		}
	}
	return earned
}

func hasReserveDeposit(snap BadgeSnapshot, _ time.Time) bool {
	for _, t := range snap.Transactions {
		if t.IsReserveContribution(snap.ReserveCategoryID) {
			return true
		}
	}
	return false
}

func hasCompletedGoal(snap BadgeSnapshot, _ time.Time) bool {
	for _, g := range snap.Goals {
		if g.IsCompleted() {
			return true
		}
	}
	return false
}

// hasConsecutiveSavings requires a reserve contribution in each of the
// trailing 3 calendar months, current included.
func hasConsecutiveSavings(snap BadgeSnapshot, now time.Time) bool {
	p := PeriodOf(now)
	for i := 0; i < 3; i++ {
		found := false
		for _, t := range snap.Transactions {
			if p.Contains(t.Date) && t.IsReserveContribution(snap.ReserveCategoryID) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
		p = p.Previous()
	}
	return true
}

// allMembersContributed requires the set of family members with at least one
// current-month transaction to equal the full registered set, both non-empty.
func allMembersContributed(snap BadgeSnapshot, now time.Time) bool {
	if len(snap.Members) == 0 {
		return false
	}
	current := PeriodOf(now)
	contributed := make(map[string]bool)
	for _, t := range snap.Transactions {
		if current.Contains(t.Date) && t.MemberID != "" {
			contributed[t.MemberID] = true
		}
	}
	if len(contributed) == 0 {
		return false
	}
	registered := make(map[string]bool, len(snap.Members))
	for _, m := range snap.Members {
		if !contributed[m.ID] {
			return false
		}
		registered[m.ID] = true
	}
	// A member id left over from an unregistered member keeps the badge
	// locked: the sets must match exactly.
	for id := range contributed {
		if !registered[id] {
			return false
		}
	}
	return true
}

// hasHighSavingsRate requires a current-month savings rate of at least 30%.
func hasHighSavingsRate(snap BadgeSnapshot, now time.Time) bool {
	totals := SumByType(PartitionByPeriod(snap.Transactions, PeriodOf(now)).InPeriod)
	if totals.Income.Cents <= 0 {
		return false
	}
	rate := float64(totals.Income.Cents-totals.Expenses.Cents) / float64(totals.Income.Cents)
	return rate >= 0.30
}

// allCategorized requires a non-empty current-month transaction set with no
// uncategorized entries.
func allCategorized(snap BadgeSnapshot, now time.Time) bool {
	current := PeriodOf(now)
	found := false
	for _, t := range snap.Transactions {
		if !current.Contains(t.Date) {
			continue
		}
		if t.CategoryID == "" {
			return false
		}
		found = true
	}
	return found
}

// hasSolidReserve requires the reserve total to cover at least 6 months of
// average expenses.
func hasSolidReserve(snap BadgeSnapshot, _ time.Time) bool {
	avg := AverageExpenseCents(snap.Transactions)
	if avg <= 0 {
		return false
	}
	total := ReserveTotal(snap.Transactions, snap.ReserveCategoryID)
	return float64(total.Cents) >= 6*avg
}
