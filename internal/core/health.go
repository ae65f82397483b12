package core

import "time"

// Health-score levels, mapped from the total score. Each band is inclusive
// on its lower bound: 40 is Attention, not Critical.
const (
	LevelCritical  = "Critical"
	LevelAttention = "Attention"
	LevelGood      = "Good"
	LevelExcellent = "Excellent"
)

// Maximum points per sub-score. The four always sum to at most 100.
const (
	MaxReserveScore      = 30
	MaxExpenseRatioScore = 30
	MaxConsistencyScore  = 20
	MaxGoalsScore        = 20
)

const maxTips = 3

// HealthScore is the composite 0-100 financial-wellness metric with its
// four sub-scores and up to three advisory tips.
type HealthScore struct {
	Total        int
	Reserve      int
	ExpenseRatio int
	Consistency  int
	Goals        int
	Level        string
	Tips         []string
}

// ComputeHealthScore evaluates the four weighted sub-scores against the
// ledger. The current period is derived from now (UTC calendar fields), so
// the result must be recomputed on demand rather than cached. Tips are
// emitted for every sub-score below its top tier, in the fixed order
// reserve, expense ratio, consistency, goals, truncated to three.
func ComputeHealthScore(transactions []Transaction, goals []Goal, reserveCategoryID string, now time.Time) HealthScore {
	current := PeriodOf(now)
	month := SumByType(PartitionByPeriod(transactions, current).InPeriod)

	var tips []string

	// Reserve adequacy (0-30).
	covered := MonthsCovered(transactions, reserveCategoryID)
	var reserveScore int
	switch {
	case covered >= 6:
		reserveScore = MaxReserveScore
	case covered >= 3:
		reserveScore = 20
	case covered >= 1:
		reserveScore = 10
	}
	if reserveScore < MaxReserveScore {
		tips = append(tips, "Build an emergency reserve worth 3-6 months of expenses")
	}

	// Expense ratio (0-30). No income means no score.
	var ratioScore int
	if month.Income.Cents > 0 {
		ratio := float64(month.Expenses.Cents) / float64(month.Income.Cents)
		switch {
		case ratio <= 0.5:
			ratioScore = MaxExpenseRatioScore
		case ratio <= 0.7:
			ratioScore = 20
		case ratio <= 0.9:
			ratioScore = 10
		}
		if ratioScore < MaxExpenseRatioScore {
			tips = append(tips, "Reduce expenses to less than 70% of your income")
		}
	} else {
		tips = append(tips, "Record your income for a complete analysis")
	}

	// Saving consistency over the trailing 3 months, current included (0-20).
	saved := savingMonths(transactions, current, 3)
	consistencyScore := [4]int{0, 7, 13, MaxConsistencyScore}[saved]
	if consistencyScore < MaxConsistencyScore {
		tips = append(tips, "Try to save something every month")
	}

	// Goal progress (0-20): mean capped progress across all goals,
	// truncated to an integer. No goals means no score.
	var goalsScore int
	if len(goals) > 0 {
		var progress float64
		for _, g := range goals {
			progress += g.Progress()
		}
		goalsScore = int(progress / float64(len(goals)) * MaxGoalsScore)
	}
	if goalsScore < MaxGoalsScore {
		tips = append(tips, "Set financial goals to track your progress")
	}

	total := reserveScore + ratioScore + consistencyScore + goalsScore
	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}

	return HealthScore{
		Total:        total,
		Reserve:      reserveScore,
		ExpenseRatio: ratioScore,
		Consistency:  consistencyScore,
		Goals:        goalsScore,
		Level:        levelFor(total),
		Tips:         tips,
	}
}

// Progress returns the goal's completion ratio capped at 1.0. Goals with a
// non-positive target report zero progress.
func (g Goal) Progress() float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	p := float64(g.Current.Cents) / float64(g.Target.Cents)
	if p > 1 {
		return 1
	}
	return p
}

// savingMonths counts how many of the trailing n periods (current included)
// had income strictly above expenses.
func savingMonths(transactions []Transaction, current Period, n int) int {
	count := 0
	p := current
	for i := 0; i < n; i++ {
		totals := SumByType(PartitionByPeriod(transactions, p).InPeriod)
		if totals.Income.Cents > totals.Expenses.Cents {
			count++
		}
		p = p.Previous()
	}
	return count
}

func levelFor(total int) string {
	switch {
	case total < 40:
		return LevelCritical
	case total < 60:
		return LevelAttention
	case total < 80:
		return LevelGood
	default:
		return LevelExcellent
	}
}
