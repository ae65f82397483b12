package core

import "fmt"

// Reserve adequacy thresholds in months of expenses covered.
const (
	ReserveExcellentMonths = 6.0
	ReserveGoodMonths      = 3.0
)

// ReserveStatus is the emergency-reserve view: the running total, how many
// months of typical expenses it covers, and an advisory message.
type ReserveStatus struct {
	Total         Money
	MonthsCovered float64
	Configured    bool
	Message       string
}

// ReserveTotal computes the running reserve balance. Per transaction, the
// deposit flag adds, the withdrawal flag subtracts, and otherwise membership
// in the reserve category adds for income and subtracts for expenses. The
// flags take precedence over category membership. An empty category id means
// the reserve is not configured and the total is zero.
func ReserveTotal(transactions []Transaction, reserveCategoryID string) Money {
	if reserveCategoryID == "" {
		return Money{}
	}
	var total Money
	for _, t := range transactions {
		switch {
		case t.ReserveDeposit:
			total.Cents += t.Amount.Cents
		case t.ReserveWithdrawal:
			total.Cents -= t.Amount.Cents
		case t.CategoryID == reserveCategoryID:
			if t.Type == Income {
				total.Cents += t.Amount.Cents
			} else {
				total.Cents -= t.Amount.Cents
			}
		}
	}
	return total
}

// AverageExpenseCents returns the mean amount of all expense-type
// transactions, in cents. This is the shared denominator for "months
// covered" in both the reserve view and the health score, so the two never
// report divergent numbers. Zero when there are no expense transactions.
func AverageExpenseCents(transactions []Transaction) float64 {
	var sum int64
	var n int
	for _, t := range transactions {
		if t.Type == Expense {
			sum += t.Amount.Cents
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// MonthsCovered divides the reserve total by the average expense. Zero when
// the average is not positive.
func MonthsCovered(transactions []Transaction, reserveCategoryID string) float64 {
	avg := AverageExpenseCents(transactions)
	if avg <= 0 {
		return 0
	}
	return float64(ReserveTotal(transactions, reserveCategoryID).Cents) / avg
}

// ComputeReserve produces the full reserve status. A missing reserve
// category is not an error: the status carries Configured=false and an
// advisory message telling the caller to set the category up.
func ComputeReserve(transactions []Transaction, reserveCategoryID string) ReserveStatus {
	if reserveCategoryID == "" {
		return ReserveStatus{
			Message: "Set up your Emergency Reserve category to start tracking",
		}
	}

	total := ReserveTotal(transactions, reserveCategoryID)
	covered := MonthsCovered(transactions, reserveCategoryID)

	var message string
	switch {
	case covered >= ReserveExcellentMonths:
		message = fmt.Sprintf("Excellent! %.1f months of expenses saved", covered)
	case covered >= ReserveGoodMonths:
		message = fmt.Sprintf("Good progress! %.1f months of expenses saved", covered)
	default:
		message = fmt.Sprintf("Keep building your reserve (%.1f months)", covered)
	}

	return ReserveStatus{
		Total:         total,
		MonthsCovered: covered,
		Configured:    true,
		Message:       message,
	}
}
