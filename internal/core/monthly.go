package core

var monthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthTotals is one bar of the yearly income/expense comparison chart.
type MonthTotals struct {
	Month    string // Jan..Dec
	Income   Money
	Expenses Money
}

// ComputeMonthlyComparison sums income and expenses for each month of the
// target year. The result always has exactly 12 entries in calendar order;
// months with no transactions report zero totals.
func ComputeMonthlyComparison(transactions []Transaction, year int) []MonthTotals {
	result := make([]MonthTotals, 12)
	for i := range result {
		result[i].Month = monthLabels[i]
	}
	for _, t := range transactions {
		if t.Date.IsZero() {
			continue
		}
		u := t.Date.UTC()
		if u.Year() != year {
			continue
		}
		m := &result[int(u.Month())-1]
		switch t.Type {
		case Income:
			m.Income.Cents += t.Amount.Cents
		case Expense:
			m.Expenses.Cents += t.Amount.Cents
		}
	}
	return result
}
