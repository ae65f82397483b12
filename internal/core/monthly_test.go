package core

import "testing"

func TestComputeMonthlyComparison(t *testing.T) {
	transactions := []Transaction{
		tx(2025, 1, 10, Income, 500000),
		tx(2025, 1, 12, Expense, 120000),
		tx(2025, 7, 4, Expense, 30000),
		tx(2025, 12, 31, Income, 1000),
		tx(2024, 7, 4, Expense, 999999), // other year, ignored
		{Type: Income, Amount: Money{Cents: 555}}, // zero date, ignored
	}

	got := ComputeMonthlyComparison(transactions, 2025)

	if len(got) != 12 {
		t.Fatalf("got %d entries, want exactly 12", len(got))
	}
	if got[0].Month != "Jan" || got[11].Month != "Dec" {
		t.Errorf("calendar order broken: first=%s last=%s", got[0].Month, got[11].Month)
	}
	if got[0].Income.Cents != 500000 || got[0].Expenses.Cents != 120000 {
		t.Errorf("Jan = %+v, want income 500000 expenses 120000", got[0])
	}
	if got[6].Expenses.Cents != 30000 {
		t.Errorf("Jul expenses = %d, want 30000", got[6].Expenses.Cents)
	}
	if got[11].Income.Cents != 1000 {
		t.Errorf("Dec income = %d, want 1000", got[11].Income.Cents)
	}
	// Months with no data report zeros, not gaps.
	if got[3].Income.Cents != 0 || got[3].Expenses.Cents != 0 {
		t.Errorf("Apr = %+v, want zero totals", got[3])
	}
}

func TestComputeMonthlyComparison_EmptyLedger(t *testing.T) {
	got := ComputeMonthlyComparison(nil, 2025)
	if len(got) != 12 {
		t.Fatalf("got %d entries, want 12", len(got))
	}
	for i, m := range got {
		if m.Income.Cents != 0 || m.Expenses.Cents != 0 {
			t.Errorf("entry %d = %+v, want zeros", i, m)
		}
	}
}
