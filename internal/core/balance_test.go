package core

import "testing"

func TestComputeBalanceSummary(t *testing.T) {
	// The scenario from the product docs: one income +5000, one expense
	// -150, both in January 2025, nothing before.
	transactions := []Transaction{
		tx(2025, 1, 5, Income, 500000),
		tx(2025, 1, 10, Expense, 15000),
	}

	got := ComputeBalanceSummary(transactions, Period{Month: 1, Year: 2025})

	if got.PreviousBalance.Cents != 0 {
		t.Errorf("PreviousBalance = %d, want 0", got.PreviousBalance.Cents)
	}
	if got.PeriodIncome.Cents != 500000 {
		t.Errorf("PeriodIncome = %d, want 500000", got.PeriodIncome.Cents)
	}
	if got.PeriodExpenses.Cents != 15000 {
		t.Errorf("PeriodExpenses = %d, want 15000", got.PeriodExpenses.Cents)
	}
	if got.FinalBalance.Cents != 485000 {
		t.Errorf("FinalBalance = %d, want 485000", got.FinalBalance.Cents)
	}
}

func TestComputeBalanceSummary_PreviousWindow(t *testing.T) {
	// Everything strictly before the first day of the target month counts
	// toward the previous balance, including earlier months of the same year.
	transactions := []Transaction{
		tx(2024, 6, 15, Income, 100000),
		tx(2025, 1, 20, Income, 50000),
		tx(2025, 1, 25, Expense, 20000),
		tx(2025, 2, 1, Income, 30000),
		tx(2025, 2, 14, Expense, 10000),
		tx(2025, 3, 1, Income, 70000), // after target, ignored
	}

	got := ComputeBalanceSummary(transactions, Period{Month: 2, Year: 2025})

	if want := int64(130000); got.PreviousBalance.Cents != want {
		t.Errorf("PreviousBalance = %d, want %d", got.PreviousBalance.Cents, want)
	}
	if got.FinalBalance.Cents != 150000 {
		t.Errorf("FinalBalance = %d, want 150000", got.FinalBalance.Cents)
	}
}

func TestComputeBalanceSummary_Identity(t *testing.T) {
	// finalBalance == previousBalance + periodIncome - periodExpenses must
	// hold exactly for any transaction set.
	sets := [][]Transaction{
		nil,
		{tx(2025, 3, 1, Income, 1)},
		{
			tx(2024, 1, 1, Expense, 12345),
			tx(2024, 2, 1, Income, 99999),
			tx(2025, 3, 10, Expense, 555),
			tx(2025, 3, 11, Income, 777),
			{Type: Expense, Amount: Money{Cents: 31337}}, // skipped
		},
	}

	for _, transactions := range sets {
		got := ComputeBalanceSummary(transactions, Period{Month: 3, Year: 2025})
		want := got.PreviousBalance.Cents + got.PeriodIncome.Cents - got.PeriodExpenses.Cents
		if got.FinalBalance.Cents != want {
			t.Errorf("FinalBalance = %d, want %d", got.FinalBalance.Cents, want)
		}
	}
}
