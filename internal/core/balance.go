package core

// BalanceSummary is the dashboard roll-forward for one period: the all-time
// net balance before the period, the period's own totals, and their sum.
type BalanceSummary struct {
	PreviousBalance Money
	PeriodIncome    Money
	PeriodExpenses  Money
	FinalBalance    Money
	Skipped         int
}

// ComputeBalanceSummary folds the ledger into a balance summary for the
// target period. PreviousBalance windows everything strictly before the
// first day of the period; FinalBalance is always exactly
// PreviousBalance + PeriodIncome - PeriodExpenses.
func ComputeBalanceSummary(transactions []Transaction, p Period) BalanceSummary {
	part := PartitionByPeriod(transactions, p)
	prior := SumByType(part.Prior)
	period := SumByType(part.InPeriod)

	previous := prior.Net()
	return BalanceSummary{
		PreviousBalance: previous,
		PeriodIncome:    period.Income,
		PeriodExpenses:  period.Expenses,
		FinalBalance:    previous.Add(period.Net()),
		Skipped:         part.Skipped,
	}
}
