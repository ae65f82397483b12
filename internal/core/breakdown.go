package core

import (
	"math"
	"sort"
)

// UncategorizedLabel is the bucket name for expenses without a category.
const UncategorizedLabel = "Uncategorized"

// CategoryShare is one slice of the expense breakdown for a period.
type CategoryShare struct {
	CategoryID string // empty for the uncategorized bucket
	Category   string
	Amount     Money
	Percentage float64 // share of the period's total expenses, 2 decimals
}

// ComputeCategoryBreakdown aggregates the period's expense transactions by
// category. Expenses without a category land in the uncategorized bucket;
// categories unknown to the provided list keep their id as the label.
// Percentages are of total period expenses, rounded to 2 decimals, and 0
// when the total is 0. Results are ordered by amount descending; ties keep
// first-seen order.
func ComputeCategoryBreakdown(transactions []Transaction, categories []Category, p Period) []CategoryShare {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	part := PartitionByPeriod(transactions, p)

	sums := make(map[string]int64)
	var order []string
	var total int64
	for _, t := range part.InPeriod {
		if t.Type != Expense {
			continue
		}
		if _, seen := sums[t.CategoryID]; !seen {
			order = append(order, t.CategoryID)
		}
		sums[t.CategoryID] += t.Amount.Cents
		total += t.Amount.Cents
	}

	shares := make([]CategoryShare, 0, len(order))
	for _, id := range order {
		name := UncategorizedLabel
		if id != "" {
			if n, ok := names[id]; ok {
				name = n
			} else {
				name = id
			}
		}
		var pct float64
		if total > 0 {
			pct = math.Round(float64(sums[id])/float64(total)*100*100) / 100
		}
		shares = append(shares, CategoryShare{
			CategoryID: id,
			Category:   name,
			Amount:     Money{Cents: sums[id]},
			Percentage: pct,
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount.Cents > shares[j].Amount.Cents
	})
	return shares
}
