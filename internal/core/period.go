package core

import "time"

// Period is a calendar month+year bucket. All aggregation windows are
// expressed in terms of it.
type Period struct {
	Month int // 1-12
	Year  int
}

// NewPeriod validates the month range and returns the bucket.
func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, ErrInvalidMonth
	}
	return Period{Month: month, Year: year}, nil
}

// PeriodOf returns the bucket containing the given instant, using its UTC
// calendar fields.
func PeriodOf(t time.Time) Period {
	u := t.UTC()
	return Period{Month: int(u.Month()), Year: u.Year()}
}

// Start returns the first instant of the period (midnight UTC on the 1st).
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Previous returns the period one month earlier, rolling the year.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

// Contains reports whether the date falls in this period. Zero dates never
// match.
func (p Period) Contains(d Date) bool {
	if d.IsZero() {
		return false
	}
	u := d.UTC()
	return u.Year() == p.Year && int(u.Month()) == p.Month
}

// PeriodTotals holds summed income and expenses for one partition.
type PeriodTotals struct {
	Income   Money
	Expenses Money
}

// Net returns income minus expenses.
func (t PeriodTotals) Net() Money {
	return t.Income.Sub(t.Expenses)
}

// Partition splits a transaction set around a target period.
type Partition struct {
	InPeriod []Transaction // date falls in the target period
	Prior    []Transaction // date strictly before the first day of the period
	Skipped  int           // records with an unusable date, excluded entirely
}

// PartitionByPeriod buckets transactions against the target period. Records
// whose date could not be parsed at the storage boundary (zero Date) are
// counted in Skipped rather than failing the whole aggregation.
func PartitionByPeriod(transactions []Transaction, p Period) Partition {
	var out Partition
	start := p.Start()
	for _, t := range transactions {
		switch {
		case t.Date.IsZero():
			out.Skipped++
		case p.Contains(t.Date):
			out.InPeriod = append(out.InPeriod, t)
		case t.Date.UTC().Before(start):
			out.Prior = append(out.Prior, t)
		}
	}
	return out
}

// SumByType folds a transaction slice into income and expense totals.
// Unknown types contribute nothing.
func SumByType(transactions []Transaction) PeriodTotals {
	var totals PeriodTotals
	for _, t := range transactions {
		switch t.Type {
		case Income:
			totals.Income.Cents += t.Amount.Cents
		case Expense:
			totals.Expenses.Cents += t.Amount.Cents
		}
	}
	return totals
}
