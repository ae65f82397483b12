package services

import (
	"context"
	"fmt"
	"log/slog"

	"finfamily/internal/core"
	"finfamily/internal/ledger"
	applog "finfamily/internal/log"
)

// DashboardService produces the derived dashboard views for one user:
// balance roll-forward, category breakdown, yearly comparison, and the
// emergency-reserve status. All computation happens in core over an
// in-memory snapshot read through the ledger ports.
type DashboardService struct {
	transactions ledger.TransactionReader
	categories   ledger.CategoryReader
}

func NewDashboardService(transactions ledger.TransactionReader, categories ledger.CategoryReader) *DashboardService {
	return &DashboardService{
		transactions: transactions,
		categories:   categories,
	}
}

// BalanceSummary computes the roll-forward for the given month and year.
func (s *DashboardService) BalanceSummary(ctx context.Context, userID string, month, year int) (core.BalanceSummary, error) {
	period, err := core.NewPeriod(month, year)
	if err != nil {
		return core.BalanceSummary{}, err
	}

	transactions, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return core.BalanceSummary{}, fmt.Errorf("read ledger: %w", err)
	}

	summary := core.ComputeBalanceSummary(transactions, period)
	if summary.Skipped > 0 {
		slog.WarnContext(ctx, "Skipped transactions with unusable dates",
			applog.FieldUserID, userID,
			applog.FieldMonth, month,
			applog.FieldYear, year,
			applog.FieldSkipped, summary.Skipped)
	}
	return summary, nil
}

// CategoryBreakdown aggregates the period's expenses by category, ordered
// by amount descending.
func (s *DashboardService) CategoryBreakdown(ctx context.Context, userID string, month, year int) ([]core.CategoryShare, error) {
	period, err := core.NewPeriod(month, year)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	categories, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	return core.ComputeCategoryBreakdown(transactions, categories, period), nil
}

// MonthlyComparison returns the 12 income/expense pairs for a year.
func (s *DashboardService) MonthlyComparison(ctx context.Context, userID string, year int) ([]core.MonthTotals, error) {
	transactions, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return core.ComputeMonthlyComparison(transactions, year), nil
}

// Reserve computes the emergency-reserve status. A user without a reserve
// category gets a zero total and configuration advice, not an error.
func (s *DashboardService) Reserve(ctx context.Context, userID string) (core.ReserveStatus, error) {
	transactions, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return core.ReserveStatus{}, fmt.Errorf("read ledger: %w", err)
	}
	categories, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		return core.ReserveStatus{}, fmt.Errorf("read categories: %w", err)
	}

	var reserveCategoryID string
	if cat, ok := core.FindReserveCategory(categories); ok {
		reserveCategoryID = cat.ID
	}
	return core.ComputeReserve(transactions, reserveCategoryID), nil
}
