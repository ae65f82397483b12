package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"finfamily/internal/config"
	"finfamily/internal/core"
	"finfamily/internal/events"
	"finfamily/internal/ledger"
	"finfamily/internal/ledger/memory"
	applog "finfamily/internal/log"
	"finfamily/internal/services"
	"finfamily/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	now := time.Now().UTC()
	userID := flag.String("user", "", "user id to report on")
	month := flag.Int("month", int(now.Month()), "report month (1-12)")
	year := flag.Int("year", now.Year(), "report year")
	goalID := flag.String("goal", "", "goal id to contribute to before reporting")
	contribute := flag.String("contribute", "", "decimal amount to contribute, e.g. 150.00")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: finfamily -user <id> [-month M] [-year Y] [-goal <id> -contribute <amount>]")
		os.Exit(2)
	}
	if (*goalID == "") != (*contribute == "") {
		fmt.Fprintln(os.Stderr, "-goal and -contribute must be used together")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	var store ledger.Store
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		if err := repo.EnsureDefaultCategories(ctx, *userID); err != nil {
			logger.Error("Failed to seed default categories", applog.FieldError, err)
			os.Exit(1)
		}
		store = repo
	default:
		store = memory.New()
	}

	dashboard := services.NewDashboardService(store, store)
	gamification := services.NewGamificationService(store, nil)

	if *goalID != "" {
		if err := contributeToGoal(ctx, cfg, gamification, *userID, *goalID, *contribute); err != nil {
			logger.Error("Contribution failed", applog.FieldError, err, applog.FieldUserID, *userID, applog.FieldGoalID, *goalID)
			os.Exit(1)
		}
	}

	if err := report(ctx, dashboard, gamification, *userID, *month, *year); err != nil {
		logger.Error("Report failed", applog.FieldError, err, applog.FieldUserID, *userID)
		os.Exit(1)
	}
}

func contributeToGoal(ctx context.Context, cfg *config.Config, gamification *services.GamificationService, userID, goalID, amount string) error {
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", amount, err)
	}

	goal, err := gamification.Contribute(ctx, userID, goalID, core.Money{Cents: cents})
	if err != nil {
		return fmt.Errorf("contribute: %w", err)
	}
	fmt.Printf("Contributed %.2f to %s, now at %.1f%% of target\n\n",
		core.Money{Cents: cents}.Float64(), goal.Name, goal.Progress()*100)

	// Nudge the badge worker; a lost nudge is caught by its periodic sweep.
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.WarnContext(ctx, "AMQP unavailable, skipping ledger change notification", applog.FieldError, err)
		return nil
	}
	defer client.Close()
	if err := client.PublishLedgerChanged(ctx, userID); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger change", applog.FieldError, err, applog.FieldUserID, userID)
	}
	return nil
}

func report(ctx context.Context, dashboard *services.DashboardService, gamification *services.GamificationService, userID string, month, year int) error {
	summary, err := dashboard.BalanceSummary(ctx, userID, month, year)
	if err != nil {
		return fmt.Errorf("balance summary: %w", err)
	}

	fmt.Printf("Report for %s, %02d/%d\n\n", userID, month, year)
	fmt.Printf("Previous balance: %s\n", summary.PreviousBalance)
	fmt.Printf("Income:           %s\n", summary.PeriodIncome)
	fmt.Printf("Expenses:         %s\n", summary.PeriodExpenses)
	fmt.Printf("Final balance:    %s\n", summary.FinalBalance)
	if summary.Skipped > 0 {
		fmt.Printf("(%d transactions skipped for unparsable dates)\n", summary.Skipped)
	}

	shares, err := dashboard.CategoryBreakdown(ctx, userID, month, year)
	if err != nil {
		return fmt.Errorf("category breakdown: %w", err)
	}
	if len(shares) > 0 {
		fmt.Println("\nExpenses by category:")
		for _, s := range shares {
			fmt.Printf("  %-20s %10s  %5.2f%%\n", s.Category, s.Amount, s.Percentage)
		}
	}

	months, err := dashboard.MonthlyComparison(ctx, userID, year)
	if err != nil {
		return fmt.Errorf("monthly comparison: %w", err)
	}
	fmt.Println("\nMonthly comparison:")
	for _, m := range months {
		fmt.Printf("  %-4s income %10s  expenses %10s\n", m.Month, m.Income, m.Expenses)
	}

	reserve, err := dashboard.Reserve(ctx, userID)
	if err != nil {
		return fmt.Errorf("reserve: %w", err)
	}
	fmt.Println("\nEmergency reserve:")
	fmt.Printf("  Total:  %s\n", reserve.Total)
	if reserve.Configured {
		fmt.Printf("  Covers: %.1f months of expenses\n", reserve.MonthsCovered)
	}
	fmt.Printf("  %s\n", reserve.Message)

	health, err := gamification.HealthScore(ctx, userID)
	if err != nil {
		return fmt.Errorf("health score: %w", err)
	}
	fmt.Println("\nFinancial health:")
	fmt.Printf("  Score: %d/100 (%s)\n", health.Total, health.Level)
	fmt.Printf("  Reserve %d/%d, expense ratio %d/%d, consistency %d/%d, goals %d/%d\n",
		health.Reserve, core.MaxReserveScore,
		health.ExpenseRatio, core.MaxExpenseRatioScore,
		health.Consistency, core.MaxConsistencyScore,
		health.Goals, core.MaxGoalsScore)
	for _, tip := range health.Tips {
		fmt.Printf("  - %s\n", tip)
	}

	badges, err := gamification.Badges(ctx, userID)
	if err != nil {
		return fmt.Errorf("badges: %w", err)
	}
	fmt.Println("\nBadges:")
	for _, b := range badges {
		mark := " "
		if b.Unlocked {
			mark = "x"
		}
		fmt.Printf("  [%s] %s\n", mark, b.Name)
	}

	return nil
}
