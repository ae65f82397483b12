// Package storage is the SQLite implementation of the ledger ports.
// Records are converted to the typed core structs at this boundary; the
// engine never sees raw rows.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"finfamily/internal/core"
	applog "finfamily/internal/log"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListTransactions implements ledger.TransactionReader. Rows with an
// unparsable stored date are returned with a zero Date so the aggregators
// skip them instead of the whole read failing.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, description, amount_cents, type, category_id, member_id, bank_id,
		       is_reserve_deposit, is_reserve_withdrawal
		FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var date string
		var categoryID, memberID, bankID sql.NullString
		var deposit, withdrawal int
		if err := rows.Scan(&t.ID, &date, &t.Description, &t.Amount.Cents, &t.Type,
			&categoryID, &memberID, &bankID, &deposit, &withdrawal); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.UserID = userID
		t.Date = parseDate(ctx, t.ID, date)
		t.CategoryID = categoryID.String
		t.MemberID = memberID.String
		t.BankID = bankID.String
		t.ReserveDeposit = deposit != 0
		t.ReserveWithdrawal = withdrawal != 0
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, is_fixed, is_reserve
		FROM categories WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		var isFixed, isReserve int
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &isFixed, &isReserve); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.UserID = userID
		c.IsFixed = isFixed != 0
		c.IsReserve = isReserve != 0
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target_cents, current_cents, deadline
		FROM goals WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var (
			g        core.Goal
			deadline sql.NullString
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Current.Cents, &deadline); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.UserID = userID
		if deadline.Valid {
			g.Deadline = parseDate(ctx, g.ID, deadline.String)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) ListChallenges(ctx context.Context, userID string) ([]core.Challenge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, reward, target_cents, current_cents, deadline, is_completed, completed_at
		FROM challenges WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []core.Challenge
	for rows.Next() {
		c, err := scanChallenge(ctx, rows)
		if err != nil {
			return nil, err
		}
		c.UserID = userID
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

func (r *SQLiteRepository) ListMembers(ctx context.Context, userID string) ([]core.FamilyMember, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name FROM family_members WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}
	defer rows.Close()

	var members []core.FamilyMember
	for rows.Next() {
		var m core.FamilyMember
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		m.UserID = userID
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) ListBadges(ctx context.Context, userID string) ([]core.Badge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, criteria, unlocked_at FROM badges WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var badges []core.Badge
	for rows.Next() {
		var (
			b          core.Badge
			unlockedAt string
		)
		if err := rows.Scan(&b.ID, &b.Criteria, &unlockedAt); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		b.UserID = userID
		if ts, err := time.Parse(time.RFC3339, unlockedAt); err == nil {
			b.UnlockedAt = ts
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// UnlockBadge implements ledger.BadgeStore. The UNIQUE(user_id, criteria)
// index makes the check-then-act atomic: a concurrent duplicate insert
// resolves to zero affected rows, reported as inserted=false.
func (r *SQLiteRepository) UnlockBadge(ctx context.Context, badge core.Badge) (bool, error) {
	id := badge.ID
	if id == "" {
		id = uuid.NewString()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO badges (id, user_id, criteria, unlocked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, criteria) DO NOTHING`,
		id, badge.UserID, string(badge.Criteria), badge.UnlockedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("unlock badge: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unlock badge rows affected: %w", err)
	}
	if affected > 0 {
		slog.InfoContext(ctx, "Badge unlocked",
			applog.FieldUserID, badge.UserID,
			applog.FieldCriteria, badge.Criteria)
	}
	return affected > 0, nil
}

// AddGoalContribution implements ledger.GoalWriter. The read-modify-write
// runs inside one transaction so concurrent contributions for the same goal
// serialize instead of losing updates.
func (r *SQLiteRepository) AddGoalContribution(ctx context.Context, userID, goalID string, amount core.Money) (core.Goal, error) {
	if amount.Cents <= 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Goal{}, fmt.Errorf("begin contribution: %w", err)
	}
	defer tx.Rollback()

	var g core.Goal
	var deadline sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT id, name, target_cents, current_cents, deadline
		FROM goals WHERE id = ? AND user_id = ?`, goalID, userID).
		Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Current.Cents, &deadline)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("read goal: %w", err)
	}
	g.UserID = userID
	if deadline.Valid {
		g.Deadline = parseDate(ctx, g.ID, deadline.String)
	}

	updated, err := core.ApplyGoalContribution(g, amount)
	if err != nil {
		return core.Goal{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE goals SET current_cents = ? WHERE id = ? AND user_id = ?`,
		updated.Current.Cents, goalID, userID); err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Goal{}, fmt.Errorf("commit contribution: %w", err)
	}

	slog.InfoContext(ctx, "Goal contribution applied",
		applog.FieldUserID, userID,
		applog.FieldGoalID, goalID,
		applog.FieldAmountCents, amount.Cents)
	return updated, nil
}

// AddChallengeContribution implements ledger.ChallengeWriter. Completion is
// stamped by the core rule inside the same transaction as the total update,
// so it can never be stamped twice and completedNow is true for exactly one
// caller.
func (r *SQLiteRepository) AddChallengeContribution(ctx context.Context, userID, challengeID string, amount core.Money, now time.Time) (core.Challenge, bool, error) {
	if amount.Cents <= 0 {
		return core.Challenge{}, false, core.ErrInvalidAmount
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Challenge{}, false, fmt.Errorf("begin contribution: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, name, reward, target_cents, current_cents, deadline, is_completed, completed_at
		FROM challenges WHERE id = ? AND user_id = ?`, challengeID, userID)
	c, err := scanChallenge(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Challenge{}, false, core.ErrNotFound
	}
	if err != nil {
		return core.Challenge{}, false, err
	}
	c.UserID = userID

	updated, err := core.ApplyChallengeContribution(c, amount, now)
	if err != nil {
		return core.Challenge{}, false, err
	}
	completedNow := updated.Completed && !c.Completed

	var completedAt any
	if updated.Completed {
		completedAt = updated.CompletedAt.UTC().Format(time.RFC3339)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE challenges SET current_cents = ?, is_completed = ?, completed_at = ?
		WHERE id = ? AND user_id = ?`,
		updated.Current.Cents, boolToInt(updated.Completed), completedAt, challengeID, userID); err != nil {
		return core.Challenge{}, false, fmt.Errorf("update challenge: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Challenge{}, false, fmt.Errorf("commit contribution: %w", err)
	}

	slog.InfoContext(ctx, "Challenge contribution applied",
		applog.FieldUserID, userID,
		applog.FieldChallengeID, challengeID,
		applog.FieldAmountCents, amount.Cents,
		"completed", updated.Completed)
	return updated, completedNow, nil
}

// EnsureDefaultCategories seeds the fixed category set for a user,
// including the emergency-reserve category. Idempotent: existing rows are
// left alone.
func (r *SQLiteRepository) EnsureDefaultCategories(ctx context.Context, userID string) error {
	defaults := []core.Category{
		{Name: "Salary", Type: core.CategoryIncome, IsFixed: true},
		{Name: "Food", Type: core.CategoryExpense, IsFixed: true},
		{Name: "Housing", Type: core.CategoryExpense, IsFixed: true},
		{Name: "Transport", Type: core.CategoryExpense, IsFixed: true},
		{Name: "Health", Type: core.CategoryExpense, IsFixed: true},
		{Name: core.ReserveCategoryName, Type: core.CategorySpecial, IsFixed: true, IsReserve: true},
	}
	for _, c := range defaults {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO categories (id, user_id, name, type, is_fixed, is_reserve)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, name) DO NOTHING`,
			uuid.NewString(), userID, c.Name, string(c.Type), boolToInt(c.IsFixed), boolToInt(c.IsReserve)); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallenge(ctx context.Context, row rowScanner) (core.Challenge, error) {
	var c core.Challenge
	var deadline, completedAt sql.NullString
	var completed int
	if err := row.Scan(&c.ID, &c.Name, &c.Reward, &c.Target.Cents, &c.Current.Cents,
		&deadline, &completed, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Challenge{}, sql.ErrNoRows
		}
		return core.Challenge{}, fmt.Errorf("scan challenge: %w", err)
	}
	c.Completed = completed != 0
	if deadline.Valid {
		c.Deadline = parseDate(ctx, c.ID, deadline.String)
	}
	if completedAt.Valid {
		if ts, err := time.Parse(time.RFC3339, completedAt.String); err == nil {
			c.CompletedAt = ts
		}
	}
	return c, nil
}

// parseDate reads a stored date. RFC3339 first, then plain dates; anything
// else yields a zero Date, which the aggregators treat as a skipped record.
func parseDate(ctx context.Context, id, s string) core.Date {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return core.Date{Time: ts.UTC()}
		}
	}
	slog.WarnContext(ctx, "Unparsable stored date, record will be skipped",
		"id", id,
		"date", s)
	return core.Date{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
