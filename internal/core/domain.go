package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
	CategorySpecial CategoryType = "special"
)

// ReserveCategoryName is the legacy identifier for the emergency-reserve
// category. Data written before the IsReserve flag existed is matched by
// this literal name.
const ReserveCategoryName = "Emergency Reserve"

type (
	TransactionType string
	CategoryType    string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is one immutable ledger entry. The engine only ever reads
	// transactions; every derived view is a fold over a slice of them.
	Transaction struct {
		ID                string
		UserID            string
		Date              Date
		Description       string
		Amount            Money // magnitude; sign is carried by Type
		Type              TransactionType
		CategoryID        string // empty = uncategorized
		MemberID          string
		BankID            string
		ReserveDeposit    bool
		ReserveWithdrawal bool
	}

	Category struct {
		ID        string
		UserID    string
		Name      string
		Type      CategoryType
		IsFixed   bool // seeded defaults cannot be renamed or deleted
		IsReserve bool
	}

	Goal struct {
		ID       string
		UserID   string
		Name     string
		Target   Money
		Current  Money // may exceed Target; completion is derived
		Deadline Date
	}

	Challenge struct {
		ID          string
		UserID      string
		Name        string
		Reward      string
		Target      Money
		Current     Money
		Deadline    Date
		Completed   bool
		CompletedAt time.Time
	}

	FamilyMember struct {
		ID     string
		UserID string
		Name   string
	}

	Badge struct {
		ID         string
		UserID     string
		Criteria   BadgeCriteria
		UnlockedAt time.Time
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyName     = errors.New("empty name")
)

// NewDate creates a Date at midnight UTC. All period bucketing uses the UTC
// calendar fields, so dates are normalized here.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return ErrInvalidType
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	switch c.Type {
	case CategoryIncome, CategoryExpense, CategorySpecial:
	default:
		return errors.New("invalid category type")
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	return nil
}

// IsCompleted reports whether the goal has reached its target. Completion is
// never stored on the goal itself.
func (g Goal) IsCompleted() bool {
	return g.Target.Cents > 0 && g.Current.Cents >= g.Target.Cents
}

// IsReserveContribution reports whether the transaction adds to the
// emergency reserve, given the id of the user's reserve category. The
// explicit flag takes precedence over category membership.
func (t Transaction) IsReserveContribution(reserveCategoryID string) bool {
	if t.ReserveDeposit {
		return true
	}
	if t.ReserveWithdrawal {
		return false
	}
	return reserveCategoryID != "" && t.CategoryID == reserveCategoryID && t.Type == Income
}

// FindReserveCategory locates the user's emergency-reserve category. The
// explicit IsReserve flag wins; the literal name match is kept for data that
// predates the flag.
func FindReserveCategory(categories []Category) (Category, bool) {
	for _, c := range categories {
		if c.IsReserve {
			return c, true
		}
	}
	for _, c := range categories {
		if c.Name == ReserveCategoryName {
			return c, true
		}
	}
	return Category{}, false
}
