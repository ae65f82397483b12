package core

import "testing"

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Date:   NewDate(2025, 1, 10),
		Type:   Expense,
		Amount: Money{Cents: 100},
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	t.Run("zero date", func(t *testing.T) {
		bad := valid
		bad.Date = Date{}
		if err := bad.Validate(); err == nil {
			t.Error("expected error for zero date")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		bad := valid
		bad.Type = "transfer"
		if err := bad.Validate(); err != ErrInvalidType {
			t.Errorf("got %v, want ErrInvalidType", err)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		bad := valid
		bad.Amount = Money{}
		if err := bad.Validate(); err != ErrInvalidAmount {
			t.Errorf("got %v, want ErrInvalidAmount", err)
		}
	})
}

func TestCategoryValidate(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		ok       bool
	}{
		{"expense", Category{Name: "Food", Type: CategoryExpense}, true},
		{"special", Category{Name: ReserveCategoryName, Type: CategorySpecial, IsReserve: true}, true},
		{"blank name", Category{Name: "  ", Type: CategoryExpense}, false},
		{"bad type", Category{Name: "x", Type: "other"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGoalIsCompleted(t *testing.T) {
	tests := []struct {
		name string
		goal Goal
		want bool
	}{
		{"reached", Goal{Target: Money{Cents: 100}, Current: Money{Cents: 100}}, true},
		{"exceeded", Goal{Target: Money{Cents: 100}, Current: Money{Cents: 150}}, true},
		{"short", Goal{Target: Money{Cents: 100}, Current: Money{Cents: 99}}, false},
		{"zero target never completes", Goal{Current: Money{Cents: 50}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.goal.IsCompleted(); got != tt.want {
				t.Errorf("IsCompleted = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsReserveContribution(t *testing.T) {
	deposit := Transaction{ReserveDeposit: true, Type: Expense}
	withdrawal := Transaction{ReserveWithdrawal: true, Type: Income, CategoryID: reserveCat}
	catIncome := Transaction{Type: Income, CategoryID: reserveCat}
	catExpense := Transaction{Type: Expense, CategoryID: reserveCat}

	if !deposit.IsReserveContribution("") {
		t.Error("deposit flag should count regardless of category config")
	}
	if withdrawal.IsReserveContribution(reserveCat) {
		t.Error("withdrawal flag takes precedence over category membership")
	}
	if !catIncome.IsReserveContribution(reserveCat) {
		t.Error("reserve-category income should count")
	}
	if catExpense.IsReserveContribution(reserveCat) {
		t.Error("reserve-category expense is not a contribution")
	}
}
