package core

import (
	"errors"
	"testing"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:       "t1",
		Title:    "Sefalana Groceries",
		Amount:   Money{Cents: 4500},
		Type:     Expense,
		Category: "groceries",
		Date:     NewDate(2025, 6, 1),
		Currency: LocalCurrency,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(x *Transaction) { x.Amount.Cents = 0 }, ErrInvalidAmount},
		{func(x *Transaction) { x.Amount.Cents = -500 }, ErrInvalidAmount},
		{func(x *Transaction) { x.Title = "   " }, ErrEmptyTitle},
		{func(x *Transaction) { x.Type = "TRANSFER" }, ErrInvalidType},
		{func(x *Transaction) { x.Category = "salary" }, ErrUnknownCategory}, // income id on an expense
		{func(x *Transaction) { x.Category = "nope" }, ErrUnknownCategory},
	}
	for i, tc := range cases {
		bad := good
		tc.mutate(&bad)
		if err := bad.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	good := SavingsGoal{ID: "g1", Title: "School Fees", Target: Money{Cents: 100000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []struct {
		g    SavingsGoal
		want error
	}{
		{SavingsGoal{Title: "", Target: Money{Cents: 1}}, ErrEmptyTitle},
		{SavingsGoal{Title: "g", Target: Money{Cents: 0}}, ErrInvalidTarget},
		{SavingsGoal{Title: "g", Target: Money{Cents: 100}, Current: Money{Cents: -1}}, ErrInvalidAmount},
	}
	for i, tc := range bads {
		if err := tc.g.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestCategoryForIsTotal(t *testing.T) {
	if got := CategoryFor(Expense, "groceries"); got.Name != "Groceries" {
		t.Fatalf("got %+v", got)
	}
	// Income id looked up against the expense set must fall back, not fail.
	if got := CategoryFor(Expense, "salary"); got.ID != UnknownCategory.ID {
		t.Fatalf("wrong-set lookup resolved to %+v, want unknown", got)
	}
	if got := CategoryFor(Income, "made-up"); got.ID != UnknownCategory.ID {
		t.Fatalf("got %+v, want unknown", got)
	}
}

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	if s.Theme != ThemePula {
		t.Fatalf("theme = %q, want pula", s.Theme)
	}
	if s.Rates[LocalCurrency] != 1 {
		t.Fatalf("local rate = %v, want 1", s.Rates[LocalCurrency])
	}
	if s.Rates["ZAR"] != 0.72 || s.Rates["USD"] != 13.55 {
		t.Fatalf("seed rates = %v", s.Rates)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := DefaultState()
	s.Transactions = append(s.Transactions, Transaction{ID: "t1", Title: "x", Amount: Money{Cents: 1}, Type: Income, Category: "salary"})
	c := s.Clone()
	c.Transactions[0].Title = "changed"
	c.Rates["USD"] = 99
	if s.Transactions[0].Title != "x" {
		t.Fatalf("clone aliases transactions")
	}
	if s.Rates["USD"] != 13.55 {
		t.Fatalf("clone aliases rates")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("02/06/2025")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Day() != 2 || int(d.Month()) != 6 || d.Year() != 2025 {
		t.Fatalf("parsed %v", d)
	}
	if d.String() != "02/06/2025" {
		t.Fatalf("round trip = %q", d.String())
	}
	if iso, err := ParseDate("2025-06-02"); err != nil || iso.String() != "02/06/2025" {
		t.Fatalf("legacy ISO form: %v %v", iso, err)
	}
	if empty, err := ParseDate(""); err != nil || !empty.IsZero() {
		t.Fatalf("empty date: %v %v", empty, err)
	}
	if _, err := ParseDate("junk"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
