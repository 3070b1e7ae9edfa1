package core

import "testing"

func tx(typ TransactionType, category string, cents int64) Transaction {
	return Transaction{
		ID:       "t-" + category,
		Title:    "entry",
		Amount:   Money{Cents: cents},
		Type:     typ,
		Category: category,
		Date:     NewDate(2025, 6, 1),
		Currency: LocalCurrency,
	}
}

func TestSummarize(t *testing.T) {
	ledger := []Transaction{
		tx(Income, "salary", 500000),
		tx(Expense, "groceries", 120000),
		tx(Expense, "fuel", 80000),
	}
	s := Summarize(ledger)
	if s.Income.Cents != 500000 {
		t.Fatalf("income = %d, want 500000", s.Income.Cents)
	}
	if s.Expenses.Cents != 200000 {
		t.Fatalf("expenses = %d, want 200000", s.Expenses.Cents)
	}
	if s.Balance.Cents != 300000 {
		t.Fatalf("balance = %d, want 300000", s.Balance.Cents)
	}
}

func TestSummarizeBalanceIdentity(t *testing.T) {
	ledgers := [][]Transaction{
		nil,
		{tx(Income, "salary", 1)},
		{tx(Expense, "fuel", 999999)},
		{tx(Income, "salary", 100), tx(Expense, "rent", 5000), tx(Expense, "fuel", 1)},
	}
	for i, ledger := range ledgers {
		s := Summarize(ledger)
		if s.Balance.Cents != s.Income.Cents-s.Expenses.Cents {
			t.Fatalf("ledger %d: balance %d != income %d - expenses %d", i, s.Balance.Cents, s.Income.Cents, s.Expenses.Cents)
		}
		if s.Income.Cents < 0 || s.Expenses.Cents < 0 {
			t.Fatalf("ledger %d: negative totals %+v", i, s)
		}
	}
}

func TestSummarizeNegativeBalance(t *testing.T) {
	s := Summarize([]Transaction{tx(Expense, "rent", 700000)})
	if s.Balance.Cents != -700000 {
		t.Fatalf("balance = %d, want -700000", s.Balance.Cents)
	}
}

func TestGroupExpensesByCategory(t *testing.T) {
	ledger := []Transaction{
		tx(Income, "salary", 500000),
		tx(Expense, "fuel", 30000),
		tx(Expense, "groceries", 120000),
		tx(Expense, "fuel", 50000),
	}
	groups := GroupExpensesByCategory(ledger)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Category != "groceries" || groups[0].Total.Cents != 120000 {
		t.Fatalf("first group = %+v, want groceries 120000", groups[0])
	}
	if groups[1].Category != "fuel" || groups[1].Total.Cents != 80000 {
		t.Fatalf("second group = %+v, want fuel 80000", groups[1])
	}
	if groups[0].Name != "Groceries" {
		t.Fatalf("display name = %q, want Groceries", groups[0].Name)
	}
}

func TestGroupExpensesSortedDescending(t *testing.T) {
	ledger := []Transaction{
		tx(Expense, "fuel", 100),
		tx(Expense, "rent", 300),
		tx(Expense, "dining", 200),
		tx(Expense, "health", 300),
	}
	groups := GroupExpensesByCategory(ledger)
	for i := 1; i < len(groups); i++ {
		if groups[i-1].Total.Cents < groups[i].Total.Cents {
			t.Fatalf("groups not sorted descending: %+v", groups)
		}
	}
	// Ties keep first-appearance order.
	if groups[0].Category != "rent" || groups[1].Category != "health" {
		t.Fatalf("tie order unstable: %+v", groups)
	}
}

func TestGroupExpensesUnknownCategoryFallback(t *testing.T) {
	ledger := []Transaction{tx(Expense, "vanished", 500)}
	groups := GroupExpensesByCategory(ledger)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Name != "vanished" {
		t.Fatalf("fallback name = %q, want raw id", groups[0].Name)
	}
	if groups[0].Color != UnknownCategory.Color {
		t.Fatalf("fallback color = %q, want %q", groups[0].Color, UnknownCategory.Color)
	}
}

func TestFindOverages(t *testing.T) {
	ledger := []Transaction{
		tx(Expense, "groceries", 120000),
		tx(Expense, "fuel", 80000),
		tx(Income, "salary", 500000),
	}
	limits := []BudgetLimit{
		{Category: "groceries", Limit: Money{Cents: 100000}},
		{Category: "fuel", Limit: Money{Cents: 80000}}, // equal, not over
	}
	over := FindOverages(ledger, limits)
	if len(over) != 1 {
		t.Fatalf("got %d overages, want 1: %+v", len(over), over)
	}
	if over[0].Category != "groceries" || over[0].Limit.Cents != 100000 {
		t.Fatalf("overage = %+v, want groceries 100000", over[0])
	}
}

func TestFindOveragesEmptyInputs(t *testing.T) {
	if got := FindOverages(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
	ledger := []Transaction{tx(Expense, "fuel", 100)}
	if got := FindOverages(ledger, nil); len(got) != 0 {
		t.Fatalf("expected empty result for empty limits, got %+v", got)
	}
	limits := []BudgetLimit{{Category: "fuel", Limit: Money{Cents: 1}}}
	if got := FindOverages(nil, limits); len(got) != 0 {
		t.Fatalf("expected empty result for empty ledger, got %+v", got)
	}
}
