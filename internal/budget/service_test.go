package budget

import (
	"context"
	"errors"
	"testing"

	"pulabudget/internal/core"
	"pulabudget/internal/storage"
)

type recordingPublisher struct {
	events []string
	fail   bool
}

func (p *recordingPublisher) PublishLedgerEvent(ctx context.Context, id, action string) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, action+":"+id)
	return nil
}

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc, err := NewService(context.Background(), store, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func expense(title, category string, cents int64) core.Transaction {
	return core.Transaction{Title: title, Amount: core.Money{Cents: cents}, Type: core.Expense, Category: category}
}

func TestAddTransactionPrepends(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.AddTransaction(ctx, expense("Fuel", "fuel", 30000))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.ID == "" || first.Currency != core.LocalCurrency || first.Date.IsZero() {
		t.Fatalf("defaults not filled: %+v", first)
	}

	second, err := svc.AddTransaction(ctx, expense("Groceries", "groceries", 12000))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got := svc.Snapshot().Transactions
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("ledger not most-recent-first: %+v", got)
	}
}

func TestAddTransactionValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		tx   core.Transaction
		want error
	}{
		{expense("x", "fuel", 0), core.ErrInvalidAmount},
		{expense("", "fuel", 100), core.ErrEmptyTitle},
		{expense("x", "salary", 100), core.ErrUnknownCategory},
		{core.Transaction{Title: "x", Amount: core.Money{Cents: 1}, Type: "WAT", Category: "fuel"}, core.ErrInvalidType},
	}
	for i, tc := range cases {
		if _, err := svc.AddTransaction(ctx, tc.tx); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
	if n := len(svc.Snapshot().Transactions); n != 0 {
		t.Fatalf("rejected input mutated state: %d transactions", n)
	}
}

func TestRemoveTransaction(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tx, _ := svc.AddTransaction(ctx, expense("Fuel", "fuel", 100))
	if err := svc.RemoveTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if n := len(svc.Snapshot().Transactions); n != 0 {
		t.Fatalf("transaction not removed: %d left", n)
	}
	// Absent id is a no-op, not an error.
	if err := svc.RemoveTransaction(ctx, "missing"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}

func TestLedgerEventsPublished(t *testing.T) {
	store := storage.NewMemoryStore()
	pub := &recordingPublisher{}
	svc, err := NewService(context.Background(), store, pub)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	tx, _ := svc.AddTransaction(ctx, expense("Fuel", "fuel", 100))
	_ = svc.RemoveTransaction(ctx, tx.ID)

	if len(pub.events) != 2 || pub.events[0] != "add:"+tx.ID || pub.events[1] != "remove:"+tx.ID {
		t.Fatalf("events = %v", pub.events)
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, err := NewService(context.Background(), store, &recordingPublisher{fail: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.AddTransaction(context.Background(), expense("Fuel", "fuel", 100)); err != nil {
		t.Fatalf("mutation failed on publish error: %v", err)
	}
	if n := len(svc.Snapshot().Transactions); n != 1 {
		t.Fatalf("transaction lost: %d", n)
	}
}

func TestGoalLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	g, err := svc.AddGoal(ctx, core.SavingsGoal{Title: "Dream House", Target: core.Money{Cents: 100000}})
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}

	updated, err := svc.ContributeToGoal(ctx, g.ID, core.Money{Cents: 40000})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if updated.Current.Cents != 40000 {
		t.Fatalf("current = %d", updated.Current.Cents)
	}

	if _, err := svc.ContributeToGoal(ctx, "missing", core.Money{Cents: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ContributeToGoal(ctx, g.ID, core.Money{Cents: 0}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if err := svc.RemoveGoal(ctx, g.ID); err != nil {
		t.Fatalf("remove goal: %v", err)
	}
	if err := svc.RemoveGoal(ctx, g.ID); err != nil {
		t.Fatalf("remove absent goal should be a no-op: %v", err)
	}

	if _, err := svc.AddGoal(ctx, core.SavingsGoal{Title: "x", Target: core.Money{Cents: 0}}); !errors.Is(err, core.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestSetLimitReplaceAndRemove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SetLimit(ctx, "groceries", core.Money{Cents: 100000}); err != nil {
		t.Fatalf("set limit: %v", err)
	}
	if err := svc.SetLimit(ctx, "groceries", core.Money{Cents: 50000}); err != nil {
		t.Fatalf("replace limit: %v", err)
	}
	limits := svc.Snapshot().Limits
	if len(limits) != 1 || limits[0].Limit.Cents != 50000 {
		t.Fatalf("replace semantics broken: %+v", limits)
	}

	// Non-positive removes; nothing with limit <= 0 survives.
	if err := svc.SetLimit(ctx, "groceries", core.Money{Cents: 0}); err != nil {
		t.Fatalf("remove limit: %v", err)
	}
	if limits := svc.Snapshot().Limits; len(limits) != 0 {
		t.Fatalf("residual limit entry: %+v", limits)
	}

	if err := svc.SetLimit(ctx, "salary", core.Money{Cents: 1}); !errors.Is(err, core.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory for non-expense category, got %v", err)
	}
}

func TestOverages(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_ = svc.SetLimit(ctx, "groceries", core.Money{Cents: 100000})
	_, _ = svc.AddTransaction(ctx, expense("Shop", "groceries", 120000))

	over := svc.Overages()
	if len(over) != 1 || over[0].Category != "groceries" {
		t.Fatalf("overages = %+v", over)
	}
}

func TestSetExchangeRate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SetExchangeRate(ctx, "usd", 14.2); err != nil {
		t.Fatalf("set rate: %v", err)
	}
	if got := svc.Snapshot().Rates["USD"]; got != 14.2 {
		t.Fatalf("rate = %v, want 14.2", got)
	}

	if err := svc.SetExchangeRate(ctx, "USD", 0); !errors.Is(err, core.ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
	if err := svc.SetExchangeRate(ctx, core.LocalCurrency, 2); !errors.Is(err, core.ErrInvalidRate) {
		t.Fatalf("local currency must be rejected, got %v", err)
	}
}

func TestConvertUsesCurrentRates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.Convert(core.Money{Cents: 10000}, "USD")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got.Cents != 135500 {
		t.Fatalf("convert = %d, want 135500", got.Cents)
	}

	_ = svc.SetExchangeRate(ctx, "USD", 10)
	got, _ = svc.Convert(core.Money{Cents: 10000}, "USD")
	if got.Cents != 100000 {
		t.Fatalf("convert after rate edit = %d, want 100000", got.Cents)
	}

	if _, err := svc.Convert(core.Money{Cents: 1}, "EUR"); !errors.Is(err, core.ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestSetTheme(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SetTheme(ctx, core.ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if got := svc.Snapshot().Theme; got != core.ThemeDark {
		t.Fatalf("theme = %q", got)
	}
	if err := svc.SetTheme(ctx, "neon"); !errors.Is(err, core.ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}

func TestStateSurvivesReload(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	svc, err := NewService(ctx, store, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	tx, _ := svc.AddTransaction(ctx, expense("Fuel", "fuel", 30000))
	_ = svc.SetLimit(ctx, "fuel", core.Money{Cents: 20000})
	_ = svc.SetTheme(ctx, core.ThemeLight)
	_ = svc.SetExchangeRate(ctx, "USD", 14)

	reloaded, err := NewService(ctx, store, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	state := reloaded.Snapshot()
	if len(state.Transactions) != 1 || state.Transactions[0].ID != tx.ID {
		t.Fatalf("transactions lost on reload: %+v", state.Transactions)
	}
	if state.Theme != core.ThemeLight || state.Rates["USD"] != 14 {
		t.Fatalf("settings lost on reload: theme=%q rates=%v", state.Theme, state.Rates)
	}
	if over := reloaded.Overages(); len(over) != 1 {
		t.Fatalf("overage lost on reload: %+v", over)
	}
}

func TestSnapshotIsDefensive(t *testing.T) {
	svc, _ := newTestService(t)
	_, _ = svc.AddTransaction(context.Background(), expense("Fuel", "fuel", 100))

	snap := svc.Snapshot()
	snap.Transactions[0].Title = "tampered"
	snap.Rates["USD"] = 0

	if svc.Snapshot().Transactions[0].Title != "Fuel" {
		t.Fatalf("snapshot aliases internal state")
	}
	if svc.Snapshot().Rates["USD"] != 13.55 {
		t.Fatalf("snapshot aliases rate table")
	}
}
