// Package budget holds the state manager: the single owner of the
// in-memory application state. Every accepted mutation is applied in
// full, persisted as the complete document, and immediately visible;
// there is no draft or rollback model.
package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"pulabudget/internal/core"
	"pulabudget/internal/storage"
)

// ErrNotFound is returned by update operations on missing ids.
// Deletions of missing ids are no-ops instead.
var ErrNotFound = errors.New("not found")

// Ledger event actions published after transaction mutations.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Publisher forwards ledger events to the backup pipeline. A nil
// publisher disables backup; publish failures never fail a mutation.
type Publisher interface {
	PublishLedgerEvent(ctx context.Context, transactionID, action string) error
}

// Service owns the AppState. All mutations go through it; readers only
// ever see snapshots.
type Service struct {
	mu        sync.RWMutex
	state     *core.AppState
	store     storage.Store
	publisher Publisher
}

// NewService loads the persisted state, defaulting a fresh install.
func NewService(ctx context.Context, store storage.Store, publisher Publisher) (*Service, error) {
	state, err := store.Load(ctx)
	if errors.Is(err, storage.ErrNoState) {
		state = core.DefaultState()
		slog.InfoContext(ctx, "No persisted state, starting fresh")
	} else if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	return &Service{
		state:     state,
		store:     store,
		publisher: publisher,
	}, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Service) Snapshot() *core.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Summary computes the headline totals over the current ledger.
func (s *Service) Summary() core.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Summarize(s.state.Transactions)
}

// Breakdown groups current expenses by category, largest first.
func (s *Service) Breakdown() []core.CategoryTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.GroupExpensesByCategory(s.state.Transactions)
}

// Overages returns the limits whose categories are currently exceeded.
func (s *Service) Overages() []core.BudgetLimit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.FindOverages(s.state.Transactions, s.state.Limits)
}

// Convert maps a foreign amount to local cents against the current rate
// table. Pure read: rate edits and conversion are independent actions,
// a conversion never commits anything.
func (s *Service) Convert(foreign core.Money, code string) (core.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Convert(foreign, code, s.state.Rates)
}

// AddTransaction validates and prepends a transaction (the ledger is
// most-recent-first). Missing id, date and currency are filled in.
func (s *Service) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Date.IsZero() {
		t.Date = core.Today()
	}
	if t.Currency == "" {
		t.Currency = core.LocalCurrency
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	s.state.Transactions = append([]core.Transaction{t}, s.state.Transactions...)
	err := s.persist(ctx)
	s.mu.Unlock()
	if err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, t.ID, ActionAdd)
	return t, nil
}

// RemoveTransaction deletes by id; removing an absent id is a no-op.
func (s *Service) RemoveTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	removed := false
	kept := s.state.Transactions[:0]
	for _, t := range s.state.Transactions {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	s.state.Transactions = kept

	var err error
	if removed {
		err = s.persist(ctx)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if removed {
		s.publish(ctx, id, ActionRemove)
	}
	return nil
}

// AddGoal validates and appends a savings goal.
func (s *Service) AddGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Goals = append(s.state.Goals, g)
	if err := s.persist(ctx); err != nil {
		return core.SavingsGoal{}, err
	}
	return g, nil
}

// RemoveGoal deletes by id; removing an absent id is a no-op.
func (s *Service) RemoveGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := false
	kept := s.state.Goals[:0]
	for _, g := range s.state.Goals {
		if g.ID == id {
			removed = true
			continue
		}
		kept = append(kept, g)
	}
	s.state.Goals = kept
	if !removed {
		return nil
	}
	return s.persist(ctx)
}

// ContributeToGoal adds funds to an existing goal. Unlike deletion,
// contributing to a missing goal is a failure.
func (s *Service) ContributeToGoal(ctx context.Context, id string, amount core.Money) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.state.Goals {
		if g.ID != id {
			continue
		}
		updated, err := core.Contribute(g, amount)
		if err != nil {
			return core.SavingsGoal{}, err
		}
		s.state.Goals[i] = updated
		if err := s.persist(ctx); err != nil {
			return core.SavingsGoal{}, err
		}
		return updated, nil
	}
	return core.SavingsGoal{}, fmt.Errorf("%w: goal %s", ErrNotFound, id)
}

// SetLimit replaces the limit for a category; a non-positive value
// removes the entry entirely, so no residual limit <= 0 ever survives.
func (s *Service) SetLimit(ctx context.Context, category string, limit core.Money) error {
	if limit.Cents > 0 && !core.CategoryExists(core.Expense, category) {
		return fmt.Errorf("%w: %s", core.ErrUnknownCategory, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.state.Limits[:0]
	for _, l := range s.state.Limits {
		if l.Category != category {
			kept = append(kept, l)
		}
	}
	s.state.Limits = kept
	if limit.Cents > 0 {
		s.state.Limits = append(s.state.Limits, core.BudgetLimit{Category: category, Limit: limit})
	}
	return s.persist(ctx)
}

// SetExchangeRate overwrites the rate for a currency code. The latest
// value always wins; there is no rate history. The local currency is
// pinned at 1 and cannot be edited.
func (s *Service) SetExchangeRate(ctx context.Context, code string, rate float64) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == core.LocalCurrency {
		return fmt.Errorf("%w: %q", core.ErrInvalidRate, code)
	}
	if rate <= 0 {
		return fmt.Errorf("%w: rate must be positive", core.ErrInvalidRate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Rates[code] = rate
	return s.persist(ctx)
}

// SetTheme assigns one of the three display themes.
func (s *Service) SetTheme(ctx context.Context, theme core.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidTheme, theme)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Theme = theme
	return s.persist(ctx)
}

// persist writes the full state document. Callers hold the lock. On
// failure the in-memory state stays authoritative: nothing is rolled
// back, the error only tells the caller the write did not land.
func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.state); err != nil {
		slog.ErrorContext(ctx, "State persistence failed, in-memory state retained", "error", err)
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// publish forwards a ledger event best-effort; the mutation already
// succeeded locally and is never failed by the backup path.
func (s *Service) publish(ctx context.Context, transactionID, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, transactionID, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"transaction_id", transactionID,
			"action", action,
			"error", err)
	}
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}
