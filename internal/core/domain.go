package core

import (
	"errors"
	"strings"
	"time"
)

// LocalCurrency is the single currency every stored amount is denominated in.
const LocalCurrency = "BWP"

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemePula  Theme = "pula"
)

type (
	TransactionType string

	Theme string

	// Date is a calendar date; the time component is always midnight UTC.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is immutable once created. Amount is always positive;
	// the sign of its contribution to totals comes from Type.
	Transaction struct {
		ID       string
		Title    string
		Amount   Money
		Type     TransactionType
		Category string
		Date     Date
		Currency string
	}

	SavingsGoal struct {
		ID       string
		Title    string
		Target   Money
		Current  Money
		Deadline Date
	}

	// BudgetLimit caps cumulative expense spending for one category.
	BudgetLimit struct {
		Category string
		Limit    Money
	}

	// Rates maps a currency code to units of local currency per one
	// foreign unit. The local code is always present with rate 1.
	Rates map[string]float64

	// AppState is the aggregate root. Transactions are kept
	// most-recent-first.
	AppState struct {
		Transactions []Transaction
		Goals        []SavingsGoal
		Limits       []BudgetLimit
		Theme        Theme
		Rates        Rates
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyTitle      = errors.New("empty title")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidTarget   = errors.New("invalid target amount")
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrInvalidRate     = errors.New("invalid exchange rate")
	ErrInvalidTheme    = errors.New("invalid theme")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (th Theme) Valid() bool {
	switch th {
	case ThemeLight, ThemeDark, ThemePula:
		return true
	}
	return false
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !CategoryExists(t.Type, t.Category) {
		return ErrUnknownCategory
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if len(strings.TrimSpace(g.Title)) == 0 {
		return ErrEmptyTitle
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// DefaultState is the state a fresh install starts from.
func DefaultState() *AppState {
	return &AppState{
		Transactions: []Transaction{},
		Goals:        []SavingsGoal{},
		Limits:       []BudgetLimit{},
		Theme:        ThemePula,
		Rates:        DefaultRates(),
	}
}

// Clone returns a deep copy so readers never alias the owned state.
func (s *AppState) Clone() *AppState {
	out := &AppState{
		Transactions: make([]Transaction, len(s.Transactions)),
		Goals:        make([]SavingsGoal, len(s.Goals)),
		Limits:       make([]BudgetLimit, len(s.Limits)),
		Theme:        s.Theme,
		Rates:        make(Rates, len(s.Rates)),
	}
	copy(out.Transactions, s.Transactions)
	copy(out.Goals, s.Goals)
	copy(out.Limits, s.Limits)
	for code, rate := range s.Rates {
		out.Rates[code] = rate
	}
	return out
}
