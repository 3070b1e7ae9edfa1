package storage

import (
	"encoding/json"
	"fmt"
	"math"

	"pulabudget/internal/core"
)

// The blob layout matches the legacy client's storage document, so a
// state exported from the old app loads unchanged. Amounts are decimal
// pula in the document and integer cents in memory.
type (
	blob struct {
		Transactions []transactionDoc   `json:"transactions"`
		Goals        []goalDoc          `json:"goals"`
		Limits       []limitDoc         `json:"limits"`
		Theme        string             `json:"theme"`
		Rates        map[string]float64 `json:"exchangeRates,omitempty"`
	}

	transactionDoc struct {
		ID       string  `json:"id"`
		Title    string  `json:"title"`
		Amount   float64 `json:"amount"`
		Type     string  `json:"type"`
		Category string  `json:"category"`
		Date     string  `json:"date"`
		Currency string  `json:"currency"`
	}

	goalDoc struct {
		ID       string  `json:"id"`
		Title    string  `json:"title"`
		Target   float64 `json:"targetAmount"`
		Current  float64 `json:"currentAmount"`
		Deadline string  `json:"deadline,omitempty"`
	}

	limitDoc struct {
		Category string  `json:"category"`
		Limit    float64 `json:"limit"`
	}
)

func pulaToCents(v float64) int64 {
	return int64(math.Floor(v*100 + 0.5))
}

// EncodeState serializes the full application state to the blob format.
func EncodeState(s *core.AppState) ([]byte, error) {
	doc := blob{
		Transactions: make([]transactionDoc, 0, len(s.Transactions)),
		Goals:        make([]goalDoc, 0, len(s.Goals)),
		Limits:       make([]limitDoc, 0, len(s.Limits)),
		Theme:        string(s.Theme),
		Rates:        s.Rates,
	}
	for _, t := range s.Transactions {
		doc.Transactions = append(doc.Transactions, transactionDoc{
			ID:       t.ID,
			Title:    t.Title,
			Amount:   t.Amount.Pula(),
			Type:     string(t.Type),
			Category: t.Category,
			Date:     t.Date.String(),
			Currency: t.Currency,
		})
	}
	for _, g := range s.Goals {
		doc.Goals = append(doc.Goals, goalDoc{
			ID:       g.ID,
			Title:    g.Title,
			Target:   g.Target.Pula(),
			Current:  g.Current.Pula(),
			Deadline: g.Deadline.String(),
		})
	}
	for _, l := range s.Limits {
		doc.Limits = append(doc.Limits, limitDoc{Category: l.Category, Limit: l.Limit.Pula()})
	}
	return json.Marshal(doc)
}

// DecodeState parses a persisted blob. Legacy blobs without an
// exchangeRates field load with the built-in rate table rather than
// failing.
func DecodeState(data []byte) (*core.AppState, error) {
	var doc blob
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode state blob: %w", err)
	}

	state := &core.AppState{
		Transactions: make([]core.Transaction, 0, len(doc.Transactions)),
		Goals:        make([]core.SavingsGoal, 0, len(doc.Goals)),
		Limits:       make([]core.BudgetLimit, 0, len(doc.Limits)),
		Theme:        core.Theme(doc.Theme),
		Rates:        core.Rates(doc.Rates).Normalize(),
	}
	if !state.Theme.Valid() {
		state.Theme = core.ThemePula
	}

	for _, t := range doc.Transactions {
		date, err := core.ParseDate(t.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		currency := t.Currency
		if currency == "" {
			currency = core.LocalCurrency
		}
		state.Transactions = append(state.Transactions, core.Transaction{
			ID:       t.ID,
			Title:    t.Title,
			Amount:   core.Money{Cents: pulaToCents(t.Amount)},
			Type:     core.TransactionType(t.Type),
			Category: t.Category,
			Date:     date,
			Currency: currency,
		})
	}
	for _, g := range doc.Goals {
		deadline, err := core.ParseDate(g.Deadline)
		if err != nil {
			return nil, fmt.Errorf("goal %s: %w", g.ID, err)
		}
		state.Goals = append(state.Goals, core.SavingsGoal{
			ID:       g.ID,
			Title:    g.Title,
			Target:   core.Money{Cents: pulaToCents(g.Target)},
			Current:  core.Money{Cents: pulaToCents(g.Current)},
			Deadline: deadline,
		})
	}
	for _, l := range doc.Limits {
		state.Limits = append(state.Limits, core.BudgetLimit{
			Category: l.Category,
			Limit:    core.Money{Cents: pulaToCents(l.Limit)},
		})
	}
	return state, nil
}
