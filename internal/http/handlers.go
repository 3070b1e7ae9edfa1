package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"pulabudget/internal/advisor"
	"pulabudget/internal/budget"
	"pulabudget/internal/core"
	"pulabudget/internal/export"
)

// JSON views mirror the persisted document: amounts as decimal pula,
// dates as dd/mm/yyyy.

type transactionView struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Currency string  `json:"currency"`
}

type goalView struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Target   float64 `json:"targetAmount"`
	Current  float64 `json:"currentAmount"`
	Deadline string  `json:"deadline,omitempty"`
}

type limitView struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
}

type stateView struct {
	Transactions []transactionView  `json:"transactions"`
	Goals        []goalView         `json:"goals"`
	Limits       []limitView        `json:"limits"`
	Theme        string             `json:"theme"`
	Rates        map[string]float64 `json:"exchangeRates"`
}

func viewTransaction(t core.Transaction) transactionView {
	return transactionView{
		ID:       t.ID,
		Title:    t.Title,
		Amount:   t.Amount.Pula(),
		Type:     string(t.Type),
		Category: t.Category,
		Date:     t.Date.String(),
		Currency: t.Currency,
	}
}

func viewGoal(g core.SavingsGoal) goalView {
	v := goalView{
		ID:      g.ID,
		Title:   g.Title,
		Target:  g.Target.Pula(),
		Current: g.Current.Pula(),
	}
	if !g.Deadline.IsZero() {
		v.Deadline = g.Deadline.String()
	}
	return v
}

func viewState(st *core.AppState) stateView {
	view := stateView{
		Transactions: make([]transactionView, 0, len(st.Transactions)),
		Goals:        make([]goalView, 0, len(st.Goals)),
		Limits:       make([]limitView, 0, len(st.Limits)),
		Theme:        string(st.Theme),
		Rates:        st.Rates,
	}
	for _, t := range st.Transactions {
		view.Transactions = append(view.Transactions, viewTransaction(t))
	}
	for _, g := range st.Goals {
		view.Goals = append(view.Goals, viewGoal(g))
	}
	for _, l := range st.Limits {
		view.Limits = append(view.Limits, limitView{Category: l.Category, Limit: l.Limit.Pula()})
	}
	return view
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, budget.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrInvalidTarget),
		errors.Is(err, core.ErrUnknownCurrency),
		errors.Is(err, core.ErrInvalidRate),
		errors.Is(err, core.ErrInvalidTheme):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, advisor.ErrBadRateReply),
		errors.Is(err, advisor.ErrUnavailable):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "url", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func parseAmount(n json.Number) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(n.String())
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewState(s.svc.Snapshot()))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum := s.svc.Summary()
	writeJSON(w, http.StatusOK, map[string]float64{
		"income":   sum.Income.Pula(),
		"expenses": sum.Expenses.Pula(),
		"balance":  sum.Balance.Pula(),
	})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	type row struct {
		Category string  `json:"category"`
		Name     string  `json:"name"`
		Total    float64 `json:"total"`
		Color    string  `json:"color"`
	}
	rows := make([]row, 0)
	for _, ct := range s.svc.Breakdown() {
		rows = append(rows, row{Category: ct.Category, Name: ct.Name, Total: ct.Total.Pula(), Color: ct.Color})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleOverages(w http.ResponseWriter, r *http.Request) {
	rows := make([]limitView, 0)
	for _, l := range s.svc.Overages() {
		rows = append(rows, limitView{Category: l.Category, Limit: l.Limit.Pula()})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	state := s.svc.Snapshot()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))
	if err := export.WriteCSV(w, state.Transactions); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}

// handleListTransactions returns the ledger, most recent first.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	state := s.svc.Snapshot()
	rows := make([]transactionView, 0, len(state.Transactions))
	for _, t := range state.Transactions {
		rows = append(rows, viewTransaction(t))
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string      `json:"title"`
		Amount   json.Number `json:"amount"`
		Type     string      `json:"type"`
		Category string      `json:"category"`
		Date     string      `json:"date"`
		Currency string      `json:"currency"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.svc.AddTransaction(r.Context(), core.Transaction{
		Title:    req.Title,
		Amount:   amount,
		Type:     core.TransactionType(req.Type),
		Category: req.Category,
		Date:     date,
		Currency: req.Currency,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewTransaction(tx))
}

func (s *Server) handleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RemoveTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListGoals returns goals with computed progress, in insertion order.
func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	type row struct {
		goalView
		Progress float64 `json:"progress"`
	}
	state := s.svc.Snapshot()
	rows := make([]row, 0, len(state.Goals))
	for _, g := range state.Goals {
		rows = append(rows, row{viewGoal(g), core.ProgressPercent(g)})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string      `json:"title"`
		Target   json.Number `json:"targetAmount"`
		Deadline string      `json:"deadline"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	target, err := parseAmount(req.Target)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: target", core.ErrInvalidTarget))
		return
	}
	deadline, err := core.ParseDate(req.Deadline)
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := s.svc.AddGoal(r.Context(), core.SavingsGoal{
		Title:    req.Title,
		Target:   target,
		Deadline: deadline,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewGoal(g))
}

func (s *Server) handleRemoveGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RemoveGoal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount json.Number `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := s.svc.ContributeToGoal(r.Context(), r.PathValue("id"), amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := struct {
		goalView
		Progress float64 `json:"progress"`
	}{viewGoal(g), core.ProgressPercent(g)}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetLimit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit json.Number `json:"limit"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	// Zero or negative removes the limit; parse it leniently.
	var limit core.Money
	if f, err := req.Limit.Float64(); err != nil {
		writeError(w, r, fmt.Errorf("%w: %q", core.ErrInvalidAmount, req.Limit))
		return
	} else if f > 0 {
		m, err := parseAmount(req.Limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		limit = m
	}

	if err := s.svc.SetLimit(r.Context(), r.PathValue("category"), limit); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetRate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rate float64 `json:"rate"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.svc.SetExchangeRate(r.Context(), r.PathValue("code"), req.Rate); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.svc.SetTheme(r.Context(), core.Theme(req.Theme)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleConvert maps a foreign amount to pula against the current rate
// table. Conversion is a pure read; it never touches the rate table.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   json.Number `json:"amount"`
		Currency string      `json:"currency"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	foreign, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	local, err := s.svc.Convert(foreign, req.Currency)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"amount":   local.Pula(),
		"currency": core.LocalCurrency,
	})
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	if s.oracle == nil {
		writeJSON(w, http.StatusOK, map[string]string{"advice": advisor.Fallback})
		return
	}
	if !s.adviceMu.TryLock() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "advice request already in progress"})
		return
	}
	defer s.adviceMu.Unlock()

	state := s.svc.Snapshot()
	advice := s.oracle.Advice(r.Context(), state.Transactions)
	writeJSON(w, http.StatusOK, map[string]string{"advice": advice})
}

// handleRefreshRates asks the oracle for current rates and applies any
// parsed quotes to the rate table. On failure the table is untouched.
func (s *Server) handleRefreshRates(w http.ResponseWriter, r *http.Request) {
	if s.oracle == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "rate oracle not configured"})
		return
	}
	if !s.refreshMu.TryLock() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "rate refresh already in progress"})
		return
	}
	defer s.refreshMu.Unlock()

	quotes, err := s.oracle.FetchRates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	for _, q := range quotes {
		if err := s.svc.SetExchangeRate(r.Context(), q.Code, q.Rate); err != nil {
			slog.WarnContext(r.Context(), "Skipping unusable rate quote",
				"code", q.Code, "rate", q.Rate, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rates": quotes})
}
