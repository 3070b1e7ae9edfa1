package core

import "sort"

// Summary holds the headline ledger totals. Balance may be negative.
type Summary struct {
	Income   Money
	Expenses Money
	Balance  Money
}

// CategoryTotal is an expense amount aggregated by category.
type CategoryTotal struct {
	Category string
	Name     string
	Total    Money
	Color    string
}

// Summarize computes income, expense and balance totals over a ledger.
// Amounts are always positive; the sign comes from the transaction type.
func Summarize(transactions []Transaction) Summary {
	var s Summary
	for _, t := range transactions {
		switch t.Type {
		case Income:
			s.Income.Cents += t.Amount.Cents
		case Expense:
			s.Expenses.Cents += t.Amount.Cents
		}
	}
	s.Balance.Cents = s.Income.Cents - s.Expenses.Cents
	return s
}

// GroupExpensesByCategory sums expense transactions per category,
// descending by total. Ties keep the order in which a category first
// appears in the ledger, so the output is deterministic for a given
// input order. Unknown category ids resolve to the fallback name and
// color rather than failing.
func GroupExpensesByCategory(transactions []Transaction) []CategoryTotal {
	totals := make(map[string]int64)
	var order []string
	for _, t := range transactions {
		if t.Type != Expense {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += t.Amount.Cents
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, id := range order {
		cat := CategoryFor(Expense, id)
		name := cat.Name
		if cat.ID == UnknownCategory.ID {
			name = id
		}
		out = append(out, CategoryTotal{
			Category: id,
			Name:     name,
			Total:    Money{Cents: totals[id]},
			Color:    cat.Color,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cents > out[j].Total.Cents
	})
	return out
}

// FindOverages returns the limits whose category spending strictly
// exceeds the configured cap. Empty limits or an empty ledger yield an
// empty result.
func FindOverages(transactions []Transaction, limits []BudgetLimit) []BudgetLimit {
	var over []BudgetLimit
	for _, l := range limits {
		var spent int64
		for _, t := range transactions {
			if t.Type == Expense && t.Category == l.Category {
				spent += t.Amount.Cents
			}
		}
		if spent > l.Limit.Cents {
			over = append(over, l)
		}
	}
	return over
}
