package core

import "fmt"

// ProgressPercent returns goal progress clamped to [0, 100]. A goal may
// be overfunded; the raw ratio above 100 is never exposed. A target of
// zero (or less) returns 0 rather than dividing by zero; constructors
// reject such goals, this only guards against hand-built values.
func ProgressPercent(g SavingsGoal) float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	raw := float64(g.Current.Cents) / float64(g.Target.Cents) * 100
	if raw > 100 {
		return 100
	}
	if raw < 0 {
		return 0
	}
	return raw
}

// Contribute returns a copy of the goal with the amount added to its
// current balance. Non-positive amounts are rejected.
func Contribute(g SavingsGoal, amount Money) (SavingsGoal, error) {
	if amount.Cents <= 0 {
		return g, fmt.Errorf("%w: contribution must be positive", ErrInvalidAmount)
	}
	g.Current.Cents += amount.Cents
	return g, nil
}
