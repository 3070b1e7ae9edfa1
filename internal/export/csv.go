// Package export renders the ledger as a CSV download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"pulabudget/internal/core"
)

var header = []string{"Date", "Title", "Type", "Category", "Amount (BWP)"}

// WriteCSV writes the ledger in its stored order (most recent first),
// one row per transaction, amounts with two decimals.
func WriteCSV(w io.Writer, transactions []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range transactions {
		row := []string{
			t.Date.String(),
			t.Title,
			string(t.Type),
			t.Category,
			t.Amount.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename returns the download name for an export taken at the given
// time, e.g. pula_budget_export_2025-06-01.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("pula_budget_export_%s.csv", now.Format("2006-01-02"))
}
