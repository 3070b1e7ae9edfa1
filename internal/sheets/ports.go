package sheets

import (
	"context"

	"pulabudget/internal/core"
)

// Ports for outbound backup adapters.
type (
	// LedgerWriter appends one transaction row to the backup sheet.
	LedgerWriter interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// LedgerReader lists the transaction ids already present in the
	// backup sheet, used by the catch-up sync to find missing rows.
	LedgerReader interface {
		ListIDs(ctx context.Context) ([]string, error)
	}

	LedgerBackup interface {
		LedgerWriter
		LedgerReader
	}
)
