// Package worker mirrors the ledger into an external backup sheet. The
// backup is append-only and best effort; the state store remains the
// source of truth.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pulabudget/internal/amqp"
	"pulabudget/internal/core"
	"pulabudget/internal/sheets"
	"pulabudget/internal/storage"
)

type BackupWorker struct {
	store  storage.Store
	backup sheets.LedgerBackup
}

func NewBackupWorker(store storage.Store, backup sheets.LedgerBackup) *BackupWorker {
	return &BackupWorker{
		store:  store,
		backup: backup,
	}
}

// HandleLedgerEvent processes one ledger event from AMQP. Adds append
// the transaction row; removals are kept in the backup as history and
// only logged.
func (w *BackupWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"transaction_id", msg.TransactionID,
		"action", msg.Action)

	if msg.Action != "add" {
		slog.InfoContext(ctx, "Backup is append-only, keeping removed transaction as history",
			"transaction_id", msg.TransactionID)
		return nil
	}

	state, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	tx, ok := findTransaction(state.Transactions, msg.TransactionID)
	if !ok {
		// Removed again before the event was processed; nothing to back up.
		slog.WarnContext(ctx, "Transaction no longer in ledger, skipping",
			"transaction_id", msg.TransactionID)
		return nil
	}

	ref, err := w.backup.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append to backup: %w", err)
	}

	slog.InfoContext(ctx, "Backed up transaction",
		"transaction_id", tx.ID,
		"row_ref", ref)
	return nil
}

// CatchUpSync appends every ledger transaction missing from the backup.
// Recovers from lost AMQP messages or worker downtime; called at
// startup and on a periodic ticker.
func (w *BackupWorker) CatchUpSync(ctx context.Context) error {
	state, err := w.store.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoState) {
			slog.InfoContext(ctx, "No persisted state yet, nothing to back up")
			return nil
		}
		return fmt.Errorf("load state: %w", err)
	}

	backedUp, err := w.backup.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list backup ids: %w", err)
	}
	seen := make(map[string]struct{}, len(backedUp))
	for _, id := range backedUp {
		seen[id] = struct{}{}
	}

	synced := 0
	failed := 0
	// The ledger is most recent first; back up oldest first so the
	// sheet reads chronologically.
	for i := len(state.Transactions) - 1; i >= 0; i-- {
		tx := state.Transactions[i]
		if _, ok := seen[tx.ID]; ok {
			continue
		}
		if _, err := w.backup.Append(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to back up transaction",
				"transaction_id", tx.ID,
				"error", err)
			failed++
			continue
		}
		synced++
	}

	if synced > 0 || failed > 0 {
		slog.InfoContext(ctx, "Catch-up sync completed",
			"synced", synced,
			"failed", failed)
	}
	if failed > 0 {
		return fmt.Errorf("catch-up sync: %d transactions failed", failed)
	}
	return nil
}

func findTransaction(transactions []core.Transaction, id string) (core.Transaction, bool) {
	for _, t := range transactions {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}
