// Package worker consumes ledger sync events and mirrors transactions to the
// configured export ledger.
package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/sheets"
	"financas/internal/storage"
)

// SyncWorker exports transactions from SQLite to the ledger appender as sync
// messages arrive.
type SyncWorker struct {
	storage  *storage.SQLiteRepository
	appender sheets.LedgerAppender
}

func NewSyncWorker(storage *storage.SQLiteRepository, appender sheets.LedgerAppender) *SyncWorker {
	return &SyncWorker{
		storage:  storage,
		appender: appender,
	}
}

// HandleMessage processes one ledger sync message. Create events fetch the
// fresh record from storage and append it; delete events are logged only,
// since the export ledger is append-only.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"transaction_id", msg.TransactionID,
		"op", msg.Op)

	switch msg.Op {
	case amqp.OpCreate:
		return w.exportTransaction(ctx, msg.TransactionID)
	case amqp.OpDelete:
		slog.InfoContext(ctx, "Transaction deleted locally; export ledger keeps its row",
			"transaction_id", msg.TransactionID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown sync operation, dropping message",
			"op", msg.Op,
			"transaction_id", msg.TransactionID)
		return nil
	}
}

func (w *SyncWorker) exportTransaction(ctx context.Context, id int64) error {
	if w.appender == nil {
		slog.WarnContext(ctx, "No ledger appender configured, skipping export",
			"transaction_id", id)
		return nil
	}

	t, err := w.storage.GetTransaction(ctx, id)
	if err != nil {
		// Deleted before the worker got to it; nothing to export.
		if errors.Is(err, sql.ErrNoRows) {
			slog.WarnContext(ctx, "Transaction vanished before export",
				"transaction_id", id)
			return nil
		}
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	ref, err := w.appender.AppendTransaction(ctx, t)
	if err != nil {
		return fmt.Errorf("append transaction to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Transaction synced to export ledger",
		"transaction_id", id,
		"sheets_ref", ref)

	return nil
}
