// Package sheets defines the ports the export worker depends on, keeping the
// worker decoupled from the concrete Google Sheets client.
package sheets

import (
	"context"

	"financas/internal/core"
)

// LedgerAppender appends one transaction to the export ledger and returns an
// opaque reference to the written row.
type LedgerAppender interface {
	AppendTransaction(ctx context.Context, t core.Transaction) (string, error)
}
