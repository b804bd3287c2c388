package ports

import (
	"context"

	"github.com/bft-labs/counts2csv/internal/domain"
)

// LedgerRepository handles ledger persistence for watch mode.
type LedgerRepository interface {
	// Load retrieves the last saved ledger.
	// Returns an empty ledger and nil error if none exists.
	Load(ctx context.Context) (domain.Ledger, error)

	// Save persists the ledger atomically.
	Save(ctx context.Context, ledger domain.Ledger) error
}
