// Package fs implements file system adapters: the watch-mode ledger and
// atomic output files.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/bft-labs/counts2csv/internal/domain"
)

const ledgerFileName = "counts2csv-ledger.json"

// LedgerFileRepository implements ports.LedgerRepository using a JSON file.
type LedgerFileRepository struct {
	dir string
}

// NewLedgerFileRepository creates a repository storing its file in dir.
func NewLedgerFileRepository(dir string) *LedgerFileRepository {
	return &LedgerFileRepository{dir: dir}
}

// Load retrieves the last saved ledger from disk.
// Returns an empty ledger and nil error if no ledger file exists.
func (r *LedgerFileRepository) Load(ctx context.Context) (domain.Ledger, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Ledger{}, nil
		}
		return domain.Ledger{}, err
	}

	var ledger domain.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return domain.Ledger{}, err
	}
	return ledger, nil
}

// Save persists the ledger atomically (temp file, then rename).
func (r *LedgerFileRepository) Save(ctx context.Context, ledger domain.Ledger) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Path returns the full path to the ledger file.
func (r *LedgerFileRepository) Path() string {
	return filepath.Join(r.dir, ledgerFileName)
}
