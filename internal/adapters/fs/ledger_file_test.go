package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/counts2csv/internal/domain"
)

func TestLedgerFileRepository_LoadMissing(t *testing.T) {
	repo := NewLedgerFileRepository(t.TempDir())

	ledger, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ledger.IsEmpty() {
		t.Errorf("Load() = %+v, want empty", ledger)
	}
}

func TestLedgerFileRepository_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	repo := NewLedgerFileRepository(dir)
	ctx := context.Background()

	mtime := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	var ledger domain.Ledger
	ledger.Record("/in/a.h5ad", domain.LedgerEntry{Output: "/out/a.csv", Size: 128, ModTime: mtime, Rows: 2, Cols: 3})

	if err := repo.Save(ctx, ledger); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(repo.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.IsCurrent("/in/a.h5ad", 128, mtime) {
		t.Errorf("loaded ledger = %+v", got)
	}
	if got.Entries["/in/a.h5ad"].Output != "/out/a.csv" {
		t.Errorf("Output = %q", got.Entries["/in/a.h5ad"].Output)
	}
}

func TestLedgerFileRepository_Corrupt(t *testing.T) {
	dir := t.TempDir()
	repo := NewLedgerFileRepository(dir)
	if err := os.WriteFile(repo.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Load(context.Background()); err == nil {
		t.Error("Load() of corrupt file succeeded")
	}
}
