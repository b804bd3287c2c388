package fs

import (
	"errors"
	"os"
	"path/filepath"
)

// AtomicFile is an output file that only appears at its final path once
// Commit succeeds. Readers never observe a partially written table.
type AtomicFile struct {
	*os.File
	path string
	done bool
}

// CreateAtomic creates a temporary file next to path.
func CreateAtomic(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{File: f, path: path}, nil
}

// Commit syncs and closes the temporary file, then renames it onto the target
// path. It returns the size of the committed file.
func (f *AtomicFile) Commit() (int64, error) {
	if f.done {
		return 0, errors.New("atomic file already closed")
	}
	f.done = true

	if err := f.Sync(); err != nil {
		f.discard()
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.discard()
		return 0, err
	}
	if err := f.File.Close(); err != nil {
		_ = os.Remove(f.Name())
		return 0, err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		_ = os.Remove(f.Name())
		return 0, err
	}
	if err := os.Rename(f.Name(), f.path); err != nil {
		_ = os.Remove(f.Name())
		return 0, err
	}
	return info.Size(), nil
}

// Abort removes the temporary file. It is a no-op after Commit.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.discard()
}

func (f *AtomicFile) discard() {
	_ = f.File.Close()
	_ = os.Remove(f.Name())
}
