package domain

import "time"

// Ledger records which input files watch mode has already converted.
// It is saved to disk after each successful conversion so that a restarted
// watcher does not redo work.
type Ledger struct {
	Entries map[string]LedgerEntry `json:"entries"`
}

// LedgerEntry describes one converted input as it was at conversion time.
type LedgerEntry struct {
	Output      string    `json:"output"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	Rows        int       `json:"rows"`
	Cols        int       `json:"cols"`
	ConvertedAt time.Time `json:"converted_at"`
}

// IsEmpty returns true if nothing has been recorded.
func (l Ledger) IsEmpty() bool {
	return len(l.Entries) == 0
}

// IsCurrent reports whether input was converted while it had this size and mtime.
func (l Ledger) IsCurrent(input string, size int64, modTime time.Time) bool {
	e, ok := l.Entries[input]
	if !ok {
		return false
	}
	return e.Size == size && e.ModTime.Equal(modTime)
}

// Record stores the entry for input, replacing any previous one.
func (l *Ledger) Record(input string, entry LedgerEntry) {
	if l.Entries == nil {
		l.Entries = make(map[string]LedgerEntry)
	}
	l.Entries[input] = entry
}
