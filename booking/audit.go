/*
audit.go - Append-only audit trail of committed bookings

PURPOSE:
  Every successful commit appends exactly one AuditRecord. The log is
  write-only from the engine's point of view: the ledger never reads it
  back, and records are never modified or deleted.

FILE FORMAT:
  One fixed-width, tab-separated line per record: first name, last name,
  email, phone, listing id, start date, end date. Dates are DD-Mon-YYYY.
  See AuditRecord.LogLine in types.go for the exact column widths.

SEE ALSO:
  - engine.go: The only writer
  - store/sqlite: SQL-backed AuditLog sharing the same contract
*/
package booking

import (
	"context"
	"os"
	"sync"
)

// AuditLog records completed bookings. Append-only; implementations must
// create their backing storage on first use if it does not exist.
type AuditLog interface {
	Append(ctx context.Context, rec AuditRecord) error
}

// =============================================================================
// FILE AUDIT LOG - Fixed-width text file
// =============================================================================

// FileAuditLog appends fixed-width records to a text file, creating it on
// first append.
type FileAuditLog struct {
	mu   sync.Mutex
	path string
}

func NewFileAuditLog(path string) *FileAuditLog {
	return &FileAuditLog{path: path}
}

func (f *FileAuditLog) Append(_ context.Context, rec AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &StorageError{Op: "append audit", Err: err}
	}
	defer file.Close()

	if _, err := file.WriteString(rec.LogLine() + "\n"); err != nil {
		return &StorageError{Op: "append audit", Err: err}
	}
	if err := file.Sync(); err != nil {
		return &StorageError{Op: "append audit", Err: err}
	}
	return nil
}
