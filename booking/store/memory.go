// Package store provides in-memory implementations of the booking
// persistence interfaces, for tests and development.
package store

import (
	"context"
	"sync"

	"github.com/hearth/booking-engine/booking"
)

// =============================================================================
// MEMORY LEDGER STORE
// =============================================================================

// Memory implements booking.LedgerStore and booking.AuditLog in memory.
// Load reports booking.ErrLedgerNotFound until the first Save, which makes
// it behave like the file stores on a first run.
type Memory struct {
	mu      sync.RWMutex
	rows    map[booking.ListingID][]booking.Cell
	records []booking.AuditRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) (map[booking.ListingID][]booking.Cell, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.rows == nil {
		return nil, booking.ErrLedgerNotFound
	}
	return cloneRows(m.rows), nil
}

func (m *Memory) Save(_ context.Context, rows map[booking.ListingID][]booking.Cell) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = cloneRows(rows)
	return nil
}

// =============================================================================
// MEMORY AUDIT LOG
// =============================================================================

func (m *Memory) Append(_ context.Context, rec booking.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, rec)
	return nil
}

// Records returns the appended audit records in commit order.
func (m *Memory) Records() []booking.AuditRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]booking.AuditRecord, len(m.records))
	copy(out, m.records)
	return out
}

func cloneRows(rows map[booking.ListingID][]booking.Cell) map[booking.ListingID][]booking.Cell {
	out := make(map[booking.ListingID][]booking.Cell, len(rows))
	for id, row := range rows {
		cp := make([]booking.Cell, len(row))
		copy(cp, row)
		out[id] = cp
	}
	return out
}
