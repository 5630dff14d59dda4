/*
ledger.go - The durable per-listing, per-day occupancy store

PURPOSE:
  The Ledger is the source of truth for conflict checks. It maps every
  listing known to the catalog to a row of exactly Horizon.LengthDays
  cells, each Free or Booked.

CRITICAL INVARIANTS:
  1. Every catalog listing has exactly one row
  2. Row length is always exactly LengthDays
  3. Cells only ever transition Free -> Booked, never back

LIFECYCLE:
  LoadOrInitialize loads persisted state if it exists; otherwise it builds
  a fresh all-Free ledger from the catalog's listing ids and persists it.
  The fresh-initialization path is a normal branch (ErrLedgerNotFound from
  the store), not an exception. After that the ledger is mutated only by
  the commit pipeline via MarkBooked and is never deleted.

PERSISTENCE:
  Every MarkBooked rewrites the entire table through the store. Stores
  implement replace-on-write: the new content is fully written before the
  old state is discarded, so a crash leaves either the old or the new
  complete ledger, never a partial one. Full rewrite is a deliberate
  simplicity trade-off at this scale (a few thousand listings x 90 days).

CONCURRENCY:
  The ledger is read and mutated by concurrent HTTP handlers, so all access
  to rows goes through an RWMutex: reads (Has, Row, Available, Listings)
  share the read lock, MarkBooked holds the write lock across the store
  rewrite. The lock makes individual operations safe; the check-then-act
  gap between Available and MarkBooked is closed one level up by the
  engine, which serializes the whole check -> commit sequence. Cross-process
  coordination stays out of scope.

SEE ALSO:
  - store/csv: Flat-file table the ledger round-trips through
  - store/sqlite: SQL-backed store sharing the same contract
  - booking/store: In-memory store for tests and dev
*/
package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// =============================================================================
// LEDGER STORE - Persistence contract
// =============================================================================

// LedgerStore persists the full occupancy table.
type LedgerStore interface {
	// Load returns the persisted table, or ErrLedgerNotFound if no state
	// has ever been persisted. Malformed state is a *StorageError wrapping
	// ErrCorruptLedger.
	Load(ctx context.Context) (map[ListingID][]Cell, error)

	// Save atomically replaces the persisted table with the given one.
	Save(ctx context.Context, rows map[ListingID][]Cell) error
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger is the in-memory occupancy table bound to its backing store.
type Ledger struct {
	horizon Horizon
	store   LedgerStore

	mu   sync.RWMutex
	rows map[ListingID][]Cell
}

// LoadOrInitialize returns a well-formed ledger: either the persisted one,
// or a fresh all-Free ledger seeded from listingIDs and persisted before
// return. Persisted rows are validated against the horizon length.
func LoadOrInitialize(ctx context.Context, store LedgerStore, horizon Horizon, listingIDs []ListingID) (*Ledger, error) {
	rows, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrLedgerNotFound):
		rows = make(map[ListingID][]Cell, len(listingIDs))
		for _, id := range listingIDs {
			rows[id] = make([]Cell, horizon.LengthDays)
		}
		if err := store.Save(ctx, rows); err != nil {
			return nil, &StorageError{Op: "persist ledger", Err: err}
		}
	case err != nil:
		return nil, err
	default:
		for id, row := range rows {
			if len(row) != horizon.LengthDays {
				return nil, &StorageError{Op: "load ledger", Err: &rowLengthError{Listing: id, Got: len(row), Want: horizon.LengthDays}}
			}
		}
	}

	return &Ledger{horizon: horizon, store: store, rows: rows}, nil
}

type rowLengthError struct {
	Listing ListingID
	Got     int
	Want    int
}

func (e *rowLengthError) Error() string {
	return "row for listing " + e.Listing.String() + " has wrong length"
}

func (e *rowLengthError) Unwrap() error { return ErrCorruptLedger }

// Horizon returns the window this ledger covers.
func (l *Ledger) Horizon() Horizon { return l.horizon }

// Has reports whether the ledger tracks the listing.
func (l *Ledger) Has(id ListingID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.rows[id]
	return ok
}

// Listings returns the tracked listing ids in ascending order.
func (l *Ledger) Listings() []ListingID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]ListingID, 0, len(l.rows))
	for id := range l.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Row returns a copy of the listing's occupancy row, indexed 0..LengthDays-1
// for day indices 1..LengthDays.
func (l *Ledger) Row(id ListingID) ([]Cell, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	row, ok := l.rows[id]
	if !ok {
		return nil, &UnknownListingError{Listing: id}
	}
	out := make([]Cell, len(row))
	copy(out, row)
	return out, nil
}

// =============================================================================
// CONFLICT DETECTION
// =============================================================================

// Available reports whether every cell in the BUFFERED range
// [startIndex-1, endIndex+1], clamped to [1, LengthDays], is Free.
//
// The one-day widening on each side relative to the range that commit will
// actually mark keeps a gap day between back-to-back stays. Callers must not
// narrow the check to the marked range.
func (l *Ledger) Available(id ListingID, startIndex, endIndex int) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	row, ok := l.rows[id]
	if !ok {
		return false, &UnknownListingError{Listing: id}
	}

	from := l.horizon.clampIndex(startIndex - 1)
	to := l.horizon.clampIndex(endIndex + 1)
	for i := from; i <= to; i++ {
		if row[i-1] == Booked {
			return false, nil
		}
	}
	return true, nil
}

// =============================================================================
// MUTATION - Commit pipeline only
// =============================================================================

// MarkBooked sets every cell in the inclusive UNBUFFERED day-index range
// [startIndex, endIndex] to Booked and rewrites the full table through the
// store. The caller must have confirmed availability first; this operation
// does not re-check.
//
// The mutation is staged on a copy and installed only after the store
// accepts it, so a failed save leaves both the persisted and the in-memory
// ledger untouched. The write lock is held across the store rewrite so no
// reader observes the table mid-replacement.
func (l *Ledger) MarkBooked(ctx context.Context, id ListingID, startIndex, endIndex int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.rows[id]; !ok {
		return &UnknownListingError{Listing: id}
	}

	next := make(map[ListingID][]Cell, len(l.rows))
	for lid, row := range l.rows {
		cp := make([]Cell, len(row))
		copy(cp, row)
		next[lid] = cp
	}

	from := l.horizon.clampIndex(startIndex)
	to := l.horizon.clampIndex(endIndex)
	for i := from; i <= to; i++ {
		next[id][i-1] = Booked
	}

	if err := l.store.Save(ctx, next); err != nil {
		return &StorageError{Op: "persist ledger", Err: err}
	}
	l.rows = next
	return nil
}
