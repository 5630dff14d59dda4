/*
Package sqlite provides a SQLite-backed implementation of the booking
storage interfaces.

PURPOSE:
  Implements booking.LedgerStore and booking.AuditLog using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  ledger_rows:   One row per listing; the occupancy row is encoded as a
                 fixed-length string, one character per tracked day
  ledger_meta:   Marker row set on first Save, so an empty table (an empty
                 catalog) is distinguishable from a never-initialized one
  audit_records: Append-only record of committed bookings

REPLACE-ON-WRITE:
  Save rewrites the whole ledger_rows table inside a single SQL
  transaction, so readers observe either the previous complete table or
  the new one. This mirrors the flat-file store's temp-file-then-rename
  discipline.

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statements touch audit_records.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/bookings.db", horizon.LengthDays)
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger, err := booking.LoadOrInitialize(ctx, store, horizon, ids)

SEE ALSO:
  - booking/ledger.go: Store contract
  - store/csv: Flat-file implementation of the same contract
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hearth/booking-engine/booking"
)

// Cell encoding inside the cells column.
const (
	cellFree   = '.'
	cellBooked = 'B'
)

// Store implements booking.LedgerStore and booking.AuditLog using SQLite.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	days int
}

// New creates a SQLite store at the given path for a horizon of the given
// length. Use ":memory:" for an in-memory database.
func New(dbPath string, days int) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, days: days}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Occupancy table: one row per listing, one character per tracked day
	CREATE TABLE IF NOT EXISTS ledger_rows (
		listing_id INTEGER PRIMARY KEY,
		cells TEXT NOT NULL
	);

	-- Set on first Save; distinguishes "no listings" from "never saved"
	CREATE TABLE IF NOT EXISTS ledger_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- Committed bookings (append-only)
	CREATE TABLE IF NOT EXISTS audit_records (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		listing_id INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_listing
		ON audit_records(listing_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LEDGER STORE (booking.LedgerStore interface)
// =============================================================================

// Load reads the full occupancy table. Before the first Save the meta
// marker is absent and Load yields booking.ErrLedgerNotFound; after it,
// even an empty table (an empty catalog) loads as an empty map.
func (s *Store) Load(ctx context.Context) (map[booking.ListingID][]booking.Cell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var marker string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM ledger_meta WHERE key = 'ledger_saved'").Scan(&marker)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrLedgerNotFound
	}
	if err != nil {
		return nil, &booking.StorageError{Op: "load ledger", Err: err}
	}

	rows, err := s.db.QueryContext(ctx, "SELECT listing_id, cells FROM ledger_rows")
	if err != nil {
		return nil, &booking.StorageError{Op: "load ledger", Err: err}
	}
	defer rows.Close()

	table := make(map[booking.ListingID][]booking.Cell)
	for rows.Next() {
		var (
			id    int64
			cells string
		)
		if err := rows.Scan(&id, &cells); err != nil {
			return nil, &booking.StorageError{Op: "load ledger", Err: err}
		}
		row, err := decodeRow(cells, s.days)
		if err != nil {
			return nil, &booking.StorageError{
				Op:  "load ledger",
				Err: fmt.Errorf("%w: listing %d: %v", booking.ErrCorruptLedger, id, err),
			}
		}
		table[booking.ListingID(id)] = row
	}
	if err := rows.Err(); err != nil {
		return nil, &booking.StorageError{Op: "load ledger", Err: err}
	}
	return table, nil
}

// Save replaces the full occupancy table inside one SQL transaction.
func (s *Store) Save(ctx context.Context, table map[booking.ListingID][]booking.Cell) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM ledger_rows"); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}
	for id, row := range table {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO ledger_rows (listing_id, cells) VALUES (?, ?)",
			int64(id), encodeRow(row),
		); err != nil {
			return fmt.Errorf("failed to write row for listing %d: %w", int64(id), err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO ledger_meta (key, value) VALUES ('ledger_saved', '1')",
	); err != nil {
		return fmt.Errorf("failed to mark ledger saved: %w", err)
	}
	return tx.Commit()
}

func encodeRow(row []booking.Cell) string {
	var b strings.Builder
	b.Grow(len(row))
	for _, c := range row {
		if c == booking.Booked {
			b.WriteByte(cellBooked)
		} else {
			b.WriteByte(cellFree)
		}
	}
	return b.String()
}

func decodeRow(cells string, days int) ([]booking.Cell, error) {
	if len(cells) != days {
		return nil, fmt.Errorf("row has %d cells, want %d", len(cells), days)
	}
	row := make([]booking.Cell, days)
	for i := 0; i < len(cells); i++ {
		switch cells[i] {
		case cellFree:
		case cellBooked:
			row[i] = booking.Booked
		default:
			return nil, fmt.Errorf("unknown cell marker %q", cells[i])
		}
	}
	return row, nil
}

// =============================================================================
// AUDIT LOG (booking.AuditLog interface)
// =============================================================================

// Append inserts one audit record. Append-only; there is no update path.
func (s *Store) Append(ctx context.Context, rec booking.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_records
		(id, first_name, last_name, email, phone, listing_id, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.FirstName,
		rec.LastName,
		rec.Email,
		rec.Phone,
		int64(rec.Listing),
		rec.Start.Format(time.RFC3339),
		rec.End.Format(time.RFC3339),
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return &booking.StorageError{Op: "append audit", Err: err}
	}
	return nil
}

// Records returns all audit records for a listing in commit order.
func (s *Store) Records(ctx context.Context, id booking.ListingID) ([]booking.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, phone, listing_id, start_date, end_date, created_at
		FROM audit_records
		WHERE listing_id = ?
		ORDER BY created_at ASC`,
		int64(id),
	)
	if err != nil {
		return nil, &booking.StorageError{Op: "load audit", Err: err}
	}
	defer rows.Close()

	var records []booking.AuditRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (booking.AuditRecord, error) {
	var (
		rec       booking.AuditRecord
		listingID int64
		start     string
		end       string
		createdAt string
	)
	err := rows.Scan(
		&rec.ID, &rec.FirstName, &rec.LastName, &rec.Email, &rec.Phone,
		&listingID, &start, &end, &createdAt,
	)
	if err != nil {
		return rec, &booking.StorageError{Op: "load audit", Err: err}
	}

	rec.Listing = booking.ListingID(listingID)
	if rec.Start, err = time.Parse(time.RFC3339, start); err != nil {
		return rec, &booking.StorageError{Op: "load audit",
			Err: fmt.Errorf("record %s: bad start_date: %w", rec.ID, err)}
	}
	if rec.End, err = time.Parse(time.RFC3339, end); err != nil {
		return rec, &booking.StorageError{Op: "load audit",
			Err: fmt.Errorf("record %s: bad end_date: %w", rec.ID, err)}
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return rec, &booking.StorageError{Op: "load audit",
			Err: fmt.Errorf("record %s: bad created_at: %w", rec.ID, err)}
	}
	return rec, nil
}
