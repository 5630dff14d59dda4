/*
Package csv persists the availability ledger as a single CSV table.

PURPOSE:
  This is the flat-file LedgerStore. The table is keyed by listing id with
  one column per tracked day index:

      id,1,2,...,90
      100,,0,0,,...
      101,,,,,...

  An empty cell is Free; the marker "0" is Booked. The format round-trips:
  load(persist(ledger)) == ledger.

ATOMIC REPLACE-ON-WRITE:
  Save never truncates the live file. The new table is written completely
  to a temp file in the same directory, synced, then renamed over the old
  one. A crash mid-save leaves either the old or the new complete table
  on disk, never a torn one.

SEE ALSO:
  - booking/ledger.go: LedgerStore contract
  - store/sqlite: SQL-backed alternative
*/
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/hearth/booking-engine/booking"
)

// bookedMarker is the sentinel written for a Booked cell. Any non-empty
// value reads back as Booked.
const bookedMarker = "0"

// Store implements booking.LedgerStore over a CSV file.
type Store struct {
	mu   sync.RWMutex
	path string
	days int
}

// New returns a store for the given file path and horizon length. The file
// is not touched until Load or Save.
func New(path string, days int) *Store {
	return &Store{path: path, days: days}
}

// Load reads the persisted table. A missing file is the normal first-run
// branch and yields booking.ErrLedgerNotFound; anything structurally wrong
// with a present file is a StorageError wrapping ErrCorruptLedger.
func (s *Store) Load(_ context.Context) (map[booking.ListingID][]booking.Cell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, booking.ErrLedgerNotFound
	}
	if err != nil {
		return nil, &booking.StorageError{Op: "load ledger", Err: err}
	}
	defer file.Close()

	reader := stdcsv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, s.corrupt(err)
	}
	if len(records) == 0 || len(records[0]) != s.days+1 {
		return nil, s.corrupt(fmt.Errorf("expected %d columns", s.days+1))
	}

	rows := make(map[booking.ListingID][]booking.Cell, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != s.days+1 {
			return nil, s.corrupt(fmt.Errorf("row for %q has %d columns", record[0], len(record)))
		}
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, s.corrupt(fmt.Errorf("bad listing id %q", record[0]))
		}
		row := make([]booking.Cell, s.days)
		for i, cell := range record[1:] {
			if cell != "" {
				row[i] = booking.Booked
			}
		}
		rows[booking.ListingID(id)] = row
	}
	return rows, nil
}

// Save writes the full table to a temp file and renames it into place.
func (s *Store) Save(_ context.Context, rows map[booking.ListingID][]booking.Cell) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]booking.ListingID, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ledger-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	writer := stdcsv.NewWriter(tmp)

	header := make([]string, s.days+1)
	header[0] = "id"
	for d := 1; d <= s.days; d++ {
		header[d] = strconv.Itoa(d)
	}
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return err
	}

	record := make([]string, s.days+1)
	for _, id := range ids {
		record[0] = id.String()
		for i, cell := range rows[id] {
			if cell == booking.Booked {
				record[i+1] = bookedMarker
			} else {
				record[i+1] = ""
			}
		}
		if err := writer.Write(record); err != nil {
			tmp.Close()
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) corrupt(err error) error {
	return &booking.StorageError{
		Op:  "load ledger",
		Err: fmt.Errorf("%w: %v", booking.ErrCorruptLedger, err),
	}
}
