package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth/booking-engine/booking"
	"github.com/hearth/booking-engine/store/sqlite"
)

const days = 90

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:", days)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// LEDGER STORE
// =============================================================================

func TestStore_Load_EmptyDatabase_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background())

	assert.ErrorIs(t, err, booking.ErrLedgerNotFound)
}

func TestStore_SaveThenLoad_RoundTrips(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rows := map[booking.ListingID][]booking.Cell{
		100: make([]booking.Cell, days),
		200: make([]booking.Cell, days),
	}
	rows[100][0] = booking.Booked
	rows[100][89] = booking.Booked

	require.NoError(t, s.Save(ctx, rows))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, loaded)
}

func TestStore_Save_ReplacesWholeTable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, map[booking.ListingID][]booking.Cell{
		100: make([]booking.Cell, days),
		200: make([]booking.Cell, days),
	}))
	require.NoError(t, s.Save(ctx, map[booking.ListingID][]booking.Cell{
		300: make([]booking.Cell, days),
	}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1, "save replaces, it does not merge")
	assert.Contains(t, loaded, booking.ListingID(300))
}

func TestStore_Save_EmptyTable_LoadsAsInitialized(t *testing.T) {
	// GIVEN: A saved ledger with no listings (an empty catalog)
	// THEN: Load returns the empty table, not ErrLedgerNotFound, so a
	//       restart does not re-run initialization.
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, map[booking.ListingID][]booking.Cell{}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_WorksWithLoadOrInitialize(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	horizon := booking.NewHorizon(date(2020, time.December, 17), days)

	ledger, err := booking.LoadOrInitialize(ctx, s, horizon, []booking.ListingID{100, 200})
	require.NoError(t, err)
	require.NoError(t, ledger.MarkBooked(ctx, 100, 15, 17))

	reloaded, err := booking.LoadOrInitialize(ctx, s, horizon, []booking.ListingID{100, 200})
	require.NoError(t, err)

	ok, err := reloaded.Available(100, 15, 17)
	require.NoError(t, err)
	assert.False(t, ok, "bookings survive a restart")
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func TestStore_AuditAppendAndRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec := booking.AuditRecord{
		ID:        "rec-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "6175551234",
		Listing:   100,
		Start:     date(2021, time.January, 1),
		End:       date(2021, time.January, 3),
		CreatedAt: date(2020, time.December, 20),
	}
	require.NoError(t, s.Append(ctx, rec))

	other := rec
	other.ID = "rec-2"
	other.Listing = 200
	require.NoError(t, s.Append(ctx, other))

	records, err := s.Records(ctx, 100)
	require.NoError(t, err)
	require.Len(t, records, 1, "records are filtered by listing")
	assert.Equal(t, rec, records[0])
}

func TestStore_Records_CorruptDate_ReturnsStorageError(t *testing.T) {
	// A stored date that no longer parses must surface as a storage error
	// on read-back, not come out as the zero time.
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bookings.db")
	s, err := sqlite.New(path, days)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Append(ctx, booking.AuditRecord{
		ID:        "rec-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "6175551234",
		Listing:   100,
		Start:     date(2021, time.January, 1),
		End:       date(2021, time.January, 3),
		CreatedAt: date(2020, time.December, 20),
	}))

	// Corrupt the stored record through a second connection.
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "UPDATE audit_records SET start_date = 'not-a-date' WHERE id = 'rec-1'")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = s.Records(ctx, 100)
	require.Error(t, err)
	var storageErr *booking.StorageError
	assert.ErrorAs(t, err, &storageErr)
}
