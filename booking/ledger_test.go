package booking_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth/booking-engine/booking"
	"github.com/hearth/booking-engine/booking/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testListings = []booking.ListingID{100, 200, 300}

func newTestLedger(t *testing.T) (*booking.Ledger, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	ledger, err := booking.LoadOrInitialize(context.Background(), mem, testHorizon(), testListings)
	require.NoError(t, err)
	return ledger, mem
}

// =============================================================================
// LOAD OR INITIALIZE
// =============================================================================

func TestLoadOrInitialize_FreshLedger_AllFreeAndPersisted(t *testing.T) {
	// GIVEN: A store with no persisted state
	// WHEN: LoadOrInitialize runs
	// THEN: Every catalog listing has an all-Free row of exactly LengthDays
	//       cells, and the fresh ledger was persisted immediately
	mem := store.NewMemory()
	ledger, err := booking.LoadOrInitialize(context.Background(), mem, testHorizon(), testListings)
	require.NoError(t, err)

	assert.ElementsMatch(t, testListings, ledger.Listings())
	for _, id := range testListings {
		row, err := ledger.Row(id)
		require.NoError(t, err)
		assert.Len(t, row, 90)
		for _, cell := range row {
			assert.Equal(t, booking.Free, cell)
		}
	}

	persisted, err := mem.Load(context.Background())
	require.NoError(t, err, "fresh ledger must be persisted before return")
	assert.Len(t, persisted, len(testListings))
}

func TestLoadOrInitialize_ExistingState_RoundTrips(t *testing.T) {
	// Persist a ledger with one booking, reload it, and expect an
	// identical mapping.
	ctx := context.Background()
	first, mem := newTestLedger(t)
	require.NoError(t, first.MarkBooked(ctx, 100, 15, 17))

	second, err := booking.LoadOrInitialize(ctx, mem, testHorizon(), testListings)
	require.NoError(t, err)

	for _, id := range testListings {
		want, err := first.Row(id)
		require.NoError(t, err)
		got, err := second.Row(id)
		require.NoError(t, err)
		assert.Equal(t, want, got, "listing %s", id)
	}
}

func TestLoadOrInitialize_WrongRowLength_StorageError(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Save(ctx, map[booking.ListingID][]booking.Cell{
		100: make([]booking.Cell, 45), // half a horizon
	}))

	_, err := booking.LoadOrInitialize(ctx, mem, testHorizon(), testListings)

	require.Error(t, err)
	var storageErr *booking.StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, booking.ErrCorruptLedger)
}

// =============================================================================
// ROW ACCESS
// =============================================================================

func TestLedger_Row_UnknownListing(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Row(999)

	require.Error(t, err)
	var unknown *booking.UnknownListingError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, booking.ListingID(999), unknown.Listing)
	assert.ErrorIs(t, err, booking.ErrUnknownListing)
}

func TestLedger_Row_ReturnsCopy(t *testing.T) {
	ledger, _ := newTestLedger(t)

	row, err := ledger.Row(100)
	require.NoError(t, err)
	row[0] = booking.Booked

	fresh, err := ledger.Row(100)
	require.NoError(t, err)
	assert.Equal(t, booking.Free, fresh[0], "mutating a returned row must not leak into the ledger")
}

// =============================================================================
// MARK BOOKED + PERSISTENCE
// =============================================================================

func TestLedger_MarkBooked_MarksOnlyUnbufferedRange(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger(t)

	require.NoError(t, ledger.MarkBooked(ctx, 100, 15, 17))

	row, err := ledger.Row(100)
	require.NoError(t, err)
	assert.Equal(t, booking.Free, row[13], "day 14 stays free; the buffer is for checking only")
	assert.Equal(t, booking.Booked, row[14], "day 15")
	assert.Equal(t, booking.Booked, row[15], "day 16")
	assert.Equal(t, booking.Booked, row[16], "day 17")
	assert.Equal(t, booking.Free, row[17], "day 18 stays free")
}

func TestLedger_MarkBooked_PersistsFullTable(t *testing.T) {
	ctx := context.Background()
	ledger, mem := newTestLedger(t)

	require.NoError(t, ledger.MarkBooked(ctx, 200, 1, 3))

	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, booking.Booked, persisted[200][0])
	assert.Equal(t, booking.Booked, persisted[200][2])
	assert.Equal(t, booking.Free, persisted[200][3])
	assert.Len(t, persisted, len(testListings), "the whole table is rewritten, not just one row")
}

func TestLedger_MarkBooked_SaveFailure_LeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	failing := &failingStore{Memory: store.NewMemory()}
	broken, err := booking.LoadOrInitialize(ctx, failing, testHorizon(), testListings)
	require.NoError(t, err)

	failing.fail = true
	err = broken.MarkBooked(ctx, 100, 15, 17)
	require.Error(t, err)
	var storageErr *booking.StorageError
	assert.ErrorAs(t, err, &storageErr)

	row, err := broken.Row(100)
	require.NoError(t, err)
	for _, cell := range row {
		assert.Equal(t, booking.Free, cell, "failed save must not leave in-memory cells marked")
	}
}

func TestLedger_MarkBooked_UnknownListing(t *testing.T) {
	ledger, _ := newTestLedger(t)

	err := ledger.MarkBooked(context.Background(), 999, 1, 2)

	assert.ErrorIs(t, err, booking.ErrUnknownListing)
}

// failingStore wraps Memory and fails Save on demand.
type failingStore struct {
	*store.Memory
	fail bool
}

func (f *failingStore) Save(ctx context.Context, rows map[booking.ListingID][]booking.Cell) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Memory.Save(ctx, rows)
}

// =============================================================================
// CONFLICT DETECTION (buffered range)
// =============================================================================

func TestLedger_Available_FreshRowIsAvailable(t *testing.T) {
	ledger, _ := newTestLedger(t)

	ok, err := ledger.Available(100, 15, 17)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLedger_Available_BufferCatchesAdjacentBooking(t *testing.T) {
	// GIVEN: Days 15-17 are booked
	// THEN: A request for days 18-20 is unavailable: the buffer widens the
	//       check to [17, 21] and day 17 is taken.
	ctx := context.Background()
	ledger, _ := newTestLedger(t)
	require.NoError(t, ledger.MarkBooked(ctx, 100, 15, 17))

	ok, err := ledger.Available(100, 18, 20)
	require.NoError(t, err)
	assert.False(t, ok, "adjacent range falls inside the one-day buffer")

	ok, err = ledger.Available(100, 19, 21)
	require.NoError(t, err)
	assert.True(t, ok, "one day of gap beyond the buffer is enough")
}

func TestLedger_Available_ClampsAtHorizonEdges(t *testing.T) {
	ledger, _ := newTestLedger(t)

	// Ranges that would buffer past the edges must not panic or fail.
	ok, err := ledger.Available(100, 1, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.Available(100, 88, 90)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLedger_Available_UnknownListing(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Available(999, 1, 2)

	assert.ErrorIs(t, err, booking.ErrUnknownListing)
}
