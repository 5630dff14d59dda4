package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth/booking-engine/catalog"
)

func TestPriceHistogram_BinsByNightlyPrice(t *testing.T) {
	c := testCatalog(t)

	bins := catalog.PriceHistogram(c.Listings())

	require.Len(t, bins, 7)
	byLabel := make(map[string]int)
	for _, b := range bins {
		byLabel[b.Label] = b.Count
	}
	assert.Equal(t, 1, byLabel["0-50"], "45")
	assert.Equal(t, 1, byLabel["50-100"], "75")
	assert.Equal(t, 1, byLabel["150-200"], "150 lands in its own bin, lower bound inclusive")
	assert.Equal(t, 1, byLabel["300+"], "320")
	assert.Equal(t, 0, byLabel["100-150"])
}

func TestPriceHistogram_PreservesBinOrder(t *testing.T) {
	bins := catalog.PriceHistogram(nil)

	labels := make([]string, len(bins))
	for i, b := range bins {
		labels[i] = b.Label
	}
	assert.Equal(t, []string{"0-50", "50-100", "100-150", "150-200", "200-250", "250-300", "300+"}, labels)
}

func TestNeighborhoodCounts(t *testing.T) {
	c := testCatalog(t)

	bins := catalog.NeighborhoodCounts(c.Listings())

	assert.Equal(t, []catalog.BinCount{
		{Label: "Area 2/MIT", Count: 1},
		{Label: "Riverside", Count: 1},
		{Label: "North Cambridge", Count: 1},
		{Label: "East Cambridge", Count: 1},
	}, bins, "first-seen order")
}

func TestRoomTypeCounts(t *testing.T) {
	c := testCatalog(t)

	bins := catalog.RoomTypeCounts(c.Listings())

	assert.Equal(t, []catalog.BinCount{
		{Label: "Entire home/apt", Count: 2},
		{Label: "Private room", Count: 1},
		{Label: "Shared room", Count: 1},
	}, bins)
}
