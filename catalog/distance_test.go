package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth/booking-engine/catalog"
)

func TestDistanceMiles_KnownPair(t *testing.T) {
	// MIT Museum to Bunker Hill Monument is roughly 2.1 miles great-circle.
	d := catalog.DistanceMiles(catalog.Landmarks["MIT Museum"], catalog.Landmarks["Bunker Hill Monument"])

	assert.InDelta(t, 2.1, d, 0.2)
}

func TestDistanceMiles_ZeroForSamePoint(t *testing.T) {
	p := catalog.Point{Lat: 42.36, Lon: -71.09}

	assert.InDelta(t, 0, catalog.DistanceMiles(p, p), 1e-9)
}

func TestDistanceMiles_Symmetric(t *testing.T) {
	a := catalog.Landmarks["USS Constitution"]
	b := catalog.Landmarks["Museum of Science"]

	assert.InDelta(t, catalog.DistanceMiles(a, b), catalog.DistanceMiles(b, a), 1e-9)
}

func TestListing_DistanceTo(t *testing.T) {
	c := testCatalog(t)
	l, ok := c.Get(100)
	require.True(t, ok)

	d := l.DistanceTo(catalog.Landmarks["MIT Museum"])

	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 1.0, "the Area 2/MIT listing sits under a mile from the MIT Museum")
}
