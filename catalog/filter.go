/*
filter.go - Multi-criteria listing filter

PURPOSE:
  Narrows the catalog to the user's browsing parameters: nightly price
  range, minimum-nights requirement, neighborhoods, and room types. Empty
  criteria match everything, mirroring the browse UI where an untouched
  control means "any".
*/
package catalog

import "github.com/shopspring/decimal"

// maxMinimumNights caps the minimum-nights criterion; catalog exports top
// out at year-long minimum stays.
const maxMinimumNights = 365

// Filter selects listings. The zero value matches every listing.
type Filter struct {
	// Price range per night: MinPrice inclusive, MaxPrice exclusive.
	// A zero MaxPrice disables the upper bound.
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal

	// MinNightsExact matches listings requiring exactly this many nights.
	// MinNightsAtLeast matches listings requiring at least this many
	// (the browse UI's "10+" bucket). Zero disables either; Exact wins
	// when both are set.
	MinNightsExact   int
	MinNightsAtLeast int

	// Neighborhoods and RoomTypes are allow-lists; empty means all.
	Neighborhoods []string
	RoomTypes     []string
}

// Match reports whether a listing satisfies every criterion.
func (f Filter) Match(l Listing) bool {
	if l.Price.LessThan(f.MinPrice) {
		return false
	}
	if !f.MaxPrice.IsZero() && !l.Price.LessThan(f.MaxPrice) {
		return false
	}

	switch {
	case f.MinNightsExact > 0:
		if l.MinimumNights != f.MinNightsExact {
			return false
		}
	case f.MinNightsAtLeast > 0:
		if l.MinimumNights < f.MinNightsAtLeast || l.MinimumNights > maxMinimumNights {
			return false
		}
	}

	if len(f.Neighborhoods) > 0 && !contains(f.Neighborhoods, l.Neighborhood) {
		return false
	}
	if len(f.RoomTypes) > 0 && !contains(f.RoomTypes, l.RoomType) {
		return false
	}
	return true
}

// Filter returns the listings matching f, preserving catalog order.
func (c *Catalog) Filter(f Filter) []Listing {
	var out []Listing
	for _, l := range c.listings {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
