/*
stats.go - Aggregates for the chart endpoints

PURPOSE:
  The browse UI renders three charts over the filtered listings: count per
  neighborhood, a price-per-night histogram, and a room-type breakdown.
  The server only computes the bins; rendering belongs to the frontend.
*/
package catalog

import "github.com/shopspring/decimal"

// BinCount is one labeled bucket of a chart. Slices of BinCount preserve
// presentation order, which maps do not.
type BinCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// priceBins are the nightly-price histogram buckets: [From, To) with the
// final open-ended bucket.
var priceBins = []struct {
	label string
	from  int64
	to    int64 // 0 = unbounded
}{
	{"0-50", 0, 50},
	{"50-100", 50, 100},
	{"100-150", 100, 150},
	{"150-200", 150, 200},
	{"200-250", 200, 250},
	{"250-300", 250, 300},
	{"300+", 300, 0},
}

// PriceHistogram buckets listings by nightly price.
func PriceHistogram(listings []Listing) []BinCount {
	out := make([]BinCount, len(priceBins))
	for i, bin := range priceBins {
		out[i].Label = bin.label
	}
	for _, l := range listings {
		for i := len(priceBins) - 1; i >= 0; i-- {
			if !l.Price.LessThan(decimal.NewFromInt(priceBins[i].from)) {
				out[i].Count++
				break
			}
		}
	}
	return out
}

// NeighborhoodCounts tallies listings per neighborhood, in first-seen
// order.
func NeighborhoodCounts(listings []Listing) []BinCount {
	return countBy(listings, func(l Listing) string { return l.Neighborhood })
}

// RoomTypeCounts tallies listings per room type, in first-seen order.
func RoomTypeCounts(listings []Listing) []BinCount {
	return countBy(listings, func(l Listing) string { return l.RoomType })
}

func countBy(listings []Listing, key func(Listing) string) []BinCount {
	index := make(map[string]int)
	var out []BinCount
	for _, l := range listings {
		k := key(l)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, BinCount{Label: k})
		}
		out[i].Count++
	}
	return out
}
