/*
Package catalog loads and queries the short-term rental listing catalog.

PURPOSE:
  The catalog is an external collaborator of the booking engine: it
  supplies the ordered collection of listings (price, neighborhood, room
  type, coordinates) and, for the engine itself, only the set of listing
  ids that seed and validate the ledger. Nothing here carries booking
  state.

SOURCE FORMAT:
  A standard listings export CSV. Columns are located by header name, so
  extra columns are ignored:

    id, name, host_name, neighbourhood, latitude, longitude,
    room_type, price, minimum_nights

  Prices are decimal, never float: filtering compares exact amounts.

SEE ALSO:
  - filter.go: Multi-criteria listing filter
  - distance.go: Great-circle distance to landmarks
  - stats.go: Aggregates for the chart endpoints
*/
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hearth/booking-engine/booking"
)

// Listing is one catalog entry.
type Listing struct {
	ID            booking.ListingID
	Name          string
	HostName      string
	Neighborhood  string
	Latitude      float64
	Longitude     float64
	RoomType      string
	Price         decimal.Decimal
	MinimumNights int
}

// Catalog is an immutable, ordered collection of listings.
type Catalog struct {
	listings []Listing
	byID     map[booking.ListingID]int
}

// Load reads a listings CSV from disk.
func Load(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open listings file: %w", err)
	}
	defer file.Close()
	return Read(file)
}

// Read parses a listings CSV. The header row determines column positions.
func Read(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validated against the header below

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read listings header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"id", "neighbourhood", "latitude", "longitude", "room_type", "price", "minimum_nights"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("listings file missing column %q", required)
		}
	}

	c := &Catalog{byID: make(map[booking.ListingID]int)}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read listings line %d: %w", line, err)
		}
		listing, err := parseListing(record, cols)
		if err != nil {
			return nil, fmt.Errorf("listings line %d: %w", line, err)
		}
		c.byID[listing.ID] = len(c.listings)
		c.listings = append(c.listings, listing)
	}
	return c, nil
}

func parseListing(record []string, cols map[string]int) (Listing, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	id, err := strconv.ParseInt(field("id"), 10, 64)
	if err != nil {
		return Listing{}, fmt.Errorf("bad listing id %q", field("id"))
	}
	lat, err := strconv.ParseFloat(field("latitude"), 64)
	if err != nil {
		return Listing{}, fmt.Errorf("bad latitude %q", field("latitude"))
	}
	lon, err := strconv.ParseFloat(field("longitude"), 64)
	if err != nil {
		return Listing{}, fmt.Errorf("bad longitude %q", field("longitude"))
	}
	price, err := decimal.NewFromString(strings.TrimPrefix(field("price"), "$"))
	if err != nil {
		return Listing{}, fmt.Errorf("bad price %q", field("price"))
	}
	nights, err := strconv.Atoi(field("minimum_nights"))
	if err != nil {
		return Listing{}, fmt.Errorf("bad minimum_nights %q", field("minimum_nights"))
	}

	return Listing{
		ID:            booking.ListingID(id),
		Name:          field("name"),
		HostName:      field("host_name"),
		Neighborhood:  field("neighbourhood"),
		Latitude:      lat,
		Longitude:     lon,
		RoomType:      field("room_type"),
		Price:         price,
		MinimumNights: nights,
	}, nil
}

// Listings returns all listings in file order.
func (c *Catalog) Listings() []Listing {
	out := make([]Listing, len(c.listings))
	copy(out, c.listings)
	return out
}

// Get returns the listing with the given id.
func (c *Catalog) Get(id booking.ListingID) (Listing, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Listing{}, false
	}
	return c.listings[i], true
}

// IDs returns every listing id, in file order. This is the set that seeds
// the availability ledger.
func (c *Catalog) IDs() []booking.ListingID {
	ids := make([]booking.ListingID, len(c.listings))
	for i, l := range c.listings {
		ids[i] = l.ID
	}
	return ids
}

// Len returns the number of listings.
func (c *Catalog) Len() int { return len(c.listings) }
