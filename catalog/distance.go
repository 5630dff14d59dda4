/*
distance.go - Great-circle distance from listings to landmarks

PURPOSE:
  Display-layer geometry: how far is each listing from the landmarks a
  guest cares about. Uses the haversine formula on a spherical Earth,
  reported in miles. Irrelevant to ledger correctness.
*/
package catalog

import "math"

const (
	earthRadiusKm = 6371.0088
	kmToMiles     = 0.6213712
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// Landmarks are the built-in points of interest offered by the browse UI.
// Callers may add their own points alongside these.
var Landmarks = map[string]Point{
	"MIT Museum":                        {Lat: 42.362379992017246, Lon: -71.0975875169152},
	"Bunker Hill Monument":              {Lat: 42.376488816810344, Lon: -71.06080858807873},
	"USS Constitution":                  {Lat: 42.37270689222049, Lon: -71.05660445924268},
	"Museum of Science":                 {Lat: 42.367945830321005, Lon: -71.07053522114052},
	"Harvard Museum of Natural History": {Lat: 42.37861316322023, Lon: -71.11561124575104},
}

// DistanceMiles returns the great-circle distance between two points in
// miles.
func DistanceMiles(a, b Point) float64 {
	return haversineKm(a, b) * kmToMiles
}

// DistanceTo returns the distance from the listing to a point, in miles.
func (l Listing) DistanceTo(p Point) float64 {
	return DistanceMiles(Point{Lat: l.Latitude, Lon: l.Longitude}, p)
}

func haversineKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
