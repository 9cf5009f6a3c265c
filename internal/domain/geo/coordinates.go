// Package geo holds coordinate reference data used to place people on the map.
package geo

import "fmt"

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// NewPoint validates and creates a Point.
func NewPoint(lat, lon float64) (Point, error) {
	if !ValidateCoordinates(lat, lon) {
		return Point{}, fmt.Errorf("coordinates out of range: lat=%v lon=%v", lat, lon)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Table maps a country name to its reference coordinates.
// It is static reference data and never mutated after construction.
type Table struct {
	points map[string]Point
}

// NewTable creates a Table from a country -> point mapping. The map is copied.
func NewTable(points map[string]Point) Table {
	m := make(map[string]Point, len(points))
	for k, v := range points {
		m[k] = v
	}
	return Table{points: m}
}

// Lookup returns the point for a country. Matching is exact.
func (t Table) Lookup(country string) (Point, bool) {
	p, ok := t.points[country]
	return p, ok
}

// Len returns the number of countries in the table.
func (t Table) Len() int { return len(t.points) }
