// Package export renders filtered people for the map view and for bulk download.
package export

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/kailas-cloud/worldmatch/internal/domain/person"
)

// Feature property keys.
const (
	PropName         = "name"
	PropCountry      = "country"
	PropInterests    = "interests"
	PropLanguages    = "languages"
	PropAge          = "age"
	PropAvailability = "availability"
)

// FeatureCollection builds a GeoJSON collection of point features, one per
// located person, in input order. People without coordinates are skipped.
// Coordinates are written [lon, lat].
func FeatureCollection(people []person.Person) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(people))}

	var bounds *geom.Bounds
	for _, p := range people {
		loc, ok := p.Location()
		if !ok {
			continue
		}
		pt := geom.NewPointFlat(geom.XY, []float64{loc.Lon, loc.Lat})
		if bounds == nil {
			bounds = geom.NewBounds(geom.XY)
		}
		bounds.Extend(pt)

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: pt,
			Properties: map[string]interface{}{
				PropName:         p.Name(),
				PropCountry:      p.Country(),
				PropInterests:    p.Interests(),
				PropLanguages:    p.Languages(),
				PropAge:          p.Age(),
				PropAvailability: p.Availability().String(),
			},
		})
	}
	fc.BBox = bounds
	return fc
}
