package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/worldmatch/internal/domain/person"
)

// Row is the columnar export layout of one person.
type Row struct {
	Name         string   `parquet:"name"`
	Country      string   `parquet:"country"`
	Interests    string   `parquet:"interests"`
	Languages    string   `parquet:"languages"`
	Age          int32    `parquet:"age"`
	Availability string   `parquet:"availability"`
	Latitude     *float64 `parquet:"latitude,optional"`
	Longitude    *float64 `parquet:"longitude,optional"`
}

// RowOf converts a person to its export row.
func RowOf(p person.Person) Row {
	r := Row{
		Name:         p.Name(),
		Country:      p.Country(),
		Interests:    p.Interests(),
		Languages:    p.Languages(),
		Age:          int32(p.Age()), //nolint:gosec // age is bounded to [0, 120]
		Availability: p.Availability().String(),
	}
	if loc, ok := p.Location(); ok {
		lat, lon := loc.Lat, loc.Lon
		r.Latitude, r.Longitude = &lat, &lon
	}
	return r
}

// WriteParquet streams people to w as a single Parquet file, preserving order.
func WriteParquet(w io.Writer, people []person.Person) error {
	writer := parquet.NewWriter(w, parquet.SchemaOf(new(Row)))

	for _, p := range people {
		if err := writer.Write(RowOf(p)); err != nil {
			_ = writer.Close()
			return fmt.Errorf("write row %q: %w", p.Name(), err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
