// Package coordinates loads the static country -> coordinate reference table.
package coordinates

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kailas-cloud/worldmatch/internal/domain"
	"github.com/kailas-cloud/worldmatch/internal/domain/geo"
	"github.com/kailas-cloud/worldmatch/internal/repository/blob"
)

// Column names of the coordinate reference file.
const (
	ColCountry   = "Country"
	ColLatitude  = "Latitude"
	ColLongitude = "Longitude"
)

// Repo reads the coordinate table. It never writes.
type Repo struct {
	src blob.Reader
}

// New creates a coordinate repository.
func New(src blob.Reader) *Repo {
	return &Repo{src: src}
}

// Load reads and validates the table. Returns domain.ErrNotFound if the source is absent.
func (r *Repo) Load(ctx context.Context) (geo.Table, error) {
	data, err := r.src.Read(ctx)
	if err != nil {
		return geo.Table{}, fmt.Errorf("load coordinates: %w", err)
	}
	table, err := Decode(data)
	if err != nil {
		return geo.Table{}, fmt.Errorf("decode coordinates: %w", err)
	}
	return table, nil
}

// Decode parses Country,Latitude,Longitude rows. A duplicate country keeps the last row.
func Decode(data []byte) (geo.Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))

	head, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return geo.NewTable(nil), nil
		}
		return geo.Table{}, &domain.RecordError{Line: 1, Err: err}
	}
	idx := make(map[string]int, len(head))
	for i, h := range head {
		idx[strings.TrimSpace(h)] = i
	}
	for _, c := range []string{ColCountry, ColLatitude, ColLongitude} {
		if _, ok := idx[c]; !ok {
			return geo.Table{}, &domain.RecordError{Line: 1, Err: fmt.Errorf("missing column %q", c)}
		}
	}

	points := make(map[string]geo.Point)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return geo.Table{}, &domain.RecordError{Line: line, Err: err}
		}
		line, _ := r.FieldPos(0)

		country := strings.TrimSpace(row[idx[ColCountry]])
		if country == "" {
			return geo.Table{}, &domain.RecordError{Line: line, Err: errors.New("country is empty")}
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(row[idx[ColLatitude]]), 64)
		if err != nil {
			return geo.Table{}, &domain.RecordError{Line: line, Err: fmt.Errorf("latitude: %w", err)}
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(row[idx[ColLongitude]]), 64)
		if err != nil {
			return geo.Table{}, &domain.RecordError{Line: line, Err: fmt.Errorf("longitude: %w", err)}
		}
		p, err := geo.NewPoint(lat, lon)
		if err != nil {
			return geo.Table{}, &domain.RecordError{Line: line, Err: err}
		}
		points[country] = p
	}
	return geo.NewTable(points), nil
}
