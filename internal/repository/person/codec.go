package person

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/worldmatch/internal/domain"
	domperson "github.com/kailas-cloud/worldmatch/internal/domain/person"
)

// Column names of the persisted record file.
const (
	ColName         = "Name"
	ColCountry      = "Country"
	ColInterests    = "Interests"
	ColLanguages    = "Languages Spoken"
	ColAge          = "Age"
	ColAvailability = "Availability"
)

// Header is written on every save. Pre-joined Latitude/Longitude columns are
// tolerated on read but never written: the coordinate table is authoritative.
var Header = []string{ColName, ColCountry, ColInterests, ColLanguages, ColAge, ColAvailability}

// Decode parses the record file. An empty input yields no records.
func Decode(data []byte) ([]domperson.Person, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	head, err := r.Read()
	if err != nil {
		return nil, recordErr(1, err)
	}
	cols, err := columnIndex(head)
	if err != nil {
		return nil, &domain.RecordError{Line: 1, Err: err}
	}

	var people []domperson.Person
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, recordErr(0, err)
		}
		line, _ := r.FieldPos(0)

		p, err := decodeRow(row, cols)
		if err != nil {
			return nil, &domain.RecordError{Line: line, Err: err}
		}
		people = append(people, p)
	}
	return people, nil
}

// Encode writes the header and every record.
func Encode(people []domperson.Person) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, p := range people {
		row := []string{
			p.Name(),
			p.Country(),
			p.Interests(),
			p.Languages(),
			strconv.Itoa(p.Age()),
			p.Availability().String(),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write record %q: %w", p.Name(), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return buf.Bytes(), nil
}

type columns map[string]int

func columnIndex(head []string) (columns, error) {
	cols := make(columns, len(head))
	for i, h := range head {
		cols[strings.TrimSpace(h)] = i
	}
	for _, name := range Header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

func decodeRow(row []string, cols columns) (domperson.Person, error) {
	get := func(name string) string { return strings.TrimSpace(row[cols[name]]) }

	name := get(ColName)
	if name == "" {
		return domperson.Person{}, errors.New("name is empty")
	}
	age, err := parseAge(get(ColAge))
	if err != nil {
		return domperson.Person{}, err
	}
	availability, err := domperson.ParseAvailability(get(ColAvailability))
	if err != nil {
		return domperson.Person{}, err
	}

	return domperson.Reconstruct(
		name, get(ColCountry), get(ColInterests), get(ColLanguages), age, availability,
	), nil
}

// parseAge accepts integers and integral floats ("25.0"), as written by
// spreadsheet tools for numeric columns.
func parseAge(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("age %q is not an integer", s)
	}
	if math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("age %q is out of range", s)
	}
	return int(f), nil
}

func recordErr(line int, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		line = pe.Line
	}
	return &domain.RecordError{Line: line, Err: err}
}
