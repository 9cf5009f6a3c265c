package worldmatch

import (
	"context"
	"fmt"

	directoryuc "github.com/kailas-cloud/worldmatch/internal/usecase/directory"
)

// FindBuilder is a fluent builder for directory filters.
// Constraints combine with AND; repeated Language or Availability values combine with OR.
type FindBuilder struct {
	dir *directoryuc.Service
	q   directoryuc.Query
}

// Country keeps people from exactly this country. "All" or "" disables the constraint.
func (b *FindBuilder) Country(country string) *FindBuilder {
	b.q.Country = country
	return b
}

// Language keeps people speaking any of the given languages.
func (b *FindBuilder) Language(languages ...string) *FindBuilder {
	b.q.Languages = append(b.q.Languages, languages...)
	return b
}

// Interest keeps people whose interests contain substr, case-insensitively.
func (b *FindBuilder) Interest(substr string) *FindBuilder {
	b.q.Interest = substr
	return b
}

// Ages keeps people aged min..max inclusive.
func (b *FindBuilder) Ages(minAge, maxAge int) *FindBuilder {
	b.q.AgeMin = &minAge
	b.q.AgeMax = &maxAge
	return b
}

// Availability keeps people available in any of the given windows.
func (b *FindBuilder) Availability(values ...Availability) *FindBuilder {
	b.q.Availability = append(b.q.Availability, values...)
	return b
}

// Do runs the filter and returns matches in dataset order.
func (b *FindBuilder) Do(ctx context.Context) ([]Person, error) {
	res, err := b.dir.Search(ctx, b.q)
	if err != nil {
		return nil, fmt.Errorf("worldmatch: %w", err)
	}
	return fromInternalPeople(res.Matches), nil
}

// Map runs the filter and keeps only matches that can be placed on a map.
func (b *FindBuilder) Map(ctx context.Context) (MapResult, error) {
	res, err := b.dir.MapPoints(ctx, b.q)
	if err != nil {
		return MapResult{}, fmt.Errorf("worldmatch: %w", err)
	}
	return MapResult{
		People:   fromInternalPeople(res.Points),
		Matched:  res.Matched,
		Excluded: res.Excluded,
	}, nil
}
