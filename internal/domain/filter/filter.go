// Package filter implements the directory's record matching engine.
//
// A Spec is a snapshot of user-selected criteria. Constraints compose by AND;
// inside a multi-value constraint (languages, availability) membership is OR.
package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/worldmatch/internal/domain/person"
)

// AllCountries is the country choice that disables the country constraint.
const AllCountries = "All"

// AgeRange is an inclusive [Min, Max] bound.
type AgeRange struct {
	Min int
	Max int
}

// NewAgeRange validates and creates an AgeRange.
func NewAgeRange(lo, hi int) (AgeRange, error) {
	if lo > hi {
		return AgeRange{}, fmt.Errorf("age range min %d is greater than max %d", lo, hi)
	}
	return AgeRange{Min: lo, Max: hi}, nil
}

// Contains reports whether age lies inside the range, inclusive on both ends.
func (r AgeRange) Contains(age int) bool {
	return r.Min <= age && age <= r.Max
}

// Spec describes one filter selection. The zero value of every optional
// constraint means "no constraint"; the age range is always applied.
type Spec struct {
	country      string
	languages    []string
	interest     string
	interestFold string
	ages         AgeRange
	availability []person.Availability
}

// Default returns a Spec with no optional constraints over the given age range.
func Default(ages AgeRange) Spec {
	return Spec{country: AllCountries, ages: ages}
}

// WithCountry returns a copy constrained to an exact country. "" and AllCountries clear it.
func (s Spec) WithCountry(country string) Spec {
	if country == "" {
		country = AllCountries
	}
	s.country = country
	return s
}

// WithLanguages returns a copy requiring any of the given languages.
// Values are trimmed; blanks are dropped.
func (s Spec) WithLanguages(languages ...string) Spec {
	out := make([]string, 0, len(languages))
	for _, l := range languages {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	s.languages = out
	return s
}

// WithInterest returns a copy requiring a case-insensitive substring of the interests field.
func (s Spec) WithInterest(substr string) Spec {
	s.interest = substr
	s.interestFold = strings.ToLower(substr)
	return s
}

// WithAgeRange returns a copy with a different age bound.
func (s Spec) WithAgeRange(r AgeRange) Spec {
	s.ages = r
	return s
}

// WithAvailability returns a copy accepting any of the given availability values.
func (s Spec) WithAvailability(values ...person.Availability) Spec {
	out := make([]person.Availability, len(values))
	copy(out, values)
	s.availability = out
	return s
}

// Country returns the country constraint (AllCountries when unset).
func (s Spec) Country() string { return s.country }

// Languages returns the required languages.
func (s Spec) Languages() []string { return s.languages }

// Interest returns the interest substring.
func (s Spec) Interest() string { return s.interest }

// AgeRange returns the age bound.
func (s Spec) AgeRange() AgeRange { return s.ages }

// Availability returns the accepted availability values.
func (s Spec) Availability() []person.Availability { return s.availability }

// IsUnconstrained reports whether no optional constraint is set.
func (s Spec) IsUnconstrained() bool {
	return s.country == AllCountries && len(s.languages) == 0 &&
		s.interest == "" && len(s.availability) == 0
}
