package person

import (
	"strings"

	"github.com/kailas-cloud/worldmatch/internal/domain"
	"github.com/kailas-cloud/worldmatch/internal/domain/geo"
)

// Age bounds accepted by the data-entry form.
const (
	MinAge = 0
	MaxAge = 120
)

// Field names used in validation errors.
const (
	FieldName         = "name"
	FieldCountry      = "country"
	FieldInterests    = "interests"
	FieldLanguages    = "languages"
	FieldAge          = "age"
	FieldAvailability = "availability"
)

// Input is a new-record payload collected by the data-entry form.
type Input struct {
	Name         string
	Country      string
	Interests    string
	Languages    string
	Age          *int
	Availability string
}

// Person is one directory entry (immutable value object).
type Person struct {
	name         string
	country      string
	interests    string
	languages    string
	languageSet  Tags
	age          int
	availability Availability
	location     *geo.Point
}

// New validates a form payload and creates a Person.
// Name, country, interests, languages and age are required; age must be in [MinAge, MaxAge].
func New(in Input) (Person, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Person{}, domain.NewValidationError(FieldName, "is required")
	}
	country := strings.TrimSpace(in.Country)
	if country == "" {
		return Person{}, domain.NewValidationError(FieldCountry, "is required")
	}
	interests := strings.TrimSpace(in.Interests)
	if interests == "" {
		return Person{}, domain.NewValidationError(FieldInterests, "is required")
	}
	languages := strings.TrimSpace(in.Languages)
	if languages == "" {
		return Person{}, domain.NewValidationError(FieldLanguages, "is required")
	}
	// Absence is nil, not zero: 0 is a valid age in [MinAge, MaxAge].
	if in.Age == nil {
		return Person{}, domain.NewValidationError(FieldAge, "is required")
	}
	if *in.Age < MinAge || *in.Age > MaxAge {
		return Person{}, domain.NewValidationError(FieldAge, "must be between 0 and 120")
	}
	availability, err := ParseAvailability(strings.TrimSpace(in.Availability))
	if err != nil {
		return Person{}, domain.NewValidationError(FieldAvailability, err.Error())
	}

	return Reconstruct(name, country, interests, languages, *in.Age, availability), nil
}

// Reconstruct creates a Person without form validation (storage hydration).
// Multi-valued fields are parsed here so the filter never splits strings itself.
func Reconstruct(name, country, interests, languages string, age int, availability Availability) Person {
	return Person{
		name:         name,
		country:      country,
		interests:    interests,
		languages:    languages,
		languageSet:  ParseTags(languages),
		age:          age,
		availability: availability,
	}
}

// Name returns the display name.
func (p Person) Name() string { return p.name }

// Country returns the country name as entered.
func (p Person) Country() string { return p.country }

// Interests returns the raw comma-delimited interests field.
func (p Person) Interests() string { return p.interests }

// Languages returns the raw comma-delimited languages field.
func (p Person) Languages() string { return p.languages }

// LanguageSet returns the parsed spoken languages.
func (p Person) LanguageSet() Tags { return p.languageSet }

// Age returns the age in years.
func (p Person) Age() int { return p.age }

// Availability returns the availability window.
func (p Person) Availability() Availability { return p.availability }

// Location returns the joined coordinates, if the country was known to the table.
func (p Person) Location() (geo.Point, bool) {
	if p.location == nil {
		return geo.Point{}, false
	}
	return *p.location, true
}

// WithLocation returns a copy of p placed at point.
func (p Person) WithLocation(point geo.Point) Person {
	p.location = &point
	return p
}

// WithoutLocation returns a copy of p with coordinates cleared.
func (p Person) WithoutLocation() Person {
	p.location = nil
	return p
}

// JoinCoordinates annotates people with coordinates from the table by exact country match.
// People whose country is absent from the table get no coordinates but are kept.
func JoinCoordinates(people []Person, table geo.Table) []Person {
	out := make([]Person, len(people))
	for i, p := range people {
		if point, ok := table.Lookup(p.country); ok {
			out[i] = p.WithLocation(point)
		} else {
			out[i] = p.WithoutLocation()
		}
	}
	return out
}

// Located splits out people that can be placed on a map, preserving order.
func Located(people []Person) (located []Person, excluded int) {
	located = make([]Person, 0, len(people))
	for _, p := range people {
		if p.location == nil {
			excluded++
			continue
		}
		located = append(located, p)
	}
	return located, excluded
}
