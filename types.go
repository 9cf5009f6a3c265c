package worldmatch

import (
	"github.com/kailas-cloud/worldmatch/internal/domain/filter"
	"github.com/kailas-cloud/worldmatch/internal/domain/geo"
	"github.com/kailas-cloud/worldmatch/internal/domain/person"
)

// Availability is a person's preferred contact window.
type Availability = person.Availability

// Availability values.
const (
	Mornings = person.Mornings
	Evenings = person.Evenings
	Weekends = person.Weekends
	Weekdays = person.Weekdays
	Flexible = person.Flexible
)

// Point is a latitude/longitude pair.
type Point = geo.Point

// Person is one directory entry.
type Person struct {
	Name         string
	Country      string
	Interests    string
	Languages    []string
	Age          int
	Availability Availability
	Location     *Point // nil when the country has no coordinates
}

// NewPerson is the payload for Client.Add. Languages and interests are
// comma-separated ("English, French"). Age is required; nil means absent
// and is rejected, while Age(0) is a valid age.
type NewPerson struct {
	Name         string
	Country      string
	Interests    string
	Languages    string
	Age          *int
	Availability Availability
}

// Age returns a pointer for NewPerson.Age.
func Age(years int) *int { return &years }

// Facets lists the values present in the loaded dataset.
type Facets struct {
	Total        int
	Countries    []string
	Languages    []string
	Availability []Availability
	MinAge       int
	MaxAge       int
}

// MapResult holds the located matches of a query.
type MapResult struct {
	People   []Person
	Matched  int
	Excluded int
}

func fromInternalPerson(p person.Person) Person {
	out := Person{
		Name:         p.Name(),
		Country:      p.Country(),
		Interests:    p.Interests(),
		Languages:    append([]string(nil), p.LanguageSet()...),
		Age:          p.Age(),
		Availability: p.Availability(),
	}
	if loc, ok := p.Location(); ok {
		out.Location = &loc
	}
	return out
}

func fromInternalPeople(people []person.Person) []Person {
	out := make([]Person, len(people))
	for i, p := range people {
		out[i] = fromInternalPerson(p)
	}
	return out
}

func fromInternalFacts(f filter.Facts) Facets {
	return Facets{
		Total:        f.Total(),
		Countries:    f.Countries(),
		Languages:    f.Languages(),
		Availability: f.Availability(),
		MinAge:       f.Ages().Min,
		MaxAge:       f.Ages().Max,
	}
}

func (n NewPerson) toInput() person.Input {
	return person.Input{
		Name:         n.Name,
		Country:      n.Country,
		Interests:    n.Interests,
		Languages:    n.Languages,
		Age:          n.Age,
		Availability: string(n.Availability),
	}
}
