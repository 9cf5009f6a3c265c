package directory

import (
	"github.com/kailas-cloud/worldmatch/internal/domain"
	"github.com/kailas-cloud/worldmatch/internal/domain/filter"
	"github.com/kailas-cloud/worldmatch/internal/domain/person"
)

// Query is the raw filter input collected by the presentation layer.
// Nil age bounds default to the observed span of the loaded dataset.
type Query struct {
	Country      string
	Languages    []string
	Interest     string
	AgeMin       *int
	AgeMax       *int
	Availability []person.Availability
}

// spec resolves the query against the dataset's derived facts.
func (q Query) spec(facts filter.Facts) (filter.Spec, error) {
	ages := facts.Ages()
	if q.AgeMin != nil {
		ages.Min = *q.AgeMin
	}
	if q.AgeMax != nil {
		ages.Max = *q.AgeMax
	}
	ages, err := filter.NewAgeRange(ages.Min, ages.Max)
	if err != nil {
		return filter.Spec{}, domain.NewValidationError("age_range", err.Error())
	}

	return filter.Default(ages).
		WithCountry(q.Country).
		WithLanguages(q.Languages...).
		WithInterest(q.Interest).
		WithAvailability(q.Availability...), nil
}
