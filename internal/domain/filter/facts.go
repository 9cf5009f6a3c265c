package filter

import (
	"slices"

	"github.com/kailas-cloud/worldmatch/internal/domain/person"
)

// Facts are derived from the full record set to populate filter controls.
// They are computed once per load, never per filter application.
type Facts struct {
	total        int
	countries    []string
	languages    []string
	availability []person.Availability
	ages         AgeRange
}

// ComputeFacts derives unique values (first-seen order) and the observed age span.
func ComputeFacts(people []person.Person) Facts {
	f := Facts{total: len(people)}
	seenCountry := make(map[string]struct{})
	seenLang := make(map[string]struct{})
	seenAvail := make(map[person.Availability]struct{})

	for i, p := range people {
		if i == 0 {
			f.ages = AgeRange{Min: p.Age(), Max: p.Age()}
		}
		f.ages.Min = min(f.ages.Min, p.Age())
		f.ages.Max = max(f.ages.Max, p.Age())

		if _, ok := seenCountry[p.Country()]; !ok {
			seenCountry[p.Country()] = struct{}{}
			f.countries = append(f.countries, p.Country())
		}
		for _, l := range p.LanguageSet() {
			if _, ok := seenLang[l]; !ok {
				seenLang[l] = struct{}{}
				f.languages = append(f.languages, l)
			}
		}
		if _, ok := seenAvail[p.Availability()]; !ok {
			seenAvail[p.Availability()] = struct{}{}
			f.availability = append(f.availability, p.Availability())
		}
	}
	return f
}

// Total returns the number of loaded records.
func (f Facts) Total() int { return f.total }

// Facts are shared by every reader of a snapshot, so slice getters return copies.

// Countries returns unique countries.
func (f Facts) Countries() []string { return slices.Clone(f.countries) }

// CountryChoices returns the country selector options with the "all" choice
// first. An empty label means AllCountries.
func (f Facts) CountryChoices(allLabel string) []string {
	if allLabel == "" {
		allLabel = AllCountries
	}
	out := make([]string, 0, len(f.countries)+1)
	out = append(out, allLabel)
	return append(out, f.countries...)
}

// Languages returns unique spoken languages.
func (f Facts) Languages() []string { return slices.Clone(f.languages) }

// Availability returns unique availability values present in the data.
func (f Facts) Availability() []person.Availability { return slices.Clone(f.availability) }

// Ages returns the observed age span. Zero when there is no data.
func (f Facts) Ages() AgeRange { return f.ages }

// DefaultSpec returns the unconstrained spec spanning all observed ages.
func (f Facts) DefaultSpec() Spec { return Default(f.ages) }
