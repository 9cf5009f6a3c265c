package filter

import (
	"strings"

	"github.com/kailas-cloud/worldmatch/internal/domain/person"
)

// Apply returns the people matching every active constraint of s.
// The result is a subsequence of people in the original order; people is not modified.
func Apply(people []person.Person, s Spec) []person.Person {
	out := make([]person.Person, 0, len(people))
	for _, p := range people {
		if s.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether a single person satisfies s.
func (s Spec) Matches(p person.Person) bool {
	return s.matchCountry(p) &&
		s.matchLanguages(p) &&
		s.matchInterest(p) &&
		s.ages.Contains(p.Age()) &&
		s.matchAvailability(p)
}

func (s Spec) matchCountry(p person.Person) bool {
	return s.country == AllCountries || p.Country() == s.country
}

// Exact-token membership: "English" does not match "Old English".
func (s Spec) matchLanguages(p person.Person) bool {
	if len(s.languages) == 0 {
		return true
	}
	set := p.LanguageSet()
	for _, l := range s.languages {
		if set.Contains(l) {
			return true
		}
	}
	return false
}

// Substring of the whole raw field, not tag-exact: "art" matches "Smart Goals".
func (s Spec) matchInterest(p person.Person) bool {
	if s.interest == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Interests()), s.interestFold)
}

func (s Spec) matchAvailability(p person.Person) bool {
	if len(s.availability) == 0 {
		return true
	}
	for _, a := range s.availability {
		if p.Availability() == a {
			return true
		}
	}
	return false
}
