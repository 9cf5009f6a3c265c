package person

import "fmt"

// Availability is the time window a person can usually meet in.
type Availability string

// Availability values accepted by the directory.
const (
	Mornings Availability = "Mornings"
	Evenings Availability = "Evenings"
	Weekends Availability = "Weekends"
	Weekdays Availability = "Weekdays"
	Flexible Availability = "Flexible"
)

var availabilities = []Availability{Mornings, Evenings, Weekends, Weekdays, Flexible}

// Availabilities returns all valid values in form order.
func Availabilities() []Availability {
	out := make([]Availability, len(availabilities))
	copy(out, availabilities)
	return out
}

// ParseAvailability validates an availability value. Matching is exact.
func ParseAvailability(s string) (Availability, error) {
	for _, a := range availabilities {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("availability must be one of %v, got %q", availabilities, s)
}

// String implements fmt.Stringer.
func (a Availability) String() string { return string(a) }
