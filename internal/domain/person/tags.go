package person

import "strings"

// TagSeparator joins multi-valued fields in the persisted representation.
const TagSeparator = ", "

// Tags is a parsed multi-valued field (interests, languages).
type Tags []string

// ParseTags splits a stored field on TagSeparator and trims every token.
// Empty tokens are dropped.
func ParseTags(raw string) Tags {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, TagSeparator)
	out := make(Tags, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Contains reports whether tag is an exact element of the set.
func (t Tags) Contains(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}
