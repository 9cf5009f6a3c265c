package filter

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/worldmatch/internal/domain/person"
)

func fixture() []person.Person {
	return []person.Person{
		person.Reconstruct("Alex", "USA", "Technology, Sports", "English", 28, person.Evenings),
		person.Reconstruct("Maria", "Spain", "Music, Art", "Spanish", 34, person.Weekends),
		person.Reconstruct("Li Wei", "China", "Cooking, Movies", "Mandarin", 25, person.Mornings),
		person.Reconstruct("Amina", "Kenya", "Travel, Books", "Swahili, English", 30, person.Flexible),
		person.Reconstruct("John", "Canada", "Gaming, Fitness, Smart Goals", "English, French", 22, person.Weekdays),
		person.Reconstruct("Edith", "UK", "History", "Old English", 60, person.Mornings),
	}
}

func names(people []person.Person) string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.Name()
	}
	return strings.Join(out, ",")
}

func isSubsequence(sub, all []person.Person) bool {
	j := 0
	for i := 0; i < len(all) && j < len(sub); i++ {
		if all[i].Name() == sub[j].Name() {
			j++
		}
	}
	return j == len(sub)
}

// --- AgeRange ---

func TestNewAgeRange(t *testing.T) {
	if _, err := NewAgeRange(30, 20); err == nil {
		t.Fatal("expected error when min > max")
	}
	r, err := NewAgeRange(20, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Contains(20) || r.Contains(19) || r.Contains(21) {
		t.Errorf("Contains mismatch for %+v", r)
	}
}

func TestAgeRange_Inclusive(t *testing.T) {
	p := []person.Person{person.Reconstruct("A", "USA", "Music", "English", 25, person.Flexible)}
	for _, r := range []AgeRange{{25, 30}, {20, 25}} {
		got := Apply(p, Default(r))
		if len(got) != 1 {
			t.Errorf("age 25 must match %+v", r)
		}
	}
}

// --- Spec ---

func TestDefault_IsUnconstrained(t *testing.T) {
	s := Default(AgeRange{0, 120})
	if !s.IsUnconstrained() {
		t.Error("default spec must be unconstrained")
	}
	if s.Country() != AllCountries {
		t.Errorf("Country() = %q", s.Country())
	}
	if s.WithCountry("Spain").IsUnconstrained() {
		t.Error("country constraint not reported")
	}
	if !s.WithCountry("").IsUnconstrained() {
		t.Error("empty country must mean All")
	}
}

func TestWithLanguages_TrimsAndDropsBlank(t *testing.T) {
	s := Default(AgeRange{}).WithLanguages(" French ", "", "  ")
	if len(s.Languages()) != 1 || s.Languages()[0] != "French" {
		t.Errorf("Languages() = %q", s.Languages())
	}
}

func TestWithAvailability_CopiesInput(t *testing.T) {
	in := []person.Availability{person.Weekends}
	s := Default(AgeRange{}).WithAvailability(in...)
	in[0] = person.Mornings
	if s.Availability()[0] != person.Weekends {
		t.Error("spec must not alias caller slice")
	}
}

// --- Apply ---

func TestApply(t *testing.T) {
	people := fixture()
	facts := ComputeFacts(people)

	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{"default returns all", facts.DefaultSpec(), "Alex,Maria,Li Wei,Amina,John,Edith"},
		{"country exact", facts.DefaultSpec().WithCountry("Spain"), "Maria"},
		{"country unknown", facts.DefaultSpec().WithCountry("spain"), ""},
		{"language any-of", facts.DefaultSpec().WithLanguages("French", "Mandarin"), "Li Wei,John"},
		{"language exact token", facts.DefaultSpec().WithLanguages("English"), "Alex,Amina,John"},
		{"language verbatim multiword", facts.DefaultSpec().WithLanguages("Old English"), "Edith"},
		{"language prefix rejected", facts.DefaultSpec().WithLanguages("Franc"), ""},
		{"interest case-insensitive", facts.DefaultSpec().WithInterest("MUSIC"), "Maria"},
		{"interest raw substring", facts.DefaultSpec().WithInterest("art"), "Maria,John"},
		{"interest spans separator", facts.DefaultSpec().WithInterest("s, s"), "John"},
		{"age range", facts.DefaultSpec().WithAgeRange(AgeRange{25, 30}), "Alex,Li Wei,Amina"},
		{"availability any-of", facts.DefaultSpec().WithAvailability(person.Mornings, person.Weekends), "Maria,Li Wei,Edith"},
		{
			"conjunction",
			facts.DefaultSpec().WithLanguages("English").WithAgeRange(AgeRange{20, 29}).WithAvailability(person.Weekdays),
			"John",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(people, tt.spec)
			if names(got) != tt.want {
				t.Errorf("got %q, want %q", names(got), tt.want)
			}
		})
	}
}

func TestApply_EndToEnd(t *testing.T) {
	people := []person.Person{
		person.Reconstruct("A", "USA", "Music", "English", 20, person.Flexible),
		person.Reconstruct("B", "Spain", "Art", "Spanish", 40, person.Weekends),
	}
	got := Apply(people, Default(AgeRange{18, 25}).WithCountry(AllCountries))
	if names(got) != "A" {
		t.Errorf("got %q, want A", names(got))
	}
}

func TestApply_Properties(t *testing.T) {
	people := fixture()
	facts := ComputeFacts(people)

	specs := []Spec{
		facts.DefaultSpec(),
		facts.DefaultSpec().WithCountry("Kenya"),
		facts.DefaultSpec().WithLanguages("English"),
		facts.DefaultSpec().WithInterest("o"),
		facts.DefaultSpec().WithInterest("o").WithAvailability(person.Mornings, person.Flexible),
		facts.DefaultSpec().WithAgeRange(AgeRange{26, 40}).WithLanguages("English", "Spanish"),
	}

	for i, s := range specs {
		got := Apply(people, s)

		if !isSubsequence(got, people) {
			t.Errorf("spec %d: result is not an ordered subsequence", i)
		}

		again := Apply(got, s)
		if names(again) != names(got) {
			t.Errorf("spec %d: not idempotent: %q vs %q", i, names(again), names(got))
		}

		relaxed := Apply(people, s.WithInterest(""))
		if len(relaxed) < len(got) {
			t.Errorf("spec %d: clearing interest shrank result %d -> %d", i, len(got), len(relaxed))
		}
		relaxed = Apply(people, s.WithCountry(AllCountries))
		if len(relaxed) < len(got) {
			t.Errorf("spec %d: clearing country shrank result %d -> %d", i, len(got), len(relaxed))
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	people := fixture()
	before := names(people)
	_ = Apply(people, Default(AgeRange{0, 0}))
	if names(people) != before {
		t.Error("input reordered or mutated")
	}
}

func TestApply_EmptyResultIsNonNil(t *testing.T) {
	got := Apply(fixture(), Default(AgeRange{200, 300}))
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

// --- Facts ---

func TestComputeFacts(t *testing.T) {
	f := ComputeFacts(fixture())

	if f.Total() != 6 {
		t.Errorf("Total() = %d", f.Total())
	}
	if f.Ages() != (AgeRange{22, 60}) {
		t.Errorf("Ages() = %+v", f.Ages())
	}
	if got := strings.Join(f.Countries(), ","); got != "USA,Spain,China,Kenya,Canada,UK" {
		t.Errorf("Countries() = %q", got)
	}
	if got := strings.Join(f.CountryChoices(""), ","); !strings.HasPrefix(got, "All,USA") {
		t.Errorf("CountryChoices() = %q", got)
	}
	if got := strings.Join(f.Languages(), ","); got != "English,Spanish,Mandarin,Swahili,French,Old English" {
		t.Errorf("Languages() = %q", got)
	}
	if len(f.Availability()) != 5 {
		t.Errorf("Availability() = %v", f.Availability())
	}
}

func TestComputeFacts_Empty(t *testing.T) {
	f := ComputeFacts(nil)
	if f.Total() != 0 || f.Ages() != (AgeRange{}) || len(f.Countries()) != 0 {
		t.Errorf("unexpected facts for empty set: %+v", f)
	}
	if got := f.CountryChoices(""); len(got) != 1 || got[0] != AllCountries {
		t.Errorf("CountryChoices() = %v", got)
	}
}

func TestComputeFacts_GettersReturnCopies(t *testing.T) {
	f := ComputeFacts(fixture())

	f.Countries()[0] = "Atlantis"
	f.Languages()[0] = "Klingon"
	f.Availability()[0] = person.Availability("Never")
	choices := f.CountryChoices("Everyone")
	choices[1] = "Atlantis"

	if got := f.Countries()[0]; got != "USA" {
		t.Errorf("Countries()[0] = %q after caller edit", got)
	}
	if got := f.Languages()[0]; got != "English" {
		t.Errorf("Languages()[0] = %q after caller edit", got)
	}
	if got := f.Availability()[0]; got != person.Evenings {
		t.Errorf("Availability()[0] = %q after caller edit", got)
	}
	if got := strings.Join(f.CountryChoices("Everyone"), ","); !strings.HasPrefix(got, "Everyone,USA,Spain") {
		t.Errorf("CountryChoices(Everyone) = %q", got)
	}
}
