package worldmatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const seedCSV = `Name,Country,Interests,Languages Spoken,Age,Availability
Alex,USA,"Technology, Sports",English,28,Evenings
Maria,Spain,"Music, Art",Spanish,34,Weekends
Li Wei,China,"Cooking, Movies",Mandarin,25,Mornings
Amina,Kenya,"Travel, Books","Swahili, English",30,Flexible
John,Canada,"Gaming, Fitness","English, French",22,Weekdays
`

const coordsCSV = `Country,Latitude,Longitude
USA,37.0902,-95.7129
Kenya,-0.0236,37.9062
Spain,40.4637,-3.7492
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func openSeeded(t *testing.T) (*Client, string) {
	t.Helper()
	dir := t.TempDir()
	records := writeFile(t, dir, "people.csv", seedCSV)
	coords := writeFile(t, dir, "countries.csv", coordsCSV)

	c, err := Open(context.Background(), WithRecordsFile(records), WithCoordinatesFile(coords))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(c.Close)
	return c, records
}

func personNames(people []Person) string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.Name
	}
	return strings.Join(out, ",")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), optionFunc(func(c *clientConfig) { c.driver = "s3" }))
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpen_KVWithoutAddress(t *testing.T) {
	cfg := &clientConfig{driver: driverValkey}
	if _, err := createStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestOpen_MissingCoordinates(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(context.Background(),
		WithRecordsFile(filepath.Join(dir, "people.csv")),
		WithCoordinatesFile(filepath.Join(dir, "missing.csv")),
	)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpen_CorruptRecords(t *testing.T) {
	dir := t.TempDir()
	records := writeFile(t, dir, "people.csv", "Name,Country,Interests,Languages Spoken,Age,Availability\nA,B,C,D,old,Mornings\n")

	_, err := Open(context.Background(), WithRecordsFile(records))
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestFind(t *testing.T) {
	c, _ := openSeeded(t)
	ctx := context.Background()

	tests := []struct {
		name string
		b    *FindBuilder
		want string
	}{
		{"everyone", c.Find(), "Alex,Maria,Li Wei,Amina,John"},
		{"all label", c.Find().Country("All"), "Alex,Maria,Li Wei,Amina,John"},
		{"country", c.Find().Country("Canada"), "John"},
		{"languages", c.Find().Language("Spanish", "Swahili"), "Maria,Amina"},
		{"interest", c.Find().Interest("MOV"), "Li Wei"},
		{"ages", c.Find().Language("English").Ages(20, 29), "Alex,John"},
		{"availability", c.Find().Availability(Weekends, Flexible), "Maria,Amina"},
		{"nobody", c.Find().Country("USA").Language("French"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.b.Do(ctx)
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			if personNames(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, personNames(got))
			}
		})
	}
}

func TestFind_Map(t *testing.T) {
	c, _ := openSeeded(t)

	res, err := c.Find().Language("English").Map(context.Background())
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if personNames(res.People) != "Alex,Amina" {
		t.Errorf("expected Alex,Amina, got %s", personNames(res.People))
	}
	if res.Matched != 3 || res.Excluded != 1 {
		t.Errorf("expected matched=3 excluded=1, got %d/%d", res.Matched, res.Excluded)
	}
	if res.People[0].Location == nil || res.People[0].Location.Lat != 37.0902 {
		t.Errorf("unexpected location %+v", res.People[0].Location)
	}
}

func TestFacets(t *testing.T) {
	c, _ := openSeeded(t)

	f, err := c.Facets(context.Background())
	if err != nil {
		t.Fatalf("Facets: %v", err)
	}
	if f.Total != 5 || f.MinAge != 22 || f.MaxAge != 34 {
		t.Errorf("unexpected facets %+v", f)
	}
	if strings.Join(f.Countries, ",") != "USA,Spain,China,Kenya,Canada" {
		t.Errorf("unexpected countries %v", f.Countries)
	}
}

func TestFacets_CallerEditsDoNotLeak(t *testing.T) {
	c, _ := openSeeded(t)
	ctx := context.Background()

	first, err := c.Facets(ctx)
	if err != nil {
		t.Fatalf("Facets: %v", err)
	}
	first.Countries[0] = "Atlantis"
	first.Languages[0] = "Klingon"
	first.Availability[0] = Availability("Never")

	second, err := c.Facets(ctx)
	if err != nil {
		t.Fatalf("Facets: %v", err)
	}
	if second.Countries[0] != "USA" || second.Languages[0] != "English" || second.Availability[0] != Evenings {
		t.Errorf("caller edit leaked into dataset facets: %+v", second)
	}
}

func TestAdd_PersistsAndRefreshes(t *testing.T) {
	c, path := openSeeded(t)
	ctx := context.Background()

	p, total, err := c.Add(ctx, NewPerson{
		Name:         "Sam",
		Country:      "Spain",
		Interests:    "Hiking, Chess",
		Languages:    "Spanish, English",
		Age:          Age(41),
		Availability: Weekends,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if total != 6 || p.Location == nil {
		t.Errorf("unexpected result total=%d person=%+v", total, p)
	}
	if strings.Join(p.Languages, "|") != "Spanish|English" {
		t.Errorf("unexpected languages %v", p.Languages)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := seedCSV + "Sam,Spain,\"Hiking, Chess\",\"Spanish, English\",41,Weekends\n"
	if string(data) != want {
		t.Errorf("unexpected file content:\n%s", data)
	}

	got, _ := c.Find().Language("English").Ages(40, 50).Do(ctx)
	if personNames(got) != "Sam" {
		t.Errorf("expected Sam, got %s", personNames(got))
	}
}

func TestAdd_RejectedLeavesFileUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		p     NewPerson
		field string
	}{
		{
			name:  "missing country",
			p:     NewPerson{Name: "Sam", Age: Age(30), Availability: Mornings},
			field: "country",
		},
		{
			name: "missing age",
			p: NewPerson{
				Name: "Sam", Country: "USA", Interests: "Chess", Languages: "English", Availability: Mornings,
			},
			field: "age",
		},
		{
			name: "age out of range",
			p: NewPerson{
				Name: "Sam", Country: "USA", Interests: "Chess", Languages: "English", Age: Age(121), Availability: Mornings,
			},
			field: "age",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, path := openSeeded(t)

			_, _, err := c.Add(context.Background(), tt.p)
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("expected %s validation error, got %v", tt.field, err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(data) != seedCSV {
				t.Errorf("file changed after rejected append:\n%s", data)
			}

			f, _ := c.Facets(context.Background())
			if f.Total != 5 {
				t.Errorf("expected 5 records after rejected append, got %d", f.Total)
			}
		})
	}
}

func TestAdd_AgeZeroAccepted(t *testing.T) {
	c, _ := openSeeded(t)

	p, _, err := c.Add(context.Background(), NewPerson{
		Name: "Baby", Country: "USA", Interests: "Naps", Languages: "English", Age: Age(0), Availability: Flexible,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if p.Age != 0 {
		t.Errorf("expected age 0, got %d", p.Age)
	}
}

func TestAdd_CreatesMissingStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "people.csv")

	c, err := Open(context.Background(), WithRecordsFile(path))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if _, err := c.Find().Do(context.Background()); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded before first add, got %v", err)
	}

	_, total, err := c.Add(context.Background(), NewPerson{
		Name: "Ada", Country: "UK", Interests: "Maths", Languages: "English", Age: Age(36), Availability: Flexible,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "Name,Country,Interests,Languages Spoken,Age,Availability\n") {
		t.Errorf("expected canonical header, got %q", data)
	}
}

func TestReload(t *testing.T) {
	c, path := openSeeded(t)

	lines := strings.SplitAfter(seedCSV, "\n")
	if err := os.WriteFile(path, []byte(strings.Join(lines[:3], "")), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	f, _ := c.Facets(context.Background())
	if f.Total != 2 {
		t.Errorf("expected 2 records after reload, got %d", f.Total)
	}
}
