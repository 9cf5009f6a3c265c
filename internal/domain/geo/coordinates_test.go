package geo

import "testing"

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{-90.1, 0, false},
		{0, 180.1, false},
		{0, -180.1, false},
	}
	for _, tc := range tests {
		if got := ValidateCoordinates(tc.lat, tc.lon); got != tc.want {
			t.Errorf("ValidateCoordinates(%v, %v) = %v, want %v", tc.lat, tc.lon, got, tc.want)
		}
	}
}

func TestNewPoint(t *testing.T) {
	p, err := NewPoint(40.4637, -3.7492)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat != 40.4637 || p.Lon != -3.7492 {
		t.Errorf("got %+v", p)
	}

	if _, err := NewPoint(120, 0); err == nil {
		t.Fatal("expected error for latitude out of range")
	}
}

func TestTable_Lookup(t *testing.T) {
	src := map[string]Point{"Spain": {Lat: 40.4637, Lon: -3.7492}}
	table := NewTable(src)

	// Table must not alias the source map.
	src["Atlantis"] = Point{}

	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	if _, ok := table.Lookup("Spain"); !ok {
		t.Error("expected Spain to be found")
	}
	if _, ok := table.Lookup("spain"); ok {
		t.Error("lookup must be case-sensitive")
	}
	if _, ok := table.Lookup("Atlantis"); ok {
		t.Error("Atlantis must not be in the table")
	}
}
