package geo

import (
	"strings"
	"testing"
)

func mustGazetteer(t *testing.T) *Gazetteer {
	t.Helper()
	g, err := NewGazetteer()
	if err != nil {
		t.Fatalf("load gazetteer: %v", err)
	}
	return g
}

func TestGazetteerCoordinates(t *testing.T) {
	g := mustGazetteer(t)

	coord, ok := g.Coordinates("London", "United Kingdom", "")
	if !ok {
		t.Fatal("London, United Kingdom should resolve")
	}
	if coord.Lat < 51 || coord.Lat > 52 {
		t.Errorf("London latitude out of range: %f", coord.Lat)
	}

	// case-insensitive
	if _, ok := g.Coordinates("lOnDoN", "UNITED KINGDOM", ""); !ok {
		t.Error("lookup should be case-insensitive")
	}

	// country aliases
	if _, ok := g.Coordinates("London", "UK", ""); !ok {
		t.Error("UK should normalize to United Kingdom")
	}
	if _, ok := g.Coordinates("Chicago", "USA", "Illinois"); !ok {
		t.Error("USA should normalize to United States")
	}

	// state given but dataset entry matched without it
	if _, ok := g.Coordinates("Paris", "France", "Ile-de-France"); !ok {
		t.Error("unknown state should fall back to (name, country)")
	}

	if _, ok := g.Coordinates("Atlantis", "Nowhere", ""); ok {
		t.Error("Atlantis, Nowhere should not resolve")
	}
}

func TestGazetteerDisambiguatesByState(t *testing.T) {
	g := mustGazetteer(t)

	ca, ok := g.Coordinates("San Jose", "United States", "California")
	if !ok {
		t.Fatal("San Jose, California should resolve")
	}
	if ca.Lng > -100 {
		t.Errorf("expected Californian longitude, got %f", ca.Lng)
	}
}

func TestGazetteerSearchCities(t *testing.T) {
	g := mustGazetteer(t)

	if got := g.SearchCities("L", 10); got != nil {
		t.Errorf("queries under two chars should return nothing, got %d", len(got))
	}

	results := g.SearchCities("lond", 10)
	if len(results) == 0 {
		t.Fatal("expected suggestions for 'lond'")
	}
	if results[0].City != "London" {
		t.Errorf("most populous match first: got %q", results[0].City)
	}
	if results[0].FullName != "London, United Kingdom" {
		t.Errorf("unexpected full name: %q", results[0].FullName)
	}

	// population ordering
	for i := 1; i < len(results); i++ {
		if results[i].Population > results[i-1].Population {
			t.Errorf("suggestions not sorted by population at %d", i)
		}
	}

	if got := g.SearchCities("san", 3); len(got) > 3 {
		t.Errorf("limit not honored: got %d", len(got))
	}
}

func TestGazetteerSearchCountries(t *testing.T) {
	g := mustGazetteer(t)

	results := g.SearchCountries("king", 10)
	found := false
	for _, c := range results {
		if c == "United Kingdom" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected United Kingdom in %v", results)
	}

	if got := g.SearchCountries("x", 10); got != nil {
		t.Error("queries under two chars should return nothing")
	}
}

func TestGazetteerCountriesSorted(t *testing.T) {
	g := mustGazetteer(t)

	countries := g.Countries()
	if len(countries) < 50 {
		t.Fatalf("expected a broad country list, got %d", len(countries))
	}
	for i := 1; i < len(countries); i++ {
		if strings.Compare(countries[i-1], countries[i]) > 0 {
			t.Fatalf("countries not sorted at %d: %q > %q", i, countries[i-1], countries[i])
		}
	}
}
