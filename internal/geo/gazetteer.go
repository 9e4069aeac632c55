package geo

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

//go:embed data/cities.csv
var citiesCSV []byte

// Coord is a latitude/longitude pair.
type Coord struct {
	Lat float64
	Lng float64
}

// CitySuggestion is one autocomplete candidate from the gazetteer.
type CitySuggestion struct {
	City       string  `json:"city"`
	State      string  `json:"state,omitempty"`
	Country    string  `json:"country"`
	FullName   string  `json:"full_name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Population int     `json:"population"`
}

type cityEntry struct {
	name       string
	state      string
	country    string
	coord      Coord
	population int
}

// countryAliases maps common alternative country names to the
// canonical names used by the dataset.
var countryAliases = map[string]string{
	"usa":              "United States",
	"us":               "United States",
	"america":          "United States",
	"uk":               "United Kingdom",
	"britain":          "United Kingdom",
	"england":          "United Kingdom",
	"scotland":         "United Kingdom",
	"wales":            "United Kingdom",
	"northern ireland": "United Kingdom",
}

// Gazetteer is a static city/country dataset loaded once at startup.
// It is constructed explicitly and passed to whoever needs it; there
// is no lazy global.
type Gazetteer struct {
	entries       []cityEntry // sorted by population, descending
	byKey         map[string]int
	byNameCountry map[string]int
	countries     []string // sorted
}

// NewGazetteer parses the embedded dataset.
func NewGazetteer() (*Gazetteer, error) {
	return parseGazetteer(bytes.NewReader(citiesCSV))
}

func parseGazetteer(r io.Reader) (*Gazetteer, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read gazetteer header: %w", err)
	}
	if header[0] != "name" {
		return nil, fmt.Errorf("unexpected gazetteer header: %v", header)
	}

	var entries []cityEntry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read gazetteer row: %w", err)
		}

		lat, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("gazetteer row %q: bad latitude: %w", rec[0], err)
		}
		lng, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("gazetteer row %q: bad longitude: %w", rec[0], err)
		}
		pop, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, fmt.Errorf("gazetteer row %q: bad population: %w", rec[0], err)
		}

		entries = append(entries, cityEntry{
			name:       rec[0],
			state:      rec[1],
			country:    rec[2],
			coord:      Coord{Lat: lat, Lng: lng},
			population: pop,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].population > entries[j].population
	})

	g := &Gazetteer{
		entries:       entries,
		byKey:         make(map[string]int, len(entries)),
		byNameCountry: make(map[string]int, len(entries)),
	}

	countrySet := make(map[string]struct{})
	for i, e := range entries {
		key := gazetteerKey(e.name, e.country, e.state)
		if _, exists := g.byKey[key]; !exists {
			g.byKey[key] = i
		}
		// first (most populous) entry wins for stateless lookups
		nc := gazetteerKey(e.name, e.country, "")
		if _, exists := g.byNameCountry[nc]; !exists {
			g.byNameCountry[nc] = i
		}
		countrySet[e.country] = struct{}{}
	}

	for c := range countrySet {
		g.countries = append(g.countries, c)
	}
	sort.Strings(g.countries)

	return g, nil
}

func gazetteerKey(name, country, state string) string {
	return strings.ToLower(name) + "|" + strings.ToLower(country) + "|" + strings.ToLower(state)
}

// NormalizeCountry resolves common alternative country names
// ("usa", "UK") to their canonical form. Unknown names pass through.
func NormalizeCountry(country string) string {
	if canon, ok := countryAliases[strings.ToLower(strings.TrimSpace(country))]; ok {
		return canon
	}
	return strings.TrimSpace(country)
}

// Size reports how many cities the gazetteer holds.
func (g *Gazetteer) Size() int {
	return len(g.entries)
}

// Coordinates looks up a (name, country, state) triple
// case-insensitively. A missing state falls back to the most populous
// matching (name, country) entry.
func (g *Gazetteer) Coordinates(name, country, state string) (Coord, bool) {
	country = NormalizeCountry(country)

	if state != "" {
		if i, ok := g.byKey[gazetteerKey(name, country, state)]; ok {
			return g.entries[i].coord, true
		}
	}
	if i, ok := g.byNameCountry[gazetteerKey(name, country, "")]; ok {
		return g.entries[i].coord, true
	}
	return Coord{}, false
}

// SearchCities returns up to limit suggestions whose name contains the
// query (case-insensitive), most populous first. Queries shorter than
// two characters return nothing.
func (g *Gazetteer) SearchCities(query string, limit int) []CitySuggestion {
	query = strings.TrimSpace(query)
	if len(query) < 2 || limit <= 0 {
		return nil
	}
	q := strings.ToLower(query)

	var out []CitySuggestion
	for _, e := range g.entries {
		if !strings.Contains(strings.ToLower(e.name), q) {
			continue
		}
		full := e.name + ", " + e.country
		if e.state != "" {
			full = e.name + ", " + e.state + ", " + e.country
		}
		out = append(out, CitySuggestion{
			City:       e.name,
			State:      e.state,
			Country:    e.country,
			FullName:   full,
			Latitude:   e.coord.Lat,
			Longitude:  e.coord.Lng,
			Population: e.population,
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}

// SearchCountries returns up to limit country names containing the
// query, case-insensitive. Queries shorter than two characters return
// nothing.
func (g *Gazetteer) SearchCountries(query string, limit int) []string {
	query = strings.TrimSpace(query)
	if len(query) < 2 || limit <= 0 {
		return nil
	}
	q := strings.ToLower(query)

	var out []string
	for _, c := range g.countries {
		if strings.Contains(strings.ToLower(c), q) {
			out = append(out, c)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// Countries returns all country names in the dataset, sorted.
func (g *Gazetteer) Countries() []string {
	out := make([]string, len(g.countries))
	copy(out, g.countries)
	return out
}
