package geo

import (
	"context"
	"errors"
	"testing"

	"bookmap/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.City{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeSource serves a fixed table and counts lookups.
type fakeSource struct {
	coords map[string]Coord
	calls  int
}

func (f *fakeSource) Coordinates(name, country, state string) (Coord, bool) {
	f.calls++
	c, ok := f.coords[LocationKey(name, country, state)]
	return c, ok
}

// fakeRemote answers every query with one coordinate.
type fakeRemote struct {
	coord Coord
	found bool
	calls int
	last  string
}

func (f *fakeRemote) Geocode(_ context.Context, query string) (Coord, bool) {
	f.calls++
	f.last = query
	return f.coord, f.found
}

func TestResolveCreatesCity(t *testing.T) {
	db := openTestDB(t)
	src := &fakeSource{coords: map[string]Coord{
		LocationKey("London", "United Kingdom", ""): {Lat: 51.5074, Lng: -0.1278},
	}}
	r := NewResolver(db, src, nil)

	city, err := r.Resolve(context.Background(), " London ", "United Kingdom", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if city.ID == 0 {
		t.Fatal("expected a persisted city")
	}
	if city.Name != "London" {
		t.Errorf("name not trimmed: %q", city.Name)
	}
	if city.State != nil {
		t.Errorf("empty state should be stored as null, got %v", *city.State)
	}
	if city.Latitude != 51.5074 {
		t.Errorf("latitude: got %f", city.Latitude)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	src := &fakeSource{coords: map[string]Coord{
		LocationKey("London", "United Kingdom", ""): {Lat: 51.5074, Lng: -0.1278},
	}}
	r := NewResolver(db, src, nil)

	first, err := r.Resolve(context.Background(), "London", "United Kingdom", "")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	callsAfterFirst := src.calls

	// different casing, same city
	second, err := r.Resolve(context.Background(), "LONDON", "united kingdom", "")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same city id, got %d and %d", first.ID, second.ID)
	}
	if src.calls != callsAfterFirst {
		t.Error("existing city must not re-resolve coordinates")
	}

	var count int64
	db.Model(&models.City{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 city row, got %d", count)
	}
}

func TestResolveStateDistinguishesCities(t *testing.T) {
	db := openTestDB(t)
	src := &fakeSource{coords: map[string]Coord{
		LocationKey("Springfield", "United States", "Illinois"): {Lat: 39.78, Lng: -89.65},
		LocationKey("Springfield", "United States", "Missouri"): {Lat: 37.21, Lng: -93.29},
	}}
	r := NewResolver(db, src, nil)

	il, err := r.Resolve(context.Background(), "Springfield", "United States", "Illinois")
	if err != nil {
		t.Fatalf("resolve IL: %v", err)
	}
	mo, err := r.Resolve(context.Background(), "Springfield", "United States", "Missouri")
	if err != nil {
		t.Fatalf("resolve MO: %v", err)
	}
	if il.ID == mo.ID {
		t.Error("different states must yield different cities")
	}
}

func TestResolveRemoteFallback(t *testing.T) {
	db := openTestDB(t)
	src := &fakeSource{coords: map[string]Coord{}}
	remote := &fakeRemote{coord: Coord{Lat: 12.34, Lng: 56.78}, found: true}
	r := NewResolver(db, src, remote)

	city, err := r.Resolve(context.Background(), "Smallville", "United States", "Kansas")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if remote.calls != 1 {
		t.Errorf("remote should be consulted once, got %d", remote.calls)
	}
	if remote.last != "Smallville, Kansas, United States" {
		t.Errorf("unexpected remote query: %q", remote.last)
	}
	if city.Latitude != 12.34 {
		t.Errorf("latitude from remote: got %f", city.Latitude)
	}
}

func TestResolveLocationNotFound(t *testing.T) {
	db := openTestDB(t)
	src := &fakeSource{coords: map[string]Coord{}}
	remote := &fakeRemote{found: false}
	r := NewResolver(db, src, remote)

	_, err := r.Resolve(context.Background(), "Atlantis", "Nowhere", "")
	if err == nil {
		t.Fatal("expected an error")
	}

	var notFound *LocationNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected LocationNotFoundError, got %T: %v", err, err)
	}
	if notFound.Query != "Atlantis, Nowhere" {
		t.Errorf("error should carry the attempted query, got %q", notFound.Query)
	}

	var count int64
	db.Model(&models.City{}).Count(&count)
	if count != 0 {
		t.Errorf("failed resolution must not create a city, got %d rows", count)
	}
}

func TestResolveCoordinateRounding(t *testing.T) {
	db := openTestDB(t)
	src := &fakeSource{coords: map[string]Coord{
		LocationKey("Testville", "Testland", ""): {Lat: 1.123456789123, Lng: -2.987654321987},
	}}
	r := NewResolver(db, src, nil)

	city, err := r.Resolve(context.Background(), "Testville", "Testland", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if city.Latitude != 1.12345679 {
		t.Errorf("latitude not rounded to 8 digits: %.12f", city.Latitude)
	}
	if city.Longitude != -2.98765432 {
		t.Errorf("longitude not rounded to 8 digits: %.12f", city.Longitude)
	}
}
