package geo

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"bookmap/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CoordinateSource yields coordinates for a known place.
type CoordinateSource interface {
	Coordinates(name, country, state string) (Coord, bool)
}

// RemoteGeocoder resolves a free-text query, best-effort.
type RemoteGeocoder interface {
	Geocode(ctx context.Context, query string) (Coord, bool)
}

// LocationNotFoundError reports that neither the gazetteer nor the
// remote geocoder knows the submitted place. It is a client input
// error, not a server fault.
type LocationNotFoundError struct {
	Query string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("could not find coordinates for %q", e.Query)
}

// Resolver turns a (name, country, state) triple into a canonical,
// deduplicated City row, creating it on first reference.
type Resolver struct {
	db        *gorm.DB
	gazetteer CoordinateSource
	remote    RemoteGeocoder // nil disables the fallback

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewResolver wires a resolver. remote may be nil.
func NewResolver(db *gorm.DB, gazetteer CoordinateSource, remote RemoteGeocoder) *Resolver {
	return &Resolver{
		db:        db,
		gazetteer: gazetteer,
		remote:    remote,
		locks:     make(map[string]*sync.Mutex),
	}
}

// LocationKey is the normalized dedup key for a location triple:
// lowercased name|country|state with the state collapsed to "" when
// absent.
func LocationKey(name, country, state string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" +
		strings.ToLower(strings.TrimSpace(country)) + "|" +
		strings.ToLower(strings.TrimSpace(state))
}

// Resolve returns the existing City for the triple, or resolves
// coordinates and creates one. Existing cities are returned unchanged;
// coordinates are never re-resolved. Returns *LocationNotFoundError
// when both coordinate sources come up empty.
func (r *Resolver) Resolve(ctx context.Context, name, country, state string) (*models.City, error) {
	name = strings.TrimSpace(name)
	country = strings.TrimSpace(country)
	state = strings.TrimSpace(state)

	key := LocationKey(name, country, state)

	// Serialize first-time creation per location so two concurrent
	// submissions for the same new place do not both hit the geocoder.
	lock := r.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	var city models.City
	err := r.db.Where("location_key = ?", key).First(&city).Error
	if err == nil {
		return &city, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("lookup city: %w", err)
	}

	coord, query, ok := r.resolveCoordinates(ctx, name, country, state)
	if !ok {
		return nil, &LocationNotFoundError{Query: query}
	}

	city = models.City{
		Name:        name,
		Country:     country,
		Latitude:    roundCoord(coord.Lat),
		Longitude:   roundCoord(coord.Lng),
		LocationKey: key,
	}
	if state != "" {
		city.State = &state
	}

	// The unique index on location_key backstops the lookup-then-insert
	// sequence; a concurrent winner turns our insert into a no-op and we
	// re-read their row.
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "location_key"}},
		DoNothing: true,
	}).Create(&city)
	if res.Error != nil {
		return nil, fmt.Errorf("create city: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if err := r.db.Where("location_key = ?", key).First(&city).Error; err != nil {
			return nil, fmt.Errorf("reread city after conflict: %w", err)
		}
	}

	return &city, nil
}

// resolveCoordinates tries the gazetteer, then the remote geocoder.
// First hit wins. Also returns the free-text query used for the remote
// attempt, for error reporting.
func (r *Resolver) resolveCoordinates(ctx context.Context, name, country, state string) (Coord, string, bool) {
	tokens := []string{name}
	if state != "" {
		tokens = append(tokens, state)
	}
	tokens = append(tokens, country)
	query := strings.Join(tokens, ", ")

	if coord, ok := r.gazetteer.Coordinates(name, country, state); ok {
		return coord, query, true
	}
	if r.remote != nil {
		if coord, ok := r.remote.Geocode(ctx, query); ok {
			return coord, query, true
		}
	}
	return Coord{}, query, false
}

func (r *Resolver) keyLock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	return lock
}

// roundCoord keeps 8 fractional digits, matching the column precision.
func roundCoord(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
