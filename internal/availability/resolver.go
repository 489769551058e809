// Package availability implements the regional availability resolver: it
// answers "where can I watch movie X, optionally restricted to region Y"
// and the reference-data listings the answer is composed from. The
// availability, platform and region tables may be rolled out after the
// rest of the catalog, so every read consults a schema gate first and
// degrades to empty results while the tables are absent.
package availability

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/kazetani/ghibli-watch-api/internal/cache"
	"github.com/kazetani/ghibli-watch-api/internal/repository"
)

// ErrMissingMovieID is returned by ResolveForMovie when the movie id is
// empty. Handlers should translate this into an HTTP 400 response.
var ErrMissingMovieID = errors.New("movie id is required")

// Store is the read surface the resolver needs from the repository
// layer.
type Store interface {
	ListAvailability(ctx context.Context, movieID, regionCode string) ([]repository.Availability, error)
	ListRegions(ctx context.Context) ([]repository.Region, error)
	ListPlatforms(ctx context.Context) ([]repository.Platform, error)
}

// Gate reports whether a set of tables exists yet. A false answer is a
// normal state; an error means the store itself is unreachable.
type Gate interface {
	Ready(ctx context.Context, tables ...string) (bool, error)
}

// Result is the outcome of a movie-scoped resolution. Freshness is the
// most recent last-checked timestamp across the options and is nil when
// there are none.
type Result struct {
	Options   []repository.Availability `json:"options"`
	Freshness *time.Time                `json:"freshness"`
}

// Resolver composes the schema gate, the store and a TTL cache into the
// read operations the handlers call. All operations are pure reads.
type Resolver struct {
	store Store
	gate  Gate
	cache cache.Cache
	ttl   time.Duration
}

// New constructs a Resolver. The cache is keyed by the full parameter
// tuple of each call; pass a zero ttl to disable caching.
func New(store Store, gate Gate, c cache.Cache, ttl time.Duration) *Resolver {
	return &Resolver{store: store, gate: gate, cache: c, ttl: ttl}
}

// availabilityTables are the relations the resolver reads; all three
// arrive in the same migration.
var availabilityTables = []string{"availability", "platforms", "regions"}

// ResolveForMovie returns the viewing options for one movie, optionally
// restricted to the region whose code matches regionCode exactly.
// Options are ordered by region display name then platform display name;
// ties keep store order. An absent schema yields an empty result, not an
// error.
func (r *Resolver) ResolveForMovie(ctx context.Context, movieID, regionCode string) (Result, error) {
	if movieID == "" {
		return Result{}, ErrMissingMovieID
	}

	key := "resolve:movie:" + movieID + ":region:" + regionCode
	var cached Result
	if r.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	ready, err := r.gate.Ready(ctx, availabilityTables...)
	if err != nil {
		return Result{}, err
	}
	if !ready {
		return Result{Options: []repository.Availability{}}, nil
	}

	options, err := r.store.ListAvailability(ctx, movieID, regionCode)
	if err != nil {
		return Result{}, err
	}
	sortOptions(options)

	res := Result{Options: options, Freshness: freshness(options)}
	r.toCache(ctx, key, res)
	return res, nil
}

// ResolveForRegion enumerates viewing options by region. Both filters
// are optional; when both are given they apply together. Ordering and
// degraded behavior match ResolveForMovie.
func (r *Resolver) ResolveForRegion(ctx context.Context, regionCode, movieID string) ([]repository.Availability, error) {
	key := "resolve:region:" + regionCode + ":movie:" + movieID
	var cached []repository.Availability
	if r.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	ready, err := r.gate.Ready(ctx, availabilityTables...)
	if err != nil {
		return nil, err
	}
	if !ready {
		return []repository.Availability{}, nil
	}

	options, err := r.store.ListAvailability(ctx, movieID, regionCode)
	if err != nil {
		return nil, err
	}
	sortOptions(options)
	r.toCache(ctx, key, options)
	return options, nil
}

// ListRegions returns all regions sorted by display name, or an empty
// slice while the regions table is absent.
func (r *Resolver) ListRegions(ctx context.Context) ([]repository.Region, error) {
	key := "regions"
	var cached []repository.Region
	if r.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	ready, err := r.gate.Ready(ctx, "regions")
	if err != nil {
		return nil, err
	}
	if !ready {
		return []repository.Region{}, nil
	}

	regions, err := r.store.ListRegions(ctx)
	if err != nil {
		return nil, err
	}
	r.toCache(ctx, key, regions)
	return regions, nil
}

// ListPlatforms returns all platforms sorted by display name, or an
// empty slice while the platforms table is absent.
func (r *Resolver) ListPlatforms(ctx context.Context) ([]repository.Platform, error) {
	key := "platforms"
	var cached []repository.Platform
	if r.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	ready, err := r.gate.Ready(ctx, "platforms")
	if err != nil {
		return nil, err
	}
	if !ready {
		return []repository.Platform{}, nil
	}

	platforms, err := r.store.ListPlatforms(ctx)
	if err != nil {
		return nil, err
	}
	r.toCache(ctx, key, platforms)
	return platforms, nil
}

// sortOptions orders options by region display name then platform
// display name with a plain byte compare. The sort is stable so rows
// with duplicate names keep the store's order.
func sortOptions(options []repository.Availability) {
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Region.Name != options[j].Region.Name {
			return options[i].Region.Name < options[j].Region.Name
		}
		return options[i].Platform.Name < options[j].Platform.Name
	})
}

// freshness returns the maximum last-checked timestamp, or nil for an
// empty set.
func freshness(options []repository.Availability) *time.Time {
	var max *time.Time
	for i := range options {
		t := options[i].LastChecked
		if max == nil || t.After(*max) {
			tt := t
			max = &tt
		}
	}
	return max
}

// fromCache loads and decodes a cached value into out; any failure is a
// miss.
func (r *Resolver) fromCache(ctx context.Context, key string, out any) bool {
	if r.cache == nil || r.ttl <= 0 {
		return false
	}
	bs, ok := r.cache.Get(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(bs, out) == nil
}

// toCache stores a value; encoding failures are dropped silently.
func (r *Resolver) toCache(ctx context.Context, key string, v any) {
	if r.cache == nil || r.ttl <= 0 {
		return
	}
	if bs, err := json.Marshal(v); err == nil {
		r.cache.Set(ctx, key, bs, r.ttl)
	}
}
