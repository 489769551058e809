package availability

import (
	"context"
	"testing"
	"time"

	"github.com/kazetani/ghibli-watch-api/internal/cache"
	"github.com/kazetani/ghibli-watch-api/internal/repository"
)

// fakeStore records calls and serves canned rows.
type fakeStore struct {
	options   []repository.Availability
	regions   []repository.Region
	platforms []repository.Platform
	calls     int
}

func (f *fakeStore) ListAvailability(_ context.Context, movieID, regionCode string) ([]repository.Availability, error) {
	f.calls++
	out := make([]repository.Availability, 0, len(f.options))
	for _, o := range f.options {
		if movieID != "" && o.MovieID != movieID {
			continue
		}
		if regionCode != "" && o.Region.Code != regionCode {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeStore) ListRegions(context.Context) ([]repository.Region, error) {
	f.calls++
	return f.regions, nil
}

func (f *fakeStore) ListPlatforms(context.Context) ([]repository.Platform, error) {
	f.calls++
	return f.platforms, nil
}

type fakeGate struct{ ready bool }

func (g fakeGate) Ready(context.Context, ...string) (bool, error) { return g.ready, nil }

func option(movieID, regionCode, regionName, platformName string, checked time.Time) repository.Availability {
	return repository.Availability{
		ID:          movieID + ":" + regionCode + ":" + platformName,
		MovieID:     movieID,
		Type:        repository.AccessSubscription,
		LastChecked: checked,
		Region:      repository.Region{ID: "r-" + regionCode, Code: regionCode, Name: regionName},
		Platform:    repository.Platform{ID: "p-" + platformName, Name: platformName, Category: repository.PlatformStreaming},
	}
}

func newTestResolver(store *fakeStore, ready bool) *Resolver {
	return New(store, fakeGate{ready: ready}, nil, 0)
}

func TestResolveForMovieOrdering(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{options: []repository.Availability{
		option("m1", "US", "United States", "Netflix", t0),
		option("m1", "US", "United States", "HBO", t0.Add(time.Hour)),
		option("m1", "JP", "Japan", "Netflix", t0.Add(-time.Hour)),
	}}
	r := newTestResolver(store, true)

	res, err := r.ResolveForMovie(context.Background(), "m1", "")
	if err != nil {
		t.Fatalf("ResolveForMovie() error = %v", err)
	}
	if len(res.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(res.Options))
	}
	// Japan sorts before United States; within a region HBO before Netflix.
	want := []string{"Japan/Netflix", "United States/HBO", "United States/Netflix"}
	for i, o := range res.Options {
		got := o.Region.Name + "/" + o.Platform.Name
		if got != want[i] {
			t.Errorf("option %d = %s, want %s", i, got, want[i])
		}
	}
	if res.Freshness == nil || !res.Freshness.Equal(t0.Add(time.Hour)) {
		t.Errorf("freshness = %v, want %v", res.Freshness, t0.Add(time.Hour))
	}
}

func TestResolveForMovieRequiresID(t *testing.T) {
	r := newTestResolver(&fakeStore{}, true)
	if _, err := r.ResolveForMovie(context.Background(), "", ""); err != ErrMissingMovieID {
		t.Fatalf("expected ErrMissingMovieID, got %v", err)
	}
}

func TestResolveForMovieUnknownRegion(t *testing.T) {
	store := &fakeStore{options: []repository.Availability{
		option("m1", "US", "United States", "Netflix", time.Now()),
	}}
	r := newTestResolver(store, true)

	res, err := r.ResolveForMovie(context.Background(), "m1", "XX")
	if err != nil {
		t.Fatalf("ResolveForMovie() error = %v", err)
	}
	if len(res.Options) != 0 {
		t.Fatalf("expected no options for unknown region, got %d", len(res.Options))
	}
	if res.Freshness != nil {
		t.Errorf("expected absent freshness for empty result, got %v", res.Freshness)
	}
}

func TestResolveForMovieDegradedSchema(t *testing.T) {
	store := &fakeStore{options: []repository.Availability{
		option("m1", "US", "United States", "Netflix", time.Now()),
	}}
	r := newTestResolver(store, false)

	res, err := r.ResolveForMovie(context.Background(), "m1", "")
	if err != nil {
		t.Fatalf("degraded schema must not be an error, got %v", err)
	}
	if res.Options == nil || len(res.Options) != 0 {
		t.Fatalf("expected empty options, got %#v", res.Options)
	}
	if res.Freshness != nil {
		t.Errorf("expected absent freshness, got %v", res.Freshness)
	}
	if store.calls != 0 {
		t.Errorf("store must not be queried while schema is absent, got %d calls", store.calls)
	}
}

func TestResolveForMovieStableTieBreak(t *testing.T) {
	t0 := time.Now()
	// Duplicate region/platform names: the store order must survive.
	a := option("m1", "US", "United States", "Netflix", t0)
	a.ID = "first"
	b := option("m1", "US", "United States", "Netflix", t0)
	b.ID = "second"
	store := &fakeStore{options: []repository.Availability{a, b}}
	r := newTestResolver(store, true)

	res, err := r.ResolveForMovie(context.Background(), "m1", "")
	if err != nil {
		t.Fatalf("ResolveForMovie() error = %v", err)
	}
	if res.Options[0].ID != "first" || res.Options[1].ID != "second" {
		t.Errorf("tie-break reordered rows: %s, %s", res.Options[0].ID, res.Options[1].ID)
	}
}

func TestResolveForMovieCaching(t *testing.T) {
	store := &fakeStore{options: []repository.Availability{
		option("m1", "US", "United States", "Netflix", time.Now().UTC()),
	}}
	r := New(store, fakeGate{ready: true}, cache.NewMemory(), time.Minute)

	ctx := context.Background()
	if _, err := r.ResolveForMovie(ctx, "m1", "US"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := r.ResolveForMovie(ctx, "m1", "US"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if store.calls != 1 {
		t.Errorf("expected cache hit on second call, store saw %d calls", store.calls)
	}

	// A different parameter tuple is a different cache entry.
	if _, err := r.ResolveForMovie(ctx, "m1", ""); err != nil {
		t.Fatalf("third call: %v", err)
	}
	if store.calls != 2 {
		t.Errorf("expected miss for new tuple, store saw %d calls", store.calls)
	}
}

func TestListRegionsIdempotent(t *testing.T) {
	store := &fakeStore{regions: []repository.Region{
		{ID: "r1", Code: "JP", Name: "Japan"},
		{ID: "r2", Code: "US", Name: "United States"},
	}}
	r := newTestResolver(store, true)

	first, err := r.ListRegions(context.Background())
	if err != nil {
		t.Fatalf("ListRegions() error = %v", err)
	}
	second, err := r.ListRegions(context.Background())
	if err != nil {
		t.Fatalf("ListRegions() error = %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d differs: %#v vs %#v", i, first[i], second[i])
		}
	}
}

func TestListRegionsDegradedSchema(t *testing.T) {
	store := &fakeStore{regions: []repository.Region{{ID: "r1", Code: "JP", Name: "Japan"}}}
	r := newTestResolver(store, false)

	regions, err := r.ListRegions(context.Background())
	if err != nil {
		t.Fatalf("degraded schema must not be an error, got %v", err)
	}
	if len(regions) != 0 {
		t.Fatalf("expected empty regions, got %d", len(regions))
	}
	if store.calls != 0 {
		t.Errorf("store must not be queried, got %d calls", store.calls)
	}
}
