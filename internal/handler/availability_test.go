package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazetani/ghibli-watch-api/internal/availability"
	"github.com/kazetani/ghibli-watch-api/internal/repository"
)

type stubStore struct {
	rows  []repository.Availability
	calls int
}

func (s *stubStore) ListAvailability(ctx context.Context, movieID, regionCode string) ([]repository.Availability, error) {
	s.calls++
	return s.rows, nil
}

func (s *stubStore) ListRegions(ctx context.Context) ([]repository.Region, error) {
	return nil, nil
}

func (s *stubStore) ListPlatforms(ctx context.Context) ([]repository.Platform, error) {
	return nil, nil
}

type stubGate struct{ ready bool }

func (g stubGate) Ready(ctx context.Context, tables ...string) (bool, error) {
	return g.ready, nil
}

func newTestContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetAvailabilitySchemaNotRolledOut(t *testing.T) {
	store := &stubStore{}
	h := &AvailabilityHandler{
		Resolver: availability.New(store, stubGate{ready: false}, nil, 0),
	}

	c, rec := newTestContext(http.MethodGet, "/api/availability?movieId=m1")
	require.NoError(t, h.GetAvailability(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Data-Freshness"))
	assert.Zero(t, store.calls, "degraded mode must not touch the store")
}

func TestGetAvailabilityFreshnessHeader(t *testing.T) {
	checked := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := &stubStore{rows: []repository.Availability{
		{
			ID:          "av1",
			MovieID:     "m1",
			LastChecked: checked,
			Platform:    repository.Platform{ID: "p1", Name: "Netflix"},
			Region:      repository.Region{ID: "r1", Code: "US", Name: "United States"},
		},
	}}
	h := &AvailabilityHandler{
		Resolver: availability.New(store, stubGate{ready: true}, nil, 0),
	}

	c, rec := newTestContext(http.MethodGet, "/api/availability?movieId=m1&region=US")
	require.NoError(t, h.GetAvailability(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-05-01T12:00:00Z", rec.Header().Get("X-Data-Freshness"))

	var body []repository.Availability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "av1", body[0].ID)
}

func TestGetAvailabilityWithoutMovieIsRegionListing(t *testing.T) {
	store := &stubStore{rows: []repository.Availability{}}
	h := &AvailabilityHandler{
		Resolver: availability.New(store, stubGate{ready: true}, nil, 0),
	}

	c, rec := newTestContext(http.MethodGet, "/api/availability?region=JP")
	require.NoError(t, h.GetAvailability(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, 1, store.calls)
}
