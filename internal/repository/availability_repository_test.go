package repository

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var availabilityCols = []string{
	"a.id", "a.movie_id", "a.platform_id", "a.region_id", "a.type",
	"a.url", "a.price_info", "a.notes", "a.last_checked",
	"p.id", "p.name", "p.logo_url", "p.category",
	"rg.id", "rg.code", "rg.name",
	"m.id", "m.title_en", "m.title_ja", "m.year", "m.poster_url",
}

func newAvailabilityRepoMock(t *testing.T) (*AvailabilityRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAvailabilityRepo(db), mock
}

func availabilityRow(checked time.Time) []driver.Value {
	return []driver.Value{
		"av1", "m1", "p1", "r1", AccessSubscription,
		"https://example.com/watch", `{"amount":9.99,"currency":"USD"}`, nil, checked,
		"p1", "Netflix", "https://cdn.example.com/netflix.png", PlatformStreaming,
		"r1", "US", "United States",
		"m1", "My Neighbor Totoro", "となりのトトロ", 1988, "https://cdn.example.com/totoro.jpg",
	}
}

func TestListFilteredBothFilters(t *testing.T) {
	repo, mock := newAvailabilityRepoMock(t)

	checked := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("a.movie_id = \\? AND BINARY rg.code = \\?").
		WithArgs("m1", "US").
		WillReturnRows(sqlmock.NewRows(availabilityCols).AddRow(availabilityRow(checked)...))

	got, err := repo.ListFiltered(context.Background(), "m1", "US")
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.Equal(t, "av1", a.ID)
	assert.Equal(t, AccessSubscription, a.Type)
	assert.Equal(t, "Netflix", a.Platform.Name)
	assert.Equal(t, "US", a.Region.Code)
	assert.Equal(t, "My Neighbor Totoro", a.Movie.TitleEn)
	assert.JSONEq(t, `{"amount":9.99,"currency":"USD"}`, string(a.PriceInfo))
	require.NotNil(t, a.URL)
	assert.Equal(t, "https://example.com/watch", *a.URL)
	assert.Nil(t, a.Notes)
	assert.Equal(t, checked, a.LastChecked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFilteredNoFilters(t *testing.T) {
	repo, mock := newAvailabilityRepoMock(t)

	// With neither filter set the WHERE clause degenerates to a constant.
	mock.ExpectQuery("WHERE 1=1").
		WillReturnRows(sqlmock.NewRows(availabilityCols))

	got, err := repo.ListFiltered(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFilteredNullPriceInfo(t *testing.T) {
	repo, mock := newAvailabilityRepoMock(t)

	row := availabilityRow(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	row[6] = nil // price_info
	mock.ExpectQuery("a.movie_id = \\?").
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows(availabilityCols).AddRow(row...))

	got, err := repo.ListFiltered(context.Background(), "m1", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].PriceInfo)
	assert.NoError(t, mock.ExpectationsWereMet())
}
