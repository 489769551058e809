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

var guideCols = []string{"id", "title", "description", "guide_type", "is_published", "sort_order", "created_at", "updated_at"}

func newGuideRepoMock(t *testing.T) (*GuideRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewGuideRepo(db), mock
}

func guideRow(id, title, gtype string, order int) []driver.Value {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []driver.Value{id, title, "desc", gtype, true, order, now, now}
}

func TestGuideListFiltersByType(t *testing.T) {
	repo, mock := newGuideRepoMock(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM watch_guides").
		WithArgs(GuideBeginner).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("is_published = TRUE AND guide_type = \\?").
		WithArgs(GuideBeginner, 20, 0).
		WillReturnRows(sqlmock.NewRows(guideCols).AddRow(guideRow("g1", "Start Here", GuideBeginner, 1)...))

	guides, total, err := repo.List(context.Background(), GuideBeginner, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, guides, 1)
	assert.Equal(t, "Start Here", guides[0].Title)
	assert.Equal(t, GuideBeginner, guides[0].GuideType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuideGetByIDUnpublished(t *testing.T) {
	repo, mock := newGuideRepoMock(t)

	// The published predicate is part of the lookup, so an unpublished
	// guide is indistinguishable from a missing one.
	mock.ExpectQuery("id = \\? AND is_published = TRUE").
		WithArgs("g-draft").
		WillReturnRows(sqlmock.NewRows(guideCols))

	_, err := repo.GetByID(context.Background(), "g-draft")
	assert.ErrorIs(t, err, ErrGuideNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuideGetByIDWithMoviesAndRelated(t *testing.T) {
	repo, mock := newGuideRepoMock(t)

	mock.ExpectQuery("id = \\? AND is_published = TRUE").
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows(guideCols).AddRow(guideRow("g1", "Start Here", GuideBeginner, 1)...))
	mock.ExpectQuery("FROM watch_guide_movies gm").
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "title_en", "title_ja", "year", "poster_url", "sort_order", "notes"},
		).
			AddRow("m1", "My Neighbor Totoro", "となりのトトロ", 1988, "totoro.jpg", 1, "gentle opener").
			AddRow("m2", "Kiki's Delivery Service", "魔女の宅急便", 1989, "kiki.jpg", 2, nil))
	mock.ExpectQuery("guide_type = \\? AND is_published = TRUE AND id <> \\?").
		WithArgs(GuideBeginner, "g1").
		WillReturnRows(sqlmock.NewRows(guideCols).AddRow(guideRow("g2", "Next Steps", GuideBeginner, 2)...))

	got, err := repo.GetByID(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, got.Movies, 2)
	assert.Equal(t, 1, got.Movies[0].SortOrder)
	require.NotNil(t, got.Movies[0].Notes)
	assert.Equal(t, "gentle opener", *got.Movies[0].Notes)
	assert.Nil(t, got.Movies[1].Notes)
	require.Len(t, got.RelatedGuides, 1)
	assert.Equal(t, "g2", got.RelatedGuides[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
