package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazetani/ghibli-watch-api/internal/repository"
)

func newGuideHandler(t *testing.T) (*GuideHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &GuideHandler{GuideRepo: repository.NewGuideRepo(db)}, mock
}

func TestGetGuidesRejectsUnknownType(t *testing.T) {
	h, mock := newGuideHandler(t)

	c, rec := newTestContext(http.MethodGet, "/api/guides?type=RANDOM")
	require.NoError(t, h.GetGuides(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"unsupported guide type"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGuideNotFound(t *testing.T) {
	h, mock := newGuideHandler(t)

	mock.ExpectQuery("id = \\? AND is_published = TRUE").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newTestContext(http.MethodGet, "/api/guides/missing")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.GetGuide(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"guide not found"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
