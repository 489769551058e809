// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Movie model and repository methods for catalog
// lookups. Movies are reference data: they are created and updated by the
// seed tooling, never by the API itself.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used for sentinel comparisons
	"strings"      // strings builds the search LIKE patterns
	"time"         // time holds timestamp columns
)

// Movie represents a film in the catalog. Titles are localized; TitleZh,
// BackdropURL and Rating are nullable columns. CreatedAt/UpdatedAt are
// not exposed via the public API.
type Movie struct {
	ID          string     `json:"id"`
	TitleEn     string     `json:"titleEn"`
	TitleJa     string     `json:"titleJa"`
	TitleZh     *string    `json:"titleZh"`
	Year        int        `json:"year"`
	Director    string     `json:"director"`
	Duration    int        `json:"duration"` // minutes
	Synopsis    string     `json:"synopsis"`
	PosterURL   string     `json:"posterUrl"`
	BackdropURL *string    `json:"backdropUrl"`
	Rating      *float64   `json:"rating"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// MovieSummary is the reduced movie shape nested inside availability
// responses and search results.
type MovieSummary struct {
	ID        string `json:"id"`
	TitleEn   string `json:"titleEn"`
	TitleJa   string `json:"titleJa"`
	Year      int    `json:"year"`
	PosterURL string `json:"posterUrl"`
}

// MovieRepo encapsulates all database queries related to movies. It
// depends on a sql.DB connection which should be configured elsewhere.
type MovieRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle. This
// function allows dependency injection of the database in tests and at
// startup.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// movieColumns is the shared SELECT list for full movie rows.
const movieColumns = `id, title_en, title_ja, title_zh, year, director, duration_min, synopsis,
	poster_url, backdrop_url, rating, created_at, updated_at`

func scanMovie(row interface{ Scan(...any) error }, m *Movie) error {
	return row.Scan(
		&m.ID, &m.TitleEn, &m.TitleJa, &m.TitleZh, &m.Year, &m.Director, &m.Duration,
		&m.Synopsis, &m.PosterURL, &m.BackdropURL, &m.Rating, &m.CreatedAt, &m.UpdatedAt,
	)
}

// GetByID fetches a movie by its ID. It returns ErrMovieNotFound if no
// row is found.
func (r *MovieRepo) GetByID(ctx context.Context, id string) (*Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
	var m Movie
	if err := scanMovie(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListAll returns every movie in the catalog ordered by release year then
// English title. The catalog is small (tens of rows), so no pagination is
// applied here.
func (r *MovieRepo) ListAll(ctx context.Context) ([]Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies ORDER BY year ASC, title_en ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movie
	for rows.Next() {
		var m Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Search performs a case-insensitive substring match across the English,
// Japanese and Chinese titles and returns summary rows ordered by year.
// Callers are expected to enforce the minimum query length; this method
// always queries the store.
func (r *MovieRepo) Search(ctx context.Context, query string) ([]MovieSummary, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	const q = `SELECT id, title_en, title_ja, year, poster_url
	           FROM movies
	           WHERE LOWER(title_en) LIKE ?
	              OR LOWER(title_ja) LIKE ?
	              OR LOWER(COALESCE(title_zh, '')) LIKE ?
	           ORDER BY year ASC, title_en ASC`
	rows, err := r.db.QueryContext(ctx, q, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MovieSummary, 0, 8)
	for rows.Next() {
		var s MovieSummary
		if err := rows.Scan(&s.ID, &s.TitleEn, &s.TitleJa, &s.Year, &s.PosterURL); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
