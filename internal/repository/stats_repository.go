// Package repository contains data access logic separated from HTTP handlers.
// This file defines the MovieStats model and the atomic counter upsert.
// Stats rows are derived data: they are created on the first event for a
// movie and incremented thereafter, never recomputed or deleted.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Stat event kinds accepted by RecordEvent.
const (
	StatView     = "view"
	StatFavorite = "favorite"
	StatShare    = "share"
)

// MovieStats holds the per-movie counters. LastViewed is set only by
// view events and is nil until the first one.
type MovieStats struct {
	MovieID       string     `json:"movieId"`
	ViewCount     uint64     `json:"viewCount"`
	FavoriteCount uint64     `json:"favoriteCount"`
	ShareCount    uint64     `json:"shareCount"`
	LastViewed    *time.Time `json:"lastViewed"`
}

// ErrUnknownStatKind is returned when RecordEvent receives a kind outside
// the three enumerated values. Handlers should translate this into an
// HTTP 400 response.
var ErrUnknownStatKind = errors.New("unknown stat kind")

// StatsRepo manages persistence for movie stats.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo constructs a StatsRepo with the given DB handle.
func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// Get returns the counters for a movie. A movie with no stats row yet
// yields all-zero counters; an unknown movie yields ErrMovieNotFound.
func (r *StatsRepo) Get(ctx context.Context, movieID string) (*MovieStats, error) {
	// Verify the movie exists so a missing stats row can be reported as
	// zeros rather than a 404.
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ? LIMIT 1`, movieID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	const q = `SELECT movie_id, view_count, favorite_count, share_count, last_viewed
	           FROM movie_stats WHERE movie_id = ?`
	var s MovieStats
	err := r.db.QueryRowContext(ctx, q, movieID).Scan(
		&s.MovieID, &s.ViewCount, &s.FavoriteCount, &s.ShareCount, &s.LastViewed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return &MovieStats{MovieID: movieID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// RecordEvent atomically increments exactly one counter for the movie and
// returns the post-increment row. The increment is a single
// INSERT ... ON DUPLICATE KEY UPDATE so concurrent events for the same
// movie never lose updates; sibling counters are left untouched. A view
// event also stamps last_viewed. The movie must exist
// (ErrMovieNotFound otherwise) and kind must be one of StatView,
// StatFavorite or StatShare (ErrUnknownStatKind otherwise).
func (r *StatsRepo) RecordEvent(ctx context.Context, movieID, kind string) (*MovieStats, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ? LIMIT 1`, movieID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	var q string
	switch kind {
	case StatView:
		q = `INSERT INTO movie_stats (movie_id, view_count, favorite_count, share_count, last_viewed)
		     VALUES (?, 1, 0, 0, CURRENT_TIMESTAMP)
		     ON DUPLICATE KEY UPDATE view_count = view_count + 1, last_viewed = CURRENT_TIMESTAMP`
	case StatFavorite:
		q = `INSERT INTO movie_stats (movie_id, view_count, favorite_count, share_count)
		     VALUES (?, 0, 1, 0)
		     ON DUPLICATE KEY UPDATE favorite_count = favorite_count + 1`
	case StatShare:
		q = `INSERT INTO movie_stats (movie_id, view_count, favorite_count, share_count)
		     VALUES (?, 0, 0, 1)
		     ON DUPLICATE KEY UPDATE share_count = share_count + 1`
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatKind, kind)
	}

	if _, err := r.db.ExecContext(ctx, q, movieID); err != nil {
		return nil, err
	}

	const sel = `SELECT movie_id, view_count, favorite_count, share_count, last_viewed
	             FROM movie_stats WHERE movie_id = ?`
	var s MovieStats
	if err := r.db.QueryRowContext(ctx, sel, movieID).Scan(
		&s.MovieID, &s.ViewCount, &s.FavoriteCount, &s.ShareCount, &s.LastViewed,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
