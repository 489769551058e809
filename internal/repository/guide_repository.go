// Package repository contains data access logic separated from HTTP handlers.
// This file defines the WatchGuide model and lookups. A guide is an
// editorial, ordered list of movies (e.g. a beginner's viewing order);
// only published guides are visible through the public API.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Guide types.
const (
	GuideChronological = "CHRONOLOGICAL"
	GuideBeginner      = "BEGINNER"
	GuideThematic      = "THEMATIC"
	GuideFamily        = "FAMILY"
	GuideAdvanced      = "ADVANCED"
	GuideSeasonal      = "SEASONAL"
)

// WatchGuide represents an editorial viewing guide.
type WatchGuide struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GuideType   string    `json:"guideType"`
	IsPublished bool      `json:"-"`
	SortOrder   int       `json:"order"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// GuideMovie is a movie entry inside a guide, carrying the guide-specific
// position and editorial note.
type GuideMovie struct {
	MovieSummary
	SortOrder int     `json:"order"`
	Notes     *string `json:"notes"`
}

// GuideDetail is a guide with its ordered movies and a handful of
// related guides of the same type.
type GuideDetail struct {
	WatchGuide
	Movies        []GuideMovie `json:"movies"`
	RelatedGuides []WatchGuide `json:"relatedGuides"`
}

// GuideRepo manages read access to watch guides.
type GuideRepo struct {
	db *sql.DB
}

// NewGuideRepo constructs a GuideRepo with the given DB handle.
func NewGuideRepo(db *sql.DB) *GuideRepo {
	return &GuideRepo{db: db}
}

// List returns a page of published guides plus the total count,
// optionally filtered by guide type, ordered by sort_order.
func (r *GuideRepo) List(ctx context.Context, guideType string, page, pageSize int) ([]WatchGuide, int64, error) {
	where := []string{"is_published = TRUE"}
	args := []any{}
	if guideType != "" {
		where = append(where, "guide_type = ?")
		args = append(args, guideType)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM watch_guides WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := `SELECT id, title, description, guide_type, is_published, sort_order, created_at, updated_at
	            FROM watch_guides
	            WHERE ` + cond + `
	            ORDER BY sort_order ASC, created_at ASC
	            LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]WatchGuide, 0, pageSize)
	for rows.Next() {
		var g WatchGuide
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.GuideType, &g.IsPublished,
			&g.SortOrder, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID returns a published guide with its ordered movies and up to
// three related guides of the same type. Missing and unpublished guides
// both yield ErrGuideNotFound.
func (r *GuideRepo) GetByID(ctx context.Context, id string) (*GuideDetail, error) {
	const q = `SELECT id, title, description, guide_type, is_published, sort_order, created_at, updated_at
	           FROM watch_guides WHERE id = ? AND is_published = TRUE`
	var d GuideDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.Title, &d.Description, &d.GuideType, &d.IsPublished,
		&d.SortOrder, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuideNotFound
	}
	if err != nil {
		return nil, err
	}

	const qMovies = `SELECT m.id, m.title_en, m.title_ja, m.year, m.poster_url, gm.sort_order, gm.notes
	                 FROM watch_guide_movies gm
	                 JOIN movies m ON m.id = gm.movie_id
	                 WHERE gm.guide_id = ?
	                 ORDER BY gm.sort_order ASC`
	rows, err := r.db.QueryContext(ctx, qMovies, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	d.Movies = make([]GuideMovie, 0, 8)
	for rows.Next() {
		var gm GuideMovie
		if err := rows.Scan(&gm.ID, &gm.TitleEn, &gm.TitleJa, &gm.Year, &gm.PosterURL,
			&gm.SortOrder, &gm.Notes); err != nil {
			return nil, err
		}
		d.Movies = append(d.Movies, gm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qRelated = `SELECT id, title, description, guide_type, is_published, sort_order, created_at, updated_at
	                  FROM watch_guides
	                  WHERE guide_type = ? AND is_published = TRUE AND id <> ?
	                  ORDER BY sort_order ASC
	                  LIMIT 3`
	relRows, err := r.db.QueryContext(ctx, qRelated, d.GuideType, id)
	if err != nil {
		return nil, err
	}
	defer relRows.Close()

	d.RelatedGuides = make([]WatchGuide, 0, 3)
	for relRows.Next() {
		var g WatchGuide
		if err := relRows.Scan(&g.ID, &g.Title, &g.Description, &g.GuideType, &g.IsPublished,
			&g.SortOrder, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		d.RelatedGuides = append(d.RelatedGuides, g)
	}
	if err := relRows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}
