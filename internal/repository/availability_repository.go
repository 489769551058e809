// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Availability model and the filtered join query the
// resolver is built on. An availability row states that one movie can be
// watched on one platform in one region, with an access type and optional
// metadata. Rows are written only by the seed tooling; the API reads.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"
)

// Availability access types.
const (
	AccessFree         = "FREE"
	AccessSubscription = "SUBSCRIPTION"
	AccessRental       = "RENTAL"
	AccessPurchase     = "PURCHASE"
)

// Availability is a viewing option: movie + platform + region + access
// type. URL, PriceInfo and Notes are optional columns; PriceInfo is
// free-form JSON and is passed through untouched. The joined Platform,
// Region and Movie summaries are always populated.
type Availability struct {
	ID          string          `json:"id"`
	MovieID     string          `json:"movieId"`
	PlatformID  string          `json:"platformId"`
	RegionID    string          `json:"regionId"`
	Type        string          `json:"type"`
	URL         *string         `json:"url"`
	PriceInfo   json.RawMessage `json:"priceInfo"`
	Notes       *string         `json:"notes"`
	LastChecked time.Time       `json:"lastChecked"`
	Platform    Platform        `json:"platform"`
	Region      Region          `json:"region"`
	Movie       MovieSummary    `json:"movie"`
}

// AvailabilityRepo encapsulates database queries for availability rows.
type AvailabilityRepo struct {
	db *sql.DB
}

// NewAvailabilityRepo constructs an AvailabilityRepo with the provided DB
// handle.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo {
	return &AvailabilityRepo{db: db}
}

// ListFiltered returns availability rows joined with their platform,
// region and movie summary. Both filters are optional: a non-empty
// movieID restricts to that movie, a non-empty regionCode restricts to
// the region whose code matches exactly (case-sensitive, AND semantics
// when both are given). Rows come back in stable insertion order; the
// resolver owns presentation ordering.
func (r *AvailabilityRepo) ListFiltered(ctx context.Context, movieID, regionCode string) ([]Availability, error) {
	where := []string{}
	args := []any{}
	if movieID != "" {
		where = append(where, "a.movie_id = ?")
		args = append(args, movieID)
	}
	if regionCode != "" {
		// BINARY forces a case-sensitive compare regardless of column collation.
		where = append(where, "BINARY rg.code = ?")
		args = append(args, regionCode)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	q := `SELECT
			a.id, a.movie_id, a.platform_id, a.region_id, a.type,
			a.url, a.price_info, a.notes, a.last_checked,
			p.id, p.name, p.logo_url, p.category,
			rg.id, rg.code, rg.name,
			m.id, m.title_en, m.title_ja, m.year, m.poster_url
		FROM availability a
		JOIN platforms p ON p.id = a.platform_id
		JOIN regions rg  ON rg.id = a.region_id
		JOIN movies m    ON m.id = a.movie_id
		WHERE ` + cond + `
		ORDER BY a.id ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Availability, 0, 16)
	for rows.Next() {
		var a Availability
		var priceInfo sql.NullString
		if err := rows.Scan(
			&a.ID, &a.MovieID, &a.PlatformID, &a.RegionID, &a.Type,
			&a.URL, &priceInfo, &a.Notes, &a.LastChecked,
			&a.Platform.ID, &a.Platform.Name, &a.Platform.LogoURL, &a.Platform.Category,
			&a.Region.ID, &a.Region.Code, &a.Region.Name,
			&a.Movie.ID, &a.Movie.TitleEn, &a.Movie.TitleJa, &a.Movie.Year, &a.Movie.PosterURL,
		); err != nil {
			return nil, err
		}
		if priceInfo.Valid && priceInfo.String != "" {
			a.PriceInfo = json.RawMessage(priceInfo.String)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
