// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Platform model and lookups. A platform is a
// service through which a movie can be watched (Netflix, Apple TV, a
// cinema chain, a physical release line) with a coarse access category.
package repository

import (
	"context"
	"database/sql"
)

// Platform access categories.
const (
	PlatformStreaming = "STREAMING"
	PlatformRental    = "RENTAL"
	PlatformPurchase  = "PURCHASE"
	PlatformFree      = "FREE"
	PlatformCinema    = "CINEMA"
	PlatformPhysical  = "PHYSICAL"
)

// Platform represents a viewing service tracked by the catalog.
type Platform struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LogoURL  string `json:"logoUrl"`
	Category string `json:"category"`
}

// PlatformRepo encapsulates database queries for platforms.
type PlatformRepo struct {
	db *sql.DB
}

// NewPlatformRepo constructs a PlatformRepo with the provided DB handle.
func NewPlatformRepo(db *sql.DB) *PlatformRepo {
	return &PlatformRepo{db: db}
}

// ListAll returns every platform ordered by display name ascending.
func (r *PlatformRepo) ListAll(ctx context.Context) ([]Platform, error) {
	const q = `SELECT id, name, logo_url, category FROM platforms ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Platform, 0, 16)
	for rows.Next() {
		var p Platform
		if err := rows.Scan(&p.ID, &p.Name, &p.LogoURL, &p.Category); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
