// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Region model and lookups. Regions are reference
// data (ISO-like code plus display name) maintained by the seed tooling.
// The regions table may not exist yet on a fresh deployment; callers must
// consult the SchemaGate before querying.
package repository

import (
	"context"
	"database/sql"
)

// Region represents a geographic market in which availability is tracked.
type Region struct {
	ID   string `json:"id"`
	Code string `json:"code"` // e.g. "US", "JP"; matched case-sensitively
	Name string `json:"name"`
}

// RegionRepo encapsulates database queries for regions.
type RegionRepo struct {
	db *sql.DB
}

// NewRegionRepo constructs a RegionRepo with the provided DB handle.
func NewRegionRepo(db *sql.DB) *RegionRepo {
	return &RegionRepo{db: db}
}

// ListAll returns every region ordered by display name ascending.
func (r *RegionRepo) ListAll(ctx context.Context) ([]Region, error) {
	const q = `SELECT id, code, name FROM regions ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Region, 0, 16)
	for rows.Next() {
		var reg Region
		if err := rows.Scan(&reg.ID, &reg.Code, &reg.Name); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
