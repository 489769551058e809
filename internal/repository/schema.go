// Package repository contains data access logic separated from HTTP handlers.
// This file implements the schema gate: the availability, platform and
// region tables are rolled out independently of the catalog tables, so
// every read path that touches them first checks that they exist. The
// probe runs once per process against information_schema and is cached;
// Refresh allows tooling (migrations, seeding) to invalidate the cache
// after changing the schema.
package repository

import (
	"context"
	"database/sql"
	"sync"
)

// SchemaGate answers whether a set of tables is queryable in the current
// database. A missing table is a normal state, not an error: callers
// short-circuit to empty results instead of issuing a query that would
// fail.
type SchemaGate struct {
	db     *sql.DB
	mu     sync.Mutex
	probed bool
	tables map[string]bool
}

// NewSchemaGate constructs a SchemaGate over the given DB handle. No
// probing happens until the first Ready call.
func NewSchemaGate(db *sql.DB) *SchemaGate {
	return &SchemaGate{db: db}
}

// Ready reports whether every named table exists. The underlying probe
// runs at most once per process; a probe failure (store unreachable) is
// returned as an error so callers can distinguish "schema not rolled
// out" from "store down".
func (g *SchemaGate) Ready(ctx context.Context, tables ...string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.probed {
		if err := g.probeLocked(ctx); err != nil {
			return false, err
		}
	}
	for _, t := range tables {
		if !g.tables[t] {
			return false, nil
		}
	}
	return true, nil
}

// Refresh discards the cached probe result and re-queries
// information_schema. It is used by the migration and seed tools after
// they change the schema.
func (g *SchemaGate) Refresh(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.probeLocked(ctx)
}

// probeLocked loads the set of table names in the current schema. The
// caller must hold g.mu.
func (g *SchemaGate) probeLocked(ctx context.Context) error {
	const q = `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE()`
	rows, err := g.db.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		set[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	g.tables = set
	g.probed = true
	return nil
}
