// internal/lookup/registry.go

// Package lookup is the storage collaborator: it fetches scraped source
// records, resolves doctor names across the directory tables and answers
// registry membership checks.
package lookup

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRegistry answers registration-number membership against one
// register table.
type PostgresRegistry struct {
	db    *sql.DB
	table string
}

// NewGeneralRegistry covers the national medical register.
func NewGeneralRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db, table: "nmc_doctors"}
}

// NewDentalRegistry covers the national dental register.
func NewDentalRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db, table: "nmc_dental_doctors"}
}

// Exists reports whether the registration number is on the register.
func (r *PostgresRegistry) Exists(ctx context.Context, registrationID string) (bool, error) {
	query := fmt.Sprintf(
		`SELECT EXISTS (SELECT 1 FROM %s WHERE registration_no = $1)`, r.table)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, registrationID).Scan(&exists); err != nil {
		return false, fmt.Errorf("registry lookup on %s: %w", r.table, err)
	}
	return exists, nil
}
