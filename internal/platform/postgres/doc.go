// Package postgres implements the store interfaces on PostgreSQL, accessed
// through database/sql with the pgx stdlib driver. Database errors are
// translated to store sentinel errors in one place (MapError) so callers
// never match on driver-specific error types.
package postgres
