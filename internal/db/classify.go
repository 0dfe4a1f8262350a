// filepath: internal/db/classify.go
package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes we translate into actionable diagnostics.
const (
	codeInvalidPassword      = "28P01"
	codeInvalidAuthorization = "28000"
	codeDatabaseMissing      = "3D000"
)

// Classify turns low-level connection and bootstrap errors into diagnostics
// an operator can act on. The original error stays wrapped for logs.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeInvalidPassword:
			return fmt.Errorf("database authentication failed: wrong password for user (check DB_PASSWORD or DATABASE_URL): %w", err)
		case codeInvalidAuthorization:
			return fmt.Errorf("database authentication failed (check DB_USER and pg_hba.conf): %w", err)
		case codeDatabaseMissing:
			return fmt.Errorf("database does not exist (create it or fix DB_NAME): %w", err)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return fmt.Errorf("database connection refused: is PostgreSQL running and reachable? %w", err)
	case strings.Contains(msg, "password authentication failed"):
		return fmt.Errorf("database authentication failed: wrong password for user (check DB_PASSWORD or DATABASE_URL): %w", err)
	}

	return fmt.Errorf("database error: %w", err)
}
