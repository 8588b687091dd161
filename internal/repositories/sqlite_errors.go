package repositories

import (
	"database/sql"
	"errors"
	"strings"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx, so repository
// operations can run standalone or inside a service-managed transaction.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// isUniqueViolation reports whether err is the storage-layer uniqueness
// constraint firing. The constraint is the authoritative conflict signal for
// seat claims and route duplicates; application-level pre-checks are only an
// optimization.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	// Fallback for wrapped drivers (tests use sqlmock).
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isBusy reports a locked store file or a stale WAL read snapshot, surfaced
// to callers as retryable. Extended codes (SQLITE_BUSY_SNAPSHOT,
// SQLITE_BUSY_RECOVERY, SQLITE_LOCKED_SHAREDCACHE) carry the primary code in
// the low byte, so a write that loses the check-then-act window to another
// connection lands here too.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}
	return false
}
