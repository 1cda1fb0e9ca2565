// Package cerr classifies the database errors which the scenarios and
// migrations care about. The serialization-conflict signal (SQLSTATE
// 40001) is the only error class which a scenario may expect to see,
// hence, it deserves its own predicate. All other database errors are
// unexpected and must be propagated to fail the ongoing operation.
package cerr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SerializationFailureCode is the SQLSTATE code which PostgreSQL
// reports when a transaction cannot be committed (or continued)
// without violating the serializable ordering of transactions,
// including the could-not-serialize-access errors which are raised
// by the REPEATABLE READ and SERIALIZABLE isolation levels.
const SerializationFailureCode = "40001"

// IsSerializationFailure reports if the `err` error chain contains a
// PostgreSQL error with the SQLSTATE 40001 code. Scenarios use this
// predicate in order to tell an expected serialization conflict apart
// from a genuine failure.
func IsSerializationFailure(err error) bool {
	return SQLState(err) == SerializationFailureCode
}

// SQLState extracts the SQLSTATE code out of the `err` error chain,
// returning an empty string if no *pgconn.PgError is wrapped there.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState()
	}
	return ""
}

// UnknownVersionError indicates that a migration operation was asked
// for a schema version which is not registered at all.
type UnknownVersionError struct {
	Version uint
}

// Error describes the unknown schema version.
func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("unknown schema version: %d", e.Version)
}
