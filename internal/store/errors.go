// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by the key/value stores. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrKeyNotFound is returned by Get when the key is absent or expired.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnavailable is returned when the store cannot be reached in time or
	// the circuit breaker in front of it is open. Callers must fail closed.
	ErrUnavailable = errors.New("key/value store unavailable")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrAuditEventNotSaved is returned when an INSERT completes without
	// error but affects no rows.
	ErrAuditEventNotSaved = errors.New("audit event was not saved")

	// ErrNilDB is returned when a repository or migration is handed a nil
	// connection.
	ErrNilDB = errors.New("db is nil")
)
