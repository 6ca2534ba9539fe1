// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/migrations"
)

// DB is a SQL connection together with the dialect specific helpers the
// repositories need.
type DB struct {
	*sql.DB
	dialect            string
	placeholder        sq.PlaceholderFormat
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// classify returns the retry classification of err. Dialects without a
// classifier never retry.
func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return NonRetryable
	}
	return db.errorClassificator.Classify(err)
}

// statementBuilder returns a squirrel builder using the dialect's
// placeholder format.
func (db *DB) statementBuilder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.placeholder)
}

// OpenAuditDB opens the audit database named by dsn. postgres:// and
// postgresql:// DSNs use pgx; file: DSNs and paths ending in .db or .sqlite
// use sqlite3.
func OpenAuditDB(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewConnectPostgres(ctx, dsn, log)
	case strings.HasPrefix(dsn, "file:"), strings.HasSuffix(dsn, ".db"), strings.HasSuffix(dsn, ".sqlite"):
		return NewConnectSQLite(ctx, dsn, log)
	default:
		return nil, fmt.Errorf("unsupported audit database dsn %q", redactDSN(dsn))
	}
}

// redactDSN keeps the scheme of dsn and hides the rest.
func redactDSN(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i+3] + "***"
	}
	return "***"
}
