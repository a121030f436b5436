// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"database/sql"

	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/logger"
	"github.com/mgerste/relq/schema"
)

// Feature flags a dialect capability that callers can probe before they
// rely on the generated SQL.
type Feature int

// All dialect features.
const (
	// FeatureCreateSchema - the dialect can emit CREATE SCHEMA/DATABASE.
	FeatureCreateSchema Feature = iota
	// FeatureSequences - the dialect has native sequence objects.
	FeatureSequences
	// FeatureLimitRows - pagination can limit the number of returned rows.
	FeatureLimitRows
	// FeatureSkipRows - pagination can skip leading rows.
	FeatureSkipRows
)

// GenKey describes which generated value AutoValue should produce.
type GenKey int

// All generation keys.
const (
	// GenAutoInc - the next value of the column sequence, or nil when the
	// dialect generates identity values server side.
	GenAutoInc GenKey = iota
	// GenUniqueID - a fresh UUID string.
	GenUniqueID
	// GenTimestamp - the server timestamp expression of the dialect.
	GenTimestamp
)

// Dialect is the vendor abstraction of the query package.
// A vendor package embeds Base and overrides what differs, the self
// reference keeps overridden methods visible to the shared logic.
type Dialect interface {
	// Open connects the underlying driver and pings it.
	Open() error
	// Config of the dialect.
	Config() Config
	// Executor returns the active execution boundary (db or tx).
	Executor() Executor
	// Tx starts a transaction scoped copy of the dialect.
	Tx() (Dialect, error)
	// HasTx reports whether the dialect is transaction scoped.
	HasTx() bool
	// Commit the active transaction.
	Commit() error
	// Rollback the active transaction.
	Rollback() error
	// DB returns the raw connection pool.
	DB() *sql.DB

	// SetLogger of the dialect.
	SetLogger(logger.Manager)
	// Logger of the dialect.
	Logger() logger.Manager

	// Phrase returns the vendor translation of a phrase. Unknown phrases
	// fall back to "?" and are logged once.
	Phrase(Phrase) string
	// Placeholder of the dialect.
	Placeholder() *Placeholder
	// QuoteChar returns open and close quote of the dialect.
	QuoteChar() (string, string)
	// QuoteIdentifier always quotes the given identifier(s), joined by a
	// period.
	QuoteIdentifier(...string) string
	// DetectQuote reports whether the identifier needs quoting (reserved
	// word or illegal character).
	DetectQuote(string) bool
	// QuoteName quotes the identifier only when needed or forced.
	QuoteName(name string, force *bool) string

	// ValueString renders a value as an inline SQL literal.
	ValueString(value interface{}, t datatype.Type) (string, error)
	// BindValue converts a value to its driver bind representation.
	BindValue(value interface{}, t datatype.Type) (interface{}, error)
	// DecodeValue converts a scanned driver value to the declared type.
	DecodeValue(value interface{}, t datatype.Type) (interface{}, error)
	// AutoValue produces the generated value for a column, or nil when
	// the server generates it.
	AutoValue(ctx context.Context, col *schema.Column, key GenKey) (interface{}, error)

	// ClassifyError maps a driver error to an error kind, KindUnknown
	// when the error is not recognized.
	ClassifyError(err error) Kind

	// Supports reports whether the dialect implements a feature.
	Supports(Feature) bool
	// ApplyPagination rewrites a rendered select for limit/skip.
	ApplyPagination(stmt string, distinct bool, limit, skip int) string

	// TypeSQL renders the DDL type of a column.
	TypeSQL(col *schema.Column) (string, error)
	// IdentityClause returns the inline auto increment clause, empty when
	// the vendor uses sequences instead.
	IdentityClause(col *schema.Column) string

	// Describe the columns of a database table.
	Describe(db string, table string, columns ...string) ([]ColumnInfo, error)
	// ForeignKey returns the foreign keys of a database table.
	ForeignKey(db string, table string) ([]ForeignKey, error)

	// Exec one or more statements with their parameter batches.
	Exec(ctx context.Context, stmt []string, args [][]interface{}) ([]sql.Result, error)
	// Query runs a select and returns all rows.
	Query(ctx context.Context, stmt string, args []interface{}) (*sql.Rows, error)
	// QueryRow runs a select and returns the first row.
	QueryRow(ctx context.Context, stmt string, args []interface{}) (*sql.Row, error)
	// QuerySingleValue scans the first column of the first row.
	QuerySingleValue(ctx context.Context, stmt string, args []interface{}, dest interface{}) error
}

// Executor is the minimal execution boundary, satisfied by *sql.DB and
// *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// ColumnInfo describes one column of an existing database table.
type ColumnInfo struct {
	Table         string
	Name          string
	Position      int
	NullAble      bool
	PrimaryKey    bool
	Unique        bool
	Type          datatype.Type
	Length        datatype.NullInt
	Precision     datatype.NullInt
	Scale         datatype.NullInt
	DefaultValue  datatype.NullString
	Autoincrement bool
	Raw           string
}

// ForeignKey describes a foreign key of an existing database table.
type ForeignKey struct {
	Name      string
	Primary   Reference
	Secondary Reference
}

// Reference is one side of a foreign key.
type Reference struct {
	Table  string
	Column string
}
