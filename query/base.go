// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/logger"
	"github.com/mgerste/relq/schema"
)

// Error messages.
var (
	ErrDbNotSet = errors.New("query: DB is not set")
	ErrTxExists = errors.New("query: tx already exists")
)

// reservedWords that force identifier quoting in every dialect.
// Vendors extend the list through Base.ReservedWords.
var reservedWords = []string{
	"user", "group", "table", "column", "view", "index", "constraint",
	"select", "update", "insert", "alter", "delete", "order",
}

// Base implements the shared dialect behaviour.
// Vendors embed Base, set the Dialect self reference and override what
// differs. The self reference keeps overridden methods visible to the
// shared logic.
type Base struct {
	db      *sql.DB
	Cfg     Config
	Log     logger.Manager
	Dialect Dialect

	P               *Placeholder
	Phrases         map[Phrase]string
	ReservedWords   []string
	EscapeBackslash bool

	TransactionBase
	loggedPhrases map[Phrase]bool
}

// SetDB sets the *sql.DB.
func (b *Base) SetDB(db *sql.DB) {
	b.db = db
}

// DB returns the *sql.DB.
func (b *Base) DB() *sql.DB {
	return b.db
}

// Config of the dialect.
func (b *Base) Config() Config {
	return b.Cfg
}

// SetLogger of the dialect.
func (b *Base) SetLogger(l logger.Manager) {
	b.Log = l
}

// Logger of the dialect.
func (b *Base) Logger() logger.Manager {
	return b.Log
}

// Executor returns the active execution boundary.
// If a transaction is set, it will return the transaction.
func (b *Base) Executor() Executor {
	if b.HasTx() {
		return b.TransactionBase.Tx
	}
	return b.db
}

// Tx will create a sql.Tx.
// Error will return if a tx was already set or the driver returns one.
func (b *Base) Tx() (Dialect, error) {
	if b.HasTx() {
		return nil, ErrTxExists
	}
	var err error
	b.TransactionBase.Tx, err = b.Dialect.DB().Begin()
	if err != nil {
		return nil, err
	}
	return b.Dialect, nil
}

// Open will set some basic sql settings and check the connection.
// All defined config.PreQuery statements will run here.
func (b *Base) Open() error {

	if b.db == nil {
		return ErrDbNotSet
	}

	// settings
	b.db.SetMaxIdleConns(b.Cfg.MaxIdleConnections) // go default 2
	b.db.SetMaxOpenConns(b.Cfg.MaxOpenConnections) // go default 0
	b.db.SetConnMaxLifetime(b.Cfg.MaxConnLifetime) // go default 0

	// check connection
	err := b.db.Ping()
	if err != nil {
		return err
	}

	for _, v := range b.Cfg.PreQuery {
		_, err = b.db.Exec(v)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
	}

	return nil
}

// Phrase returns the vendor translation of a phrase.
// Unknown phrases fall back to "?" and are logged once.
func (b *Base) Phrase(p Phrase) string {
	if v, ok := b.Phrases[p]; ok {
		return v
	}
	if v, ok := defaultPhrases[p]; ok {
		return v
	}
	if b.Log != nil && !b.loggedPhrases[p] {
		if b.loggedPhrases == nil {
			b.loggedPhrases = map[Phrase]bool{}
		}
		b.loggedPhrases[p] = true
		b.Log.Warning(fmt.Sprintf("query: no translation for phrase %d, using %q", p, PLACEHOLDER))
	}
	return PLACEHOLDER
}

// Placeholder of the dialect.
func (b *Base) Placeholder() *Placeholder {
	if b.P != nil {
		return &Placeholder{Numeric: b.P.Numeric, Char: b.P.Char}
	}
	return &Placeholder{Char: PLACEHOLDER}
}

// QuoteChar returns the open and close quote of the dialect.
func (b *Base) QuoteChar() (string, string) {
	return b.Dialect.Phrase(PhraseQuoteOpen), b.Dialect.Phrase(PhraseQuoteClose)
}

// QuoteIdentifier quotes the given identifier(s) and joins them with a
// period. Already quoted parts are normalized first.
func (b *Base) QuoteIdentifier(names ...string) string {
	oq, cq := b.Dialect.QuoteChar()
	var sb strings.Builder
	for i, n := range names {
		if i > 0 {
			sb.WriteString(".")
		}
		if oq != "" {
			n = strings.ReplaceAll(n, oq, "")
		}
		if cq != "" {
			n = strings.ReplaceAll(n, cq, "")
		}
		sb.WriteString(oq)
		sb.WriteString(n)
		sb.WriteString(cq)
	}
	return sb.String()
}

// DetectQuote reports whether the identifier must be quoted because it
// is a reserved word or contains illegal characters.
func (b *Base) DetectQuote(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, w := range reservedWords {
		if lower == w {
			return true
		}
	}
	for _, w := range b.ReservedWords {
		if lower == strings.ToLower(w) {
			return true
		}
	}
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return true
	}
	return false
}

// QuoteName quotes the identifier only when needed or forced.
func (b *Base) QuoteName(name string, force *bool) string {
	if force != nil {
		if *force {
			return b.Dialect.QuoteIdentifier(name)
		}
		return name
	}
	if b.Dialect.DetectQuote(name) {
		return b.Dialect.QuoteIdentifier(name)
	}
	return name
}

// ValueString renders a value as an inline SQL literal for the given
// data type.
func (b *Base) ValueString(value interface{}, t datatype.Type) (string, error) {
	if value == nil {
		return b.Dialect.Phrase(PhraseNull), nil
	}

	if datatype.IsSysDate(value) {
		switch t {
		case datatype.Date:
			return b.Dialect.Phrase(PhraseCurrentDate), nil
		case datatype.DateTime:
			return b.Dialect.Phrase(PhraseCurrentDateTime), nil
		default:
			return b.Dialect.Phrase(PhraseCurrentTimestamp), nil
		}
	}

	v, err := datatype.Check(value, t)
	if err != nil {
		return "", WrapError(KindInvalidArgument, err, "literal of type %s", t)
	}

	switch t {
	case datatype.Integer, datatype.AutoInc:
		return strconv.FormatInt(v.(int64), 10), nil
	case datatype.Decimal, datatype.Double:
		return strconv.FormatFloat(v.(float64), 'f', -1, 64), nil
	case datatype.Bool:
		if v.(bool) {
			return b.Dialect.Phrase(PhraseBoolTrue), nil
		}
		return b.Dialect.Phrase(PhraseBoolFalse), nil
	case datatype.Date:
		return b.datePhrase(v.(time.Time), PhraseDatePattern, PhraseDateTemplate), nil
	case datatype.DateTime:
		return b.datePhrase(v.(time.Time), PhraseDateTimePattern, PhraseDateTimeTemplate), nil
	case datatype.Timestamp:
		return b.datePhrase(v.(time.Time), PhraseTimestampPattern, PhraseTimestampTemplate), nil
	case datatype.Blob:
		return "", NewError(KindNotSupported, "blob values can not render as literal")
	case datatype.Text, datatype.Char, datatype.Clob, datatype.UniqueID:
		return b.textLiteral(v.(string)), nil
	default:
		if s, ok := v.(string); ok {
			return b.textLiteral(s), nil
		}
		return fmt.Sprintf("%v", v), nil
	}
}

// datePhrase formats the time with the dialect pattern and injects it
// into the dialect template.
func (b *Base) datePhrase(t time.Time, pattern, template Phrase) string {
	formatted := t.Format(b.Dialect.Phrase(pattern))
	return strings.Replace(b.Dialect.Phrase(template), "{0}", formatted, 1)
}

// textLiteral escapes and quotes a string value.
// Single quotes are doubled, backslashes only for vendors that treat
// them as escape character.
func (b *Base) textLiteral(s string) string {
	if b.EscapeBackslash {
		s = strings.ReplaceAll(s, "\\", "\\\\")
	}
	s = strings.ReplaceAll(s, "'", "''")
	return "'" + s + "'"
}

// BindValue converts a value to its driver bind representation.
// Lob wrappers are materialized, sql/driver values pass through.
func (b *Base) BindValue(value interface{}, t datatype.Type) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	if datatype.IsSysDate(value) {
		return nil, NewError(KindInvalidArgument, "server timestamps must render inline")
	}

	switch v := value.(type) {
	case datatype.BlobData:
		data, err := io.ReadAll(v.Reader)
		if err != nil {
			return nil, WrapError(KindInvalidArgument, err, "reading blob data")
		}
		return data, nil
	case datatype.ClobData:
		data, err := io.ReadAll(v.Reader)
		if err != nil {
			return nil, WrapError(KindInvalidArgument, err, "reading clob data")
		}
		return string(data), nil
	case driver.Valuer:
		return v, nil
	}

	v, err := datatype.Check(value, t)
	if err != nil {
		return nil, WrapError(KindInvalidArgument, err, "bind value of type %s", t)
	}
	return v, nil
}

// DecodeValue converts a scanned driver value to the declared type.
func (b *Base) DecodeValue(value interface{}, t datatype.Type) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case []byte:
		switch {
		case t == datatype.Blob:
			return v, nil
		case t.IsText() || t == datatype.UniqueID:
			return string(v), nil
		case t.IsNumeric() || t.IsDateTime() || t == datatype.Bool:
			return datatype.Check(string(v), t)
		}
		return v, nil
	case time.Time:
		return v, nil
	case int64:
		if t == datatype.Bool {
			return v != 0, nil
		}
		return datatype.Check(v, t)
	case string:
		if t.IsText() || t == datatype.UniqueID {
			return v, nil
		}
		return datatype.Check(v, t)
	default:
		return datatype.Check(value, t)
	}
}

// AutoValue produces the generated value for a column.
// A nil value means the server generates it during the insert.
func (b *Base) AutoValue(ctx context.Context, col *schema.Column, key GenKey) (interface{}, error) {
	switch key {
	case GenUniqueID:
		return uuid.NewString(), nil
	case GenTimestamp:
		return datatype.SysDate, nil
	case GenAutoInc:
		if b.Dialect.IdentityClause(col) != "" {
			// identity column, generated server side.
			return nil, nil
		}
		return NewSequence(b.Dialect).NextValue(ctx, col.SequenceName())
	}
	return nil, NewError(KindInvalidArgument, "unknown generation key %d", key)
}

// Supports reports whether the dialect implements a feature.
// The base dialect is conservative, vendors enable what they have.
func (b *Base) Supports(Feature) bool {
	return false
}

// ApplyPagination is a no-op for the base dialect.
func (b *Base) ApplyPagination(stmt string, distinct bool, limit, skip int) string {
	return stmt
}

// TypeSQL renders the ANSI DDL type of a column. Vendors override the
// types that differ.
func (b *Base) TypeSQL(col *schema.Column) (string, error) {
	size := col.Size()
	switch col.DataType() {
	case datatype.Integer, datatype.AutoInc:
		switch {
		case size > 0 && size <= 2:
			return "SMALLINT", nil
		case size > 4:
			return "BIGINT", nil
		default:
			return "INT", nil
		}
	case datatype.Decimal:
		prec := int(size)
		if prec <= 0 {
			return "DECIMAL", nil
		}
		scale := int((size-float64(prec))*10 + 0.5)
		return fmt.Sprintf("DECIMAL(%d,%d)", prec, scale), nil
	case datatype.Double:
		return "DOUBLE PRECISION", nil
	case datatype.Text:
		n := int(size)
		if n <= 0 {
			n = 255
		}
		return fmt.Sprintf("VARCHAR(%d)", n), nil
	case datatype.Char:
		n := int(size)
		if n <= 0 {
			n = 1
		}
		return fmt.Sprintf("CHAR(%d)", n), nil
	case datatype.Clob:
		return "CLOB", nil
	case datatype.Blob:
		return "BLOB", nil
	case datatype.Date:
		return "DATE", nil
	case datatype.DateTime, datatype.Timestamp:
		return "TIMESTAMP", nil
	case datatype.Bool:
		return "BOOLEAN", nil
	case datatype.UniqueID:
		return "CHAR(36)", nil
	default:
		return "", NewError(KindInvalidArgument, "column %s has no data type", col.Name())
	}
}

// IdentityClause is empty for the base dialect, sequences are used
// instead.
func (b *Base) IdentityClause(col *schema.Column) string {
	return ""
}

// ClassifyError maps a driver error to an error kind.
// The base dialect can not inspect vendor error codes.
func (b *Base) ClassifyError(err error) Kind {
	return KindUnknown
}

// Describe is not implemented in the base dialect.
func (b *Base) Describe(db string, table string, columns ...string) ([]ColumnInfo, error) {
	return nil, NewError(KindNotSupported, "describe is not implemented for %s", b.Cfg.Provider)
}

// ForeignKey is not implemented in the base dialect.
func (b *Base) ForeignKey(db string, table string) ([]ForeignKey, error) {
	return nil, NewError(KindNotSupported, "foreign keys are not implemented for %s", b.Cfg.Provider)
}

// Exec will execute the given statements with their argument batches.
// If a transaction is set, it will run in the transaction. A batch
// without transaction will automatically create and commit one.
func (b *Base) Exec(ctx context.Context, stmt []string, args [][]interface{}) ([]sql.Result, error) {

	// set logger
	if b.Log != nil {
		l := b.Log.WithTimer()
		defer l.Debug(strings.Join(stmt, "; "))
	}

	// set a transaction if its a batch
	var autoCommit bool
	if !b.HasTx() && len(args) > 1 {
		_, err := b.Tx()
		if err != nil {
			return nil, err
		}
		autoCommit = true
	}

	p := b.Dialect.Placeholder()
	var results []sql.Result
	for i, arg := range args {
		s := replacePlaceholders(stmt[i], p)
		res, err := b.Executor().ExecContext(ctx, s, arg...)
		if err != nil {
			kind := b.Dialect.ClassifyError(err)
			if kind == KindUnknown {
				kind = KindStatementFailed
			}
			err = WrapError(kind, err, "exec %q", s)
			if b.HasTx() {
				if rErr := b.Rollback(); rErr != nil {
					// keep the statement error, it caused the rollback.
					return nil, fmt.Errorf("%w (rollback: %v)", err, rErr)
				}
			}
			return nil, err
		}
		results = append(results, res)
	}

	if autoCommit {
		return results, b.Commit()
	}

	return results, nil
}

// Query runs a select and returns all rows.
// If a logger is defined, the query will be logged on DEBUG lvl with a
// timer.
func (b *Base) Query(ctx context.Context, stmt string, args []interface{}) (*sql.Rows, error) {
	if b.Log != nil {
		l := b.Log.WithTimer()
		defer l.Debug(stmt)
	}

	s := replacePlaceholders(stmt, b.Dialect.Placeholder())
	rows, err := b.Executor().QueryContext(ctx, s, args...)
	if err != nil {
		kind := b.Dialect.ClassifyError(err)
		if kind == KindUnknown {
			kind = KindQueryFailed
		}
		return nil, WrapError(kind, err, "query %q", s)
	}
	return rows, nil
}

// QueryRow runs a select and returns the first row.
func (b *Base) QueryRow(ctx context.Context, stmt string, args []interface{}) (*sql.Row, error) {
	if b.Log != nil {
		l := b.Log.WithTimer()
		defer l.Debug(stmt)
	}

	s := replacePlaceholders(stmt, b.Dialect.Placeholder())
	return b.Executor().QueryRowContext(ctx, s, args...), nil
}

// QuerySingleValue scans the first column of the first row into dest.
// Error of kind QueryNoResult returns when the query has no rows.
func (b *Base) QuerySingleValue(ctx context.Context, stmt string, args []interface{}, dest interface{}) error {
	row, err := b.Dialect.QueryRow(ctx, stmt, args)
	if err != nil {
		return err
	}
	err = row.Scan(dest)
	if errors.Is(err, sql.ErrNoRows) {
		return WrapError(KindQueryNoResult, err, "query %q", stmt)
	}
	if err != nil {
		kind := b.Dialect.ClassifyError(err)
		if kind == KindUnknown {
			kind = KindQueryFailed
		}
		return WrapError(kind, err, "query %q", stmt)
	}
	return nil
}
