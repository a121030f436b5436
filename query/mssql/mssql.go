// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mssql implements the query.Dialect for Microsoft SQL Server.
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	mssqldb "github.com/denisenkom/go-mssqldb"
	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/query"
	"github.com/mgerste/relq/schema"
)

// Error messages.
var (
	ErrTableDoesNotExist = "mssql: table %s or column does not exist %v"
	ErrTableRelation     = "mssql: table %s or relation does not exist"
)

// constraint violation error numbers of the sql server.
var constraintErrNumbers = map[int32]bool{
	547:  true, // fk violation
	2601: true, // duplicate index row
	2627: true, // unique constraint
}

type mssqlDialect struct {
	query.Base
}

// init registers the dialect under mssql.
func init() {
	err := query.Register("mssql", newMssql)
	if err != nil {
		panic(err)
	}
}

// newMssql creates a new query.Dialect.
func newMssql(cfg query.Config) (query.Dialect, error) {
	d := &mssqlDialect{}
	d.Base.Dialect = d
	d.Base.Cfg = cfg
	d.Base.P = &query.Placeholder{Char: "@p", Numeric: true}
	d.Base.Phrases = map[query.Phrase]string{
		query.PhraseQuoteOpen:         "[",
		query.PhraseQuoteClose:        "]",
		query.PhraseConcat:            " + ",
		query.PhraseBoolTrue:          "1",
		query.PhraseBoolFalse:         "0",
		query.PhraseCurrentDate:       "convert(date, getdate())",
		query.PhraseCurrentDateTime:   "getdate()",
		query.PhraseCurrentTimestamp:  "getdate()",
		query.FuncSubstring:           "substring(?, {0}, 4000)",
		query.FuncStrIndex:            "charindex({0}, ?)",
		query.FuncTrunc:               "round(?,{0},1)",
		query.FuncReverse:             "reverse(?)",
		query.FuncDay:                 "day(?)",
		query.FuncMonth:               "month(?)",
		query.FuncYear:                "year(?)",
	}
	return d, nil
}

// Open creates a new *sql.DB.
func (m *mssqlDialect) Open() error {

	db, err := sql.Open("sqlserver", fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
		m.Cfg.Username, m.Cfg.Password, m.Cfg.Host, m.Cfg.Port, m.Cfg.Database))
	if err != nil {
		return err
	}

	m.SetDB(db)

	// call base Open function.
	return m.Base.Open()
}

// Supports reports the sql server capabilities.
// Row skipping has no pushdown here, TOP only limits.
func (m *mssqlDialect) Supports(f query.Feature) bool {
	switch f {
	case query.FeatureCreateSchema, query.FeatureLimitRows:
		return true
	}
	return false
}

// ApplyPagination injects TOP right after the select keyword.
func (m *mssqlDialect) ApplyPagination(stmt string, distinct bool, limit, skip int) string {
	top := "TOP " + strconv.Itoa(limit) + " "
	if distinct {
		return strings.Replace(stmt, "SELECT DISTINCT ", "SELECT DISTINCT "+top, 1)
	}
	return strings.Replace(stmt, "SELECT ", "SELECT "+top, 1)
}

// IdentityClause for auto increment columns. An integer default value
// acts as the identity seed. With UseSequenceTable set the column stays
// plain and values come from the sequence emulation.
func (m *mssqlDialect) IdentityClause(col *schema.Column) string {
	if m.Cfg.UseSequenceTable {
		return ""
	}
	seed := 1
	if col != nil {
		switch v := col.DefaultValue().(type) {
		case int:
			seed = v
		case int64:
			seed = int(v)
		}
	}
	if seed < 1 {
		seed = 1
	}
	return fmt.Sprintf("IDENTITY(%d,1)", seed)
}

// ClassifyError inspects the sql server error number.
func (m *mssqlDialect) ClassifyError(err error) query.Kind {
	var srvErr mssqldb.Error
	if !errors.As(err, &srvErr) {
		return query.KindUnknown
	}
	if constraintErrNumbers[srvErr.Number] {
		return query.KindConstraintViolation
	}
	if srvErr.Number == 207 { // invalid column name
		return query.KindColumnNotFound
	}
	return query.KindUnknown
}

// TypeSQL renders the sql server DDL type of a column.
func (m *mssqlDialect) TypeSQL(col *schema.Column) (string, error) {
	size := col.Size()
	switch col.DataType() {
	case datatype.Double:
		return "FLOAT", nil
	case datatype.Text:
		n := int(size)
		if n <= 0 {
			n = 255
		}
		return fmt.Sprintf("NVARCHAR(%d)", n), nil
	case datatype.Char:
		n := int(size)
		if n <= 0 {
			n = 1
		}
		return fmt.Sprintf("NCHAR(%d)", n), nil
	case datatype.Clob:
		return "NVARCHAR(MAX)", nil
	case datatype.Blob:
		return "VARBINARY(MAX)", nil
	case datatype.Date:
		return "DATE", nil
	case datatype.DateTime, datatype.Timestamp:
		return "DATETIME2", nil
	case datatype.Bool:
		return "BIT", nil
	case datatype.UniqueID:
		return "UNIQUEIDENTIFIER", nil
	default:
		return m.Base.TypeSQL(col)
	}
}

// Describe the columns of the given table through information_schema.
func (m *mssqlDialect) Describe(db string, table string, columns ...string) ([]query.ColumnInfo, error) {
	if db == "" {
		db = m.Cfg.Database
	}

	stmt := "SELECT c.COLUMN_NAME, c.ORDINAL_POSITION," +
		" CASE WHEN c.IS_NULLABLE='YES' THEN 'TRUE' ELSE 'FALSE' END," +
		" CASE WHEN pk.COLUMN_NAME IS NULL THEN 'FALSE' ELSE 'TRUE' END," +
		" c.DATA_TYPE, c.COLUMN_DEFAULT, c.CHARACTER_MAXIMUM_LENGTH," +
		" c.NUMERIC_PRECISION, c.NUMERIC_SCALE," +
		" CASE WHEN COLUMNPROPERTY(OBJECT_ID(c.TABLE_SCHEMA+'.'+c.TABLE_NAME), c.COLUMN_NAME, 'IsIdentity')=1 THEN 'TRUE' ELSE 'FALSE' END" +
		" FROM INFORMATION_SCHEMA.COLUMNS c" +
		" LEFT JOIN (SELECT ku.TABLE_CATALOG, ku.TABLE_NAME, ku.COLUMN_NAME" +
		"   FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc" +
		"   JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE ku ON tc.CONSTRAINT_NAME = ku.CONSTRAINT_NAME" +
		"   WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY') pk" +
		" ON c.TABLE_CATALOG = pk.TABLE_CATALOG AND c.TABLE_NAME = pk.TABLE_NAME AND c.COLUMN_NAME = pk.COLUMN_NAME" +
		" WHERE c.TABLE_CATALOG = " + query.PLACEHOLDER + " AND c.TABLE_NAME = " + query.PLACEHOLDER
	args := []interface{}{db, table}

	if len(columns) > 0 {
		var in []string
		for _, c := range columns {
			in = append(in, query.PLACEHOLDER)
			args = append(args, c)
		}
		stmt += " AND c.COLUMN_NAME IN (" + strings.Join(in, ", ") + ")"
	}
	stmt += " ORDER BY c.ORDINAL_POSITION"

	rows, err := m.Query(context.Background(), stmt, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []query.ColumnInfo
	for rows.Next() {
		var c query.ColumnInfo
		c.Table = table

		var nullable, pk, identity string
		if err := rows.Scan(&c.Name, &c.Position, &nullable, &pk, &c.Raw,
			&c.DefaultValue, &c.Length, &c.Precision, &c.Scale, &identity); err != nil {
			return nil, err
		}
		c.NullAble = datatype.ToBool(nullable)
		c.PrimaryKey = datatype.ToBool(pk)
		c.Autoincrement = datatype.ToBool(identity)
		c.Type = typeMapping(c.Raw, c)
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf(ErrTableDoesNotExist, db+"."+table, columns)
	}

	return cols, nil
}

// ForeignKey will return the foreign keys of the given table.
func (m *mssqlDialect) ForeignKey(db string, table string) ([]query.ForeignKey, error) {
	stmt := "SELECT f.name, OBJECT_NAME(f.parent_object_id), COL_NAME(fc.parent_object_id, fc.parent_column_id)," +
		" OBJECT_NAME(f.referenced_object_id), COL_NAME(fc.referenced_object_id, fc.referenced_column_id)" +
		" FROM sys.foreign_keys f" +
		" JOIN sys.foreign_key_columns fc ON f.object_id = fc.constraint_object_id" +
		" WHERE OBJECT_NAME(f.parent_object_id) = " + query.PLACEHOLDER

	rows, err := m.Query(context.Background(), stmt, []interface{}{table})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fKeys []query.ForeignKey
	for rows.Next() {
		var f query.ForeignKey
		if err := rows.Scan(&f.Name, &f.Primary.Table, &f.Primary.Column, &f.Secondary.Table, &f.Secondary.Column); err != nil {
			return nil, err
		}
		fKeys = append(fKeys, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(fKeys) == 0 {
		return nil, fmt.Errorf(ErrTableRelation, table)
	}

	return fKeys, nil
}

// typeMapping converts the raw sql server column type to a data type.
func typeMapping(raw string, c query.ColumnInfo) datatype.Type {
	switch strings.ToLower(raw) {
	case "tinyint", "smallint", "int", "bigint":
		if c.Autoincrement {
			return datatype.AutoInc
		}
		return datatype.Integer
	case "decimal", "numeric", "money", "smallmoney":
		return datatype.Decimal
	case "float", "real":
		return datatype.Double
	case "bit":
		return datatype.Bool
	case "char", "nchar":
		return datatype.Char
	case "varchar", "nvarchar":
		if !c.Length.Valid || c.Length.Int64 < 0 {
			return datatype.Clob
		}
		return datatype.Text
	case "text", "ntext", "xml":
		return datatype.Clob
	case "binary", "varbinary", "image":
		return datatype.Blob
	case "date":
		return datatype.Date
	case "smalldatetime", "datetime", "datetime2":
		return datatype.DateTime
	case "datetimeoffset":
		return datatype.Timestamp
	case "uniqueidentifier":
		return datatype.UniqueID
	default:
		return datatype.Unknown
	}
}
