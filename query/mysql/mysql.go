// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mysql implements the query.Dialect for MySQL and MariaDB.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/query"
	"github.com/mgerste/relq/schema"
)

// Error messages.
var (
	ErrTableDoesNotExist = "mysql: table %s or column does not exist %v"
	ErrTableRelation     = "mysql: table %s or relation does not exist"
)

// constraint violation error numbers of the mysql server.
var constraintErrNumbers = map[uint16]bool{
	1062: true, // duplicate entry
	1169: true, // unique violation
	1216: true, // fk parent missing
	1217: true, // fk child exists
	1451: true, // row is referenced
	1452: true, // referenced row missing
	1557: true, // partition duplicate
}

type mysqlDialect struct {
	query.Base
}

// init registers the dialect under mysql.
func init() {
	err := query.Register("mysql", newMysql)
	if err != nil {
		panic(err)
	}
}

// newMysql creates a new query.Dialect.
func newMysql(cfg query.Config) (query.Dialect, error) {
	d := &mysqlDialect{}
	d.Base.Dialect = d
	d.Base.Cfg = cfg
	d.Base.P = &query.Placeholder{Char: "?"}
	d.Base.EscapeBackslash = true
	d.Base.Phrases = map[query.Phrase]string{
		query.PhraseQuoteOpen:        "`",
		query.PhraseQuoteClose:       "`",
		query.PhraseConcat:           "concat(?, {0})",
		query.PhraseBoolTrue:         "1",
		query.PhraseBoolFalse:        "0",
		query.PhraseCurrentDate:      "CURRENT_DATE()",
		query.PhraseCurrentDateTime:  "NOW()",
		query.PhraseCurrentTimestamp: "NOW()",
		query.FuncSubstring:          "substring(?, {0})",
		query.FuncStrIndex:           "instr(?, {0})",
		query.FuncCeiling:            "ceiling(?)",
		query.FuncTrunc:              "truncate(?,{0})",
	}
	return d, nil
}

// Open creates a new *sql.DB.
func (m *mysqlDialect) Open() error {

	if m.Cfg.Timeout == "" {
		m.Cfg.Timeout = "30s"
	}

	db, err := sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8&parseTime=true&timeout=%s",
		m.Cfg.Username, m.Cfg.Password, m.Cfg.Host, m.Cfg.Port, m.Cfg.Database, m.Cfg.Timeout))
	if err != nil {
		return err
	}

	m.SetDB(db)

	// call base Open function.
	return m.Base.Open()
}

// Supports reports the mysql capabilities.
func (m *mysqlDialect) Supports(f query.Feature) bool {
	switch f {
	case query.FeatureCreateSchema, query.FeatureLimitRows, query.FeatureSkipRows:
		return true
	}
	return false
}

// ApplyPagination appends LIMIT and OFFSET. A negative limit means skip
// only, mysql has no OFFSET without LIMIT so the documented maximum row
// count stands in.
func (m *mysqlDialect) ApplyPagination(stmt string, distinct bool, limit, skip int) string {
	if limit < 0 {
		stmt += " LIMIT 18446744073709551615"
	} else {
		stmt += " LIMIT " + strconv.Itoa(limit)
	}
	if skip > 0 {
		stmt += " OFFSET " + strconv.Itoa(skip)
	}
	return stmt
}

// IdentityClause for auto increment columns.
func (m *mysqlDialect) IdentityClause(col *schema.Column) string {
	return "AUTO_INCREMENT"
}

// ClassifyError inspects the mysql error number.
func (m *mysqlDialect) ClassifyError(err error) query.Kind {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return query.KindUnknown
	}
	if constraintErrNumbers[myErr.Number] {
		return query.KindConstraintViolation
	}
	if myErr.Number == 1054 { // unknown column
		return query.KindColumnNotFound
	}
	return query.KindUnknown
}

// TypeSQL renders the mysql DDL type of a column.
func (m *mysqlDialect) TypeSQL(col *schema.Column) (string, error) {
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
	case datatype.Double:
		return "DOUBLE", nil
	case datatype.Clob:
		return "LONGTEXT", nil
	case datatype.Blob:
		return "LONGBLOB", nil
	case datatype.DateTime, datatype.Timestamp:
		return "DATETIME", nil
	case datatype.Bool:
		return "TINYINT(1)", nil
	default:
		return m.Base.TypeSQL(col)
	}
}

// Describe the columns of the given table through information_schema.
func (m *mysqlDialect) Describe(db string, table string, columns ...string) ([]query.ColumnInfo, error) {
	if db == "" {
		db = m.Cfg.Database
	}

	stmt := "SELECT c.COLUMN_NAME, c.ORDINAL_POSITION," +
		" IF(c.IS_NULLABLE='YES','TRUE','FALSE')," +
		" IF(c.COLUMN_KEY='PRI','TRUE','FALSE')," +
		" IF(c.COLUMN_KEY='UNI','TRUE','FALSE')," +
		" c.COLUMN_TYPE, c.COLUMN_DEFAULT, c.CHARACTER_MAXIMUM_LENGTH," +
		" c.NUMERIC_PRECISION, c.NUMERIC_SCALE," +
		" IF(c.EXTRA='auto_increment','TRUE','FALSE')" +
		" FROM information_schema.COLUMNS c" +
		" WHERE c.TABLE_SCHEMA = ? AND c.TABLE_NAME = ?"
	args := []interface{}{db, table}

	if len(columns) > 0 {
		stmt += " AND c.COLUMN_NAME IN (" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
		for _, c := range columns {
			args = append(args, c)
		}
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

		var nullable, pk, unique, autoinc string
		if err := rows.Scan(&c.Name, &c.Position, &nullable, &pk, &unique, &c.Raw,
			&c.DefaultValue, &c.Length, &c.Precision, &c.Scale, &autoinc); err != nil {
			return nil, err
		}
		c.NullAble = datatype.ToBool(nullable)
		c.PrimaryKey = datatype.ToBool(pk)
		c.Unique = datatype.ToBool(unique)
		c.Autoincrement = datatype.ToBool(autoinc)
		c.Type = typeMapping(c.Raw, c.Autoincrement)
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
func (m *mysqlDialect) ForeignKey(db string, table string) ([]query.ForeignKey, error) {
	if db == "" {
		db = m.Cfg.Database
	}

	stmt := "SELECT tc.CONSTRAINT_NAME, tc.TABLE_NAME, cu.COLUMN_NAME, cu.REFERENCED_TABLE_NAME, cu.REFERENCED_COLUMN_NAME" +
		" FROM information_schema.KEY_COLUMN_USAGE cu, information_schema.TABLE_CONSTRAINTS tc" +
		" WHERE cu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME AND cu.TABLE_NAME = tc.TABLE_NAME" +
		" AND tc.CONSTRAINT_TYPE = 'FOREIGN KEY'" +
		" AND cu.TABLE_SCHEMA = ? AND tc.TABLE_SCHEMA = ? AND tc.TABLE_NAME = ?"

	rows, err := m.Query(context.Background(), stmt, []interface{}{db, db, table})
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

// typeMapping converts the raw mysql column type to a data type.
func typeMapping(raw string, autoinc bool) datatype.Type {
	raw = strings.ToLower(raw)

	switch {
	case strings.HasPrefix(raw, "tinyint(1)"), strings.HasPrefix(raw, "enum(0,1)"):
		return datatype.Bool
	case strings.HasPrefix(raw, "bigint"), strings.HasPrefix(raw, "int"),
		strings.HasPrefix(raw, "mediumint"), strings.HasPrefix(raw, "smallint"),
		strings.HasPrefix(raw, "tinyint"):
		if autoinc {
			return datatype.AutoInc
		}
		return datatype.Integer
	case strings.HasPrefix(raw, "decimal"), strings.HasPrefix(raw, "numeric"):
		return datatype.Decimal
	case strings.HasPrefix(raw, "float"), strings.HasPrefix(raw, "double"):
		return datatype.Double
	case strings.HasPrefix(raw, "char(36)"):
		return datatype.UniqueID
	case strings.HasPrefix(raw, "char"):
		return datatype.Char
	case strings.HasPrefix(raw, "varchar"):
		return datatype.Text
	case strings.HasPrefix(raw, "tinytext"), strings.HasPrefix(raw, "text"),
		strings.HasPrefix(raw, "mediumtext"), strings.HasPrefix(raw, "longtext"):
		return datatype.Clob
	case strings.HasPrefix(raw, "tinyblob"), strings.HasPrefix(raw, "blob"),
		strings.HasPrefix(raw, "mediumblob"), strings.HasPrefix(raw, "longblob"),
		strings.HasPrefix(raw, "binary"), strings.HasPrefix(raw, "varbinary"):
		return datatype.Blob
	case raw == "date":
		return datatype.Date
	case strings.HasPrefix(raw, "datetime"):
		return datatype.DateTime
	case strings.HasPrefix(raw, "timestamp"):
		return datatype.Timestamp
	default:
		return datatype.Unknown
	}
}
