// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package oracle implements the query.Dialect for Oracle databases.
package oracle

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/query"
	"github.com/mgerste/relq/schema"
	_ "gopkg.in/rana/ora.v4" // oracle driver
)

// Error messages.
var (
	ErrTableDoesNotExist = "oracle: table %s or column does not exist %v"
)

type oracleDialect struct {
	query.Base
}

// init registers the dialect under oracle.
func init() {
	err := query.Register("oracle", newOracle)
	if err != nil {
		panic(err)
	}
}

// newOracle creates a new query.Dialect.
// Identifiers stay unquoted, oracle folds unquoted names to upper case
// and quoting would make them case sensitive.
func newOracle(cfg query.Config) (query.Dialect, error) {
	d := &oracleDialect{}
	d.Base.Dialect = d
	d.Base.Cfg = cfg
	d.Base.P = &query.Placeholder{Char: ":", Numeric: true}
	d.Base.Phrases = map[query.Phrase]string{
		query.PhraseQuoteOpen:         "",
		query.PhraseQuoteClose:        "",
		query.PhraseBoolTrue:          "1",
		query.PhraseBoolFalse:         "0",
		query.PhraseCurrentDate:       "sysdate",
		query.PhraseCurrentDateTime:   "sysdate",
		query.PhraseCurrentTimestamp:  "systimestamp",
		query.PhraseDateTemplate:      "TO_DATE('{0}', 'YYYY-MM-DD')",
		query.PhraseDateTimeTemplate:  "TO_DATE('{0}', 'YYYY-MM-DD HH24:MI:SS')",
		query.PhraseTimestampTemplate: "TO_TIMESTAMP('{0}', 'YYYY.MM.DD HH24:MI:SS.FF')",
		query.PhraseTimestampPattern:  "2006.01.02 15:04:05.000000",
		query.FuncSubstring:           "substr(?, {0})",
		query.FuncStrIndex:            "instr(?, {0})",
		query.FuncTrunc:               "trunc(?,{0})",
		query.FuncCeiling:             "ceil(?)",
		query.FuncLength:              "length(?)",
		query.FuncDay:                 "extract(day from ?)",
		query.FuncMonth:               "extract(month from ?)",
		query.FuncYear:                "extract(year from ?)",
	}
	return d, nil
}

// Open creates a new *sql.DB.
func (o *oracleDialect) Open() error {

	db, err := sql.Open("ora", fmt.Sprintf("%s/%s@%s:%d/%s",
		o.Cfg.Username, o.Cfg.Password, o.Cfg.Host, o.Cfg.Port, o.Cfg.Database))
	if err != nil {
		return err
	}

	o.SetDB(db)

	// call base Open function.
	return o.Base.Open()
}

// DetectQuote never quotes, see newOracle.
func (o *oracleDialect) DetectQuote(name string) bool {
	return false
}

// Supports reports the oracle capabilities.
func (o *oracleDialect) Supports(f query.Feature) bool {
	switch f {
	case query.FeatureSequences, query.FeatureLimitRows, query.FeatureSkipRows:
		return true
	}
	return false
}

// ApplyPagination wraps the statement with a ROWNUM filter, skipping
// additionally needs the ROW_NUMBER window of a second wrap.
func (o *oracleDialect) ApplyPagination(stmt string, distinct bool, limit, skip int) string {
	if skip > 0 {
		wrap := "SELECT * FROM (SELECT q.*, ROWNUM rnum FROM (" + stmt + ") q"
		if limit >= 0 {
			wrap += " WHERE ROWNUM <= " + strconv.Itoa(skip+limit)
		}
		return wrap + ") WHERE rnum > " + strconv.Itoa(skip)
	}
	return "SELECT * FROM (" + stmt + ") WHERE ROWNUM <= " + strconv.Itoa(limit)
}

// AutoValue uses native sequences for auto increment columns.
func (o *oracleDialect) AutoValue(ctx context.Context, col *schema.Column, key query.GenKey) (interface{}, error) {
	if key == query.GenAutoInc {
		var next int64
		stmt := "SELECT " + col.SequenceName() + ".NEXTVAL FROM DUAL"
		if err := o.QuerySingleValue(ctx, stmt, nil, &next); err != nil {
			return nil, err
		}
		return next, nil
	}
	return o.Base.AutoValue(ctx, col, key)
}

// TypeSQL renders the oracle DDL type of a column.
func (o *oracleDialect) TypeSQL(col *schema.Column) (string, error) {
	size := col.Size()
	switch col.DataType() {
	case datatype.Integer, datatype.AutoInc:
		if size > 4 {
			return "NUMBER(19,0)", nil
		}
		return "NUMBER(10,0)", nil
	case datatype.Decimal:
		prec := int(size)
		if prec <= 0 {
			return "NUMBER", nil
		}
		scale := int((size-float64(prec))*10 + 0.5)
		return fmt.Sprintf("NUMBER(%d,%d)", prec, scale), nil
	case datatype.Double:
		return "BINARY_DOUBLE", nil
	case datatype.Text:
		n := int(size)
		if n <= 0 {
			n = 255
		}
		return fmt.Sprintf("VARCHAR2(%d CHAR)", n), nil
	case datatype.Char:
		n := int(size)
		if n <= 0 {
			n = 1
		}
		return fmt.Sprintf("CHAR(%d CHAR)", n), nil
	case datatype.Bool:
		return "NUMBER(1,0)", nil
	case datatype.Date:
		return "DATE", nil
	case datatype.DateTime:
		return "DATE", nil
	case datatype.Timestamp:
		return "TIMESTAMP", nil
	default:
		return o.Base.TypeSQL(col)
	}
}

// Describe the columns of the given table through ALL_TAB_COLUMNS.
func (o *oracleDialect) Describe(db string, table string, columns ...string) ([]query.ColumnInfo, error) {
	table = strings.ToUpper(table)

	stmt := "SELECT COLUMN_NAME, COLUMN_ID," +
		" case when NULLABLE='Y' THEN 'TRUE' ELSE 'FALSE' END," +
		" DATA_TYPE, CHAR_LENGTH, DATA_PRECISION, DATA_SCALE" +
		" FROM ALL_TAB_COLUMNS WHERE TABLE_NAME = " + query.PLACEHOLDER
	args := []interface{}{table}

	if len(columns) > 0 {
		var in []string
		for _, c := range columns {
			in = append(in, query.PLACEHOLDER)
			args = append(args, strings.ToUpper(c))
		}
		stmt += " AND COLUMN_NAME IN (" + strings.Join(in, ", ") + ")"
	}
	stmt += " ORDER BY COLUMN_ID"

	rows, err := o.Query(context.Background(), stmt, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []query.ColumnInfo
	for rows.Next() {
		var c query.ColumnInfo
		c.Table = table

		var nullable string
		if err := rows.Scan(&c.Name, &c.Position, &nullable, &c.Raw, &c.Length, &c.Precision, &c.Scale); err != nil {
			return nil, err
		}
		c.NullAble = datatype.ToBool(nullable)
		c.Type = typeMapping(c.Raw, c)
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf(ErrTableDoesNotExist, table, columns)
	}

	return cols, nil
}

// ForeignKey will return the foreign keys of the given table through
// ALL_CONSTRAINTS.
func (o *oracleDialect) ForeignKey(db string, table string) ([]query.ForeignKey, error) {
	table = strings.ToUpper(table)

	stmt := "SELECT c.CONSTRAINT_NAME, a.TABLE_NAME, a.COLUMN_NAME, cpk.TABLE_NAME, apk.COLUMN_NAME" +
		" FROM ALL_CONS_COLUMNS a" +
		" JOIN ALL_CONSTRAINTS c ON a.OWNER = c.OWNER AND a.CONSTRAINT_NAME = c.CONSTRAINT_NAME" +
		" JOIN ALL_CONSTRAINTS cpk ON c.R_OWNER = cpk.OWNER AND c.R_CONSTRAINT_NAME = cpk.CONSTRAINT_NAME" +
		" JOIN ALL_CONS_COLUMNS apk ON cpk.OWNER = apk.OWNER AND cpk.CONSTRAINT_NAME = apk.CONSTRAINT_NAME AND apk.POSITION = a.POSITION" +
		" WHERE c.CONSTRAINT_TYPE = 'R' AND a.TABLE_NAME = " + query.PLACEHOLDER

	rows, err := o.Query(context.Background(), stmt, []interface{}{table})
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

	return fKeys, nil
}

// typeMapping converts the raw oracle column type to a data type.
func typeMapping(raw string, c query.ColumnInfo) datatype.Type {
	switch strings.ToUpper(raw) {
	case "NUMBER":
		if c.Scale.Valid && c.Scale.Int64 == 0 {
			if c.Precision.Valid && c.Precision.Int64 == 1 {
				return datatype.Bool
			}
			return datatype.Integer
		}
		return datatype.Decimal
	case "BINARY_DOUBLE", "BINARY_FLOAT", "FLOAT":
		return datatype.Double
	case "CHAR", "NCHAR":
		return datatype.Char
	case "VARCHAR2", "NVARCHAR2", "VARCHAR":
		return datatype.Text
	case "CLOB", "NCLOB", "LONG":
		return datatype.Clob
	case "BLOB", "RAW", "LONG RAW":
		return datatype.Blob
	case "DATE":
		return datatype.DateTime
	default:
		if strings.HasPrefix(strings.ToUpper(raw), "TIMESTAMP") {
			return datatype.Timestamp
		}
		return datatype.Unknown
	}
}
