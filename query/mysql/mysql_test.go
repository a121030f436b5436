// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mysql

import (
	"errors"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/query"
	"github.com/mgerste/relq/schema"
)

func newTestDialect(t *testing.T) *mysqlDialect {
	t.Helper()
	d, err := newMysql(query.Config{Provider: "mysql", Host: "localhost", Port: 3306, Database: "shop"})
	if err != nil {
		t.Fatal(err)
	}
	return d.(*mysqlDialect)
}

// TestDialect tests:
// - the mysql capabilities and pagination.
// - backtick quoting and the vendor phrases.
// - the identity clause for auto increment columns.
func TestDialect(t *testing.T) {
	asserts := assert.New(t)
	d := newTestDialect(t)

	asserts.True(d.Supports(query.FeatureLimitRows))
	asserts.True(d.Supports(query.FeatureSkipRows))
	asserts.True(d.Supports(query.FeatureCreateSchema))
	asserts.False(d.Supports(query.FeatureSequences))

	asserts.Equal("SELECT * FROM customers LIMIT 10", d.ApplyPagination("SELECT * FROM customers", false, 10, 0))
	asserts.Equal("SELECT * FROM customers LIMIT 10 OFFSET 20", d.ApplyPagination("SELECT * FROM customers", false, 10, 20))
	asserts.Equal("SELECT * FROM customers LIMIT 18446744073709551615 OFFSET 20", d.ApplyPagination("SELECT * FROM customers", false, -1, 20))

	asserts.Equal("`order`", d.QuoteIdentifier("order"))
	asserts.Equal("1", d.Phrase(query.PhraseBoolTrue))
	asserts.Equal("concat(?, {0})", d.Phrase(query.PhraseConcat))
	asserts.Equal("NOW()", d.Phrase(query.PhraseCurrentTimestamp))

	asserts.Equal("AUTO_INCREMENT", d.IdentityClause(nil))

	// backslashes are escape characters in mysql literals.
	s, err := d.ValueString(`back\slash`, datatype.Text)
	asserts.NoError(err)
	asserts.Equal(`'back\\slash'`, s)
}

// TestDialect_ClassifyError tests the error number mapping.
func TestDialect_ClassifyError(t *testing.T) {
	asserts := assert.New(t)
	d := newTestDialect(t)

	asserts.Equal(query.KindConstraintViolation, d.ClassifyError(&mysql.MySQLError{Number: 1062}))
	asserts.Equal(query.KindConstraintViolation, d.ClassifyError(&mysql.MySQLError{Number: 1452}))
	asserts.Equal(query.KindColumnNotFound, d.ClassifyError(&mysql.MySQLError{Number: 1054}))
	asserts.Equal(query.KindUnknown, d.ClassifyError(&mysql.MySQLError{Number: 1064}))
	asserts.Equal(query.KindUnknown, d.ClassifyError(errors.New("plain")))

	// wrapped driver errors are still recognized.
	wrapped := fmt.Errorf("exec: %w", &mysql.MySQLError{Number: 1062})
	asserts.Equal(query.KindConstraintViolation, d.ClassifyError(wrapped))
}

// TestDialect_TypeSQL tests the mysql DDL types including the ANSI
// fallback.
func TestDialect_TypeSQL(t *testing.T) {
	asserts := assert.New(t)
	d := newTestDialect(t)
	db := schema.New("shop")
	tbl := db.MustAddTable("t")

	var tests = []struct {
		name     string
		dataType datatype.Type
		size     float64
		expected string
	}{
		{"c1", datatype.Integer, 0, "INT"},
		{"c2", datatype.Integer, 8, "BIGINT"},
		{"c3", datatype.Double, 0, "DOUBLE"},
		{"c4", datatype.Clob, 0, "LONGTEXT"},
		{"c5", datatype.Blob, 0, "LONGBLOB"},
		{"c6", datatype.DateTime, 0, "DATETIME"},
		{"c7", datatype.Timestamp, 0, "DATETIME"},
		{"c8", datatype.Bool, 0, "TINYINT(1)"},
		// ANSI fallback
		{"c9", datatype.Text, 50, "VARCHAR(50)"},
		{"c10", datatype.Decimal, 8.2, "DECIMAL(8,2)"},
	}
	for _, tt := range tests {
		col := tbl.MustAddColumn(tt.name, tt.dataType, tt.size, datatype.Nullable)
		s, err := d.TypeSQL(col)
		asserts.NoError(err, tt.name)
		asserts.Equal(tt.expected, s, tt.name)
	}
}

// TestTypeMapping tests the raw column type conversion.
func TestTypeMapping(t *testing.T) {
	asserts := assert.New(t)

	var tests = []struct {
		raw      string
		autoinc  bool
		expected datatype.Type
	}{
		{"tinyint(1)", false, datatype.Bool},
		{"int(11)", false, datatype.Integer},
		{"int(11)", true, datatype.AutoInc},
		{"bigint(20) unsigned", false, datatype.Integer},
		{"decimal(8,2)", false, datatype.Decimal},
		{"double", false, datatype.Double},
		{"float", false, datatype.Double},
		{"char(36)", false, datatype.UniqueID},
		{"char(2)", false, datatype.Char},
		{"varchar(50)", false, datatype.Text},
		{"text", false, datatype.Clob},
		{"longtext", false, datatype.Clob},
		{"blob", false, datatype.Blob},
		{"varbinary(16)", false, datatype.Blob},
		{"date", false, datatype.Date},
		{"datetime", false, datatype.DateTime},
		{"timestamp", false, datatype.Timestamp},
		{"geometry", false, datatype.Unknown},
	}
	for _, tt := range tests {
		asserts.Equal(tt.expected, typeMapping(tt.raw, tt.autoinc), tt.raw)
	}
}

const describeStmt = "SELECT c.COLUMN_NAME, c.ORDINAL_POSITION," +
	" IF(c.IS_NULLABLE='YES','TRUE','FALSE')," +
	" IF(c.COLUMN_KEY='PRI','TRUE','FALSE')," +
	" IF(c.COLUMN_KEY='UNI','TRUE','FALSE')," +
	" c.COLUMN_TYPE, c.COLUMN_DEFAULT, c.CHARACTER_MAXIMUM_LENGTH," +
	" c.NUMERIC_PRECISION, c.NUMERIC_SCALE," +
	" IF(c.EXTRA='auto_increment','TRUE','FALSE')" +
	" FROM information_schema.COLUMNS c" +
	" WHERE c.TABLE_SCHEMA = ? AND c.TABLE_NAME = ?" +
	" ORDER BY c.ORDINAL_POSITION"

var describeColumns = []string{"name", "position", "nullable", "pk", "unique",
	"type", "default", "length", "precision", "scale", "autoinc"}

// TestDialect_Describe tests the information_schema column description.
func TestDialect_Describe(t *testing.T) {
	asserts := assert.New(t)
	d := newTestDialect(t)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	asserts.NoError(err)
	d.SetDB(db)

	mock.ExpectQuery(describeStmt).WithArgs("shop", "customers").
		WillReturnRows(sqlmock.NewRows(describeColumns).
			AddRow("id", 1, "FALSE", "TRUE", "FALSE", "int(11)", nil, nil, 10, 0, "TRUE").
			AddRow("name", 2, "FALSE", "FALSE", "FALSE", "varchar(50)", nil, 50, nil, nil, "FALSE").
			AddRow("credit", 3, "TRUE", "FALSE", "FALSE", "decimal(8,2)", "0.00", nil, 8, 2, "FALSE"))

	cols, err := d.Describe("", "customers")
	asserts.NoError(err)
	asserts.Len(cols, 3)

	asserts.Equal("id", cols[0].Name)
	asserts.True(cols[0].PrimaryKey)
	asserts.True(cols[0].Autoincrement)
	asserts.Equal(datatype.AutoInc, cols[0].Type)

	asserts.Equal(datatype.Text, cols[1].Type)
	asserts.Equal(int64(50), cols[1].Length.Int64)

	asserts.True(cols[2].NullAble)
	asserts.Equal(datatype.Decimal, cols[2].Type)
	asserts.Equal(int64(8), cols[2].Precision.Int64)
	asserts.Equal(int64(2), cols[2].Scale.Int64)
	asserts.Equal("0.00", cols[2].DefaultValue.String)

	// unknown table
	mock.ExpectQuery(describeStmt).WithArgs("shop", "missing").
		WillReturnRows(sqlmock.NewRows(describeColumns))
	_, err = d.Describe("", "missing")
	asserts.Error(err)
	asserts.Equal(fmt.Sprintf(ErrTableDoesNotExist, "shop.missing", []string(nil)), err.Error())

	asserts.NoError(mock.ExpectationsWereMet())
}

const fkStmt = "SELECT tc.CONSTRAINT_NAME, tc.TABLE_NAME, cu.COLUMN_NAME, cu.REFERENCED_TABLE_NAME, cu.REFERENCED_COLUMN_NAME" +
	" FROM information_schema.KEY_COLUMN_USAGE cu, information_schema.TABLE_CONSTRAINTS tc" +
	" WHERE cu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME AND cu.TABLE_NAME = tc.TABLE_NAME" +
	" AND tc.CONSTRAINT_TYPE = 'FOREIGN KEY'" +
	" AND cu.TABLE_SCHEMA = ? AND tc.TABLE_SCHEMA = ? AND tc.TABLE_NAME = ?"

// TestDialect_ForeignKey tests the foreign key description.
func TestDialect_ForeignKey(t *testing.T) {
	asserts := assert.New(t)
	d := newTestDialect(t)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	asserts.NoError(err)
	d.SetDB(db)

	mock.ExpectQuery(fkStmt).WithArgs("shop", "shop", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"name", "table", "column", "refTable", "refColumn"}).
			AddRow("fk_orders_customer", "orders", "customer_id", "customers", "id"))

	fks, err := d.ForeignKey("", "orders")
	asserts.NoError(err)
	asserts.Len(fks, 1)
	asserts.Equal("fk_orders_customer", fks[0].Name)
	asserts.Equal("orders", fks[0].Primary.Table)
	asserts.Equal("customer_id", fks[0].Primary.Column)
	asserts.Equal("customers", fks[0].Secondary.Table)
	asserts.Equal("id", fks[0].Secondary.Column)

	// table without relations
	mock.ExpectQuery(fkStmt).WithArgs("shop", "shop", "plain").
		WillReturnRows(sqlmock.NewRows([]string{"name", "table", "column", "refTable", "refColumn"}))
	_, err = d.ForeignKey("", "plain")
	asserts.Error(err)
	asserts.Equal(fmt.Sprintf(ErrTableRelation, "plain"), err.Error())

	asserts.NoError(mock.ExpectationsWereMet())
}
