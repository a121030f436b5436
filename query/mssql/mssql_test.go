// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mssql

import (
	"errors"
	"fmt"
	"testing"

	mssqldb "github.com/denisenkom/go-mssqldb"
	"github.com/stretchr/testify/assert"

	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/query"
	"github.com/mgerste/relq/schema"
)

func newTestDialect(t *testing.T) *mssqlDialect {
	t.Helper()
	d, err := newMssql(query.Config{Provider: "mssql", Host: "localhost", Port: 1433, Database: "shop"})
	if err != nil {
		t.Fatal(err)
	}
	return d.(*mssqlDialect)
}

// TestDialect tests:
// - TOP pagination without skip pushdown.
// - bracket quoting, the numeric placeholder and the vendor phrases.
func TestDialect(t *testing.T) {
	asserts := assert.New(t)
	d := newTestDialect(t)

	asserts.True(d.Supports(query.FeatureLimitRows))
	asserts.False(d.Supports(query.FeatureSkipRows))
	asserts.False(d.Supports(query.FeatureSequences))

	asserts.Equal("SELECT TOP 10 * FROM customers",
		d.ApplyPagination("SELECT * FROM customers", false, 10, 0))
	asserts.Equal("SELECT DISTINCT TOP 10 name FROM customers",
		d.ApplyPagination("SELECT DISTINCT name FROM customers", true, 10, 0))

	asserts.Equal("[order]", d.QuoteIdentifier("order"))
	asserts.Equal("getdate()", d.Phrase(query.PhraseCurrentTimestamp))
	asserts.Equal("1", d.Phrase(query.PhraseBoolTrue))

	p := d.Placeholder()
	asserts.Equal("@p", p.Char)
	asserts.True(p.Numeric)

	asserts.Equal("IDENTITY(1,1)", d.IdentityClause(nil))
}

// TestDialect_IdentityClause tests:
// - an integer default value becomes the identity seed.
// - UseSequenceTable suppresses the clause so keys come from the
//   sequence emulation instead.
func TestDialect_IdentityClause(t *testing.T) {
	asserts := assert.New(t)
	d := newTestDialect(t)

	db := schema.New("shop")
	tbl, err := db.AddTable("customers")
	asserts.NoError(err)
	id, err := tbl.AddColumn("id", datatype.AutoInc, 0, datatype.AutoGenerated)
	asserts.NoError(err)

	asserts.Equal("IDENTITY(1,1)", d.IdentityClause(id))
	id.SetDefaultValue(1000)
	asserts.Equal("IDENTITY(1000,1)", d.IdentityClause(id))

	seq, err := newMssql(query.Config{Provider: "mssql", Host: "localhost", Port: 1433,
		Database: "shop", UseSequenceTable: true})
	asserts.NoError(err)
	asserts.Equal("", seq.IdentityClause(id))
}

// TestDialect_ClassifyError tests the error number mapping.
func TestDialect_ClassifyError(t *testing.T) {
	asserts := assert.New(t)
	d := newTestDialect(t)

	asserts.Equal(query.KindConstraintViolation, d.ClassifyError(mssqldb.Error{Number: 2627}))
	asserts.Equal(query.KindConstraintViolation, d.ClassifyError(mssqldb.Error{Number: 547}))
	asserts.Equal(query.KindColumnNotFound, d.ClassifyError(mssqldb.Error{Number: 207}))
	asserts.Equal(query.KindUnknown, d.ClassifyError(mssqldb.Error{Number: 102}))
	asserts.Equal(query.KindUnknown, d.ClassifyError(errors.New("plain")))

	wrapped := fmt.Errorf("exec: %w", mssqldb.Error{Number: 2601})
	asserts.Equal(query.KindConstraintViolation, d.ClassifyError(wrapped))
}

// TestDialect_TypeSQL tests the sql server DDL types including the
// ANSI fallback.
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
		{"c1", datatype.Double, 0, "FLOAT"},
		{"c2", datatype.Text, 50, "NVARCHAR(50)"},
		{"c3", datatype.Text, 0, "NVARCHAR(255)"},
		{"c4", datatype.Char, 2, "NCHAR(2)"},
		{"c5", datatype.Clob, 0, "NVARCHAR(MAX)"},
		{"c6", datatype.Blob, 0, "VARBINARY(MAX)"},
		{"c7", datatype.Date, 0, "DATE"},
		{"c8", datatype.Timestamp, 0, "DATETIME2"},
		{"c9", datatype.Bool, 0, "BIT"},
		{"c10", datatype.UniqueID, 0, "UNIQUEIDENTIFIER"},
		// ANSI fallback
		{"c11", datatype.Integer, 0, "INT"},
		{"c12", datatype.Decimal, 8.2, "DECIMAL(8,2)"},
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

	length := func(n int64) query.ColumnInfo {
		return query.ColumnInfo{Length: datatype.NewNullInt(n, true)}
	}

	var tests = []struct {
		raw      string
		col      query.ColumnInfo
		expected datatype.Type
	}{
		{"int", query.ColumnInfo{}, datatype.Integer},
		{"int", query.ColumnInfo{Autoincrement: true}, datatype.AutoInc},
		{"decimal", query.ColumnInfo{}, datatype.Decimal},
		{"money", query.ColumnInfo{}, datatype.Decimal},
		{"float", query.ColumnInfo{}, datatype.Double},
		{"bit", query.ColumnInfo{}, datatype.Bool},
		{"nchar", query.ColumnInfo{}, datatype.Char},
		{"nvarchar", length(50), datatype.Text},
		// nvarchar(max) reports length -1.
		{"nvarchar", length(-1), datatype.Clob},
		{"ntext", query.ColumnInfo{}, datatype.Clob},
		{"varbinary", length(16), datatype.Blob},
		{"date", query.ColumnInfo{}, datatype.Date},
		{"datetime2", query.ColumnInfo{}, datatype.DateTime},
		{"datetimeoffset", query.ColumnInfo{}, datatype.Timestamp},
		{"uniqueidentifier", query.ColumnInfo{}, datatype.UniqueID},
		{"sql_variant", query.ColumnInfo{}, datatype.Unknown},
	}
	for _, tt := range tests {
		asserts.Equal(tt.expected, typeMapping(tt.raw, tt.col), tt.raw)
	}
}
