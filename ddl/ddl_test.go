// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ddl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/ddl"
	"github.com/mgerste/relq/query"
	"github.com/mgerste/relq/schema"
)

// ansiDialect renders with the ANSI defaults, the feature set and the
// identity clause are configurable per test.
type ansiDialect struct {
	query.Base
	features map[query.Feature]bool
	identity string
}

func newDialect() *ansiDialect {
	d := &ansiDialect{}
	d.Base.Dialect = d
	d.Cfg = query.Config{Provider: "test", Host: "localhost", Port: 3306, Database: "shop"}
	return d
}

func (d *ansiDialect) Supports(f query.Feature) bool {
	return d.features[f]
}

func (d *ansiDialect) IdentityClause(col *schema.Column) string {
	return d.identity
}

// shopSchema returns customers and orders with a foreign key and a view
// on the customers table.
func shopSchema(t *testing.T, d query.Dialect) *schema.Database {
	t.Helper()
	db := schema.New("shop")

	customers := db.MustAddTable("customers")
	id := customers.MustAddColumn("id", datatype.AutoInc, 0, datatype.AutoGenerated)
	name := customers.MustAddColumn("name", datatype.Text, 50, datatype.NotNull)
	name.SetDefaultValue("n/a")
	customers.MustAddColumn("order", datatype.Integer, 0, datatype.Nullable)
	if err := customers.SetPrimaryKey(id); err != nil {
		t.Fatal(err)
	}
	if _, err := customers.AddIndex("ux_customers_name", schema.Unique, name); err != nil {
		t.Fatal(err)
	}

	orders := db.MustAddTable("orders")
	oid := orders.MustAddColumn("id", datatype.Integer, 0, datatype.NotNull)
	cid := orders.MustAddColumn("customer_id", datatype.Integer, 0, datatype.NotNull)
	if err := orders.SetPrimaryKey(oid); err != nil {
		t.Fatal(err)
	}
	if _, err := db.AddRelation("fk_orders_customer", schema.Reference{Source: cid, Target: id}); err != nil {
		t.Fatal(err)
	}

	cmd := query.NewCommand(d).From(customers).
		SelectColumns(customers.Column("id"), customers.Column("name")).
		Where(query.Column(customers.Column("name")).IsNot("n/a")).
		OrderBy(query.Column(customers.Column("name")))
	if _, err := db.AddView("v_customers", cmd); err != nil {
		t.Fatal(err)
	}
	return db
}

// TestGenerator_Create tests:
// - the walk order: tables, indexes, foreign keys, views.
// - identity columns render the vendor clause.
// - defaults and reserved column names.
// - view queries inline literals and drop the order by.
func TestGenerator_Create(t *testing.T) {
	asserts := assert.New(t)
	d := newDialect()
	d.identity = "GENERATED ALWAYS AS IDENTITY"
	db := shopSchema(t, d)

	s, err := ddl.New(d).Database(db, ddl.Create)
	asserts.NoError(err)

	asserts.Equal([]string{
		`CREATE TABLE customers (id INT GENERATED ALWAYS AS IDENTITY, name VARCHAR(50) DEFAULT 'n/a' NOT NULL, "order" INT, PRIMARY KEY (id))`,
		`CREATE UNIQUE INDEX ux_customers_name ON customers (name)`,
		`CREATE TABLE orders (id INT NOT NULL, customer_id INT NOT NULL, PRIMARY KEY (id))`,
		`ALTER TABLE orders ADD CONSTRAINT fk_orders_customer FOREIGN KEY (customer_id) REFERENCES customers (id)`,
		`CREATE VIEW v_customers AS SELECT customers.id, customers.name FROM customers WHERE customers.name <> 'n/a'`,
	}, s.Statements())

	asserts.Contains(s.SQL(), ";\n")
}

// TestGenerator_Sequences tests that sequence vendors create and drop
// the sequences of their auto increment columns.
func TestGenerator_Sequences(t *testing.T) {
	asserts := assert.New(t)
	d := newDialect()
	d.features = map[query.Feature]bool{query.FeatureSequences: true}
	db := shopSchema(t, d)

	s, err := ddl.New(d).Database(db, ddl.Create)
	asserts.NoError(err)

	stmts := s.Statements()
	asserts.Equal("CREATE SEQUENCE seq_customers_id START WITH 1 INCREMENT BY 1", stmts[0])
	// without an identity clause the column is a plain not null.
	asserts.Equal(`CREATE TABLE customers (id INT NOT NULL, name VARCHAR(50) DEFAULT 'n/a' NOT NULL, "order" INT, PRIMARY KEY (id))`, stmts[1])

	s, err = ddl.New(d).Database(db, ddl.Drop)
	asserts.NoError(err)
	stmts = s.Statements()
	asserts.Equal("DROP VIEW v_customers", stmts[0])
	asserts.Equal("ALTER TABLE orders DROP CONSTRAINT fk_orders_customer", stmts[1])
	asserts.Equal("DROP TABLE customers", stmts[2])
	asserts.Equal("DROP SEQUENCE seq_customers_id", stmts[3])
}

// TestGenerator_Schema tests schema qualified names and the create
// schema statement.
func TestGenerator_Schema(t *testing.T) {
	asserts := assert.New(t)
	d := newDialect()
	d.features = map[query.Feature]bool{query.FeatureCreateSchema: true}
	d.identity = "IDENTITY"
	db := shopSchema(t, d)
	db.SetSchema("dbo")

	s, err := ddl.New(d).Database(db, ddl.Create)
	asserts.NoError(err)

	stmts := s.Statements()
	asserts.Equal("CREATE SCHEMA dbo", stmts[0])
	asserts.Contains(stmts[1], "CREATE TABLE dbo.customers ")

	// drop never emits the schema statement.
	s, err = ddl.New(d).Database(db, ddl.Drop)
	asserts.NoError(err)
	for _, stmt := range s.Statements() {
		asserts.NotContains(stmt, "CREATE SCHEMA")
	}

	// whole database alter is undefined.
	_, err = ddl.New(d).Database(db, ddl.Alter)
	asserts.Error(err)
	asserts.Equal(query.KindInvalidArgument, query.KindOf(err))
}

// TestGenerator_Column tests the single column alter statements.
func TestGenerator_Column(t *testing.T) {
	asserts := assert.New(t)
	d := newDialect()
	db := schema.New("shop")
	tbl := db.MustAddTable("customers")
	col := tbl.MustAddColumn("mail", datatype.Text, 100, datatype.Nullable)

	g := ddl.New(d)

	s := &ddl.Script{}
	asserts.NoError(g.Column(col, ddl.Create, s))
	asserts.NoError(g.Column(col, ddl.Alter, s))
	asserts.NoError(g.Column(col, ddl.Drop, s))

	asserts.Equal([]string{
		"ALTER TABLE customers ADD mail VARCHAR(100)",
		"ALTER TABLE customers ALTER COLUMN mail VARCHAR(100)",
		"ALTER TABLE customers DROP COLUMN mail",
	}, s.Statements())
}

// TestScript tests the script rendering.
func TestScript(t *testing.T) {
	asserts := assert.New(t)

	s := &ddl.Script{}
	asserts.Equal("", s.SQL())
	asserts.Empty(s.Statements())

	s.Add("CREATE TABLE a (id INT)")
	s.Add("DROP TABLE a")
	asserts.Equal("CREATE TABLE a (id INT);\nDROP TABLE a;\n", s.SQL())
}
