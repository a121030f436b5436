// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package schema provides the static description of a relational database:
// tables, columns, indexes, foreign key relations and views.
// A Database value is an explicit registry owned by whoever opens the
// connection; there is no ambient global lookup.
package schema

import (
	"fmt"

	"github.com/jinzhu/inflection"
	"github.com/serenize/snaker"
)

// Error messages.
var (
	ErrTableName = "schema: table or view %s already exists in database %s"
)

// Database is the root of a schema description.
// Tables, relations and views are kept in definition order, which is also
// the DDL generation order.
type Database struct {
	name   string
	schema string

	tables    []*Table
	relations []*Relation
	views     []*View
}

// New creates a new database description.
func New(name string) *Database {
	return &Database{name: name}
}

// Name of the database.
func (db *Database) Name() string {
	return db.name
}

// Schema returns the schema/owner prefix used for qualified names.
func (db *Database) Schema() string {
	return db.schema
}

// SetSchema sets the schema/owner prefix.
func (db *Database) SetSchema(schema string) {
	db.schema = schema
}

// AddTable adds a new empty table.
// Error will return if the name is empty or already taken.
func (db *Database) AddTable(name string) (*Table, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if db.Table(name) != nil || db.View(name) != nil {
		return nil, fmt.Errorf(ErrTableName, name, db.name)
	}
	t := &Table{db: db, name: name}
	db.tables = append(db.tables, t)
	return t, nil
}

// MustAddTable is like AddTable but panics on error.
// Meant for static schema definitions at startup.
func (db *Database) MustAddTable(name string) *Table {
	t, err := db.AddTable(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Tables returns all tables in definition order.
func (db *Database) Tables() []*Table {
	return db.tables
}

// Table returns a table by name or nil.
func (db *Database) Table(name string) *Table {
	for _, t := range db.tables {
		if t.name == name {
			return t
		}
	}
	return nil
}

// AddRelation adds a validated foreign key relation.
// The relation is also attached to its source table.
func (db *Database) AddRelation(name string, references ...Reference) (*Relation, error) {
	r, err := newRelation(name, references)
	if err != nil {
		return nil, err
	}
	db.relations = append(db.relations, r)
	source := r.SourceTable()
	source.relations = append(source.relations, r)
	return r, nil
}

// Relations returns all foreign keys in definition order.
func (db *Database) Relations() []*Relation {
	return db.relations
}

// AddView adds a view with its backing query.
func (db *Database) AddView(name string, query ViewQuery) (*View, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if db.Table(name) != nil || db.View(name) != nil {
		return nil, fmt.Errorf(ErrTableName, name, db.name)
	}
	v := &View{db: db, name: name, query: query}
	db.views = append(db.views, v)
	return v, nil
}

// Views returns all views in definition order.
func (db *Database) Views() []*View {
	return db.views
}

// View returns a view by name or nil.
func (db *Database) View(name string) *View {
	for _, v := range db.views {
		if v.name == name {
			return v
		}
	}
	return nil
}

// DefaultName converts a Go style CamelCase name to the snake_case database
// naming convention.
func DefaultName(name string) string {
	return snaker.CamelToSnake(name)
}

// DefaultTableName converts a Go struct name to a pluralized snake_case
// table name (Customer becomes customers).
func DefaultTableName(name string) string {
	return inflection.Plural(snaker.CamelToSnake(name))
}
