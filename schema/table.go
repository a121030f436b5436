// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"fmt"

	"github.com/mgerste/relq/datatype"
)

// Error messages.
var (
	ErrColumnName    = "schema: column %s already exists on table %s"
	ErrEmptyName     = errors.New("schema: name must not be empty")
	ErrForeignColumn = "schema: column %s does not belong to table %s"
)

// Table describes a database table.
// The column insertion order is the physical column order.
type Table struct {
	db   *Database
	name string

	columns    []*Column
	primaryKey *Index
	indexes    []*Index
	relations  []*Relation
}

// Database returns the owning database.
func (t *Table) Database() *Database {
	return t.db
}

// Name of the table.
func (t *Table) Name() string {
	return t.name
}

// FullName returns the schema qualified table name.
func (t *Table) FullName() string {
	if t.db != nil && t.db.Schema() != "" {
		return t.db.Schema() + "." + t.name
	}
	return t.name
}

// AddColumn adds a column in declaration order.
// Error will return if the name is empty or already taken on this table.
func (t *Table) AddColumn(name string, dataType datatype.Type, size float64, mode datatype.Mode) (*Column, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if t.Column(name) != nil {
		return nil, fmt.Errorf(ErrColumnName, name, t.name)
	}
	c := newColumn(t, name, dataType, size, mode)
	t.columns = append(t.columns, c)
	return c, nil
}

// MustAddColumn is like AddColumn but panics on error.
// Meant for static schema definitions at startup.
func (t *Table) MustAddColumn(name string, dataType datatype.Type, size float64, mode datatype.Mode) *Column {
	c, err := t.AddColumn(name, dataType, size, mode)
	if err != nil {
		panic(err)
	}
	return c
}

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column {
	return t.columns
}

// Column returns a column by name or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.columns {
		if c.name == name {
			return c
		}
	}
	return nil
}

// SetPrimaryKey defines the primary key index of the table.
// The key columns are implicitly NotNull.
func (t *Table) SetPrimaryKey(columns ...*Column) error {
	if len(columns) == 0 {
		return ErrEmptyName
	}
	for _, c := range columns {
		if c.table != t {
			return fmt.Errorf(ErrForeignColumn, c.name, t.name)
		}
		if c.mode == datatype.Nullable {
			c.mode = datatype.NotNull
		}
	}
	t.primaryKey = &Index{name: "pk_" + t.name, kind: PrimaryKey, columns: columns}
	return nil
}

// PrimaryKey returns the primary key index or nil.
func (t *Table) PrimaryKey() *Index {
	return t.primaryKey
}

// AddIndex adds a secondary index.
func (t *Table) AddIndex(name string, kind IndexKind, columns ...*Column) (*Index, error) {
	if name == "" || len(columns) == 0 {
		return nil, ErrEmptyName
	}
	for _, c := range columns {
		if c.table != t {
			return nil, fmt.Errorf(ErrForeignColumn, c.name, t.name)
		}
	}
	idx := &Index{name: name, kind: kind, columns: columns}
	t.indexes = append(t.indexes, idx)
	return idx, nil
}

// Indexes returns the secondary indexes.
func (t *Table) Indexes() []*Index {
	return t.indexes
}

// Relations returns the outgoing foreign keys of this table.
func (t *Table) Relations() []*Relation {
	return t.relations
}

// Clone copies the table with all columns into the given database under a
// new name. Indexes and relations are not cloned.
func (t *Table) Clone(db *Database, name string) (*Table, error) {
	clone, err := db.AddTable(name)
	if err != nil {
		return nil, err
	}
	for _, c := range t.columns {
		c.Clone(clone)
	}
	return clone, nil
}

// keyColumn returns true if the column is part of the primary key or of a
// unique index of this table.
func (t *Table) keyColumn(c *Column) bool {
	if t.primaryKey != nil && t.primaryKey.Contains(c) {
		return true
	}
	for _, idx := range t.indexes {
		if idx.kind == Unique && idx.Contains(c) {
			return true
		}
	}
	return false
}
