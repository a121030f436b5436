// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package schema

import (
	"github.com/mgerste/relq/datatype"
)

// ViewQuery provides the backing query of a view.
// ViewSQL must render a complete SELECT statement with inlined literals and
// without a trailing ORDER BY, since most dialects forbid it inside views.
type ViewQuery interface {
	ViewSQL() (string, error)
}

// View describes a database view with its declared columns and the backing
// query.
type View struct {
	db      *Database
	name    string
	columns []*Column
	query   ViewQuery
}

// Database returns the owning database.
func (v *View) Database() *Database {
	return v.db
}

// Name of the view.
func (v *View) Name() string {
	return v.name
}

// FullName returns the schema qualified view name.
func (v *View) FullName() string {
	if v.db != nil && v.db.Schema() != "" {
		return v.db.Schema() + "." + v.name
	}
	return v.name
}

// AddColumn declares a view column.
// View columns have no owning table and render name-only.
func (v *View) AddColumn(name string, dataType datatype.Type) (*Column, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	c := newColumn(nil, name, dataType, 0, datatype.ReadOnly)
	v.columns = append(v.columns, c)
	return c, nil
}

// Columns returns the view columns in declaration order.
func (v *View) Columns() []*Column {
	return v.columns
}

// Query returns the backing query provider.
func (v *View) Query() ViewQuery {
	return v.query
}
