// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package schema

// IndexKind classifies an index.
type IndexKind int

// All index kinds.
const (
	Normal IndexKind = iota
	Unique
	PrimaryKey
)

// Index describes an ordered set of index columns.
type Index struct {
	name    string
	kind    IndexKind
	columns []*Column
}

// Name of the index.
func (i *Index) Name() string {
	return i.name
}

// Kind of the index.
func (i *Index) Kind() IndexKind {
	return i.kind
}

// Columns returns the index columns in order.
func (i *Index) Columns() []*Column {
	return i.columns
}

// Contains returns true if the column is part of the index.
func (i *Index) Contains(c *Column) bool {
	for _, col := range i.columns {
		if col == c {
			return true
		}
	}
	return false
}
