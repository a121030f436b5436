// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package schema

import (
	"strings"

	"github.com/serenize/snaker"

	"github.com/mgerste/relq/datatype"
)

// Column represents one column of a table or view.
// A column is owned exclusively by its table, it can not be shared across
// tables without an explicit Clone.
type Column struct {
	table        *Table
	name         string
	dataType     datatype.Type
	size         float64
	mode         datatype.Mode
	defaultValue interface{}

	// quote is a tri-state. If nil, the dialect decides by reserved-word and
	// illegal-character detection. Otherwise the explicit caller intent wins.
	quote *bool
}

// newColumn normalizes the AutoInc invariant:
// AutoInc implies AutoGenerated and Integer+AutoGenerated becomes AutoInc.
func newColumn(table *Table, name string, dataType datatype.Type, size float64, mode datatype.Mode) *Column {
	if dataType == datatype.AutoInc && mode != datatype.AutoGenerated {
		mode = datatype.AutoGenerated
	}
	if dataType == datatype.Integer && mode == datatype.AutoGenerated {
		dataType = datatype.AutoInc
	}
	return &Column{table: table, name: name, dataType: dataType, size: size, mode: mode}
}

// Name of the column.
func (c *Column) Name() string {
	return c.name
}

// Table returns the owning table. Nil for view columns.
func (c *Column) Table() *Table {
	return c.table
}

// DataType of the column.
func (c *Column) DataType() datatype.Type {
	return c.dataType
}

// Size of the column.
// The meaning depends on the data type: character length for Text and Char,
// precision.scale encoded as a single decimal for Decimal (8.2 = DECIMAL(8,2)).
func (c *Column) Size() float64 {
	return c.size
}

// SetSize changes the column size.
// Meant for administrative data model changes only.
func (c *Column) SetSize(size float64) {
	c.size = size
}

// Mode of the column.
func (c *Column) Mode() datatype.Mode {
	return c.mode
}

// SetMode changes the column data mode.
// The AutoInc invariant is preserved, an AutoInc column stays AutoGenerated.
func (c *Column) SetMode(mode datatype.Mode) {
	if c.dataType == datatype.AutoInc {
		return
	}
	c.mode = mode
}

// Required returns true if the column must have a value on insert.
func (c *Column) Required() bool {
	return c.mode == datatype.NotNull
}

// AutoGenerated returns true if the column value is generated by the
// database or the dialect driver.
func (c *Column) AutoGenerated() bool {
	return c.mode == datatype.AutoGenerated
}

// DefaultValue of the column.
// For AutoInc columns this is assumed to be the name of a sequence.
func (c *Column) DefaultValue() interface{} {
	return c.defaultValue
}

// SetDefaultValue sets the default column value.
func (c *Column) SetDefaultValue(v interface{}) *Column {
	c.defaultValue = v
	return c
}

// SequenceName returns the sequence name backing an AutoInc column.
// If no explicit name was set as default value, the name is derived from the
// table and column name.
func (c *Column) SequenceName() string {
	if s, ok := c.defaultValue.(string); ok && s != "" {
		return s
	}
	name := snaker.CamelToSnake(c.name)
	if c.table != nil {
		name = snaker.CamelToSnake(c.table.Name()) + "_" + name
	}
	return "seq_" + strings.ToLower(name)
}

// ForceQuote overrides the dialect's quoting detection for this column.
func (c *Column) ForceQuote(quote bool) *Column {
	c.quote = &quote
	return c
}

// QuoteForced returns the explicit quoting intent, or nil if the dialect
// should decide.
func (c *Column) QuoteForced() *bool {
	return c.quote
}

// Clone copies the column into another table.
func (c *Column) Clone(to *Table) *Column {
	clone := &Column{
		table:        to,
		name:         c.name,
		dataType:     c.dataType,
		size:         c.size,
		mode:         c.mode,
		defaultValue: c.defaultValue,
		quote:        c.quote,
	}
	if to != nil {
		to.columns = append(to.columns, clone)
	}
	return clone
}
