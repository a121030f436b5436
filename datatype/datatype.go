// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package datatype provides the column data type and value model.
// It enumerates the supported column data types over all database dialects
// and defines the conversion and validation rules between raw values and
// typed column values.
package datatype

// Type is a sanitized column data type over multiple databases.
type Type int

// All supported column data types.
const (
	Unknown Type = iota
	Integer
	AutoInc
	Decimal
	Double
	Text
	Char
	Clob
	Blob
	Date
	DateTime
	Timestamp
	Bool
	UniqueID
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case Integer:
		return "Integer"
	case AutoInc:
		return "AutoInc"
	case Decimal:
		return "Decimal"
	case Double:
		return "Double"
	case Text:
		return "Text"
	case Char:
		return "Char"
	case Clob:
		return "Clob"
	case Blob:
		return "Blob"
	case Date:
		return "Date"
	case DateTime:
		return "DateTime"
	case Timestamp:
		return "Timestamp"
	case Bool:
		return "Bool"
	case UniqueID:
		return "UniqueID"
	default:
		return "Unknown"
	}
}

// IsNumeric returns true for all number based types.
func (t Type) IsNumeric() bool {
	switch t {
	case Integer, AutoInc, Decimal, Double:
		return true
	default:
		return false
	}
}

// IsText returns true for all character based types.
func (t Type) IsText() bool {
	switch t {
	case Text, Char, Clob, UniqueID:
		return true
	default:
		return false
	}
}

// IsDateTime returns true for all date and time based types.
func (t Type) IsDateTime() bool {
	switch t {
	case Date, DateTime, Timestamp:
		return true
	default:
		return false
	}
}

// Mode defines how a column value is treated on insert and update.
type Mode int

// All column data modes.
const (
	Nullable Mode = iota
	NotNull
	ReadOnly
	AutoGenerated
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case NotNull:
		return "NotNull"
	case ReadOnly:
		return "ReadOnly"
	case AutoGenerated:
		return "AutoGenerated"
	default:
		return "Nullable"
	}
}
