// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"errors"
	"fmt"
)

// Kind tags an error with its failure class, so callers can branch on
// explicit outcome tags instead of matching error strings.
type Kind int

// All error kinds.
const (
	KindUnknown Kind = iota
	// KindColumnNotFound - an expression references a column that is not
	// reachable from any source of the active command.
	KindColumnNotFound
	// KindConstraintViolation - the execution layer reported an integrity
	// constraint violation (duplicate key, foreign key).
	KindConstraintViolation
	// KindStatementFailed - a statement execution failed.
	KindStatementFailed
	// KindQueryFailed - a query execution failed.
	KindQueryFailed
	// KindQueryNoResult - a query that must return at least one row
	// returned none.
	KindQueryNoResult
	// KindNotSupported - the requested capability has no translation in
	// this dialect.
	KindNotSupported
	// KindInvalidArgument - malformed input to a builder call.
	KindInvalidArgument
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindColumnNotFound:
		return "ColumnNotFound"
	case KindConstraintViolation:
		return "ConstraintViolation"
	case KindStatementFailed:
		return "StatementFailed"
	case KindQueryFailed:
		return "QueryFailed"
	case KindQueryNoResult:
		return "QueryNoResult"
	case KindNotSupported:
		return "NotSupported"
	case KindInvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Error is a kind tagged error of the query package.
type Error struct {
	kind Kind
	msg  string
	err  error
}

// NewError creates a kind tagged error.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// WrapError wraps an underlying error with a kind tag.
func WrapError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), err: err}
}

// Kind of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return "query: " + e.msg + ": " + e.err.Error()
	}
	return "query: " + e.msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.err
}

// KindOf extracts the kind of an error.
// KindUnknown will return for untagged errors and nil.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}
