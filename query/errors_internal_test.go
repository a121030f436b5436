// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestError tests:
// - the message prefix and formatting.
// - wrapped errors unwrap to their cause.
// - the kind survives further fmt.Errorf wrapping.
func TestError(t *testing.T) {
	asserts := assert.New(t)

	err := NewError(KindColumnNotFound, "column %s not found", "id")
	asserts.Equal("query: column id not found", err.Error())
	asserts.Equal(KindColumnNotFound, KindOf(err))

	cause := errors.New("driver gone")
	err = WrapError(KindStatementFailed, cause, "exec %s", "INSERT")
	asserts.Equal("query: exec INSERT: driver gone", err.Error())
	asserts.Equal(cause, errors.Unwrap(err))
	asserts.True(errors.Is(err, cause))

	// kind detection through additional wrapping.
	outer := fmt.Errorf("outer: %w", err)
	asserts.Equal(KindStatementFailed, KindOf(outer))

	asserts.Equal(KindUnknown, KindOf(nil))
	asserts.Equal(KindUnknown, KindOf(errors.New("plain")))
}

// TestKind_String tests the kind names.
func TestKind_String(t *testing.T) {
	asserts := assert.New(t)

	var tests = []struct {
		kind     Kind
		expected string
	}{
		{KindUnknown, "Unknown"},
		{KindColumnNotFound, "ColumnNotFound"},
		{KindConstraintViolation, "ConstraintViolation"},
		{KindStatementFailed, "StatementFailed"},
		{KindQueryFailed, "QueryFailed"},
		{KindQueryNoResult, "QueryNoResult"},
		{KindNotSupported, "NotSupported"},
		{KindInvalidArgument, "InvalidArgument"},
		{Kind(99), "Unknown"},
	}
	for _, tt := range tests {
		asserts.Equal(tt.expected, tt.kind.String())
	}
}
