// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import "context"

// GetRowCount renders a count query for the command.
// Plain selects get their select list swapped for COUNT(*). Aggregate,
// grouped or distinct selects are wrapped as a derived table instead,
// appending a raw count to them would change their semantics.
func GetRowCount(c *Command) (string, []interface{}, error) {
	if c.HasAggregate() || c.distinct {
		inner := c.Clone()
		inner.orderBy = nil
		inner.limit = -1
		inner.skip = 0
		stmt, params, err := inner.renderSelect(false, false)
		if err != nil {
			return "", nil, err
		}
		return "SELECT COUNT(*) FROM (" + stmt + ") q", params, nil
	}

	count := c.Clone()
	count.selects = []Expr{Count(Raw("*"))}
	count.orderBy = nil
	count.limit = -1
	count.skip = 0
	return count.renderSelect(false, false)
}

// QueryRowCount renders and executes the count query.
func QueryRowCount(ctx context.Context, c *Command) (int64, error) {
	stmt, params, err := GetRowCount(c)
	if err != nil {
		return 0, err
	}
	var count int64
	err = c.d.QuerySingleValue(ctx, stmt, params, &count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
