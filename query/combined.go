// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

// CombinedCommand joins two selects with a set keyword.
type CombinedCommand struct {
	left    *Command
	right   *Command
	keyword string
}

// Union of two selects, duplicates removed.
func Union(left, right *Command) *CombinedCommand {
	return &CombinedCommand{left: left, right: right, keyword: "UNION"}
}

// UnionAll of two selects, duplicates kept.
func UnionAll(left, right *Command) *CombinedCommand {
	return &CombinedCommand{left: left, right: right, keyword: "UNION ALL"}
}

// Intersect of two selects.
func Intersect(left, right *Command) *CombinedCommand {
	return &CombinedCommand{left: left, right: right, keyword: "INTERSECT"}
}

// GetSelect renders `<left> <keyword> <right>` with the parameters of
// both sides in textual order.
func (c *CombinedCommand) GetSelect() (string, []interface{}, error) {
	lStmt, lParams, err := c.left.GetSelect()
	if err != nil {
		return "", nil, err
	}
	rStmt, rParams, err := c.right.GetSelect()
	if err != nil {
		return "", nil, err
	}
	return lStmt + " " + c.keyword + " " + rStmt, append(lParams, rParams...), nil
}
