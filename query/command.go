// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"

	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/schema"
)

// Source of a select, satisfied by *schema.Table and *schema.View.
type Source interface {
	Name() string
	FullName() string
}

// Join kinds.
const (
	InnerJoin = iota
	LeftJoin
	RightJoin
)

type join struct {
	kind   int
	source Source
	on     Expr
}

type setClause struct {
	col   *schema.Column
	value interface{}
}

// Command accumulates the parts of one SQL statement and renders the
// final text plus an ordered parameter array.
// A Command is not safe for concurrent use.
type Command struct {
	d        Dialect
	table    *schema.Table
	selects  []Expr
	distinct bool
	froms    []Source
	joins    []join
	wheres   []Expr
	groupBy  []Expr
	having   []Expr
	orderBy  []Expr
	sets     []setClause
	limit    int
	skip     int
}

// NewCommand creates an empty command for the dialect.
func NewCommand(d Dialect) *Command {
	return &Command{d: d, limit: -1}
}

// Table sets the target table for insert, update and delete.
func (c *Command) Table(t *schema.Table) *Command {
	c.table = t
	return c
}

// Select appends expressions to the select list.
func (c *Command) Select(exprs ...Expr) *Command {
	c.selects = append(c.selects, exprs...)
	return c
}

// SelectColumns appends all columns of the source to the select list.
func (c *Command) SelectColumns(cols ...*schema.Column) *Command {
	for _, col := range cols {
		c.selects = append(c.selects, Column(col))
	}
	return c
}

// Distinct marks the select distinct.
func (c *Command) Distinct() *Command {
	c.distinct = true
	return c
}

// From appends a source.
func (c *Command) From(s Source) *Command {
	c.froms = append(c.froms, s)
	return c
}

// Join appends a joined source with its on condition.
func (c *Command) Join(kind int, s Source, on Expr) *Command {
	c.joins = append(c.joins, join{kind: kind, source: s, on: on})
	return c
}

// Where appends a filter, combined with AND.
// A compare expression replaces an existing compare only when the two
// are mutually exclusive (the column can not satisfy both), anything
// else appends. Range filters on one column therefore keep both bounds.
func (c *Command) Where(e Expr) *Command {
	if cmp, ok := e.(*CompareExpr); ok {
		for i, w := range c.wheres {
			if old, ok := w.(*CompareExpr); ok && MutuallyExclusive(old, cmp) {
				c.wheres[i] = cmp
				return c
			}
		}
	}
	c.wheres = append(c.wheres, e)
	return c
}

// GroupBy appends grouping expressions.
func (c *Command) GroupBy(exprs ...Expr) *Command {
	c.groupBy = append(c.groupBy, exprs...)
	return c
}

// Having appends a group filter, combined with AND.
func (c *Command) Having(e Expr) *Command {
	c.having = append(c.having, e)
	return c
}

// OrderBy appends ordering expressions.
func (c *Command) OrderBy(exprs ...Expr) *Command {
	c.orderBy = append(c.orderBy, exprs...)
	return c
}

// Limit replaces the maximum row count, negative values unset it.
func (c *Command) Limit(n int) *Command {
	if n < 0 {
		n = -1
	}
	c.limit = n
	return c
}

// Skip replaces the number of leading rows to skip.
func (c *Command) Skip(n int) *Command {
	if n < 0 {
		n = 0
	}
	c.skip = n
	return c
}

// Set assigns a value to a column for insert and update.
// A second Set on the same column replaces the value.
func (c *Command) Set(col *schema.Column, v interface{}) *Command {
	for i, s := range c.sets {
		if s.col == col {
			c.sets[i].value = v
			return c
		}
	}
	c.sets = append(c.sets, setClause{col: col, value: v})
	return c
}

// Clear resets the command to its initial empty state.
func (c *Command) Clear() *Command {
	d := c.d
	*c = Command{d: d, limit: -1}
	return c
}

// Clone returns an independent copy usable for derived queries.
func (c *Command) Clone() *Command {
	n := *c
	n.selects = append([]Expr(nil), c.selects...)
	n.froms = append([]Source(nil), c.froms...)
	n.joins = append([]join(nil), c.joins...)
	n.wheres = append([]Expr(nil), c.wheres...)
	n.groupBy = append([]Expr(nil), c.groupBy...)
	n.having = append([]Expr(nil), c.having...)
	n.orderBy = append([]Expr(nil), c.orderBy...)
	n.sets = append([]setClause(nil), c.sets...)
	return &n
}

// HasAggregate reports whether the select list contains an aggregate
// function or the command groups rows.
func (c *Command) HasAggregate() bool {
	if len(c.groupBy) > 0 {
		return true
	}
	for _, e := range c.selects {
		if f, ok := e.(*FuncExpr); ok {
			switch f.phrase {
			case FuncSum, FuncMax, FuncMin, FuncAvg, FuncCount:
				return true
			}
		}
	}
	return false
}

// sourceNames collects the reachable source names for the column check.
func (c *Command) sourceNames() map[string]bool {
	m := map[string]bool{}
	if c.table != nil {
		m[c.table.FullName()] = true
	}
	for _, s := range c.froms {
		m[s.FullName()] = true
	}
	for _, j := range c.joins {
		m[j.source.FullName()] = true
	}
	return m
}

// GetSelect renders the select statement and its ordered parameters.
func (c *Command) GetSelect() (string, []interface{}, error) {
	return c.renderSelect(false, true)
}

// renderSelect builds the statement, optionally with inlined literals
// and without the order by clause (view rendering).
func (c *Command) renderSelect(inline, withOrder bool) (string, []interface{}, error) {
	if len(c.froms) == 0 {
		return "", nil, NewError(KindInvalidArgument, "select needs at least one source")
	}

	rs := newRenderState(c.d)
	rs.sources = c.sourceNames()
	rs.inline = inline

	rs.write("SELECT ")
	if c.distinct {
		rs.write("DISTINCT ")
	}
	if len(c.selects) == 0 {
		rs.write("*")
	} else {
		for i, e := range c.selects {
			if i > 0 {
				rs.write(", ")
			}
			if err := e.sqlExpr(rs, CtxDefault); err != nil {
				return "", nil, err
			}
		}
	}

	rs.write(" FROM ")
	for i, s := range c.froms {
		if i > 0 {
			rs.write(", ")
		}
		rs.write(quoteParts(rs, s.FullName(), nil))
	}
	for _, j := range c.joins {
		switch j.kind {
		case LeftJoin:
			rs.write(" LEFT JOIN ")
		case RightJoin:
			rs.write(" RIGHT JOIN ")
		default:
			rs.write(" JOIN ")
		}
		rs.write(quoteParts(rs, j.source.FullName(), nil))
		rs.write(" ON ")
		if err := j.on.sqlExpr(rs, CtxDefault|CtxNoParentheses); err != nil {
			return "", nil, err
		}
	}

	if err := c.renderWhere(rs); err != nil {
		return "", nil, err
	}

	if len(c.groupBy) > 0 {
		rs.write(" GROUP BY ")
		for i, e := range c.groupBy {
			if i > 0 {
				rs.write(", ")
			}
			if err := e.sqlExpr(rs, CtxDefault); err != nil {
				return "", nil, err
			}
		}
	}

	if len(c.having) > 0 {
		rs.write(" HAVING ")
		for i, e := range c.having {
			if i > 0 {
				rs.write(" AND ")
			}
			if err := e.sqlExpr(rs, CtxDefault|CtxNoParentheses); err != nil {
				return "", nil, err
			}
		}
	}

	if withOrder && len(c.orderBy) > 0 {
		rs.write(" ORDER BY ")
		for i, e := range c.orderBy {
			if i > 0 {
				rs.write(", ")
			}
			if err := e.sqlExpr(rs, CtxDefault); err != nil {
				return "", nil, err
			}
		}
	}

	stmt := rs.sb.String()
	limit := -1
	if c.limit >= 0 && c.d.Supports(FeatureLimitRows) {
		limit = c.limit
	}
	skip := 0
	if c.skip > 0 && c.d.Supports(FeatureSkipRows) {
		skip = c.skip
	}
	if limit >= 0 || skip > 0 {
		// a negative limit means skip only, the dialect decides how to
		// express an unbounded window.
		stmt = c.d.ApplyPagination(stmt, c.distinct, limit, skip)
	}

	return stmt, rs.params, nil
}

func (c *Command) renderWhere(rs *renderState) error {
	if len(c.wheres) == 0 {
		return nil
	}
	ctx := CtxDefault
	if len(c.wheres) == 1 {
		// a sole filter needs no parentheses, combined ones keep them
		// so OR chains do not change precedence.
		ctx |= CtxNoParentheses
	}
	rs.write(" WHERE ")
	for i, e := range c.wheres {
		if i > 0 {
			rs.write(" AND ")
		}
		if err := e.sqlExpr(rs, ctx); err != nil {
			return err
		}
	}
	return nil
}

// GetInsert renders the insert statement.
// The parameters follow the column declaration order of the table, not
// the order of the Set calls.
func (c *Command) GetInsert() (string, []interface{}, error) {
	if c.table == nil {
		return "", nil, NewError(KindInvalidArgument, "insert needs a target table")
	}
	if len(c.sets) == 0 {
		return "", nil, NewError(KindInvalidArgument, "insert on %s has no values", c.table.Name())
	}

	set := map[*schema.Column]interface{}{}
	for _, s := range c.sets {
		if s.col.Table() != c.table {
			return "", nil, NewError(KindColumnNotFound, "column %s does not belong to table %s",
				s.col.Name(), c.table.Name())
		}
		set[s.col] = s.value
	}

	rs := newRenderState(c.d)
	rs.write("INSERT INTO ")
	rs.write(quoteParts(rs, c.table.FullName(), nil))
	rs.write(" (")

	var ordered []setClause
	for _, col := range c.table.Columns() {
		v, ok := set[col]
		if !ok {
			continue
		}
		if len(ordered) > 0 {
			rs.write(", ")
		}
		rs.write(c.d.QuoteName(col.Name(), col.QuoteForced()))
		ordered = append(ordered, setClause{col: col, value: v})
	}
	rs.write(") VALUES (")
	for i, s := range ordered {
		if i > 0 {
			rs.write(", ")
		}
		if err := rs.addValue(s.value, s.col.DataType()); err != nil {
			return "", nil, err
		}
	}
	rs.write(")")

	return rs.sb.String(), rs.params, nil
}

// GetUpdate renders the update statement.
// Set parameters come first, where parameters after, matching the
// textual placeholder order.
func (c *Command) GetUpdate() (string, []interface{}, error) {
	if c.table == nil {
		return "", nil, NewError(KindInvalidArgument, "update needs a target table")
	}
	if len(c.sets) == 0 {
		return "", nil, NewError(KindInvalidArgument, "update on %s has no values", c.table.Name())
	}

	rs := newRenderState(c.d)
	rs.sources = c.sourceNames()

	rs.write("UPDATE ")
	rs.write(quoteParts(rs, c.table.FullName(), nil))
	rs.write(" SET ")
	for i, s := range c.sets {
		if s.col.Table() != c.table {
			return "", nil, NewError(KindColumnNotFound, "column %s does not belong to table %s",
				s.col.Name(), c.table.Name())
		}
		if i > 0 {
			rs.write(", ")
		}
		rs.write(c.d.QuoteName(s.col.Name(), s.col.QuoteForced()))
		rs.write(" = ")
		if err := rs.addValue(s.value, s.col.DataType()); err != nil {
			return "", nil, err
		}
	}

	if err := c.renderWhere(rs); err != nil {
		return "", nil, err
	}

	return rs.sb.String(), rs.params, nil
}

// GetDelete renders the delete statement.
func (c *Command) GetDelete() (string, []interface{}, error) {
	if c.table == nil {
		return "", nil, NewError(KindInvalidArgument, "delete needs a target table")
	}

	rs := newRenderState(c.d)
	rs.sources = c.sourceNames()

	rs.write("DELETE FROM ")
	rs.write(quoteParts(rs, c.table.FullName(), nil))
	if err := c.renderWhere(rs); err != nil {
		return "", nil, err
	}

	return rs.sb.String(), rs.params, nil
}

// AutoFill sets generated values on all auto generated columns of the
// target table that have no explicit value yet.
// Identity columns stay unset, the server generates them during the
// insert.
func (c *Command) AutoFill(ctx context.Context) error {
	if c.table == nil {
		return NewError(KindInvalidArgument, "auto fill needs a target table")
	}

	set := map[*schema.Column]bool{}
	for _, s := range c.sets {
		set[s.col] = true
	}

	for _, col := range c.table.Columns() {
		if !col.AutoGenerated() || set[col] {
			continue
		}
		var key GenKey
		switch {
		case col.DataType() == datatype.AutoInc:
			key = GenAutoInc
		case col.DataType() == datatype.UniqueID:
			key = GenUniqueID
		case col.DataType().IsDateTime():
			key = GenTimestamp
		default:
			continue
		}
		v, err := c.d.AutoValue(ctx, col, key)
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		c.Set(col, v)
	}
	return nil
}

// ViewSQL renders the select with inlined literals and without order
// by, usable as backing query of a view.
func (c *Command) ViewSQL() (string, error) {
	stmt, _, err := c.renderSelect(true, false)
	if err != nil {
		return "", err
	}
	return stmt, nil
}

// ensure the command can back a schema view.
var _ schema.ViewQuery = (*Command)(nil)
