// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/schema"
)

// Context is the rendering context bitmask of an expression node.
type Context uint8

// All context flags.
const (
	// CtxName - render the bare column name.
	CtxName Context = 1 << iota
	// CtxFullName - qualify column names with their table.
	CtxFullName
	// CtxValue - render values.
	CtxValue
	// CtxNoParentheses - suppress surrounding parentheses.
	CtxNoParentheses
)

// CtxDefault is used for all clause rendering.
const CtxDefault = CtxFullName | CtxValue

// Expr is a composable SQL expression node.
// Nodes render themselves into the state given a rendering context.
type Expr interface {
	sqlExpr(rs *renderState, ctx Context) error
}

// renderState collects the statement text and the positional parameters
// of one render pass. Parameters are appended in strict left-to-right
// textual order of their placeholders.
type renderState struct {
	d       Dialect
	sb      strings.Builder
	params  []interface{}
	sources map[string]bool // reachable source names, nil disables the check
	inline  bool            // render values as literals instead of placeholders
}

func newRenderState(d Dialect) *renderState {
	return &renderState{d: d}
}

func (rs *renderState) write(s string) {
	rs.sb.WriteString(s)
}

// addValue renders a value as placeholder plus bound parameter, or as
// an inline literal. Nil and the server time sentinel always inline.
func (rs *renderState) addValue(v interface{}, t datatype.Type) error {
	if rs.inline || v == nil || datatype.IsSysDate(v) {
		s, err := rs.d.ValueString(v, t)
		if err != nil {
			return err
		}
		rs.write(s)
		return nil
	}
	bound, err := rs.d.BindValue(v, t)
	if err != nil {
		return err
	}
	rs.params = append(rs.params, bound)
	rs.write(PLACEHOLDER)
	return nil
}

// checkSource fails when the column belongs to a table that is not
// reachable from the active command.
func (rs *renderState) checkSource(col *schema.Column) error {
	if rs.sources == nil || col.Table() == nil {
		return nil
	}
	if !rs.sources[col.Table().FullName()] {
		return NewError(KindColumnNotFound, "column %s.%s is not reachable from the command sources",
			col.Table().Name(), col.Name())
	}
	return nil
}

// quoteParts quotes a possibly dot separated name part by part.
func quoteParts(rs *renderState, name string, force *bool) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = rs.d.QuoteName(p, force)
	}
	return strings.Join(parts, ".")
}

// ColumnExpr references a schema column.
type ColumnExpr struct {
	col *schema.Column
}

// Column wraps a schema column as expression node.
func Column(col *schema.Column) *ColumnExpr {
	return &ColumnExpr{col: col}
}

// Ref returns the referenced schema column.
func (c *ColumnExpr) Ref() *schema.Column {
	return c.col
}

func (c *ColumnExpr) sqlExpr(rs *renderState, ctx Context) error {
	if err := rs.checkSource(c.col); err != nil {
		return err
	}
	if ctx&CtxFullName != 0 && c.col.Table() != nil {
		rs.write(quoteParts(rs, c.col.Table().FullName(), nil))
		rs.write(".")
	}
	rs.write(rs.d.QuoteName(c.col.Name(), c.col.QuoteForced()))
	return nil
}

// Comparison builders.

// Is compares for equality, nil renders as IS NULL.
func (c *ColumnExpr) Is(v interface{}) *CompareExpr {
	return &CompareExpr{col: c, op: "=", value: v}
}

// IsNot compares for inequality, nil renders as IS NOT NULL.
func (c *ColumnExpr) IsNot(v interface{}) *CompareExpr {
	return &CompareExpr{col: c, op: "<>", value: v}
}

// GreaterThan comparison.
func (c *ColumnExpr) GreaterThan(v interface{}) *CompareExpr {
	return &CompareExpr{col: c, op: ">", value: v}
}

// GreaterOrEqual comparison.
func (c *ColumnExpr) GreaterOrEqual(v interface{}) *CompareExpr {
	return &CompareExpr{col: c, op: ">=", value: v}
}

// LessThan comparison.
func (c *ColumnExpr) LessThan(v interface{}) *CompareExpr {
	return &CompareExpr{col: c, op: "<", value: v}
}

// LessOrEqual comparison.
func (c *ColumnExpr) LessOrEqual(v interface{}) *CompareExpr {
	return &CompareExpr{col: c, op: "<=", value: v}
}

// Like comparison.
func (c *ColumnExpr) Like(pattern string) *CompareExpr {
	return &CompareExpr{col: c, op: "LIKE", value: pattern}
}

// NotLike comparison.
func (c *ColumnExpr) NotLike(pattern string) *CompareExpr {
	return &CompareExpr{col: c, op: "NOT LIKE", value: pattern}
}

// In comparison.
func (c *ColumnExpr) In(values ...interface{}) *InExpr {
	return &InExpr{col: c, values: values}
}

// NotIn comparison.
func (c *ColumnExpr) NotIn(values ...interface{}) *InExpr {
	return &InExpr{col: c, values: values, not: true}
}

// IsNull comparison.
func (c *ColumnExpr) IsNull() *CompareExpr {
	return &CompareExpr{col: c, op: "=", value: nil}
}

// IsNotNull comparison.
func (c *ColumnExpr) IsNotNull() *CompareExpr {
	return &CompareExpr{col: c, op: "<>", value: nil}
}

// Between comparison, bounds inclusive.
func (c *ColumnExpr) Between(lo, hi interface{}) *BetweenExpr {
	return &BetweenExpr{col: c, lo: lo, hi: hi}
}

// ValueExpr renders a standalone typed value.
type ValueExpr struct {
	value interface{}
	t     datatype.Type
}

// Value wraps a typed value as expression node.
func Value(v interface{}, t datatype.Type) *ValueExpr {
	return &ValueExpr{value: v, t: t}
}

func (v *ValueExpr) sqlExpr(rs *renderState, ctx Context) error {
	return rs.addValue(v.value, v.t)
}

// RawExpr renders verbatim SQL text, no quoting is applied.
type RawExpr struct {
	sql string
}

// Raw wraps verbatim SQL text as expression node.
func Raw(sql string) *RawExpr {
	return &RawExpr{sql: sql}
}

func (r *RawExpr) sqlExpr(rs *renderState, ctx Context) error {
	rs.write(r.sql)
	return nil
}

// AliasExpr renames a select list entry.
type AliasExpr struct {
	expr  Expr
	alias string
}

// As renames the expression in the select list.
func As(e Expr, alias string) *AliasExpr {
	return &AliasExpr{expr: e, alias: alias}
}

func (a *AliasExpr) sqlExpr(rs *renderState, ctx Context) error {
	if err := a.expr.sqlExpr(rs, ctx); err != nil {
		return err
	}
	rs.write(rs.d.Phrase(PhraseRenameColumn))
	rs.write(rs.d.QuoteName(a.alias, nil))
	return nil
}

// CompareExpr renders `<left> <op> <right>`.
type CompareExpr struct {
	col   *ColumnExpr
	op    string
	value interface{}
}

func (c *CompareExpr) sqlExpr(rs *renderState, ctx Context) error {
	if err := c.col.sqlExpr(rs, ctx); err != nil {
		return err
	}
	if c.value == nil {
		switch c.op {
		case "=":
			rs.write(" IS NULL")
		case "<>":
			rs.write(" IS NOT NULL")
		default:
			return NewError(KindInvalidArgument, "operator %q can not compare against null", c.op)
		}
		return nil
	}
	rs.write(" " + c.op + " ")
	if e, ok := c.value.(Expr); ok {
		return e.sqlExpr(rs, ctx)
	}
	return rs.addValue(c.value, c.col.col.DataType())
}

// column reports the constrained schema column.
func (c *CompareExpr) column() *schema.Column {
	return c.col.col
}

// MutuallyExclusive reports whether two compare expressions constrain
// the same column to disjoint value sets, e.g. col=1 vs col=2.
func MutuallyExclusive(a, b *CompareExpr) bool {
	if a == nil || b == nil || a.column() != b.column() {
		return false
	}
	if a.op != "=" || b.op != "=" {
		return false
	}
	if a.value == nil || b.value == nil {
		return a.value != b.value
	}
	if _, ok := a.value.(Expr); ok {
		return false
	}
	if _, ok := b.value.(Expr); ok {
		return false
	}
	return !reflect.DeepEqual(a.value, b.value)
}

// InExpr renders `<col> [NOT] IN (...)`.
type InExpr struct {
	col    *ColumnExpr
	values []interface{}
	not    bool
}

func (i *InExpr) sqlExpr(rs *renderState, ctx Context) error {
	if len(i.values) == 0 {
		return NewError(KindInvalidArgument, "in comparison on %s needs at least one value", i.col.col.Name())
	}
	if err := i.col.sqlExpr(rs, ctx); err != nil {
		return err
	}
	if i.not {
		rs.write(" NOT IN (")
	} else {
		rs.write(" IN (")
	}
	for n, v := range i.values {
		if n > 0 {
			rs.write(", ")
		}
		if err := rs.addValue(v, i.col.col.DataType()); err != nil {
			return err
		}
	}
	rs.write(")")
	return nil
}

// BetweenExpr renders `<col> BETWEEN <lo> AND <hi>`.
type BetweenExpr struct {
	col    *ColumnExpr
	lo, hi interface{}
}

func (b *BetweenExpr) sqlExpr(rs *renderState, ctx Context) error {
	if err := b.col.sqlExpr(rs, ctx); err != nil {
		return err
	}
	rs.write(" BETWEEN ")
	if err := rs.addValue(b.lo, b.col.col.DataType()); err != nil {
		return err
	}
	rs.write(" AND ")
	return rs.addValue(b.hi, b.col.col.DataType())
}

// LogicalExpr combines expressions with AND or OR.
// OR chains are parenthesized unless the context suppresses it.
type LogicalExpr struct {
	op    string
	exprs []Expr
}

// And combines the expressions with AND.
func And(exprs ...Expr) *LogicalExpr {
	return &LogicalExpr{op: " AND ", exprs: exprs}
}

// Or combines the expressions with OR.
func Or(exprs ...Expr) *LogicalExpr {
	return &LogicalExpr{op: " OR ", exprs: exprs}
}

func (l *LogicalExpr) sqlExpr(rs *renderState, ctx Context) error {
	if len(l.exprs) == 0 {
		return NewError(KindInvalidArgument, "logical expression needs at least one operand")
	}
	if len(l.exprs) == 1 {
		return l.exprs[0].sqlExpr(rs, ctx)
	}
	wrap := l.op == " OR " && ctx&CtxNoParentheses == 0
	if wrap {
		rs.write("(")
	}
	for i, e := range l.exprs {
		if i > 0 {
			rs.write(l.op)
		}
		if err := e.sqlExpr(rs, ctx&^CtxNoParentheses); err != nil {
			return err
		}
	}
	if wrap {
		rs.write(")")
	}
	return nil
}

// ParenExpr delegates to the wrapped expression but forces surrounding
// parentheses. The wrapped expression renders with the no-parentheses
// flag set to avoid double wrapping.
type ParenExpr struct {
	expr Expr
}

// Paren forces parentheses around the expression.
func Paren(e Expr) *ParenExpr {
	return &ParenExpr{expr: e}
}

func (p *ParenExpr) sqlExpr(rs *renderState, ctx Context) error {
	rs.write("(")
	if err := p.expr.sqlExpr(rs, ctx|CtxNoParentheses); err != nil {
		return err
	}
	rs.write(")")
	return nil
}

// FuncExpr applies a dialect function template to a wrapped expression.
// The template uses ? for the wrapped expression and {0},{1},... for
// the additional arguments, rendered as inline literals.
type FuncExpr struct {
	phrase Phrase
	expr   Expr
	args   []interface{}
}

// Function applies the phrase template to the expression.
func Function(p Phrase, e Expr, args ...interface{}) *FuncExpr {
	return &FuncExpr{phrase: p, expr: e, args: args}
}

// Aggregate and scalar shorthands.

func Count(e Expr) *FuncExpr { return Function(FuncCount, e) }
func Sum(e Expr) *FuncExpr   { return Function(FuncSum, e) }
func Min(e Expr) *FuncExpr   { return Function(FuncMin, e) }
func Max(e Expr) *FuncExpr   { return Function(FuncMax, e) }
func Avg(e Expr) *FuncExpr   { return Function(FuncAvg, e) }
func Upper(e Expr) *FuncExpr { return Function(FuncUpper, e) }
func Lower(e Expr) *FuncExpr { return Function(FuncLower, e) }

// Coalesce substitutes the fallback value when the expression is null.
func Coalesce(e Expr, fallback interface{}) *FuncExpr {
	return Function(FuncCoalesce, e, fallback)
}

// Round the expression to the given decimals.
func Round(e Expr, decimals int) *FuncExpr {
	return Function(FuncRound, e, decimals)
}

func (f *FuncExpr) sqlExpr(rs *renderState, ctx Context) error {
	// render the wrapped expression into a buffer of its own.
	inner := &renderState{d: rs.d, sources: rs.sources, inline: true}
	if err := f.expr.sqlExpr(inner, ctx); err != nil {
		return err
	}

	template := rs.d.Phrase(f.phrase)
	sql := strings.Replace(template, PLACEHOLDER, inner.sb.String(), 1)

	for i, arg := range f.args {
		lit, err := rs.d.ValueString(arg, inferType(arg))
		if err != nil {
			return err
		}
		sql = strings.Replace(sql, "{"+strconv.Itoa(i)+"}", lit, 1)
	}

	rs.write(sql)
	return nil
}

// ConcatExpr joins expressions and plain string literals into one text
// value. The concat phrase is either an infix operator or, when it
// contains a placeholder, a pairwise function template (mysql).
type ConcatExpr struct {
	parts []interface{}
}

// Concat joins the given expressions and string literals.
func Concat(parts ...interface{}) *ConcatExpr {
	return &ConcatExpr{parts: parts}
}

func (c *ConcatExpr) sqlExpr(rs *renderState, ctx Context) error {
	if len(c.parts) < 2 {
		return NewError(KindInvalidArgument, "concat needs at least two operands")
	}

	rendered := make([]string, len(c.parts))
	for i, p := range c.parts {
		e, ok := p.(Expr)
		if !ok {
			lit, err := rs.d.ValueString(p, datatype.Text)
			if err != nil {
				return err
			}
			rendered[i] = lit
			continue
		}
		inner := &renderState{d: rs.d, sources: rs.sources, inline: true}
		if err := e.sqlExpr(inner, ctx); err != nil {
			return err
		}
		rendered[i] = inner.sb.String()
	}

	phrase := rs.d.Phrase(PhraseConcat)
	if !strings.Contains(phrase, PLACEHOLDER) {
		rs.write(strings.Join(rendered, phrase))
		return nil
	}
	// function template, folded pairwise left to right.
	sql := rendered[0]
	for _, p := range rendered[1:] {
		sql = strings.Replace(phrase, PLACEHOLDER, sql, 1)
		sql = strings.Replace(sql, "{0}", p, 1)
	}
	rs.write(sql)
	return nil
}

// OrderExpr marks an order by entry as descending.
type OrderExpr struct {
	expr Expr
	desc bool
}

// Desc orders the expression descending.
func Desc(e Expr) *OrderExpr {
	return &OrderExpr{expr: e, desc: true}
}

// Asc orders the expression ascending.
func Asc(e Expr) *OrderExpr {
	return &OrderExpr{expr: e}
}

func (o *OrderExpr) sqlExpr(rs *renderState, ctx Context) error {
	if err := o.expr.sqlExpr(rs, ctx); err != nil {
		return err
	}
	if o.desc {
		rs.write(" DESC")
	}
	return nil
}

// inferType maps a Go value to the closest data type for literal
// rendering of function arguments.
func inferType(v interface{}) datatype.Type {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return datatype.Integer
	case float32, float64:
		return datatype.Decimal
	case bool:
		return datatype.Bool
	case time.Time:
		return datatype.Timestamp
	default:
		return datatype.Text
	}
}
