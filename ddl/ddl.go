// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ddl walks schema objects and emits ordered CREATE/ALTER/DROP
// statements through the dialect of the query package.
//
// The walk order is dependency safe: schema, tables with their columns
// and indexes, then foreign keys after all tables exist, views last.
package ddl

import (
	"strings"

	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/query"
	"github.com/mgerste/relq/schema"
)

// Op is the DDL operation.
type Op int

// All operations.
const (
	Create Op = iota
	Alter
	Drop
)

// String returns the operation keyword.
func (o Op) String() string {
	switch o {
	case Alter:
		return "ALTER"
	case Drop:
		return "DROP"
	default:
		return "CREATE"
	}
}

// Script collects generated statements in execution order.
type Script struct {
	stmts []string
}

// Add appends a statement.
func (s *Script) Add(stmt string) {
	s.stmts = append(s.stmts, stmt)
}

// Statements in execution order.
func (s *Script) Statements() []string {
	return s.stmts
}

// SQL joins all statements with a trailing semicolon each.
func (s *Script) SQL() string {
	if len(s.stmts) == 0 {
		return ""
	}
	return strings.Join(s.stmts, ";\n") + ";\n"
}

// Generator emits DDL for one dialect.
type Generator struct {
	d query.Dialect
}

// New creates a generator for the dialect.
func New(d query.Dialect) *Generator {
	return &Generator{d: d}
}

// Database generates the full script for the database.
// Create walks schema, tables, relations, views. Drop walks the same
// objects in reverse. Alter is not defined on database level.
func (g *Generator) Database(db *schema.Database, op Op) (*Script, error) {
	s := &Script{}

	switch op {
	case Create:
		if db.Schema() != "" && g.d.Supports(query.FeatureCreateSchema) {
			s.Add("CREATE SCHEMA " + g.d.QuoteName(db.Schema(), nil))
		}
		for _, t := range db.Tables() {
			if err := g.Table(t, Create, s); err != nil {
				return nil, err
			}
		}
		for _, r := range db.Relations() {
			if err := g.Relation(r, Create, s); err != nil {
				return nil, err
			}
		}
		for _, v := range db.Views() {
			if err := g.View(v, Create, s); err != nil {
				return nil, err
			}
		}
	case Drop:
		for _, v := range db.Views() {
			if err := g.View(v, Drop, s); err != nil {
				return nil, err
			}
		}
		for _, r := range db.Relations() {
			if err := g.Relation(r, Drop, s); err != nil {
				return nil, err
			}
		}
		for _, t := range db.Tables() {
			if err := g.Table(t, Drop, s); err != nil {
				return nil, err
			}
		}
	default:
		return nil, query.NewError(query.KindInvalidArgument, "ddl: database can not be altered as a whole")
	}

	return s, nil
}

// Table generates the statements for one table.
func (g *Generator) Table(t *schema.Table, op Op, s *Script) error {
	if t.Name() == "" {
		return query.NewError(query.KindInvalidArgument, "ddl: table name is empty")
	}

	name := g.quoteFull(t.FullName())

	switch op {
	case Create:
		// native sequences first, the identity free vendors need them
		// before the first insert.
		if g.d.Supports(query.FeatureSequences) {
			for _, c := range t.Columns() {
				if c.DataType() == datatype.AutoInc {
					s.Add("CREATE SEQUENCE " + g.d.QuoteName(c.SequenceName(), nil) +
						" START WITH 1 INCREMENT BY 1")
				}
			}
		}

		var b strings.Builder
		b.WriteString("CREATE TABLE " + name + " (")
		for i, c := range t.Columns() {
			if i > 0 {
				b.WriteString(", ")
			}
			def, err := g.columnDef(c)
			if err != nil {
				return err
			}
			b.WriteString(def)
		}
		if pk := t.PrimaryKey(); pk != nil {
			b.WriteString(", PRIMARY KEY (" + g.indexColumns(pk) + ")")
		}
		b.WriteString(")")
		s.Add(b.String())

		for _, idx := range t.Indexes() {
			if idx.Kind() == schema.PrimaryKey {
				continue
			}
			unique := ""
			if idx.Kind() == schema.Unique {
				unique = "UNIQUE "
			}
			s.Add("CREATE " + unique + "INDEX " + g.d.QuoteName(idx.Name(), nil) +
				" ON " + name + " (" + g.indexColumns(idx) + ")")
		}
	case Drop:
		s.Add("DROP TABLE " + name)
		if g.d.Supports(query.FeatureSequences) {
			for _, c := range t.Columns() {
				if c.DataType() == datatype.AutoInc {
					s.Add("DROP SEQUENCE " + g.d.QuoteName(c.SequenceName(), nil))
				}
			}
		}
	default:
		return query.NewError(query.KindNotSupported, "ddl: alter on table level, use the column operations")
	}

	return nil
}

// Column generates an alter statement for one column.
func (g *Generator) Column(c *schema.Column, op Op, s *Script) error {
	if c.Name() == "" {
		return query.NewError(query.KindInvalidArgument, "ddl: column name is empty")
	}
	if c.Table() == nil {
		return query.NewError(query.KindInvalidArgument, "ddl: column %s has no table", c.Name())
	}

	table := g.quoteFull(c.Table().FullName())

	switch op {
	case Create:
		def, err := g.columnDef(c)
		if err != nil {
			return err
		}
		s.Add("ALTER TABLE " + table + " ADD " + def)
	case Alter:
		def, err := g.columnDef(c)
		if err != nil {
			return err
		}
		s.Add("ALTER TABLE " + table + " ALTER COLUMN " + def)
	case Drop:
		s.Add("ALTER TABLE " + table + " DROP COLUMN " + g.d.QuoteName(c.Name(), c.QuoteForced()))
	}

	return nil
}

// Relation generates the foreign key statement.
func (g *Generator) Relation(r *schema.Relation, op Op, s *Script) error {
	if r.Name() == "" {
		return query.NewError(query.KindInvalidArgument, "ddl: relation name is empty")
	}

	source := g.quoteFull(r.SourceTable().FullName())

	switch op {
	case Create, Alter:
		var src, tgt []string
		for _, ref := range r.References() {
			src = append(src, g.d.QuoteName(ref.Source.Name(), ref.Source.QuoteForced()))
			tgt = append(tgt, g.d.QuoteName(ref.Target.Name(), ref.Target.QuoteForced()))
		}
		s.Add("ALTER TABLE " + source +
			" ADD CONSTRAINT " + g.d.QuoteName(r.Name(), nil) +
			" FOREIGN KEY (" + strings.Join(src, ", ") + ")" +
			" REFERENCES " + g.quoteFull(r.TargetTable().FullName()) +
			" (" + strings.Join(tgt, ", ") + ")")
	case Drop:
		s.Add("ALTER TABLE " + source + " DROP CONSTRAINT " + g.d.QuoteName(r.Name(), nil))
	}

	return nil
}

// View generates the statements for one view.
// The backing query renders with inlined literals and without order by.
func (g *Generator) View(v *schema.View, op Op, s *Script) error {
	if v.Name() == "" {
		return query.NewError(query.KindInvalidArgument, "ddl: view name is empty")
	}

	name := g.quoteFull(v.FullName())

	if op == Drop {
		s.Add("DROP VIEW " + name)
		return nil
	}

	sql, err := v.Query().ViewSQL()
	if err != nil {
		return err
	}

	var cols []string
	for _, c := range v.Columns() {
		cols = append(cols, g.d.QuoteName(c.Name(), c.QuoteForced()))
	}

	stmt := op.String() + " VIEW " + name
	if len(cols) > 0 {
		stmt += " (" + strings.Join(cols, ", ") + ")"
	}
	s.Add(stmt + " AS " + sql)

	return nil
}

// columnDef renders `<name> <type> [identity|default, not null]`.
// Identity columns skip the default and nullable suffix, the identity
// clause implies both.
func (g *Generator) columnDef(c *schema.Column) (string, error) {
	typeSQL, err := g.d.TypeSQL(c)
	if err != nil {
		return "", err
	}

	def := g.d.QuoteName(c.Name(), c.QuoteForced()) + " " + typeSQL

	if c.DataType() == datatype.AutoInc {
		if identity := g.d.IdentityClause(c); identity != "" {
			return def + " " + identity, nil
		}
		return def + " NOT NULL", nil
	}

	if dv := c.DefaultValue(); dv != nil && !c.AutoGenerated() {
		lit, err := g.d.ValueString(dv, c.DataType())
		if err != nil {
			return "", err
		}
		def += " DEFAULT " + lit
	}
	if c.Required() {
		def += " NOT NULL"
	}

	return def, nil
}

// indexColumns renders the quoted column list of an index.
func (g *Generator) indexColumns(idx *schema.Index) string {
	var cols []string
	for _, c := range idx.Columns() {
		cols = append(cols, g.d.QuoteName(c.Name(), c.QuoteForced()))
	}
	return strings.Join(cols, ", ")
}

// quoteFull quotes a possibly schema qualified name part by part.
func (g *Generator) quoteFull(full string) string {
	parts := strings.Split(full, ".")
	for i, p := range parts {
		parts[i] = g.d.QuoteName(p, nil)
	}
	return strings.Join(parts, ".")
}
