// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"fmt"
	"time"

	"github.com/mgerste/relq/cache"
	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/schema"
)

// cache prefixes for described tables and foreign keys.
const (
	cacheDescribe   = "query_describe"
	cacheForeignKey = "query_fk"
)

// Introspect reverse engineers a schema description from a live database
// connection. Results of the dialect Describe and ForeignKey calls can be
// cached, the database structure rarely changes at runtime.
type Introspect struct {
	d     Dialect
	cache cache.Manager
	ttl   time.Duration
}

// NewIntrospect creates an Introspect for the given dialect.
// No cache is set by default, every call hits the database.
func NewIntrospect(d Dialect) *Introspect {
	return &Introspect{d: d}
}

// SetCache sets a cache manager and a lifetime for described tables.
func (i *Introspect) SetCache(c cache.Manager, ttl time.Duration) {
	i.cache = c
	i.ttl = ttl
}

// Columns describes the given table, serving cached results if available.
func (i *Introspect) Columns(table string) ([]ColumnInfo, error) {
	name := i.d.Config().Database + "." + table

	if i.cache != nil && i.cache.Exist(cacheDescribe, name) {
		item, err := i.cache.Get(cacheDescribe, name)
		if err != nil {
			return nil, err
		}
		return item.Value().([]ColumnInfo), nil
	}

	cols, err := i.d.Describe(i.d.Config().Database, table)
	if err != nil {
		return nil, err
	}

	if i.cache != nil {
		if err := i.cache.Set(cacheDescribe, name, cols, i.ttl); err != nil {
			return nil, err
		}
	}
	return cols, nil
}

// ForeignKeys returns the foreign keys of the given table, serving cached
// results if available.
func (i *Introspect) ForeignKeys(table string) ([]ForeignKey, error) {
	name := i.d.Config().Database + "." + table

	if i.cache != nil && i.cache.Exist(cacheForeignKey, name) {
		item, err := i.cache.Get(cacheForeignKey, name)
		if err != nil {
			return nil, err
		}
		return item.Value().([]ForeignKey), nil
	}

	fks, err := i.d.ForeignKey(i.d.Config().Database, table)
	if err != nil {
		return nil, err
	}

	if i.cache != nil {
		if err := i.cache.Set(cacheForeignKey, name, fks, i.ttl); err != nil {
			return nil, err
		}
	}
	return fks, nil
}

// Table builds a schema table from the described columns.
// Primary key and unique columns become the table key and unique indexes.
func (i *Introspect) Table(db *schema.Database, name string) (*schema.Table, error) {
	cols, err := i.Columns(name)
	if err != nil {
		return nil, err
	}

	t, err := db.AddTable(name)
	if err != nil {
		return nil, err
	}

	var pk []*schema.Column
	for _, c := range cols {
		mode := datatype.NotNull
		switch {
		case c.Autoincrement:
			mode = datatype.AutoGenerated
		case c.NullAble:
			mode = datatype.Nullable
		}

		col, err := t.AddColumn(c.Name, c.Type, columnSize(c), mode)
		if err != nil {
			return nil, err
		}
		if c.DefaultValue.Valid {
			col.SetDefaultValue(c.DefaultValue.String)
		}
		if c.PrimaryKey {
			pk = append(pk, col)
		}
		if c.Unique && !c.PrimaryKey {
			if _, err = t.AddIndex("ux_"+name+"_"+c.Name, schema.Unique, col); err != nil {
				return nil, err
			}
		}
	}

	if len(pk) > 0 {
		if err = t.SetPrimaryKey(pk...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Database builds a schema description for the given tables including the
// foreign keys between them. Foreign keys pointing to tables outside of the
// given set are skipped.
func (i *Introspect) Database(name string, tables ...string) (*schema.Database, error) {
	db := schema.New(name)
	if s := i.d.Config().Schema; s != "" {
		db.SetSchema(s)
	}

	for _, table := range tables {
		if _, err := i.Table(db, table); err != nil {
			return nil, err
		}
	}

	for _, table := range tables {
		fks, err := i.ForeignKeys(table)
		if err != nil {
			return nil, err
		}
		for _, fk := range fks {
			ref, ok := i.reference(db, fk)
			if !ok {
				continue
			}
			if _, err = db.AddRelation(fk.Name, ref); err != nil {
				return nil, fmt.Errorf("query: foreign key %s: %w", fk.Name, err)
			}
		}
	}
	return db, nil
}

// reference resolves a described foreign key against the built database.
// False will return if one side is not part of the description.
func (i *Introspect) reference(db *schema.Database, fk ForeignKey) (schema.Reference, bool) {
	source := db.Table(fk.Primary.Table)
	target := db.Table(fk.Secondary.Table)
	if source == nil || target == nil {
		return schema.Reference{}, false
	}
	sc := source.Column(fk.Primary.Column)
	tc := target.Column(fk.Secondary.Column)
	if sc == nil || tc == nil {
		return schema.Reference{}, false
	}
	return schema.Reference{Source: sc, Target: tc}, true
}

// columnSize maps the described length, precision and scale back to the
// schema size notation (character length, or precision.scale for decimals).
func columnSize(c ColumnInfo) float64 {
	if c.Type == datatype.Decimal && c.Precision.Valid {
		size := float64(c.Precision.Int64)
		if c.Scale.Valid {
			size += float64(c.Scale.Int64) / 10
		}
		return size
	}
	if c.Length.Valid {
		return float64(c.Length.Int64)
	}
	return 0
}
