// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"fmt"
)

// Error messages.
var (
	ErrReferences   = errors.New("schema: relation needs at least one reference")
	ErrRefTables    = errors.New("schema: all references of a relation must use the same source and target table")
	ErrRefTargetKey = "schema: target column %s must be part of the primary key or a unique index of %s"
)

// Reference is one source/target column pair of a foreign key.
type Reference struct {
	Source *Column
	Target *Column
}

// Relation describes a foreign key constraint.
// All source columns must belong to one table and all target columns to one
// other table; every target column must be covered by the target table's
// primary key or a unique index.
type Relation struct {
	name       string
	references []Reference
}

// newRelation validates the reference pairs.
func newRelation(name string, references []Reference) (*Relation, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(references) == 0 {
		return nil, ErrReferences
	}
	source := references[0].Source.Table()
	target := references[0].Target.Table()
	for _, ref := range references {
		if ref.Source == nil || ref.Target == nil || ref.Source.Table() == nil || ref.Target.Table() == nil {
			return nil, ErrReferences
		}
		if ref.Source.Table() != source || ref.Target.Table() != target {
			return nil, ErrRefTables
		}
		if !target.keyColumn(ref.Target) {
			return nil, fmt.Errorf(ErrRefTargetKey, ref.Target.Name(), target.Name())
		}
	}
	return &Relation{name: name, references: references}, nil
}

// Name of the relation.
func (r *Relation) Name() string {
	return r.name
}

// References returns the ordered source/target pairs.
func (r *Relation) References() []Reference {
	return r.references
}

// SourceTable returns the referencing table.
func (r *Relation) SourceTable() *Table {
	return r.references[0].Source.Table()
}

// TargetTable returns the referenced table.
func (r *Relation) TargetTable() *Table {
	return r.references[0].Target.Table()
}
