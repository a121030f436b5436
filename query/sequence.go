// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/schema"
)

// Sequence emulates named sequences through a reserved table for
// vendors without native sequence objects.
//
// Each increment runs an optimistic read-modify-write: the update is
// guarded by the previously read timestamp, a lost race retries from
// the read. No lock is held at any point, uniqueness depends entirely
// on the affected row count of the guarded update.
type Sequence struct {
	d Dialect
}

// NewSequence for the dialect.
func NewSequence(d Dialect) *Sequence {
	return &Sequence{d: d}
}

// NextValue returns the next unique value of the named sequence,
// starting at 1.
func (s *Sequence) NextValue(ctx context.Context, name string) (int64, error) {
	return s.NextValueMin(ctx, name, 1)
}

// NextValueMin returns the next unique value of the named sequence.
// The returned value is always >= min. Error of kind StatementFailed
// returns when the configured retry bound is exceeded under sustained
// contention.
func (s *Sequence) NextValueMin(ctx context.Context, name string, min int64) (int64, error) {
	tbl := s.tableName()
	selectStmt := "SELECT seq_value, seq_time FROM " + tbl + " WHERE seq_name = " + PLACEHOLDER
	updateStmt := "UPDATE " + tbl + " SET seq_value = " + PLACEHOLDER + ", seq_time = " + PLACEHOLDER +
		" WHERE seq_name = " + PLACEHOLDER + " AND seq_time = " + PLACEHOLDER
	insertStmt := "INSERT INTO " + tbl + " (seq_name, seq_value, seq_time) VALUES (" +
		PLACEHOLDER + ", " + PLACEHOLDER + ", " + PLACEHOLDER + ")"

	retries := s.d.Config().sequenceRetries()
	for i := 0; i < retries; i++ {
		row, err := s.d.QueryRow(ctx, selectStmt, []interface{}{name})
		if err != nil {
			return 0, err
		}

		var current int64
		var token interface{}
		err = row.Scan(&current, &token)

		if errors.Is(err, sql.ErrNoRows) {
			// no row yet, try to create it. A race creating the same
			// row surfaces as constraint violation and retries.
			_, err = s.d.Exec(ctx, []string{insertStmt},
				[][]interface{}{{name, min, time.Now()}})
			if err != nil {
				if KindOf(err) == KindConstraintViolation {
					continue
				}
				return 0, err
			}
			return min, nil
		}
		if err != nil {
			return 0, WrapError(KindQueryFailed, err, "reading sequence %s", name)
		}

		next := current + 1
		if next < min {
			next = min
		}

		res, err := s.d.Exec(ctx, []string{updateStmt},
			[][]interface{}{{next, time.Now(), name, token}})
		if err != nil {
			return 0, err
		}
		affected, err := res[0].RowsAffected()
		if err != nil {
			return 0, WrapError(KindStatementFailed, err, "incrementing sequence %s", name)
		}
		if affected == 1 {
			return next, nil
		}
		// lost the race, another caller moved the timestamp.
	}

	return 0, NewError(KindStatementFailed,
		"sequence %s: gave up after %d contended retries", name, retries)
}

// tableName returns the quoted sequence table name.
func (s *Sequence) tableName() string {
	cfg := s.d.Config()
	name := cfg.sequenceTable()
	if cfg.Schema != "" {
		return s.d.QuoteIdentifier(cfg.Schema, name)
	}
	return s.d.QuoteIdentifier(name)
}

// SequenceSchema adds the sequence table definition to the database,
// so the DDL generator can create it alongside the user tables.
func SequenceSchema(db *schema.Database, name string) (*schema.Table, error) {
	t, err := db.AddTable(name)
	if err != nil {
		return nil, err
	}
	seqName, err := t.AddColumn("seq_name", datatype.Text, 40, datatype.NotNull)
	if err != nil {
		return nil, err
	}
	if _, err = t.AddColumn("seq_value", datatype.Integer, 8, datatype.NotNull); err != nil {
		return nil, err
	}
	if _, err = t.AddColumn("seq_time", datatype.Timestamp, 0, datatype.NotNull); err != nil {
		return nil, err
	}
	if err = t.SetPrimaryKey(seqName); err != nil {
		return nil, err
	}
	return t, nil
}
