// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/mgerste/relq/datatype"
	"github.com/mgerste/relq/schema"
)

const (
	seqSelect = `SELECT seq_value, seq_time FROM "relq_sequences" WHERE seq_name = ?`
	seqUpdate = `UPDATE "relq_sequences" SET seq_value = ?, seq_time = ? WHERE seq_name = ? AND seq_time = ?`
	seqInsert = `INSERT INTO "relq_sequences" (seq_name, seq_value, seq_time) VALUES (?, ?, ?)`
)

// mockDialect returns a test dialect backed by a sqlmock database.
func mockDialect(t *testing.T) (*testDialect, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	d := newTestDialect()
	d.SetDB(db)
	return d, mock
}

// TestSequence_NextValue tests the increment of an existing sequence
// row: guarded update succeeds on the first try.
func TestSequence_NextValue(t *testing.T) {
	asserts := assert.New(t)
	d, mock := mockDialect(t)

	token := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(seqSelect).WithArgs("customers").
		WillReturnRows(sqlmock.NewRows([]string{"seq_value", "seq_time"}).AddRow(41, token))
	mock.ExpectExec(seqUpdate).WithArgs(int64(42), sqlmock.AnyArg(), "customers", token).
		WillReturnResult(sqlmock.NewResult(0, 1))

	v, err := NewSequence(d).NextValue(context.Background(), "customers")
	asserts.NoError(err)
	asserts.Equal(int64(42), v)
	asserts.NoError(mock.ExpectationsWereMet())
}

// TestSequence_FirstValue tests that a missing sequence row is created
// and the minimum value returns.
func TestSequence_FirstValue(t *testing.T) {
	asserts := assert.New(t)
	d, mock := mockDialect(t)

	mock.ExpectQuery(seqSelect).WithArgs("customers").
		WillReturnRows(sqlmock.NewRows([]string{"seq_value", "seq_time"}))
	mock.ExpectExec(seqInsert).WithArgs("customers", int64(10), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	v, err := NewSequence(d).NextValueMin(context.Background(), "customers", 10)
	asserts.NoError(err)
	asserts.Equal(int64(10), v)
	asserts.NoError(mock.ExpectationsWereMet())
}

// TestSequence_Contention tests that a lost race (update affects no
// row) retries from a fresh read.
func TestSequence_Contention(t *testing.T) {
	asserts := assert.New(t)
	d, mock := mockDialect(t)

	token := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(seqSelect).WithArgs("customers").
		WillReturnRows(sqlmock.NewRows([]string{"seq_value", "seq_time"}).AddRow(41, token))
	// another caller moved the timestamp, no row matches.
	mock.ExpectExec(seqUpdate).WithArgs(int64(42), sqlmock.AnyArg(), "customers", token).
		WillReturnResult(sqlmock.NewResult(0, 0))

	token2 := token.Add(time.Second)
	mock.ExpectQuery(seqSelect).WithArgs("customers").
		WillReturnRows(sqlmock.NewRows([]string{"seq_value", "seq_time"}).AddRow(42, token2))
	mock.ExpectExec(seqUpdate).WithArgs(int64(43), sqlmock.AnyArg(), "customers", token2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	v, err := NewSequence(d).NextValue(context.Background(), "customers")
	asserts.NoError(err)
	asserts.Equal(int64(43), v)
	asserts.NoError(mock.ExpectationsWereMet())
}

// TestSequence_Exhausted tests that sustained contention gives up
// after the configured retry bound.
func TestSequence_Exhausted(t *testing.T) {
	asserts := assert.New(t)
	d, mock := mockDialect(t)
	d.Cfg.SequenceRetries = 2

	token := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(seqSelect).WithArgs("customers").
			WillReturnRows(sqlmock.NewRows([]string{"seq_value", "seq_time"}).AddRow(41, token))
		mock.ExpectExec(seqUpdate).WithArgs(int64(42), sqlmock.AnyArg(), "customers", token).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	_, err := NewSequence(d).NextValue(context.Background(), "customers")
	asserts.Error(err)
	asserts.Equal(KindStatementFailed, KindOf(err))
	asserts.Contains(err.Error(), "gave up after 2 contended retries")
	asserts.NoError(mock.ExpectationsWereMet())
}

// TestSequence_MinValue tests that the result never falls below the
// requested minimum.
func TestSequence_MinValue(t *testing.T) {
	asserts := assert.New(t)
	d, mock := mockDialect(t)

	token := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(seqSelect).WithArgs("customers").
		WillReturnRows(sqlmock.NewRows([]string{"seq_value", "seq_time"}).AddRow(3, token))
	mock.ExpectExec(seqUpdate).WithArgs(int64(100), sqlmock.AnyArg(), "customers", token).
		WillReturnResult(sqlmock.NewResult(0, 1))

	v, err := NewSequence(d).NextValueMin(context.Background(), "customers", 100)
	asserts.NoError(err)
	asserts.Equal(int64(100), v)
	asserts.NoError(mock.ExpectationsWereMet())
}

// TestSequence_SchemaQualified tests the schema qualified table name.
func TestSequence_SchemaQualified(t *testing.T) {
	asserts := assert.New(t)
	d := newTestDialect()
	d.Cfg.Schema = "dbo"

	s := NewSequence(d)
	asserts.Equal(`"dbo"."relq_sequences"`, s.tableName())

	d.Cfg.Schema = ""
	d.Cfg.SequenceTable = "my_seq"
	asserts.Equal(`"my_seq"`, s.tableName())
}

// TestSequenceSchema tests the generated sequence table definition.
func TestSequenceSchema(t *testing.T) {
	asserts := assert.New(t)
	db := schema.New("shop")

	tbl, err := SequenceSchema(db, "relq_sequences")
	asserts.NoError(err)
	asserts.Len(tbl.Columns(), 3)
	asserts.Equal(datatype.Text, tbl.Column("seq_name").DataType())
	asserts.Equal(datatype.Integer, tbl.Column("seq_value").DataType())
	asserts.Equal(datatype.Timestamp, tbl.Column("seq_time").DataType())
	pk := tbl.PrimaryKey()
	asserts.NotNil(pk)

	// duplicate table name
	_, err = SequenceSchema(db, "relq_sequences")
	asserts.Error(err)
}
