// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import "time"

// Config of a dialect connection.
type Config struct {
	Provider string `validate:"required"`

	Username string
	Password string
	Host     string `validate:"required"`
	Port     int    `validate:"required"`
	Database string `validate:"required"`
	Schema   string

	MaxIdleConnections int
	MaxOpenConnections int
	MaxConnLifetime    time.Duration
	Timeout            string

	// PreQuery statements run once after the connection opened.
	PreQuery []string

	// SequenceTable holds the emulated sequences for vendors without
	// native sequence objects. Defaults to "relq_sequences".
	SequenceTable string
	// SequenceRetries bounds the optimistic update loop of the sequence
	// emulation. Defaults to 100.
	SequenceRetries int
	// UseSequenceTable generates keys through the sequence emulation even
	// when the vendor has identity columns.
	UseSequenceTable bool
}

// sequenceTable returns the configured sequence table or its default.
func (c Config) sequenceTable() string {
	if c.SequenceTable == "" {
		return "relq_sequences"
	}
	return c.SequenceTable
}

// sequenceRetries returns the configured retry bound or its default.
func (c Config) sequenceRetries() int {
	if c.SequenceRetries <= 0 {
		return 100
	}
	return c.SequenceRetries
}
