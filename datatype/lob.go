// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package datatype

import (
	"bytes"
	"io"
	"strings"
)

// BlobData wraps a binary large object for parameter binding.
// The content is streamed with a known length instead of being materialized,
// so large objects never have to exist twice in memory.
// Blob values have no literal representation, they must be bound.
type BlobData struct {
	Reader io.Reader
	Length int
}

// NewBlobData creates a BlobData from a byte slice.
func NewBlobData(data []byte) BlobData {
	return BlobData{Reader: bytes.NewReader(data), Length: len(data)}
}

// ClobData wraps a character large object for parameter binding.
type ClobData struct {
	Reader io.Reader
	Length int
}

// NewClobData creates a ClobData from a string.
func NewClobData(data string) ClobData {
	return ClobData{Reader: strings.NewReader(data), Length: len(data)}
}
