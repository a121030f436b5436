// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"strconv"
	"strings"
)

// PLACEHOLDER character used internally during rendering.
// It is replaced by the vendor placeholder before execution.
const PLACEHOLDER = "?"

// Placeholder is used to ensure a unique placeholder for different
// database vendors.
type Placeholder struct {
	Numeric bool   // must be true if the database counts placeholders ($1, :1, ...)
	Char    string // vendor placeholder character
	counter int
}

// hasCounter returns true if the placeholder is numeric.
func (p *Placeholder) hasCounter() bool {
	return p.Numeric
}

// placeholder returns the next placeholder token.
// If the placeholder is numeric, the counter will be incremented.
func (p *Placeholder) placeholder() string {
	if p.hasCounter() {
		p.counter++
		return p.Char + strconv.Itoa(p.counter)
	}
	return p.Char
}

// reset the numeric counter, required before every statement.
func (p *Placeholder) reset() {
	p.counter = 0
}

// replacePlaceholders rewrites the internal placeholders of a rendered
// statement with the vendor tokens. Quoted literals are skipped so a
// question mark inside a string value stays untouched.
func replacePlaceholders(stmt string, p *Placeholder) string {
	if p.Char == PLACEHOLDER && !p.Numeric {
		return stmt
	}

	p.reset()
	var sb strings.Builder
	inLiteral := false
	for i := 0; i < len(stmt); i++ {
		c := stmt[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			sb.WriteByte(c)
		case c == '?' && !inLiteral:
			sb.WriteString(p.placeholder())
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
