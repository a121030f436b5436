// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

// Phrase is a symbolic SQL fragment looked up per dialect.
// Dialects only define the phrases that differ from the ANSI defaults.
type Phrase int

// All phrase identifiers.
const (
	PhraseNull Phrase = iota
	PhraseQuoteOpen
	PhraseQuoteClose
	PhraseConcat
	PhraseBoolTrue
	PhraseBoolFalse
	PhraseRenameColumn
	PhraseCurrentDate
	PhraseDatePattern
	PhraseDateTemplate
	PhraseCurrentDateTime
	PhraseDateTimePattern
	PhraseDateTimeTemplate
	PhraseCurrentTimestamp
	PhraseTimestampPattern
	PhraseTimestampTemplate
	// string functions
	FuncCoalesce
	FuncSubstring
	FuncReplace
	FuncReverse
	FuncStrIndex
	FuncLength
	FuncUpper
	FuncLower
	FuncTrim
	FuncLTrim
	FuncRTrim
	// numeric functions
	FuncAbs
	FuncRound
	FuncTrunc
	FuncCeiling
	FuncFloor
	// date functions
	FuncDay
	FuncMonth
	FuncYear
	// aggregate functions
	FuncSum
	FuncMax
	FuncMin
	FuncAvg
	FuncCount
)

// defaultPhrases are the ANSI defaults.
// The date patterns are Go time layouts, the templates use {0} for the
// formatted value and the function templates use ? for the wrapped
// expression and {0},{1},... for additional arguments.
var defaultPhrases = map[Phrase]string{
	PhraseNull:              "null",
	PhraseQuoteOpen:         "\"",
	PhraseQuoteClose:        "\"",
	PhraseConcat:            " || ",
	PhraseBoolTrue:          "true",
	PhraseBoolFalse:         "false",
	PhraseRenameColumn:      " AS ",
	PhraseCurrentDate:       "CURRENT_DATE",
	PhraseDatePattern:       "2006-01-02",
	PhraseDateTemplate:      "'{0}'",
	PhraseCurrentDateTime:   "CURRENT_TIMESTAMP",
	PhraseDateTimePattern:   "2006-01-02 15:04:05",
	PhraseDateTimeTemplate:  "'{0}'",
	PhraseCurrentTimestamp:  "CURRENT_TIMESTAMP",
	PhraseTimestampPattern:  "2006-01-02 15:04:05.000",
	PhraseTimestampTemplate: "'{0}'",
	FuncCoalesce:            "coalesce(?, {0})",
	FuncSubstring:           "substring(? from {0})",
	FuncReplace:             "replace(?, {0}, {1})",
	FuncReverse:             "reverse(?)",
	FuncStrIndex:            "position({0} in ?)",
	FuncLength:              "length(?)",
	FuncUpper:               "upper(?)",
	FuncLower:               "lower(?)",
	FuncTrim:                "trim(?)",
	FuncLTrim:               "ltrim(?)",
	FuncRTrim:               "rtrim(?)",
	FuncAbs:                 "abs(?)",
	FuncRound:               "round(?,{0})",
	FuncTrunc:               "truncate(?,{0})",
	FuncCeiling:             "ceiling(?)",
	FuncFloor:               "floor(?)",
	FuncDay:                 "extract(day from ?)",
	FuncMonth:               "extract(month from ?)",
	FuncYear:                "extract(year from ?)",
	FuncSum:                 "sum(?)",
	FuncMax:                 "max(?)",
	FuncMin:                 "min(?)",
	FuncAvg:                 "avg(?)",
	FuncCount:               "count(?)",
}
