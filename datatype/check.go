// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package datatype

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Error messages.
var (
	ErrCheck = "datatype: value %#v is no valid %s"
)

// sysdate is the type of the SysDate sentinel.
type sysdate struct{}

// SysDate is a sentinel for the current database server time.
// It renders as the dialect specific CURRENT_TIMESTAMP function instead of a
// literal and binds as the driver supplied server time.
var SysDate = sysdate{}

// IsSysDate returns true if the value is the SysDate sentinel.
func IsSysDate(v interface{}) bool {
	_, ok := v.(sysdate)
	return ok
}

// TimeLayout is the normalized timestamp layout used when date or time
// values are passed as strings.
const TimeLayout = "2006-01-02 15:04:05"

// DateLayout is the normalized date-only layout.
const DateLayout = "2006-01-02"

// Check validates and coerces a raw value against the given data type.
// It is called at bind time, before any database round trip, so that
// malformed values are detected as early as possible.
// Nil values and the SysDate sentinel pass unchanged.
func Check(v interface{}, t Type) (interface{}, error) {
	if v == nil || IsSysDate(v) {
		return v, nil
	}
	switch t {
	case Integer, AutoInc:
		return checkInteger(v, t)
	case Decimal, Double:
		return checkFloat(v, t)
	case Bool:
		return checkBool(v)
	case Date, DateTime, Timestamp:
		return checkTime(v, t)
	case Text, Char, Clob, UniqueID:
		return checkText(v)
	case Blob:
		return v, nil
	default:
		return v, nil
	}
}

// ToBool converts a boolean expression string to a bool.
// "1", "true" and "y" are true, everything else is false.
func ToBool(s string) bool {
	return s == "1" || strings.EqualFold(s, "true") || strings.EqualFold(s, "y")
}

func checkInteger(v interface{}, t Type) (interface{}, error) {
	switch val := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return SanitizeInterfaceValue(v)
	case float64:
		if val == float64(int64(val)) {
			return int64(val), nil
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
			return i, nil
		}
	case NullInt:
		return val, nil
	}
	return nil, fmt.Errorf(ErrCheck, v, t)
}

func checkFloat(v interface{}, t Type) (interface{}, error) {
	switch val := v.(type) {
	case float32:
		return float64(val), nil
	case float64:
		return val, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, err := SanitizeInterfaceValue(v)
		if err != nil {
			return nil, fmt.Errorf(ErrCheck, v, t)
		}
		return float64(i.(int64)), nil
	case string:
		if f, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(val), ",", ".", 1), 64); err == nil {
			return f, nil
		}
	case NullFloat:
		return val, nil
	}
	return nil, fmt.Errorf(ErrCheck, v, t)
}

func checkBool(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		return ToBool(val), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, _ := SanitizeInterfaceValue(v)
		return i.(int64) != 0, nil
	case NullBool:
		return val, nil
	}
	return nil, fmt.Errorf(ErrCheck, v, Bool)
}

func checkTime(v interface{}, t Type) (interface{}, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case *time.Time:
		return *val, nil
	case string:
		s := strings.TrimSpace(val)
		// date only
		if len(s) <= 10 {
			if d, err := time.Parse(DateLayout, s); err == nil {
				return d, nil
			}
			return nil, fmt.Errorf(ErrCheck, v, t)
		}
		if d, err := time.Parse(TimeLayout, s); err == nil {
			return d, nil
		}
	case NullTime:
		return val, nil
	}
	return nil, fmt.Errorf(ErrCheck, v, t)
}

func checkText(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case rune:
		return string(val), nil
	case []byte:
		return string(val), nil
	case NullString:
		return val, nil
	case fmt.Stringer:
		return val.String(), nil
	}
	return fmt.Sprintf("%v", v), nil
}
