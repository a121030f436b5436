// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package datatype

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"gopkg.in/guregu/null.v4"
)

// Error messages.
var (
	ErrSanitize = "datatype: can not sanitize value %v of type %s"
)

// nullBytes is a JSON null literal.
var nullBytes = []byte("null")

// NullString wraps gopkg.in/guregu/null.String.
type NullString null.String

// NullBool wraps gopkg.in/guregu/null.Bool.
type NullBool null.Bool

// NullInt wraps gopkg.in/guregu/null.Int.
type NullInt null.Int

// NullFloat wraps gopkg.in/guregu/null.Float.
type NullFloat null.Float

// NullTime wraps gopkg.in/guregu/null.Time.
type NullTime null.Time

// NewNullString creates a new NullString.
func NewNullString(s string, valid bool) NullString {
	return NullString(null.NewString(s, valid))
}

// NewNullBool creates a new NullBool.
func NewNullBool(b bool, valid bool) NullBool {
	return NullBool(null.NewBool(b, valid))
}

// NewNullInt creates a new NullInt.
func NewNullInt(i int64, valid bool) NullInt {
	return NullInt(null.NewInt(i, valid))
}

// NewNullFloat creates a new NullFloat.
func NewNullFloat(f float64, valid bool) NullFloat {
	return NullFloat(null.NewFloat(f, valid))
}

// NewNullTime creates a new NullTime.
func NewNullTime(t time.Time, valid bool) NullTime {
	return NullTime(null.NewTime(t, valid))
}

// SanitizeToString will convert any supported type to a string.
// Error will return if the type is not implemented in SanitizeInterfaceValue.
func SanitizeToString(i interface{}) (string, error) {
	v, err := SanitizeInterfaceValue(i)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", v), nil
}

// SanitizeInterfaceValue will convert any int, uint or NullInt to int64 and
// NullString to string. Error will return if the type is not implemented.
func SanitizeInterfaceValue(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case string:
		return v, nil
	case NullInt:
		if v.Valid {
			return v.Int64, nil
		}
	case NullString:
		if v.Valid {
			return v.String, nil
		}
	}
	return nil, fmt.Errorf(ErrSanitize, value, reflect.TypeOf(value).String())
}

// UnmarshalJSON implements json.Unmarshaler.
// It supports string and null input.
func (s *NullString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, nullBytes) {
		s.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &s.String); err != nil {
		return fmt.Errorf("datatype: couldn't unmarshal JSON: %w", err)
	}
	s.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
// It will encode null if this String is null.
func (s NullString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return nullBytes, nil
	}
	return json.Marshal(s.String)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *NullBool) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, nullBytes) {
		b.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &b.Bool); err != nil {
		return fmt.Errorf("datatype: couldn't unmarshal JSON: %w", err)
	}
	b.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b NullBool) MarshalJSON() ([]byte, error) {
	if !b.Valid {
		return nullBytes, nil
	}
	return strconv.AppendBool(nil, b.Bool), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *NullInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, nullBytes) {
		i.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &i.Int64); err != nil {
		return fmt.Errorf("datatype: couldn't unmarshal JSON: %w", err)
	}
	i.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i NullInt) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return nullBytes, nil
	}
	return []byte(strconv.FormatInt(i.Int64, 10)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *NullFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, nullBytes) {
		f.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &f.Float64); err != nil {
		return fmt.Errorf("datatype: couldn't unmarshal JSON: %w", err)
	}
	f.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f NullFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return nullBytes, nil
	}
	return []byte(strconv.FormatFloat(f.Float64, 'f', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *NullTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, nullBytes) {
		t.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &t.Time); err != nil {
		return fmt.Errorf("datatype: couldn't unmarshal JSON: %w", err)
	}
	t.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t NullTime) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return nullBytes, nil
	}
	return t.Time.MarshalJSON()
}
