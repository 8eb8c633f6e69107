// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package libnwam

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type ValueType int

const (
	ValueTypeUnknown ValueType = iota
	ValueTypeBoolean
	ValueTypeInt64
	ValueTypeUint64
	ValueTypeString
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeBoolean:
		return "boolean"
	case ValueTypeInt64:
		return "int64"
	case ValueTypeUint64:
		return "uint64"
	case ValueTypeString:
		return "string"
	}
	return "unknown"
}

// Value is a typed property value. A value always carries at least one
// item; multi-valued properties carry several items of the same type.
type Value struct {
	typ      ValueType
	booleans []bool
	int64s   []int64
	uint64s  []uint64
	strings  []string
}

func NewBooleanValue(b bool) Value {
	return Value{typ: ValueTypeBoolean, booleans: []bool{b}}
}

func NewInt64Value(i int64) Value {
	return Value{typ: ValueTypeInt64, int64s: []int64{i}}
}

func NewUint64Value(u uint64) Value {
	return Value{typ: ValueTypeUint64, uint64s: []uint64{u}}
}

func NewUint64ArrayValue(us []uint64) (Value, error) {
	if len(us) == 0 {
		return Value{}, ErrInvalidArg
	}
	return Value{typ: ValueTypeUint64, uint64s: append([]uint64(nil), us...)}, nil
}

func NewStringValue(s string) (Value, error) {
	if s == "" {
		return Value{}, ErrInvalidArg
	}
	return Value{typ: ValueTypeString, strings: []string{s}}, nil
}

// NewStringArrayValue copies strs; empty members are rejected.
func NewStringArrayValue(strs []string) (Value, error) {
	if len(strs) == 0 {
		return Value{}, ErrInvalidArg
	}
	for _, s := range strs {
		if s == "" {
			return Value{}, ErrInvalidArg
		}
	}
	return Value{typ: ValueTypeString, strings: append([]string(nil), strs...)}, nil
}

func (v Value) Type() ValueType {
	return v.typ
}

func (v Value) Len() int {
	switch v.typ {
	case ValueTypeBoolean:
		return len(v.booleans)
	case ValueTypeInt64:
		return len(v.int64s)
	case ValueTypeUint64:
		return len(v.uint64s)
	case ValueTypeString:
		return len(v.strings)
	}
	return 0
}

func (v Value) IsValid() bool {
	return v.typ != ValueTypeUnknown && v.Len() > 0
}

func (v Value) Boolean() (bool, error) {
	if v.typ != ValueTypeBoolean {
		return false, ErrEntityTypeMismatch
	}
	if len(v.booleans) != 1 {
		return false, ErrEntityMultipleValues
	}
	return v.booleans[0], nil
}

func (v Value) Int64() (int64, error) {
	if v.typ != ValueTypeInt64 {
		return 0, ErrEntityTypeMismatch
	}
	if len(v.int64s) != 1 {
		return 0, ErrEntityMultipleValues
	}
	return v.int64s[0], nil
}

func (v Value) Uint64() (uint64, error) {
	if v.typ != ValueTypeUint64 {
		return 0, ErrEntityTypeMismatch
	}
	if len(v.uint64s) != 1 {
		return 0, ErrEntityMultipleValues
	}
	return v.uint64s[0], nil
}

func (v Value) Uint64Array() ([]uint64, error) {
	if v.typ != ValueTypeUint64 {
		return nil, ErrEntityTypeMismatch
	}
	return append([]uint64(nil), v.uint64s...), nil
}

func (v Value) String() (string, error) {
	if v.typ != ValueTypeString {
		return "", ErrEntityTypeMismatch
	}
	if len(v.strings) != 1 {
		return "", ErrEntityMultipleValues
	}
	return v.strings[0], nil
}

func (v Value) StringArray() ([]string, error) {
	if v.typ != ValueTypeString {
		return nil, ErrEntityTypeMismatch
	}
	return append([]string(nil), v.strings...), nil
}

// Format renders the value the way nwamcfg prints it: items separated by
// commas.
func (v Value) Format() string {
	var items []string
	switch v.typ {
	case ValueTypeBoolean:
		for _, b := range v.booleans {
			items = append(items, strconv.FormatBool(b))
		}
	case ValueTypeInt64:
		for _, i := range v.int64s {
			items = append(items, strconv.FormatInt(i, 10))
		}
	case ValueTypeUint64:
		for _, u := range v.uint64s {
			items = append(items, strconv.FormatUint(u, 10))
		}
	case ValueTypeString:
		items = v.strings
	}
	return strings.Join(items, ",")
}

// ParseValue builds a value of type typ from its textual items.
func ParseValue(typ ValueType, items []string) (Value, error) {
	if len(items) == 0 {
		return Value{}, ErrInvalidArg
	}
	switch typ {
	case ValueTypeBoolean:
		if len(items) != 1 {
			return Value{}, ErrEntityMultipleValues
		}
		b, err := strconv.ParseBool(items[0])
		if err != nil {
			return Value{}, ErrEntityInvalidValue
		}
		return NewBooleanValue(b), nil
	case ValueTypeInt64:
		if len(items) != 1 {
			return Value{}, ErrEntityMultipleValues
		}
		i, err := strconv.ParseInt(items[0], 10, 64)
		if err != nil {
			return Value{}, ErrEntityInvalidValue
		}
		return NewInt64Value(i), nil
	case ValueTypeUint64:
		us := make([]uint64, 0, len(items))
		for _, item := range items {
			u, err := strconv.ParseUint(item, 10, 64)
			if err != nil {
				return Value{}, ErrEntityInvalidValue
			}
			us = append(us, u)
		}
		return NewUint64ArrayValue(us)
	case ValueTypeString:
		return NewStringArrayValue(items)
	}
	return Value{}, ErrEntityTypeMismatch
}

type storedValue struct {
	Type     string   `json:"type"`
	Booleans []bool   `json:"booleans,omitempty"`
	Int64s   []int64  `json:"int64s,omitempty"`
	Uint64s  []uint64 `json:"uint64s,omitempty"`
	Strings  []string `json:"strings,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(storedValue{
		Type:     v.typ.String(),
		Booleans: v.booleans,
		Int64s:   v.int64s,
		Uint64s:  v.uint64s,
		Strings:  v.strings,
	})
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var sv storedValue
	err := json.Unmarshal(data, &sv)
	if err != nil {
		return err
	}
	var typ ValueType
	switch sv.Type {
	case "boolean":
		typ = ValueTypeBoolean
	case "int64":
		typ = ValueTypeInt64
	case "uint64":
		typ = ValueTypeUint64
	case "string":
		typ = ValueTypeString
	default:
		return fmt.Errorf("unknown value type %q", sv.Type)
	}
	*v = Value{
		typ:      typ,
		booleans: sv.Booleans,
		int64s:   sv.Int64s,
		uint64s:  sv.Uint64s,
		strings:  sv.Strings,
	}
	if !v.IsValid() {
		return fmt.Errorf("empty %s value", sv.Type)
	}
	return nil
}
