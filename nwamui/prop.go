// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwamui

import (
	"fmt"

	"github.com/linuxdeepin/dde-nwam/libnwam"
)

// propHandle is the typed property surface shared by ENM and NCU handles.
// The handle declares each property's type and whether it is read-only.
type propHandle interface {
	GetPropValue(prop string) (libnwam.Value, error)
	SetPropValue(prop string, v libnwam.Value) error
	DeleteProp(prop string) error
	PropType(prop string) (libnwam.ValueType, error)
	PropReadOnly(prop string) (bool, error)
}

// checkPropType looks up the declared type of prop. A lookup failure is
// logged at debug level, a mismatch with want as a warning.
func checkPropType(h propHandle, prop string, want libnwam.ValueType) bool {
	typ, err := h.PropType(prop)
	if err != nil {
		logger.Debugf("get type of property %q failed: %v", prop, err)
		return false
	}
	if typ != want {
		logger.Warningf("type of property %q is %v, not %v", prop, typ, want)
		return false
	}
	return true
}

func getPropValue(h propHandle, prop string, want libnwam.ValueType) (libnwam.Value, bool) {
	if h == nil {
		return libnwam.Value{}, false
	}
	if !checkPropType(h, prop, want) {
		return libnwam.Value{}, false
	}
	v, err := h.GetPropValue(prop)
	if err != nil {
		logger.Debugf("get value of property %q failed: %v", prop, err)
		return libnwam.Value{}, false
	}
	return v, true
}

// getStringProp returns "" when the value is unavailable.
func getStringProp(h propHandle, prop string) string {
	v, ok := getPropValue(h, prop, libnwam.ValueTypeString)
	if !ok {
		return ""
	}
	s, err := v.String()
	if err != nil {
		logger.Debugf("get string of property %q failed: %v", prop, err)
		return ""
	}
	return s
}

func getBooleanProp(h propHandle, prop string) bool {
	v, ok := getPropValue(h, prop, libnwam.ValueTypeBoolean)
	if !ok {
		return false
	}
	b, err := v.Boolean()
	if err != nil {
		logger.Debugf("get boolean of property %q failed: %v", prop, err)
		return false
	}
	return b
}

func getUint64Prop(h propHandle, prop string) uint64 {
	v, ok := getPropValue(h, prop, libnwam.ValueTypeUint64)
	if !ok {
		return 0
	}
	u, err := v.Uint64()
	if err != nil {
		logger.Debugf("get uint64 of property %q failed: %v", prop, err)
		return 0
	}
	return u
}

func getUint64ArrayProp(h propHandle, prop string) []uint64 {
	v, ok := getPropValue(h, prop, libnwam.ValueTypeUint64)
	if !ok {
		return nil
	}
	us, err := v.Uint64Array()
	if err != nil || len(us) == 0 {
		return nil
	}
	return us
}

// getStringArrayProp returns a fresh copy of the values, or nil if there
// are none. It never returns an empty non-nil slice.
func getStringArrayProp(h propHandle, prop string) []string {
	v, ok := getPropValue(h, prop, libnwam.ValueTypeString)
	if !ok {
		return nil
	}
	strs, err := v.StringArray()
	if err != nil {
		logger.Debugf("get strings of property %q failed: %v", prop, err)
		return nil
	}
	if len(strs) == 0 {
		return nil
	}
	return strs
}

// assertWritable panics if the system declares prop read-only. Writing such
// a property is a programming error.
func assertWritable(h propHandle, prop string) {
	readOnly, err := h.PropReadOnly(prop)
	if err != nil {
		logger.Debugf("get read-only flag of property %q failed: %v", prop, err)
		return
	}
	if readOnly {
		panic(fmt.Sprintf("nwamui: write to read-only property %q", prop))
	}
}

func setPropValue(h propHandle, prop string, v libnwam.Value) bool {
	err := h.SetPropValue(prop, v)
	if err != nil {
		logger.Debugf("set value of property %q failed: %v", prop, err)
		return false
	}
	return true
}

func setStringProp(h propHandle, prop string, s string) bool {
	if h == nil {
		return false
	}
	assertWritable(h, prop)
	if !checkPropType(h, prop, libnwam.ValueTypeString) {
		return false
	}
	v, err := libnwam.NewStringValue(s)
	if err != nil {
		logger.Debugf("create value for property %q failed: %v", prop, err)
		return false
	}
	return setPropValue(h, prop, v)
}

// setStringArrayProp stores the first n strings. A negative n means the
// length is not known: strs is then read up to the first empty string.
// Storing no strings removes the property.
func setStringArrayProp(h propHandle, prop string, strs []string, n int) bool {
	if h == nil {
		return false
	}
	if n < 0 {
		n = 0
		for n < len(strs) && strs[n] != "" {
			n++
		}
	} else if n > len(strs) {
		n = len(strs)
	}
	assertWritable(h, prop)
	if !checkPropType(h, prop, libnwam.ValueTypeString) {
		return false
	}

	if n == 0 {
		return clearProp(h, prop)
	}
	v, err := libnwam.NewStringArrayValue(strs[:n])
	if err != nil {
		logger.Debugf("create value for property %q failed: %v", prop, err)
		return false
	}
	return setPropValue(h, prop, v)
}

func setUint64Prop(h propHandle, prop string, u uint64) bool {
	if h == nil {
		return false
	}
	assertWritable(h, prop)
	if !checkPropType(h, prop, libnwam.ValueTypeUint64) {
		return false
	}
	return setPropValue(h, prop, libnwam.NewUint64Value(u))
}

func setUint64ArrayProp(h propHandle, prop string, us []uint64) bool {
	if h == nil {
		return false
	}
	assertWritable(h, prop)
	if !checkPropType(h, prop, libnwam.ValueTypeUint64) {
		return false
	}
	v, err := libnwam.NewUint64ArrayValue(us)
	if err != nil {
		logger.Debugf("create value for property %q failed: %v", prop, err)
		return false
	}
	return setPropValue(h, prop, v)
}

func setBooleanProp(h propHandle, prop string, b bool) bool {
	if h == nil {
		return false
	}
	assertWritable(h, prop)
	if !checkPropType(h, prop, libnwam.ValueTypeBoolean) {
		return false
	}
	return setPropValue(h, prop, libnwam.NewBooleanValue(b))
}

// clearProp removes prop from the handle. A missing value counts as
// removed.
func clearProp(h propHandle, prop string) bool {
	if h == nil {
		return false
	}
	assertWritable(h, prop)
	err := h.DeleteProp(prop)
	if err != nil && err != libnwam.ErrEntityNotFound {
		logger.Debugf("delete property %q failed: %v", prop, err)
		return false
	}
	return true
}
