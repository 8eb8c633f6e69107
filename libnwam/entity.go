// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package libnwam

import (
	"sort"
	"strings"

	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("daemon/libnwam")

// SetLogLevel lets the daemon follow its own verbosity.
func SetLogLevel(pri log.Priority) {
	logger.SetLogLevel(pri)
}

// entity holds the property set shared by every handle kind.
type entity struct {
	table propTable
	props map[string]Value
	freed bool
}

func newEntity(table propTable) entity {
	return entity{
		table: table,
		props: make(map[string]Value),
	}
}

func (e *entity) getPropValue(prop string) (Value, error) {
	if e.freed {
		return Value{}, ErrInvalidArg
	}
	if _, err := e.table.lookup(prop); err != nil {
		return Value{}, err
	}
	v, ok := e.props[prop]
	if !ok {
		return Value{}, ErrEntityNotFound
	}
	return v, nil
}

func (e *entity) setPropValue(prop string, v Value) error {
	if e.freed {
		return ErrInvalidArg
	}
	desc, err := e.table.lookup(prop)
	if err != nil {
		return err
	}
	if desc.ReadOnly {
		return ErrEntityReadOnly
	}
	if !v.IsValid() {
		return ErrEntityInvalidValue
	}
	if v.Type() != desc.Type {
		return ErrEntityTypeMismatch
	}
	if !desc.Multi && v.Len() > 1 {
		return ErrEntityMultipleValues
	}
	e.props[prop] = v
	return nil
}

// setSystemProp bypasses the read-only policy; it is used for values the
// system itself maintains, like "enabled".
func (e *entity) setSystemProp(prop string, v Value) {
	e.props[prop] = v
}

func (e *entity) deleteProp(prop string) error {
	if e.freed {
		return ErrInvalidArg
	}
	desc, err := e.table.lookup(prop)
	if err != nil {
		return err
	}
	if desc.ReadOnly {
		return ErrEntityReadOnly
	}
	if _, ok := e.props[prop]; !ok {
		return ErrEntityNotFound
	}
	delete(e.props, prop)
	return nil
}

func (e *entity) propNames() []string {
	names := make([]string, 0, len(e.props))
	for name := range e.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *entity) boolProp(prop string) bool {
	v, ok := e.props[prop]
	if !ok {
		return false
	}
	b, err := v.Boolean()
	if err != nil {
		return false
	}
	return b
}

func (e *entity) copyProps() map[string]Value {
	props := make(map[string]Value, len(e.props))
	for k, v := range e.props {
		props[k] = v
	}
	return props
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\n") {
		return ErrInvalidArg
	}
	return nil
}
