// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwamui

import (
	"github.com/linuxdeepin/dde-nwam/libnwam"
)

type enmProp struct {
	name string
	get  func(e *Enm) interface{}
	set  func(e *Enm, v interface{}) error
}

func stringSetter(fn func(e *Enm, s string) error) func(e *Enm, v interface{}) error {
	return func(e *Enm, v interface{}) error {
		s, ok := v.(string)
		if !ok {
			return libnwam.ErrEntityTypeMismatch
		}
		return fn(e, s)
	}
}

var enmPropTable = []enmProp{
	{
		name: EnmPropName,
		get:  func(e *Enm) interface{} { return e.Name() },
		set:  stringSetter((*Enm).SetName),
	},
	{
		name: EnmPropActive,
		get:  func(e *Enm) interface{} { return e.Active() },
		set: func(e *Enm, v interface{}) error {
			b, ok := v.(bool)
			if !ok {
				return libnwam.ErrEntityTypeMismatch
			}
			return e.SetActive(b)
		},
	},
	{
		name: EnmPropStartCommand,
		get:  func(e *Enm) interface{} { return e.StartCommand() },
		set:  stringSetter((*Enm).SetStartCommand),
	},
	{
		name: EnmPropStopCommand,
		get:  func(e *Enm) interface{} { return e.StopCommand() },
		set:  stringSetter((*Enm).SetStopCommand),
	},
	{
		name: EnmPropSmfFmri,
		get:  func(e *Enm) interface{} { return e.SmfFmri() },
		set:  stringSetter((*Enm).SetSmfFmri),
	},
	{
		name: EnmPropActivationMode,
		get:  func(e *Enm) interface{} { return e.ActivationMode() },
		set: func(e *Enm, v interface{}) error {
			switch mode := v.(type) {
			case libnwam.ActivationMode:
				return e.SetActivationMode(mode)
			case uint64:
				return e.SetActivationMode(libnwam.ActivationMode(mode))
			}
			return libnwam.ErrEntityTypeMismatch
		},
	},
	{
		name: EnmPropConditions,
		get:  func(e *Enm) interface{} { return e.Conditions() },
		set: func(e *Enm, v interface{}) error {
			switch conds := v.(type) {
			case []*Condition:
				return e.SetConditions(conds)
			case []string:
				parsed := make([]*Condition, 0, len(conds))
				for _, s := range conds {
					c, err := ParseCondition(s)
					if err != nil {
						return libnwam.ErrEntityInvalidValue
					}
					parsed = append(parsed, c)
				}
				return e.SetConditions(parsed)
			}
			return libnwam.ErrEntityTypeMismatch
		},
	},
}

func lookupEnmProp(name string) (*enmProp, error) {
	for i := range enmPropTable {
		if enmPropTable[i].name == name {
			return &enmPropTable[i], nil
		}
	}
	return nil, libnwam.ErrInvalidArg
}

// EnmProps lists the property names accepted by Get and Set.
func EnmProps() []string {
	names := make([]string, len(enmPropTable))
	for i, p := range enmPropTable {
		names[i] = p.name
	}
	return names
}

func (e *Enm) Get(prop string) (interface{}, error) {
	p, err := lookupEnmProp(prop)
	if err != nil {
		return nil, err
	}
	return p.get(e), nil
}

func (e *Enm) Set(prop string, v interface{}) error {
	p, err := lookupEnmProp(prop)
	if err != nil {
		return err
	}
	return p.set(e, v)
}
