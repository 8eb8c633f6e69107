// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwamui

import (
	"fmt"
	"net"
	"strings"
)

type ObjectType string

const (
	ObjectNcu              ObjectType = "ncu"
	ObjectEnm              ObjectType = "enm"
	ObjectLoc              ObjectType = "loc"
	ObjectIPAddress        ObjectType = "ip-address"
	ObjectAdvertisedDomain ObjectType = "advertised-domain"
	ObjectSystemDomain     ObjectType = "system-domain"
	ObjectEssid            ObjectType = "essid"
	ObjectBssid            ObjectType = "bssid"
)

type ConditionOp string

const (
	OpIs             ConditionOp = "is"
	OpIsNot          ConditionOp = "is-not"
	OpIsInRange      ConditionOp = "is-in-range"
	OpIsNotInRange   ConditionOp = "is-not-in-range"
	OpContains       ConditionOp = "contains"
	OpDoesNotContain ConditionOp = "does-not-contain"
)

// value of conditions on profile objects
const conditionValueActive = "active"

var conditionOps = map[ObjectType][]ConditionOp{
	ObjectNcu:              {OpIs, OpIsNot},
	ObjectEnm:              {OpIs, OpIsNot},
	ObjectLoc:              {OpIs, OpIsNot},
	ObjectIPAddress:        {OpIs, OpIsNot, OpIsInRange, OpIsNotInRange},
	ObjectAdvertisedDomain: {OpIs, OpIsNot, OpContains, OpDoesNotContain},
	ObjectSystemDomain:     {OpIs, OpIsNot, OpContains, OpDoesNotContain},
	ObjectEssid:            {OpIs, OpIsNot, OpContains, OpDoesNotContain},
	ObjectBssid:            {OpIs, OpIsNot},
}

// hasName reports whether conditions on the object type name a profile
// object, e.g. "ncu net0 is active".
func (t ObjectType) hasName() bool {
	switch t {
	case ObjectNcu, ObjectEnm, ObjectLoc:
		return true
	}
	return false
}

// Condition is one activation condition of an ENM or location.
type Condition struct {
	Object ObjectType
	Name   string
	Op     ConditionOp
	Value  string
}

func NewObjectCondition(object ObjectType, name string, op ConditionOp) *Condition {
	return &Condition{
		Object: object,
		Name:   name,
		Op:     op,
		Value:  conditionValueActive,
	}
}

func (c *Condition) Validate() error {
	ops, ok := conditionOps[c.Object]
	if !ok {
		return fmt.Errorf("unknown condition object %q", c.Object)
	}
	opOk := false
	for _, op := range ops {
		if op == c.Op {
			opOk = true
			break
		}
	}
	if !opOk {
		return fmt.Errorf("condition %q not allowed for %s", c.Op, c.Object)
	}

	if c.Object.hasName() {
		if c.Name == "" {
			return fmt.Errorf("condition on %s needs a name", c.Object)
		}
		if c.Value != conditionValueActive {
			return fmt.Errorf("condition on %s must test %q", c.Object, conditionValueActive)
		}
		return nil
	}

	if c.Value == "" {
		return fmt.Errorf("condition on %s needs a value", c.Object)
	}
	if c.Object == ObjectIPAddress {
		switch c.Op {
		case OpIsInRange, OpIsNotInRange:
			if _, _, err := net.ParseCIDR(c.Value); err != nil {
				return fmt.Errorf("invalid address range %q", c.Value)
			}
		default:
			if net.ParseIP(c.Value) == nil {
				return fmt.Errorf("invalid address %q", c.Value)
			}
		}
	}
	return nil
}

func (c *Condition) String() string {
	if c.Object.hasName() {
		return fmt.Sprintf("%s %s %s %s", c.Object, c.Name, c.Op, c.Value)
	}
	return fmt.Sprintf("%s %s %s", c.Object, c.Op, c.Value)
}

// ParseCondition parses the repository form of a condition:
// "<object> [<name>] <op> <value>".
func ParseCondition(s string) (*Condition, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return nil, fmt.Errorf("invalid condition %q", s)
	}
	c := &Condition{Object: ObjectType(fields[0])}
	if c.Object.hasName() {
		if len(fields) != 4 {
			return nil, fmt.Errorf("invalid condition %q", s)
		}
		c.Name = fields[1]
		c.Op = ConditionOp(fields[2])
		c.Value = fields[3]
	} else {
		c.Op = ConditionOp(fields[1])
		c.Value = strings.Join(fields[2:], " ")
	}
	err := c.Validate()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func ConditionsToStrings(conds []*Condition) []string {
	if len(conds) == 0 {
		return nil
	}
	result := make([]string, 0, len(conds))
	for _, c := range conds {
		if c == nil {
			continue
		}
		result = append(result, c.String())
	}
	return result
}

// ConditionsFromStrings skips entries that do not parse.
func ConditionsFromStrings(strs []string) []*Condition {
	if len(strs) == 0 {
		return nil
	}
	result := make([]*Condition, 0, len(strs))
	for _, s := range strs {
		c, err := ParseCondition(s)
		if err != nil {
			logger.Warning(err)
			continue
		}
		result = append(result, c)
	}
	return result
}
