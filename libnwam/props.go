// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package libnwam

import "sort"

// PropDesc declares the type and policy of one entity property.
type PropDesc struct {
	Name     string
	Type     ValueType
	ReadOnly bool
	Multi    bool
	Desc     string
}

type propTable map[string]PropDesc

func (t propTable) lookup(name string) (PropDesc, error) {
	desc, ok := t[name]
	if !ok {
		return PropDesc{}, ErrInvalidArg
	}
	return desc, nil
}

func (t propTable) list() []PropDesc {
	result := make([]PropDesc, 0, len(t))
	for _, desc := range t {
		result = append(result, desc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func newPropTable(descs ...PropDesc) propTable {
	t := make(propTable, len(descs))
	for _, desc := range descs {
		t[desc.Name] = desc
	}
	return t
}

type ActivationMode uint64

const (
	ActivationModeManual ActivationMode = iota
	ActivationModeSystem
	ActivationModeConditionalAny
	ActivationModeConditionalAll
	ActivationModePrioritized
)

func (m ActivationMode) String() string {
	switch m {
	case ActivationModeManual:
		return "manual"
	case ActivationModeSystem:
		return "system"
	case ActivationModeConditionalAny:
		return "conditional-any"
	case ActivationModeConditionalAll:
		return "conditional-all"
	case ActivationModePrioritized:
		return "prioritized"
	}
	return "unknown"
}

func (m ActivationMode) IsValid() bool {
	return m <= ActivationModePrioritized
}

const (
	ENMPropActivationMode = "activation-mode"
	ENMPropConditions     = "conditions"
	ENMPropEnabled        = "enabled"
	ENMPropFMRI           = "fmri"
	ENMPropStart          = "start"
	ENMPropStop           = "stop"
)

var enmProps = newPropTable(
	PropDesc{Name: ENMPropActivationMode, Type: ValueTypeUint64,
		Desc: "ENM activation mode: manual or conditional-any/conditional-all"},
	PropDesc{Name: ENMPropConditions, Type: ValueTypeString, Multi: true,
		Desc: "conditions for ENM activation"},
	PropDesc{Name: ENMPropEnabled, Type: ValueTypeBoolean, ReadOnly: true,
		Desc: "whether the ENM is enabled"},
	PropDesc{Name: ENMPropFMRI, Type: ValueTypeString,
		Desc: "service instance that implements the ENM"},
	PropDesc{Name: ENMPropStart, Type: ValueTypeString,
		Desc: "command used to start the ENM"},
	PropDesc{Name: ENMPropStop, Type: ValueTypeString,
		Desc: "command used to stop the ENM"},
)

// ENMPropType returns the declared type of an ENM property.
func ENMPropType(name string) (ValueType, error) {
	desc, err := enmProps.lookup(name)
	if err != nil {
		return ValueTypeUnknown, err
	}
	return desc.Type, nil
}

// ENMPropReadOnly reports whether the ENM property may only be changed by
// the system.
func ENMPropReadOnly(name string) (bool, error) {
	desc, err := enmProps.lookup(name)
	if err != nil {
		return false, err
	}
	return desc.ReadOnly, nil
}

func ENMProps() []PropDesc {
	return enmProps.list()
}

type NCUType uint64

const (
	NCUTypeLink NCUType = iota
	NCUTypeInterface
)

func (t NCUType) String() string {
	if t == NCUTypeInterface {
		return "interface"
	}
	return "link"
}

type NCUClass uint64

const (
	NCUClassPhys NCUClass = iota
	NCUClassIP
	NCUClassWireless
	NCUClassTunnel
)

func (c NCUClass) String() string {
	switch c {
	case NCUClassPhys:
		return "phys"
	case NCUClassIP:
		return "ip"
	case NCUClassWireless:
		return "wireless"
	case NCUClassTunnel:
		return "tunnel"
	}
	return "unknown"
}

// Address sources for ipv4-addrsrc and ipv6-addrsrc.
const (
	AddrSrcDHCP uint64 = iota
	AddrSrcStatic
	AddrSrcAutoconf
)

const (
	NCUPropNCUType          = "type"
	NCUPropNCUClass         = "class"
	NCUPropParent           = "parent"
	NCUPropEnabled          = "enabled"
	NCUPropActivationMode   = "activation-mode"
	NCUPropPriorityGroup    = "priority-group"
	NCUPropPriorityMode     = "priority-mode"
	NCUPropLinkMACAddr      = "link-mac-addr"
	NCUPropLinkMTU          = "link-mtu"
	NCUPropIPVersion        = "ip-version"
	NCUPropIPv4AddrSrc      = "ipv4-addrsrc"
	NCUPropIPv4Addr         = "ipv4-addr"
	NCUPropIPv4DefaultRoute = "ipv4-default-route"
	NCUPropIPv6AddrSrc      = "ipv6-addrsrc"
	NCUPropIPv6Addr         = "ipv6-addr"
	NCUPropVanityName       = "vanity-name"
)

var ncuProps = newPropTable(
	PropDesc{Name: NCUPropNCUType, Type: ValueTypeUint64, ReadOnly: true},
	PropDesc{Name: NCUPropNCUClass, Type: ValueTypeUint64, ReadOnly: true},
	PropDesc{Name: NCUPropParent, Type: ValueTypeString, ReadOnly: true},
	PropDesc{Name: NCUPropEnabled, Type: ValueTypeBoolean, ReadOnly: true},
	PropDesc{Name: NCUPropActivationMode, Type: ValueTypeUint64},
	PropDesc{Name: NCUPropPriorityGroup, Type: ValueTypeUint64},
	PropDesc{Name: NCUPropPriorityMode, Type: ValueTypeUint64},
	PropDesc{Name: NCUPropLinkMACAddr, Type: ValueTypeString},
	PropDesc{Name: NCUPropLinkMTU, Type: ValueTypeUint64},
	PropDesc{Name: NCUPropIPVersion, Type: ValueTypeUint64, Multi: true},
	PropDesc{Name: NCUPropIPv4AddrSrc, Type: ValueTypeUint64, Multi: true},
	PropDesc{Name: NCUPropIPv4Addr, Type: ValueTypeString, Multi: true},
	PropDesc{Name: NCUPropIPv4DefaultRoute, Type: ValueTypeString},
	PropDesc{Name: NCUPropIPv6AddrSrc, Type: ValueTypeUint64, Multi: true},
	PropDesc{Name: NCUPropIPv6Addr, Type: ValueTypeString, Multi: true},
	PropDesc{Name: NCUPropVanityName, Type: ValueTypeString,
		Desc: "name shown to the user instead of the link name"},
)

func NCUPropType(name string) (ValueType, error) {
	desc, err := ncuProps.lookup(name)
	if err != nil {
		return ValueTypeUnknown, err
	}
	return desc.Type, nil
}

func NCUPropReadOnly(name string) (bool, error) {
	desc, err := ncuProps.lookup(name)
	if err != nil {
		return false, err
	}
	return desc.ReadOnly, nil
}

func NCUProps() []PropDesc {
	return ncuProps.list()
}
