// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwamui

import (
	"net"

	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/linkstate"
	"golang.org/x/xerrors"
)

const (
	NcuPropVanityName    = "vanity-name"
	NcuPropActive        = "active"
	NcuPropIPv4AutoConf  = "ipv4-autoconf"
	NcuPropIPv4Address   = "ipv4-address"
	NcuPropPhyAddress    = "phy-address"
	NcuPropPriorityGroup = "priority-group"
)

// Ncu is one connection of an NCP as shown to the user.
type Ncu struct {
	Notifier
	handle NcuHandle
	links  linkstate.Provider

	deviceName    string
	vanityName    string
	active        bool
	priorityGroup uint64
}

// NewNcu wraps h. links may be nil, the Ncu then only knows configured
// values.
func NewNcu(h NcuHandle, links linkstate.Provider) *Ncu {
	n := &Ncu{
		handle: h,
		links:  links,
	}
	n.deviceName, _ = h.Name()
	n.vanityName = getStringProp(h, libnwam.NCUPropVanityName)
	n.active = getBooleanProp(h, libnwam.NCUPropEnabled)
	n.priorityGroup = getUint64Prop(h, libnwam.NCUPropPriorityGroup)
	return n
}

func (n *Ncu) DeviceName() string {
	return n.deviceName
}

func (n *Ncu) NCUType() libnwam.NCUType {
	return n.handle.NCUType()
}

func (n *Ncu) NCUClass() libnwam.NCUClass {
	return n.handle.NCUClass()
}

func (n *Ncu) IsWireless() bool {
	return n.handle.NCUClass() == libnwam.NCUClassWireless
}

func (n *Ncu) VanityName() string {
	name := getStringProp(n.handle, libnwam.NCUPropVanityName)
	if name != n.vanityName {
		n.vanityName = name
		n.notify(NcuPropVanityName)
	}
	return n.vanityName
}

// SetVanityName sets the name shown to the user, "" shows the device name.
func (n *Ncu) SetVanityName(name string) error {
	var ok bool
	if name == "" {
		ok = clearProp(n.handle, libnwam.NCUPropVanityName)
	} else {
		ok = setStringProp(n.handle, libnwam.NCUPropVanityName, name)
	}
	if !ok {
		return xerrors.Errorf("set %s: %w", NcuPropVanityName, ErrPropRejected)
	}
	if name != n.vanityName {
		n.vanityName = name
		n.notify(NcuPropVanityName)
	}
	return nil
}

func (n *Ncu) DisplayName() string {
	if name := n.VanityName(); name != "" {
		return name
	}
	return n.deviceName
}

func (n *Ncu) Active() bool {
	active := getBooleanProp(n.handle, libnwam.NCUPropEnabled)
	if active != n.active {
		n.active = active
		n.notify(NcuPropActive)
	}
	return n.active
}

// SetActive enables or disables the NCU, rolling back the cached state if
// the system refuses.
func (n *Ncu) SetActive(active bool) error {
	prev := n.active
	n.active = active
	var err error
	if active {
		err = n.handle.Enable()
	} else {
		err = n.handle.Disable()
	}
	if err != nil {
		logger.Warningf("set ncu %s active to %v failed: %v", n.deviceName, active, err)
		n.active = prev
		n.notify(NcuPropActive)
		return err
	}
	if prev != active {
		n.notify(NcuPropActive)
	}
	return nil
}

// IPv4AutoConf reports whether the address is obtained by DHCP, which is
// the default.
func (n *Ncu) IPv4AutoConf() bool {
	srcs := getUint64ArrayProp(n.handle, libnwam.NCUPropIPv4AddrSrc)
	if srcs == nil {
		return true
	}
	for _, src := range srcs {
		if src == libnwam.AddrSrcDHCP {
			return true
		}
	}
	return false
}

func (n *Ncu) SetIPv4AutoConf(dhcp bool) error {
	src := libnwam.AddrSrcStatic
	if dhcp {
		src = libnwam.AddrSrcDHCP
	}
	if !setUint64ArrayProp(n.handle, libnwam.NCUPropIPv4AddrSrc, []uint64{src}) {
		return xerrors.Errorf("set %s: %w", NcuPropIPv4AutoConf, ErrPropRejected)
	}
	n.notify(NcuPropIPv4AutoConf)
	return nil
}

// StaticIPv4Address returns the configured address without prefix length.
func (n *Ncu) StaticIPv4Address() string {
	addrs := getStringArrayProp(n.handle, libnwam.NCUPropIPv4Addr)
	if addrs == nil {
		return ""
	}
	ip, _, err := net.ParseCIDR(addrs[0])
	if err != nil {
		return addrs[0]
	}
	return ip.String()
}

// IPv4Address returns the address in use by the link, falling back to the
// configured static address.
func (n *Ncu) IPv4Address() string {
	if info := n.linkInfo(); info != nil {
		if addr := info.FirstIPv4(); addr != "" {
			return addr
		}
	}
	return n.StaticIPv4Address()
}

// SetIPv4Address configures a static address in CIDR notation.
func (n *Ncu) SetIPv4Address(cidr string) error {
	if _, _, err := net.ParseCIDR(cidr); err != nil {
		return xerrors.Errorf("%v: %w", err, libnwam.ErrEntityInvalidValue)
	}
	if !setStringArrayProp(n.handle, libnwam.NCUPropIPv4Addr, []string{cidr}, 1) {
		return xerrors.Errorf("set %s: %w", NcuPropIPv4Address, ErrPropRejected)
	}
	n.notify(NcuPropIPv4Address)
	return nil
}

// PhyAddress returns the configured MAC address or the one of the link.
func (n *Ncu) PhyAddress() string {
	if mac := getStringProp(n.handle, libnwam.NCUPropLinkMACAddr); mac != "" {
		return mac
	}
	if info := n.linkInfo(); info != nil {
		return info.HardwareAddr
	}
	return ""
}

func (n *Ncu) linkInfo() *linkstate.Info {
	if n.links == nil {
		return nil
	}
	info, err := n.links.Link(n.deviceName)
	if err != nil {
		logger.Debug(err)
		return nil
	}
	return info
}

func (n *Ncu) PriorityGroup() uint64 {
	return n.priorityGroup
}

func (n *Ncu) SetPriorityGroup(group uint64) error {
	if !setUint64Prop(n.handle, libnwam.NCUPropPriorityGroup, group) {
		return xerrors.Errorf("set %s: %w", NcuPropPriorityGroup, ErrPropRejected)
	}
	if group != n.priorityGroup {
		n.priorityGroup = group
		n.notify(NcuPropPriorityGroup)
	}
	return nil
}

// LinkChanged tells listeners that the live link state may differ now.
func (n *Ncu) LinkChanged() {
	n.notify(NcuPropIPv4Address)
	n.notify(NcuPropPhyAddress)
	n.Active()
}

func (n *Ncu) Commit() error {
	err := n.handle.Commit()
	if err != nil {
		logger.Warningf("commit ncu %s failed: %v", n.deviceName, err)
	}
	return err
}

func (n *Ncu) Free() {
	n.handle.Free()
}
