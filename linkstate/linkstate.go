// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package linkstate

import (
	"net"
	"sort"

	"github.com/linuxdeepin/go-lib/log"
	"github.com/vishvananda/netlink"
	"golang.org/x/xerrors"
)

var logger = log.NewLogger("daemon/linkstate")

func SetLogLevel(pri log.Priority) {
	logger.SetLogLevel(pri)
}

// Info is the live state of one network link.
type Info struct {
	Name         string
	Index        int
	HardwareAddr string
	// IPv4 addresses in CIDR notation
	IPv4 []string
	MTU  int
	Up   bool
}

// FirstIPv4 returns the first address without prefix length, or "".
func (i *Info) FirstIPv4() string {
	if i == nil || len(i.IPv4) == 0 {
		return ""
	}
	ip, _, err := net.ParseCIDR(i.IPv4[0])
	if err != nil {
		return i.IPv4[0]
	}
	return ip.String()
}

type Provider interface {
	Link(name string) (*Info, error)
	Links() ([]*Info, error)
}

// NetlinkProvider reads link state from the kernel.
type NetlinkProvider struct{}

func NewNetlinkProvider() *NetlinkProvider {
	return &NetlinkProvider{}
}

func linkInfo(link netlink.Link) (*Info, error) {
	attrs := link.Attrs()
	info := &Info{
		Name:  attrs.Name,
		Index: attrs.Index,
		MTU:   attrs.MTU,
		Up:    attrs.OperState == netlink.OperUp,
	}
	// virtual links often report an unknown oper state
	if attrs.OperState == netlink.OperUnknown {
		info.Up = attrs.Flags&net.FlagUp != 0
	}
	if len(attrs.HardwareAddr) != 0 {
		info.HardwareAddr = attrs.HardwareAddr.String()
	}
	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, xerrors.Errorf("list addresses of %s: %w", attrs.Name, err)
	}
	for _, addr := range addrs {
		if addr.IPNet == nil {
			continue
		}
		info.IPv4 = append(info.IPv4, addr.IPNet.String())
	}
	return info, nil
}

func (p *NetlinkProvider) Link(name string) (*Info, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return nil, xerrors.Errorf("get link %s: %w", name, err)
	}
	return linkInfo(link)
}

// Links returns all links but loopback, sorted by name.
func (p *NetlinkProvider) Links() ([]*Info, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, xerrors.Errorf("list links: %w", err)
	}
	var result []*Info
	for _, link := range links {
		if link.Attrs().Flags&net.FlagLoopback != 0 {
			continue
		}
		info, err := linkInfo(link)
		if err != nil {
			logger.Warning(err)
			continue
		}
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Static serves fixed link state, for tests and offline use.
type Static map[string]*Info

func (s Static) Link(name string) (*Info, error) {
	info, ok := s[name]
	if !ok {
		return nil, xerrors.Errorf("link %s not found", name)
	}
	return info, nil
}

func (s Static) Links() ([]*Info, error) {
	result := make([]*Info, 0, len(s))
	for _, info := range s {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}
