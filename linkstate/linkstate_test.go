// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package linkstate

import (
	"testing"

	"github.com/mdlayher/netlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestInfo_FirstIPv4(t *testing.T) {
	var nilInfo *Info
	assert.Equal(t, "", nilInfo.FirstIPv4())
	assert.Equal(t, "", (&Info{}).FirstIPv4())
	assert.Equal(t, "192.168.1.5", (&Info{IPv4: []string{"192.168.1.5/24", "10.0.0.1/8"}}).FirstIPv4())
	assert.Equal(t, "bogus", (&Info{IPv4: []string{"bogus"}}).FirstIPv4())
}

func TestStatic(t *testing.T) {
	s := Static{
		"net1": {Name: "net1"},
		"net0": {Name: "net0", HardwareAddr: "00:11:22:33:44:55", Up: true},
	}
	info, err := s.Link("net0")
	assert.Nil(t, err)
	assert.True(t, info.Up)

	_, err = s.Link("net9")
	assert.NotNil(t, err)

	links, err := s.Links()
	assert.Nil(t, err)
	if assert.Len(t, links, 2) {
		assert.Equal(t, "net0", links[0].Name)
		assert.Equal(t, "net1", links[1].Name)
	}
}

func TestSubscribeGroups(t *testing.T) {
	assert.Equal(t, uint32(0x11), uint32(subscribeGroups))
	assert.NotZero(t, subscribeGroups&unix.RTMGRP_LINK)
	assert.NotZero(t, subscribeGroups&unix.RTMGRP_IPV4_IFADDR)
}

func TestLinkNameOf(t *testing.T) {
	ae := netlink.NewAttributeEncoder()
	ae.String(unix.IFLA_IFNAME, "net0")
	attrs, err := ae.Encode()
	require.Nil(t, err)

	msg := netlink.Message{
		Header: netlink.Header{Type: unix.RTM_NEWLINK},
		Data:   append(make([]byte, ifinfomsgLen), attrs...),
	}
	name, ok := linkNameOf(msg)
	assert.True(t, ok)
	assert.Equal(t, "net0", name)

	ae = netlink.NewAttributeEncoder()
	ae.String(unix.IFA_LABEL, "net1")
	attrs, err = ae.Encode()
	require.Nil(t, err)
	msg = netlink.Message{
		Header: netlink.Header{Type: unix.RTM_DELADDR},
		Data:   append(make([]byte, ifaddrmsgLen), attrs...),
	}
	name, ok = linkNameOf(msg)
	assert.True(t, ok)
	assert.Equal(t, "net1", name)

	_, ok = linkNameOf(netlink.Message{Header: netlink.Header{Type: unix.RTM_NEWROUTE}})
	assert.False(t, ok)
	_, ok = linkNameOf(netlink.Message{Header: netlink.Header{Type: unix.RTM_NEWLINK}, Data: []byte{0}})
	assert.False(t, ok)
}
