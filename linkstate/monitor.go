// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package linkstate

import (
	"net"

	"github.com/mdlayher/netlink"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

// sizes of struct ifinfomsg and struct ifaddrmsg
const (
	ifinfomsgLen = 16
	ifaddrmsgLen = 8
)

// multicast groups of link and IPv4 address changes
const subscribeGroups = unix.RTMGRP_LINK | unix.RTMGRP_IPV4_IFADDR

// Subscribe reports the names of links whose state or addresses change
// until done is closed.
func (p *NetlinkProvider) Subscribe(done <-chan struct{}) (<-chan string, error) {
	conn, err := netlink.Dial(unix.NETLINK_ROUTE, &netlink.Config{
		Groups: subscribeGroups,
	})
	if err != nil {
		return nil, xerrors.Errorf("subscribe link updates: %w", err)
	}
	go func() {
		<-done
		err := conn.Close()
		if err != nil {
			logger.Warning(err)
		}
	}()

	names := make(chan string, 16)
	go func() {
		defer close(names)
		for {
			msgs, err := conn.Receive()
			if err != nil {
				select {
				case <-done:
				default:
					logger.Warning("receive link updates:", err)
				}
				return
			}
			for _, msg := range msgs {
				name, ok := linkNameOf(msg)
				if !ok {
					continue
				}
				select {
				case names <- name:
				case <-done:
					return
				}
			}
		}
	}()
	return names, nil
}

// linkNameOf returns the link a route netlink link or address message is
// about.
func linkNameOf(msg netlink.Message) (string, bool) {
	var hdrLen int
	var nameAttr uint16
	switch msg.Header.Type {
	case unix.RTM_NEWLINK, unix.RTM_DELLINK:
		hdrLen, nameAttr = ifinfomsgLen, unix.IFLA_IFNAME
	case unix.RTM_NEWADDR, unix.RTM_DELADDR:
		hdrLen, nameAttr = ifaddrmsgLen, unix.IFA_LABEL
	default:
		return "", false
	}
	if len(msg.Data) < hdrLen {
		return "", false
	}

	ad, err := netlink.NewAttributeDecoder(msg.Data[hdrLen:])
	if err == nil {
		for ad.Next() {
			if ad.Type() == nameAttr {
				return ad.String(), true
			}
		}
	}

	// both headers carry the interface index at offset 4
	index := int(nlenc.Uint32(msg.Data[4:8]))
	iface, err := net.InterfaceByIndex(index)
	if err != nil {
		logger.Debugf("link %d: %v", index, err)
		return "", false
	}
	return iface.Name, true
}
