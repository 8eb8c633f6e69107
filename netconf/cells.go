// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netconf

import (
	"fmt"
	"html"

	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/linuxdeepin/go-lib/gettext"
)

// Column identifies a column of the connection list.
type Column int

const (
	ColumnCondInfo Column = iota
	ColumnInfo
	ColumnStatus
)

const (
	iconWired        = "network-wired"
	iconWireless     = "network-wireless"
	iconDisconnected = "-disconnected"
)

// Row is the rendered content of one connection.
type Row struct {
	Icon    string
	Name    string
	Info    string
	Phy     string
	Status  string
	Enabled bool
}

// Markup returns the info cell as pango markup.
func (r Row) Markup() string {
	if r.Phy != "" {
		return fmt.Sprintf(gettext.Tr("<b>%s</b>\n<small>%s, %s</small>"),
			html.EscapeString(r.Name), r.Info, html.EscapeString(r.Phy))
	}
	return fmt.Sprintf(gettext.Tr("<b>%s</b>\n<small>%s</small>"),
		html.EscapeString(r.Name), r.Info)
}

func noAddress() string {
	return gettext.Tr("<i>No IP Address</i>")
}

// infoString describes how the connection gets its address. The result is
// markup.
func infoString(active, dhcp bool, addr string) string {
	if addr == "" {
		addr = noAddress()
	} else {
		addr = html.EscapeString(addr)
	}
	if !active {
		if dhcp {
			return gettext.Tr("DHCP")
		}
		return fmt.Sprintf(gettext.Tr("Static: %s"), addr)
	}
	if dhcp {
		return fmt.Sprintf(gettext.Tr("DHCP, %s"), addr)
	}
	return addr
}

func statusString(active bool) string {
	if active {
		return gettext.Tr("Enabled")
	}
	return gettext.Tr("Disabled")
}

func ncuIcon(ncu *nwamui.Ncu, active bool) string {
	icon := iconWired
	if ncu.IsWireless() {
		icon = iconWireless
	}
	if !active {
		icon += iconDisconnected
	}
	return icon
}

func renderRow(ncu *nwamui.Ncu) Row {
	active := ncu.Active()
	return Row{
		Icon:    ncuIcon(ncu, active),
		Name:    ncu.DisplayName(),
		Info:    infoString(active, ncu.IPv4AutoConf(), ncu.IPv4Address()),
		Phy:     ncu.PhyAddress(),
		Status:  statusString(active),
		Enabled: active,
	}
}

// ActivationModes are the entries of the activation mode menu.
func ActivationModes() []string {
	return []string{
		gettext.Tr("Always active when available"),
		gettext.Tr("Conditionally active when available"),
		gettext.Tr("Never active"),
	}
}

// ProfileModes are the entries of the profile policy menu.
func ProfileModes() []string {
	return []string{
		gettext.Tr("Only one connection may be active"),
		gettext.Tr("One or more connections may be active"),
		gettext.Tr("All connections must be active"),
	}
}
