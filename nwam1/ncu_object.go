// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwam1

import (
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/linuxdeepin/go-lib/dbusutil"
)

// NcuObject exports one connection of the active NCP.
type NcuObject struct {
	m       *Manager
	ncu     *nwamui.Ncu
	path    dbus.ObjectPath
	handler nwamui.HandlerID
	writing bool

	PropsMu     sync.RWMutex
	Name        string
	DisplayName string
	Active      bool `prop:"access:rw"`
	IPv4Address string
	PhyAddress  string
	Dhcp        bool
}

func newNcuObject(m *Manager, ncu *nwamui.Ncu) *NcuObject {
	obj := &NcuObject{
		m:    m,
		path: dbus.ObjectPath(ncuPathPrefix + escapePathElement(ncu.DeviceName())),
	}
	obj.bind(ncu)
	return obj
}

func (o *NcuObject) bind(ncu *nwamui.Ncu) {
	o.ncu = ncu
	o.handler = ncu.Connect(func(prop string) {
		if !o.writing {
			o.sync()
		}
	})
	o.sync()
}

// rebind replaces the Ncu after the NCP was loaded again. The old Ncu is
// freed with its NCP.
func (o *NcuObject) rebind(ncu *nwamui.Ncu) {
	o.ncu.Disconnect(o.handler)
	o.bind(ncu)
}

func (o *NcuObject) destroy() {
	o.ncu.Disconnect(o.handler)
}

func (o *NcuObject) sync() {
	name := o.ncu.DeviceName()
	displayName := o.ncu.DisplayName()
	active := o.ncu.Active()
	addr := o.ncu.IPv4Address()
	phy := o.ncu.PhyAddress()
	dhcp := o.ncu.IPv4AutoConf()

	o.PropsMu.Lock()
	o.setPropName(name)
	o.setPropDisplayName(displayName)
	o.setPropActive(active)
	o.setPropIPv4Address(addr)
	o.setPropPhyAddress(phy)
	o.setPropDhcp(dhcp)
	o.PropsMu.Unlock()
}

func (o *NcuObject) setActive(active bool) error {
	o.writing = true
	defer func() {
		o.writing = false
	}()
	return o.ncu.SetActive(active)
}

func (o *NcuObject) writeActiveCb(write *dbusutil.PropertyWrite) *dbus.Error {
	err := o.m.authorize(write.Sender)
	if err != nil {
		return dbusutil.ToError(err)
	}
	active, ok := write.Value.(bool)
	if !ok {
		return dbusutil.ToError(errInvalidValue)
	}
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	err = o.setActive(active)
	if err != nil {
		logger.Warningf("set ncu %s active: %v", o.ncu.DeviceName(), err)
		return dbusutil.ToError(err)
	}
	return nil
}
