// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwam1

import (
	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"github.com/linuxdeepin/go-lib/strv"
)

// Property setters. They are called with PropsMu held and emit
// PropertiesChanged when the value differs.

func emitPropChanged(service *dbusutil.Service, v dbusutil.Implementer, name string, value interface{}) {
	if service == nil {
		return
	}
	err := service.EmitPropertyChanged(v, name, value)
	if err != nil {
		logger.Debug(err)
	}
}

func isObjectPathSliceEqual(a, b []dbus.ObjectPath) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (v *Manager) setPropEnms(value []dbus.ObjectPath) (changed bool) {
	if !isObjectPathSliceEqual(v.Enms, value) {
		v.Enms = value
		emitPropChanged(v.service, v, "Enms", value)
		return true
	}
	return false
}

func (v *Manager) setPropNcus(value []dbus.ObjectPath) (changed bool) {
	if !isObjectPathSliceEqual(v.Ncus, value) {
		v.Ncus = value
		emitPropChanged(v.service, v, "Ncus", value)
		return true
	}
	return false
}

func (v *EnmObject) setPropName(value string) (changed bool) {
	if v.Name != value {
		v.Name = value
		emitPropChanged(v.m.service, v, "Name", value)
		return true
	}
	return false
}

func (v *EnmObject) setPropActive(value bool) (changed bool) {
	if v.Active != value {
		v.Active = value
		emitPropChanged(v.m.service, v, "Active", value)
		return true
	}
	return false
}

func (v *EnmObject) setPropStartCommand(value string) (changed bool) {
	if v.StartCommand != value {
		v.StartCommand = value
		emitPropChanged(v.m.service, v, "StartCommand", value)
		return true
	}
	return false
}

func (v *EnmObject) setPropStopCommand(value string) (changed bool) {
	if v.StopCommand != value {
		v.StopCommand = value
		emitPropChanged(v.m.service, v, "StopCommand", value)
		return true
	}
	return false
}

func (v *EnmObject) setPropSmfFmri(value string) (changed bool) {
	if v.SmfFmri != value {
		v.SmfFmri = value
		emitPropChanged(v.m.service, v, "SmfFmri", value)
		return true
	}
	return false
}

func (v *EnmObject) setPropActivationMode(value uint32) (changed bool) {
	if v.ActivationMode != value {
		v.ActivationMode = value
		emitPropChanged(v.m.service, v, "ActivationMode", value)
		return true
	}
	return false
}

func (v *EnmObject) setPropConditions(value []string) (changed bool) {
	if !strv.Strv(v.Conditions).Equal(value) {
		v.Conditions = value
		emitPropChanged(v.m.service, v, "Conditions", value)
		return true
	}
	return false
}

func (v *NcuObject) setPropName(value string) (changed bool) {
	if v.Name != value {
		v.Name = value
		emitPropChanged(v.m.service, v, "Name", value)
		return true
	}
	return false
}

func (v *NcuObject) setPropDisplayName(value string) (changed bool) {
	if v.DisplayName != value {
		v.DisplayName = value
		emitPropChanged(v.m.service, v, "DisplayName", value)
		return true
	}
	return false
}

func (v *NcuObject) setPropActive(value bool) (changed bool) {
	if v.Active != value {
		v.Active = value
		emitPropChanged(v.m.service, v, "Active", value)
		return true
	}
	return false
}

func (v *NcuObject) setPropIPv4Address(value string) (changed bool) {
	if v.IPv4Address != value {
		v.IPv4Address = value
		emitPropChanged(v.m.service, v, "IPv4Address", value)
		return true
	}
	return false
}

func (v *NcuObject) setPropPhyAddress(value string) (changed bool) {
	if v.PhyAddress != value {
		v.PhyAddress = value
		emitPropChanged(v.m.service, v, "PhyAddress", value)
		return true
	}
	return false
}

func (v *NcuObject) setPropDhcp(value bool) (changed bool) {
	if v.Dhcp != value {
		v.Dhcp = value
		emitPropChanged(v.m.service, v, "Dhcp", value)
		return true
	}
	return false
}
