// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwam1

import (
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"golang.org/x/xerrors"
)

// D-Bus property name to Enm property name
var enmPropNames = map[string]string{
	"Active":         nwamui.EnmPropActive,
	"StartCommand":   nwamui.EnmPropStartCommand,
	"StopCommand":    nwamui.EnmPropStopCommand,
	"SmfFmri":        nwamui.EnmPropSmfFmri,
	"ActivationMode": nwamui.EnmPropActivationMode,
	"Conditions":     nwamui.EnmPropConditions,
}

var enmWritableProps = []string{"Active", "StartCommand", "StopCommand", "SmfFmri",
	"ActivationMode", "Conditions"}

type EnmObject struct {
	m       *Manager
	enm     *nwamui.Enm
	path    dbus.ObjectPath
	handler nwamui.HandlerID
	// set while a property write is applied
	writing bool
	// written properties wait for Commit
	dirty bool

	PropsMu        sync.RWMutex
	Name           string
	Active         bool     `prop:"access:rw"`
	StartCommand   string   `prop:"access:rw"`
	StopCommand    string   `prop:"access:rw"`
	SmfFmri        string   `prop:"access:rw"`
	ActivationMode uint32   `prop:"access:rw"`
	Conditions     []string `prop:"access:rw"`
}

func newEnmObject(m *Manager, enm *nwamui.Enm) *EnmObject {
	obj := &EnmObject{
		m:    m,
		path: dbus.ObjectPath(enmPathPrefix + escapePathElement(enm.Name())),
	}
	obj.bind(enm)
	return obj
}

func (o *EnmObject) bind(enm *nwamui.Enm) {
	o.enm = enm
	o.handler = enm.Connect(func(prop string) {
		if !o.writing {
			o.sync()
		}
	})
	o.sync()
}

// rebind replaces the Enm after the repository changed.
func (o *EnmObject) rebind(enm *nwamui.Enm) {
	o.enm.Disconnect(o.handler)
	o.enm.Free()
	o.bind(enm)
}

func (o *EnmObject) destroy() {
	o.enm.Disconnect(o.handler)
	o.enm.Free()
}

// sync copies the Enm state to the exported properties. The getters may
// notify and call sync again, so they are read before PropsMu is taken.
func (o *EnmObject) sync() {
	name := o.enm.Name()
	active := o.enm.Active()
	start := o.enm.StartCommand()
	stop := o.enm.StopCommand()
	fmri := o.enm.SmfFmri()
	mode := uint32(o.enm.ActivationMode())
	conds := nwamui.ConditionsToStrings(o.enm.Conditions())

	o.PropsMu.Lock()
	o.setPropName(name)
	o.setPropActive(active)
	o.setPropStartCommand(start)
	o.setPropStopCommand(stop)
	o.setPropSmfFmri(fmri)
	o.setPropActivationMode(mode)
	o.setPropConditions(conds)
	o.PropsMu.Unlock()
}

// setProp applies a write of the D-Bus property prop.
func (o *EnmObject) setProp(prop string, value interface{}) error {
	name, ok := enmPropNames[prop]
	if !ok {
		return libnwam.ErrInvalidArg
	}
	if v, ok := value.(uint32); ok {
		value = uint64(v)
	}
	o.writing = true
	defer func() {
		o.writing = false
	}()
	err := o.enm.Set(name, value)
	if err == nil && name != nwamui.EnmPropActive {
		o.dirty = true
	}
	return err
}

func (o *EnmObject) commit() error {
	err := o.enm.Commit()
	if err != nil {
		return err
	}
	o.dirty = false
	o.sync()
	return nil
}

func (o *EnmObject) writeCb(write *dbusutil.PropertyWrite) *dbus.Error {
	err := o.m.authorize(write.Sender)
	if err != nil {
		return dbusutil.ToError(err)
	}
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	err = o.setProp(write.Name, write.Value)
	if err != nil {
		logger.Warningf("set %s of enm %s: %v", write.Name, o.enm.Name(), err)
		return dbusutil.ToError(xerrors.Errorf("set %s: %w", write.Name, err))
	}
	return nil
}

// escapePathElement makes s usable as one element of an object path.
// Bytes other than ASCII letters and digits are written as _xx.
func escapePathElement(s string) string {
	if s == "" {
		return "_"
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' {
			sb.WriteByte(b)
		} else {
			fmt.Fprintf(&sb, "_%02x", b)
		}
	}
	return sb.String()
}
