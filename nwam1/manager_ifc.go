// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwam1

import (
	"errors"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"golang.org/x/xerrors"
)

var (
	errInvalidValue = errors.New("invalid value")
	errNoSuchEnm    = errors.New("no such enm")
)

func (*Manager) GetInterfaceName() string {
	return dbusInterface
}

// CreateEnm stores a new ENM and exports it. Either fmri or start must be
// given.
func (m *Manager) CreateEnm(sender dbus.Sender, name, fmri, start, stop string) (dbus.ObjectPath, *dbus.Error) {
	err := m.authorize(sender)
	if err != nil {
		return "/", dbusutil.ToError(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	path, err := m.createEnm(name, fmri, start, stop)
	if err != nil {
		logger.Warningf("create enm %s: %v", name, err)
		return "/", dbusutil.ToError(err)
	}
	return path, nil
}

func (m *Manager) createEnm(name, fmri, start, stop string) (dbus.ObjectPath, error) {
	if _, ok := m.enms[name]; ok {
		return "", libnwam.ErrEntityExists
	}
	h, err := m.store.CreateEnm(name)
	if err != nil {
		return "", err
	}
	enm := nwamui.NewEnmWithHandle(m.store, h)
	err = enm.SetSmfFmri(fmri)
	if err == nil {
		err = enm.SetStartCommand(start)
	}
	if err == nil {
		err = enm.SetStopCommand(stop)
	}
	if err == nil {
		err = enm.Commit()
	}
	if err != nil {
		enm.Free()
		return "", err
	}
	err = m.addEnm(enm)
	if err != nil {
		return "", err
	}
	m.updatePropEnms()
	return m.enms[name].path, nil
}

// DestroyEnm disables and removes the ENM name.
func (m *Manager) DestroyEnm(sender dbus.Sender, name string) *dbus.Error {
	err := m.authorize(sender)
	if err != nil {
		return dbusutil.ToError(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	err = m.destroyEnm(name)
	if err != nil {
		logger.Warningf("destroy enm %s: %v", name, err)
	}
	return dbusutil.ToError(err)
}

func (m *Manager) destroyEnm(name string) error {
	obj, ok := m.enms[name]
	if !ok {
		return xerrors.Errorf("%s: %w", name, errNoSuchEnm)
	}
	if obj.enm.Active() {
		err := obj.enm.SetActive(false)
		if err != nil {
			return err
		}
	}
	err := obj.enm.Destroy()
	if err != nil {
		return err
	}
	m.removeEnm(name)
	m.updatePropEnms()
	return nil
}

// Reload reads the repository again.
func (m *Manager) Reload() *dbus.Error {
	return dbusutil.ToError(m.reload())
}

func (m *Manager) GetExportedMethods() dbusutil.ExportedMethods {
	return dbusutil.ExportedMethods{
		{
			Name:    "CreateEnm",
			Fn:      m.CreateEnm,
			InArgs:  []string{"name", "fmri", "start", "stop"},
			OutArgs: []string{"path"},
		},
		{
			Name:   "DestroyEnm",
			Fn:     m.DestroyEnm,
			InArgs: []string{"name"},
		},
		{
			Name: "Reload",
			Fn:   m.Reload,
		},
	}
}

func (*EnmObject) GetInterfaceName() string {
	return enmInterface
}

// Commit stores pending changes of the ENM.
func (o *EnmObject) Commit(sender dbus.Sender) (bool, *dbus.Error) {
	err := o.m.authorize(sender)
	if err != nil {
		return false, dbusutil.ToError(err)
	}
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	err = o.commit()
	if err != nil {
		logger.Warningf("commit enm %s: %v", o.enm.Name(), err)
		return false, nil
	}
	return true, nil
}

func (o *EnmObject) GetExportedMethods() dbusutil.ExportedMethods {
	return dbusutil.ExportedMethods{
		{
			Name:    "Commit",
			Fn:      o.Commit,
			OutArgs: []string{"ok"},
		},
	}
}

func (*NcuObject) GetInterfaceName() string {
	return ncuInterface
}

func (o *NcuObject) GetExportedMethods() dbusutil.ExportedMethods {
	return nil
}
