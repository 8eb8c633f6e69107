// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwam1

import (
	"sort"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/linkstate"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"golang.org/x/xerrors"
	"gopkg.in/tomb.v2"
)

const (
	dbusServiceName = "org.deepin.dde.Nwam1"
	dbusPath        = "/org/deepin/dde/Nwam1"
	dbusInterface   = dbusServiceName
	enmInterface    = dbusInterface + ".Enm"
	ncuInterface    = dbusInterface + ".Ncu"
	enmPathPrefix   = dbusPath + "/Enm/"
	ncuPathPrefix   = dbusPath + "/Ncu/"
)

// Manager is the root object of the service. It owns the ENMs and the
// NCUs of the active NCP.
type Manager struct {
	service *dbusutil.Service
	store   nwamui.Store
	links   linkstate.Provider
	cfg     *Config
	// checkAuth is nil when writes need no authorization
	checkAuth func(sender dbus.Sender) error

	// mu serializes access to the nwamui objects
	mu   sync.Mutex
	enms map[string]*EnmObject
	ncp  *nwamui.Ncp
	ncus map[string]*NcuObject

	tomb     tomb.Tomb
	watching bool

	PropsMu   sync.RWMutex
	ActiveNcp string
	Enms      []dbus.ObjectPath
	Ncus      []dbus.ObjectPath

	//nolint
	signals *struct {
		EnmAdded struct {
			path dbus.ObjectPath
		}
		EnmRemoved struct {
			path dbus.ObjectPath
		}
	}
}

func newManager(service *dbusutil.Service, repo *libnwam.Repository, links linkstate.Provider, cfg *Config) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Manager{
		service:   service,
		store:     nwamui.NewStore(repo),
		links:     links,
		cfg:       cfg,
		enms:      make(map[string]*EnmObject),
		ncus:      make(map[string]*NcuObject),
		ActiveNcp: cfg.Ncp,
	}
}

func (m *Manager) authorize(sender dbus.Sender) error {
	if m.checkAuth == nil {
		return nil
	}
	return m.checkAuth(sender)
}

// load reads all ENMs and the NCUs of the active NCP.
func (m *Manager) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.loadEnms()
	if err != nil {
		return err
	}
	return m.loadNcp()
}

func (m *Manager) loadEnms() error {
	names, err := m.store.EnmNames()
	if err != nil {
		return xerrors.Errorf("list enms: %w", err)
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
		h, err := m.store.ReadEnm(name)
		if err != nil {
			logger.Warningf("read enm %s: %v", name, err)
			continue
		}
		obj, ok := m.enms[name]
		if ok && obj.dirty {
			logger.Debugf("enm %s has uncommitted changes, keep it", name)
			h.Free()
			continue
		}
		enm := nwamui.NewEnmWithHandle(m.store, h)
		if ok {
			obj.rebind(enm)
			continue
		}
		err = m.addEnm(enm)
		if err != nil {
			logger.Warning(err)
			enm.Free()
		}
	}
	for name := range m.enms {
		if !seen[name] {
			m.removeEnm(name)
		}
	}
	m.updatePropEnms()
	return nil
}

func (m *Manager) addEnm(enm *nwamui.Enm) error {
	obj := newEnmObject(m, enm)
	err := m.exportEnm(obj)
	if err != nil {
		return xerrors.Errorf("export enm %s: %w", enm.Name(), err)
	}
	m.enms[enm.Name()] = obj
	m.emitSignal("EnmAdded", obj.path)
	return nil
}

func (m *Manager) removeEnm(name string) {
	obj, ok := m.enms[name]
	if !ok {
		return
	}
	delete(m.enms, name)
	m.stopExport(obj)
	obj.destroy()
	m.emitSignal("EnmRemoved", obj.path)
}

func (m *Manager) updatePropEnms() {
	paths := make([]dbus.ObjectPath, 0, len(m.enms))
	for _, obj := range m.enms {
		paths = append(paths, obj.path)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	m.PropsMu.Lock()
	m.setPropEnms(paths)
	m.PropsMu.Unlock()
}

func (m *Manager) loadNcp() error {
	ncp, err := nwamui.LoadNcp(m.store, m.ActiveNcp, m.links)
	if xerrors.Is(err, libnwam.ErrEntityNotFound) {
		logger.Infof("ncp %s does not exist yet", m.ActiveNcp)
		ncp, err = nwamui.NewNcp(m.ActiveNcp), nil
	}
	if err != nil {
		return err
	}
	old := m.ncp
	m.ncp = ncp

	paths := make([]dbus.ObjectPath, 0, ncp.Len())
	seen := make(map[string]bool, ncp.Len())
	for _, ncu := range ncp.Ncus() {
		name := ncu.DeviceName()
		seen[name] = true
		if obj, ok := m.ncus[name]; ok {
			obj.rebind(ncu)
			paths = append(paths, obj.path)
			continue
		}
		obj := newNcuObject(m, ncu)
		err = m.exportNcu(obj)
		if err != nil {
			logger.Warningf("export ncu %s: %v", name, err)
			continue
		}
		m.ncus[name] = obj
		paths = append(paths, obj.path)
	}
	for name, obj := range m.ncus {
		if !seen[name] {
			delete(m.ncus, name)
			m.stopExport(obj)
			obj.destroy()
		}
	}
	if old != nil {
		old.Free()
	}
	m.PropsMu.Lock()
	m.setPropNcus(paths)
	m.PropsMu.Unlock()
	return nil
}

// linkChanged refreshes the NCU of the link name.
func (m *Manager) linkChanged(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if obj, ok := m.ncus[name]; ok {
		obj.ncu.LinkChanged()
	}
}

func (m *Manager) exportEnm(obj *EnmObject) error {
	if m.service == nil {
		return nil
	}
	so, err := m.service.NewServerObject(obj.path, obj)
	if err != nil {
		return err
	}
	for _, prop := range enmWritableProps {
		err = so.SetWriteCallback(obj, prop, obj.writeCb)
		if err != nil {
			return err
		}
	}
	return so.Export()
}

func (m *Manager) exportNcu(obj *NcuObject) error {
	if m.service == nil {
		return nil
	}
	so, err := m.service.NewServerObject(obj.path, obj)
	if err != nil {
		return err
	}
	err = so.SetWriteCallback(obj, "Active", obj.writeActiveCb)
	if err != nil {
		return err
	}
	return so.Export()
}

func (m *Manager) stopExport(obj dbusutil.Implementer) {
	if m.service == nil {
		return
	}
	err := m.service.StopExport(obj)
	if err != nil {
		logger.Warning(err)
	}
}

func (m *Manager) emitSignal(name string, path dbus.ObjectPath) {
	if m.service == nil {
		return
	}
	err := m.service.Emit(m, name, path)
	if err != nil {
		logger.Warning(err)
	}
}

func (m *Manager) destroy() {
	if m.watching {
		m.tomb.Kill(nil)
		err := m.tomb.Wait()
		if err != nil {
			logger.Warning(err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for name, obj := range m.enms {
		delete(m.enms, name)
		m.stopExport(obj)
		obj.destroy()
	}
	for name, obj := range m.ncus {
		delete(m.ncus, name)
		m.stopExport(obj)
		obj.destroy()
	}
	if m.ncp != nil {
		m.ncp.Free()
		m.ncp = nil
	}
}

// watch reloads on repository changes and refreshes NCUs on link changes
// until the manager is destroyed. Either channel may be nil.
func (m *Manager) watch(repoEvents <-chan struct{}, linkEvents <-chan string) {
	m.watching = true
	m.tomb.Go(func() error {
		for {
			select {
			case <-m.tomb.Dying():
				return nil
			case _, ok := <-repoEvents:
				if !ok {
					repoEvents = nil
					continue
				}
				logger.Debug("repository changed, reload")
				err := m.reload()
				if err != nil {
					logger.Warning("reload:", err)
				}
			case name, ok := <-linkEvents:
				if !ok {
					linkEvents = nil
					continue
				}
				m.linkChanged(name)
			}
		}
	})
}

func (m *Manager) reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.loadEnms()
	if err != nil {
		return err
	}
	return m.loadNcp()
}
