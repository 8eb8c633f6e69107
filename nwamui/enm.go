// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwamui

import (
	"errors"

	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/go-lib/strv"
	"golang.org/x/xerrors"
)

const (
	EnmPropName           = "name"
	EnmPropActive         = "active"
	EnmPropStartCommand   = "start-command"
	EnmPropStopCommand    = "stop-command"
	EnmPropSmfFmri        = "smf-fmri"
	EnmPropActivationMode = "activation-mode"
	EnmPropConditions     = "conditions"
)

var (
	ErrNotBound     = errors.New("enm is not bound to a configuration handle")
	ErrPropRejected = errors.New("value rejected by the configuration service")
)

// Enm is one External Network Modifier. It starts unbound, caching values
// locally, and is bound to a configuration handle once: at construction or
// when its name is first set. An Enm is not safe for concurrent use.
type Enm struct {
	Notifier
	store  Store
	handle EnmHandle

	name           string
	active         bool
	startCommand   string
	stopCommand    string
	smfFmri        string
	activationMode libnwam.ActivationMode
	conditions     []string

	// active was set before the handle was first committed
	pendingActive bool
}

// NewEnm binds to the ENM called name, reading it from store or creating
// it, and then applies the given values. Empty strings are left unset.
func NewEnm(store Store, name string, active bool, fmri, start, stop string) (*Enm, error) {
	e := &Enm{store: store}
	err := e.SetName(name)
	if err != nil {
		return nil, err
	}
	if fmri != "" {
		err = e.SetSmfFmri(fmri)
		if err != nil {
			return nil, err
		}
	}
	if start != "" {
		err = e.SetStartCommand(start)
		if err != nil {
			return nil, err
		}
	}
	if stop != "" {
		err = e.SetStopCommand(stop)
		if err != nil {
			return nil, err
		}
	}
	if active {
		err = e.SetActive(true)
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func NewEnmWithHandle(store Store, h EnmHandle) *Enm {
	e := &Enm{store: store}
	e.Bind(h)
	return e
}

func (e *Enm) IsBound() bool {
	return e.handle != nil
}

// Bind attaches the configuration handle. A committed handle primes the
// cache, a new one receives the cached values. Binding twice panics.
func (e *Enm) Bind(h EnmHandle) {
	if e.handle != nil {
		panic("nwamui: enm " + e.name + " is already bound")
	}
	if h == nil {
		return
	}
	e.handle = h
	if name, err := h.Name(); err == nil {
		e.name = name
	}
	if h.IsCommitted() {
		e.load()
		return
	}

	if e.startCommand != "" {
		setStringProp(h, libnwam.ENMPropStart, e.startCommand)
	}
	if e.stopCommand != "" {
		setStringProp(h, libnwam.ENMPropStop, e.stopCommand)
	}
	if e.smfFmri != "" {
		setStringProp(h, libnwam.ENMPropFMRI, e.smfFmri)
	}
	setUint64Prop(h, libnwam.ENMPropActivationMode, uint64(e.activationMode))
	if len(e.conditions) > 0 {
		setStringArrayProp(h, libnwam.ENMPropConditions, e.conditions, len(e.conditions))
	}
	e.pendingActive = e.active
}

func (e *Enm) load() {
	h := e.handle
	e.active = getBooleanProp(h, libnwam.ENMPropEnabled)
	e.startCommand = getStringProp(h, libnwam.ENMPropStart)
	e.stopCommand = getStringProp(h, libnwam.ENMPropStop)
	e.smfFmri = getStringProp(h, libnwam.ENMPropFMRI)
	e.activationMode = libnwam.ActivationMode(getUint64Prop(h, libnwam.ENMPropActivationMode))
	e.conditions = getStringArrayProp(h, libnwam.ENMPropConditions)
}

func (e *Enm) Name() string {
	if e.handle != nil {
		name, err := e.handle.Name()
		if err == nil && name != e.name {
			e.name = name
			e.notify(EnmPropName)
		}
	}
	return e.name
}

// SetName binds an unbound Enm to the ENM of that name, reading it from
// the store or creating it. A bound Enm may only be renamed before its
// first commit.
func (e *Enm) SetName(name string) error {
	if name == "" {
		return libnwam.ErrInvalidArg
	}
	if e.handle != nil {
		err := e.handle.SetName(name)
		if err != nil {
			return err
		}
		e.name = name
		e.notify(EnmPropName)
		return nil
	}

	e.name = name
	if e.store != nil {
		h, err := e.store.ReadEnm(name)
		if err != nil {
			logger.Debugf("read enm %s failed: %v, create it", name, err)
			h, err = e.store.CreateEnm(name)
			if err != nil {
				return xerrors.Errorf("create enm %s: %w", name, err)
			}
		}
		e.Bind(h)
	}
	e.notify(EnmPropName)
	return nil
}

func (e *Enm) Active() bool {
	if e.handle != nil && !e.pendingActive {
		active := getBooleanProp(e.handle, libnwam.ENMPropEnabled)
		if active != e.active {
			e.active = active
			e.notify(EnmPropActive)
		}
	}
	return e.active
}

// SetActive enables or disables the ENM. If the system refuses, the cached
// state is rolled back and the error returned. Before the first commit the
// request is kept and carried out by Commit.
func (e *Enm) SetActive(active bool) error {
	prev := e.active
	e.active = active
	if e.handle != nil {
		if !e.handle.IsCommitted() {
			e.pendingActive = true
		} else {
			var err error
			if active {
				err = e.handle.Enable()
			} else {
				err = e.handle.Disable()
			}
			if err != nil {
				logger.Warningf("set enm %s active to %v failed: %v", e.name, active, err)
				e.active = prev
				e.notify(EnmPropActive)
				return err
			}
			e.pendingActive = false
		}
	}
	if prev != active {
		e.notify(EnmPropActive)
	}
	return nil
}

func (e *Enm) syncString(cache *string, prop, sysProp string) string {
	if e.handle != nil {
		s := getStringProp(e.handle, sysProp)
		if s != *cache {
			*cache = s
			e.notify(prop)
		}
	}
	return *cache
}

// setString writes value, an empty value removes the property.
func (e *Enm) setString(cache *string, prop, sysProp, value string) error {
	if e.handle != nil {
		var ok bool
		if value == "" {
			ok = clearProp(e.handle, sysProp)
		} else {
			ok = setStringProp(e.handle, sysProp, value)
		}
		if !ok {
			return xerrors.Errorf("set %s: %w", prop, ErrPropRejected)
		}
	}
	if *cache != value {
		*cache = value
		e.notify(prop)
	}
	return nil
}

func (e *Enm) StartCommand() string {
	return e.syncString(&e.startCommand, EnmPropStartCommand, libnwam.ENMPropStart)
}

func (e *Enm) SetStartCommand(cmd string) error {
	return e.setString(&e.startCommand, EnmPropStartCommand, libnwam.ENMPropStart, cmd)
}

func (e *Enm) StopCommand() string {
	return e.syncString(&e.stopCommand, EnmPropStopCommand, libnwam.ENMPropStop)
}

func (e *Enm) SetStopCommand(cmd string) error {
	return e.setString(&e.stopCommand, EnmPropStopCommand, libnwam.ENMPropStop, cmd)
}

func (e *Enm) SmfFmri() string {
	return e.syncString(&e.smfFmri, EnmPropSmfFmri, libnwam.ENMPropFMRI)
}

func (e *Enm) SetSmfFmri(fmri string) error {
	return e.setString(&e.smfFmri, EnmPropSmfFmri, libnwam.ENMPropFMRI, fmri)
}

func (e *Enm) ActivationMode() libnwam.ActivationMode {
	if e.handle != nil {
		mode := libnwam.ActivationMode(getUint64Prop(e.handle, libnwam.ENMPropActivationMode))
		if mode != e.activationMode {
			e.activationMode = mode
			e.notify(EnmPropActivationMode)
		}
	}
	return e.activationMode
}

func (e *Enm) SetActivationMode(mode libnwam.ActivationMode) error {
	if !mode.IsValid() {
		return libnwam.ErrEntityInvalidValue
	}
	if e.handle != nil && !setUint64Prop(e.handle, libnwam.ENMPropActivationMode, uint64(mode)) {
		return xerrors.Errorf("set %s: %w", EnmPropActivationMode, ErrPropRejected)
	}
	if mode != e.activationMode {
		e.activationMode = mode
		e.notify(EnmPropActivationMode)
	}
	return nil
}

func (e *Enm) Conditions() []*Condition {
	if e.handle != nil {
		strs := getStringArrayProp(e.handle, libnwam.ENMPropConditions)
		if !strv.Strv(strs).Equal(e.conditions) {
			e.conditions = strs
			e.notify(EnmPropConditions)
		}
	}
	return ConditionsFromStrings(e.conditions)
}

// SetConditions replaces the activation conditions, nil removes them.
func (e *Enm) SetConditions(conds []*Condition) error {
	for _, c := range conds {
		if c == nil {
			return libnwam.ErrInvalidArg
		}
		if err := c.Validate(); err != nil {
			return xerrors.Errorf("%v: %w", err, libnwam.ErrEntityInvalidValue)
		}
	}
	strs := ConditionsToStrings(conds)
	if e.handle != nil && !setStringArrayProp(e.handle, libnwam.ENMPropConditions, strs, len(strs)) {
		return xerrors.Errorf("set %s: %w", EnmPropConditions, ErrPropRejected)
	}
	if !strv.Strv(strs).Equal(e.conditions) {
		e.conditions = strs
		e.notify(EnmPropConditions)
	}
	return nil
}

// Commit writes pending changes to the configuration service and reports
// its verdict. An activation requested before the first commit is carried
// out afterwards; if the system refuses it the ENM stays inactive, which
// does not fail the commit.
func (e *Enm) Commit() error {
	if e.handle == nil {
		return ErrNotBound
	}
	err := e.handle.Commit()
	if err != nil {
		logger.Warningf("commit enm %s failed: %v", e.name, err)
		return err
	}
	if e.pendingActive {
		e.pendingActive = false
		if e.active {
			e.enablePending()
		}
	}
	return nil
}

func (e *Enm) enablePending() {
	err := e.handle.Enable()
	if err == nil {
		return
	}
	logger.Warningf("enable enm %s after commit failed: %v", e.name, err)
	e.active = false
	e.notify(EnmPropActive)
}

// Destroy removes the ENM from the configuration service and unbinds.
func (e *Enm) Destroy() error {
	if e.handle == nil {
		return ErrNotBound
	}
	err := e.handle.Destroy()
	if err != nil {
		return err
	}
	e.Free()
	return nil
}

// Free releases the handle. The Enm keeps its cached values.
func (e *Enm) Free() {
	if e.handle == nil {
		return
	}
	e.handle.Free()
	e.handle = nil
	e.pendingActive = false
}
