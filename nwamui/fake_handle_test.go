// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwamui

import (
	"github.com/linuxdeepin/dde-nwam/libnwam"
)

// fakeHandle is an in-memory configuration handle. It serves as ENM or NCU
// handle depending on the property functions it is built with.
type fakeHandle struct {
	name         string
	ncp          string
	ncuType      libnwam.NCUType
	ncuClass     libnwam.NCUClass
	props        map[string]libnwam.Value
	propType     func(prop string) (libnwam.ValueType, error)
	propReadOnly func(prop string) (bool, error)

	committed  bool
	freed      bool
	destroyed  bool
	enableErr  error
	commitErr  error
	enableCall int
	commits    int
}

func newFakeEnmHandle(name string) *fakeHandle {
	h := &fakeHandle{
		name:         name,
		props:        make(map[string]libnwam.Value),
		propType:     libnwam.ENMPropType,
		propReadOnly: libnwam.ENMPropReadOnly,
	}
	h.props[libnwam.ENMPropEnabled] = libnwam.NewBooleanValue(false)
	h.props[libnwam.ENMPropActivationMode] = libnwam.NewUint64Value(uint64(libnwam.ActivationModeManual))
	return h
}

func newFakeNcuHandle(ncp, name string) *fakeHandle {
	h := &fakeHandle{
		name:         name,
		ncp:          ncp,
		ncuType:      libnwam.NCUTypeInterface,
		ncuClass:     libnwam.NCUClassIP,
		props:        make(map[string]libnwam.Value),
		propType:     libnwam.NCUPropType,
		propReadOnly: libnwam.NCUPropReadOnly,
		committed:    true,
	}
	h.props[libnwam.NCUPropEnabled] = libnwam.NewBooleanValue(false)
	return h
}

func (h *fakeHandle) GetPropValue(prop string) (libnwam.Value, error) {
	if _, err := h.propType(prop); err != nil {
		return libnwam.Value{}, err
	}
	v, ok := h.props[prop]
	if !ok {
		return libnwam.Value{}, libnwam.ErrEntityNotFound
	}
	return v, nil
}

func (h *fakeHandle) SetPropValue(prop string, v libnwam.Value) error {
	typ, err := h.propType(prop)
	if err != nil {
		return err
	}
	if ro, _ := h.propReadOnly(prop); ro {
		return libnwam.ErrEntityReadOnly
	}
	if v.Type() != typ {
		return libnwam.ErrEntityTypeMismatch
	}
	h.props[prop] = v
	return nil
}

func (h *fakeHandle) DeleteProp(prop string) error {
	if _, ok := h.props[prop]; !ok {
		return libnwam.ErrEntityNotFound
	}
	delete(h.props, prop)
	return nil
}

func (h *fakeHandle) PropType(prop string) (libnwam.ValueType, error) {
	return h.propType(prop)
}

func (h *fakeHandle) PropReadOnly(prop string) (bool, error) {
	return h.propReadOnly(prop)
}

func (h *fakeHandle) Name() (string, error) {
	return h.name, nil
}

func (h *fakeHandle) SetName(name string) error {
	if h.committed && name != h.name {
		return libnwam.ErrEntityNotModifiable
	}
	h.name = name
	return nil
}

func (h *fakeHandle) NCP() string                { return h.ncp }
func (h *fakeHandle) NCUType() libnwam.NCUType   { return h.ncuType }
func (h *fakeHandle) NCUClass() libnwam.NCUClass { return h.ncuClass }
func (h *fakeHandle) IsCommitted() bool          { return h.committed }

func (h *fakeHandle) Enabled() bool {
	b, _ := h.props[libnwam.ENMPropEnabled].Boolean()
	return b
}

func (h *fakeHandle) setEnabled(enabled bool) error {
	h.enableCall++
	if h.enableErr != nil {
		return h.enableErr
	}
	h.props[libnwam.ENMPropEnabled] = libnwam.NewBooleanValue(enabled)
	return nil
}

func (h *fakeHandle) Enable() error  { return h.setEnabled(true) }
func (h *fakeHandle) Disable() error { return h.setEnabled(false) }

func (h *fakeHandle) Commit() error {
	h.commits++
	if h.commitErr != nil {
		return h.commitErr
	}
	h.committed = true
	return nil
}

func (h *fakeHandle) Destroy() error {
	h.destroyed = true
	return nil
}

func (h *fakeHandle) Free() {
	h.freed = true
}

type fakeStore struct {
	enms map[string]*fakeHandle
	ncus map[string]*fakeHandle
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		enms: make(map[string]*fakeHandle),
		ncus: make(map[string]*fakeHandle),
	}
}

func (s *fakeStore) ReadEnm(name string) (EnmHandle, error) {
	h, ok := s.enms[name]
	if !ok {
		return nil, libnwam.ErrEntityNotFound
	}
	return h, nil
}

func (s *fakeStore) CreateEnm(name string) (EnmHandle, error) {
	if _, ok := s.enms[name]; ok {
		return nil, libnwam.ErrEntityExists
	}
	h := newFakeEnmHandle(name)
	s.enms[name] = h
	return h, nil
}

func (s *fakeStore) EnmNames() ([]string, error) {
	var names []string
	for name := range s.enms {
		names = append(names, name)
	}
	return names, nil
}

func (s *fakeStore) addNcu(h *fakeHandle) {
	s.ncus[h.name] = h
}

func (s *fakeStore) ReadNcu(ncp, name string) (NcuHandle, error) {
	h, ok := s.ncus[name]
	if !ok || h.ncp != ncp {
		return nil, libnwam.ErrEntityNotFound
	}
	return h, nil
}

func (s *fakeStore) NcuNames(ncp string) ([]string, error) {
	var names []string
	for name, h := range s.ncus {
		if h.ncp == ncp {
			names = append(names, name)
		}
	}
	return names, nil
}
