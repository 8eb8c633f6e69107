// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package libnwam

// NCUHandle is a private copy of one Network Configuration Unit of an NCP.
type NCUHandle struct {
	entity
	repo      *Repository
	ncp       string
	name      string
	committed bool
}

func newNCUHandle(repo *Repository, ncp, name string) *NCUHandle {
	return &NCUHandle{
		entity: newEntity(ncuProps),
		repo:   repo,
		ncp:    ncp,
		name:   name,
	}
}

func (h *NCUHandle) Name() (string, error) {
	if h.freed {
		return "", ErrInvalidArg
	}
	return h.name, nil
}

func (h *NCUHandle) NCP() string {
	return h.ncp
}

func (h *NCUHandle) NCUType() NCUType {
	v, ok := h.props[NCUPropNCUType]
	if !ok {
		return NCUTypeLink
	}
	u, _ := v.Uint64()
	return NCUType(u)
}

func (h *NCUHandle) NCUClass() NCUClass {
	v, ok := h.props[NCUPropNCUClass]
	if !ok {
		return NCUClassPhys
	}
	u, _ := v.Uint64()
	return NCUClass(u)
}

func (h *NCUHandle) GetPropValue(prop string) (Value, error) {
	return h.getPropValue(prop)
}

func (h *NCUHandle) SetPropValue(prop string, v Value) error {
	return h.setPropValue(prop, v)
}

func (h *NCUHandle) DeleteProp(prop string) error {
	return h.deleteProp(prop)
}

func (h *NCUHandle) Props() []string {
	return h.propNames()
}

func (h *NCUHandle) PropType(prop string) (ValueType, error) {
	return NCUPropType(prop)
}

func (h *NCUHandle) PropReadOnly(prop string) (bool, error) {
	return NCUPropReadOnly(prop)
}

func (h *NCUHandle) IsCommitted() bool {
	return h.committed
}

func (h *NCUHandle) Enabled() bool {
	return h.boolProp(NCUPropEnabled)
}

// Validate requires a static address for interfaces configured with a
// static ipv4 address source.
func (h *NCUHandle) Validate() error {
	if h.freed {
		return ErrInvalidArg
	}
	if h.NCUType() != NCUTypeInterface {
		return nil
	}
	v, ok := h.props[NCUPropIPv4AddrSrc]
	if !ok {
		return nil
	}
	srcs, _ := v.Uint64Array()
	for _, src := range srcs {
		if src == AddrSrcStatic {
			if _, ok := h.props[NCUPropIPv4Addr]; !ok {
				return ErrEntityMissingMember
			}
		}
	}
	return nil
}

func (h *NCUHandle) Commit() error {
	if err := h.Validate(); err != nil {
		return err
	}
	enabled, err := h.repo.commitNCU(h)
	if err != nil {
		return err
	}
	h.committed = true
	h.setSystemProp(NCUPropEnabled, NewBooleanValue(enabled))
	return nil
}

func (h *NCUHandle) Enable() error {
	return h.setEnabled(true)
}

func (h *NCUHandle) Disable() error {
	return h.setEnabled(false)
}

func (h *NCUHandle) setEnabled(enabled bool) error {
	if h.freed {
		return ErrInvalidArg
	}
	if !h.committed {
		return ErrEntityNotFound
	}
	ctl := h.repo.controller()
	var err error
	if enabled {
		err = ctl.EnableNCU(h)
	} else {
		err = ctl.DisableNCU(h)
	}
	if err != nil {
		logger.Debugf("ncu %s/%s: control failed: %v", h.ncp, h.name, err)
		return err
	}
	err = h.repo.storeEnabled(bucketNCPs, []byte(h.ncp), h.name, NCUPropEnabled, enabled)
	if err != nil {
		return err
	}
	h.setSystemProp(NCUPropEnabled, NewBooleanValue(enabled))
	return nil
}

func (h *NCUHandle) Destroy() error {
	if h.freed {
		return ErrInvalidArg
	}
	if !h.committed {
		return ErrEntityNotFound
	}
	err := h.repo.deleteRecord(bucketNCPs, []byte(h.ncp), h.name)
	if err != nil {
		return err
	}
	h.committed = false
	return nil
}

func (h *NCUHandle) Free() {
	h.freed = true
	h.props = nil
}
