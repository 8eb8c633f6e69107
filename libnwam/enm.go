// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package libnwam

// ENMHandle is a private copy of one External Network Modifier record.
// Changes made through the handle are invisible to other readers until
// Commit; Enable and Disable act on the system immediately.
type ENMHandle struct {
	entity
	repo      *Repository
	name      string
	committed bool
}

func newENMHandle(repo *Repository, name string) *ENMHandle {
	return &ENMHandle{
		entity: newEntity(enmProps),
		repo:   repo,
		name:   name,
	}
}

func (h *ENMHandle) Name() (string, error) {
	if h.freed {
		return "", ErrInvalidArg
	}
	return h.name, nil
}

// SetName renames a handle that has never been committed. Committed ENMs
// keep their name for life.
func (h *ENMHandle) SetName(name string) error {
	if h.freed {
		return ErrInvalidArg
	}
	if err := validateName(name); err != nil {
		return err
	}
	if name == h.name {
		return nil
	}
	if h.committed {
		return ErrEntityNotModifiable
	}
	h.name = name
	return nil
}

func (h *ENMHandle) GetPropValue(prop string) (Value, error) {
	return h.getPropValue(prop)
}

func (h *ENMHandle) SetPropValue(prop string, v Value) error {
	if prop == ENMPropActivationMode {
		mode, err := v.Uint64()
		if err != nil {
			return ErrEntityTypeMismatch
		}
		switch ActivationMode(mode) {
		case ActivationModeManual, ActivationModeConditionalAny, ActivationModeConditionalAll:
		default:
			return ErrEntityInvalidValue
		}
	}
	return h.setPropValue(prop, v)
}

func (h *ENMHandle) DeleteProp(prop string) error {
	return h.deleteProp(prop)
}

// Props returns the names of the properties that carry a value.
func (h *ENMHandle) Props() []string {
	return h.propNames()
}

func (h *ENMHandle) PropType(prop string) (ValueType, error) {
	return ENMPropType(prop)
}

func (h *ENMHandle) PropReadOnly(prop string) (bool, error) {
	return ENMPropReadOnly(prop)
}

func (h *ENMHandle) IsCommitted() bool {
	return h.committed
}

func (h *ENMHandle) Enabled() bool {
	return h.boolProp(ENMPropEnabled)
}

// Validate checks the record is usable: an ENM needs either a start
// command or a service FMRI, and conditional activation needs conditions.
func (h *ENMHandle) Validate() error {
	if h.freed {
		return ErrInvalidArg
	}
	_, hasStart := h.props[ENMPropStart]
	_, hasFMRI := h.props[ENMPropFMRI]
	if !hasStart && !hasFMRI {
		return ErrEntityMissingMember
	}
	if v, ok := h.props[ENMPropActivationMode]; ok {
		mode, _ := v.Uint64()
		switch ActivationMode(mode) {
		case ActivationModeConditionalAny, ActivationModeConditionalAll:
			if _, ok := h.props[ENMPropConditions]; !ok {
				return ErrEntityMissingMember
			}
		}
	}
	return nil
}

// Commit validates the handle and writes it to the repository. The enabled
// state stored in the repository is kept, it is only changed by Enable and
// Disable.
func (h *ENMHandle) Commit() error {
	if err := h.Validate(); err != nil {
		return err
	}
	enabled, err := h.repo.commitENM(h)
	if err != nil {
		return err
	}
	h.committed = true
	h.setSystemProp(ENMPropEnabled, NewBooleanValue(enabled))
	return nil
}

func (h *ENMHandle) Enable() error {
	return h.setEnabled(true)
}

func (h *ENMHandle) Disable() error {
	return h.setEnabled(false)
}

func (h *ENMHandle) setEnabled(enabled bool) error {
	if h.freed {
		return ErrInvalidArg
	}
	if !h.committed {
		return ErrEntityNotFound
	}
	ctl := h.repo.controller()
	var err error
	if enabled {
		err = ctl.EnableENM(h)
	} else {
		err = ctl.DisableENM(h)
	}
	if err != nil {
		logger.Debugf("enm %s: service control failed: %v", h.name, err)
		return err
	}
	err = h.repo.storeEnabled(bucketENMs, nil, h.name, ENMPropEnabled, enabled)
	if err != nil {
		return err
	}
	h.setSystemProp(ENMPropEnabled, NewBooleanValue(enabled))
	return nil
}

// Destroy removes the ENM from the repository. Enabled ENMs have to be
// disabled first.
func (h *ENMHandle) Destroy() error {
	if h.freed {
		return ErrInvalidArg
	}
	if !h.committed {
		return ErrEntityNotFound
	}
	if h.Enabled() {
		return ErrEntityInUse
	}
	err := h.repo.deleteRecord(bucketENMs, nil, h.name)
	if err != nil {
		return err
	}
	h.committed = false
	return nil
}

// Free releases the handle; any later call fails with ErrInvalidArg.
func (h *ENMHandle) Free() {
	h.freed = true
	h.props = nil
}
