// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwamui

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnm_vpn0(t *testing.T) {
	repo, err := libnwam.Open(filepath.Join(t.TempDir(), "nwam.db"), nil)
	require.Nil(t, err)
	store := NewStore(repo)

	enm, err := NewEnm(store, "vpn0", false, "", "", "")
	require.Nil(t, err)
	assert.True(t, enm.IsBound())
	assert.Nil(t, enm.SetStartCommand("/usr/bin/vpnstart"))
	assert.Nil(t, enm.SetStopCommand("/usr/bin/vpnstop"))
	assert.Nil(t, enm.Commit())
	assert.Equal(t, "/usr/bin/vpnstart", enm.StartCommand())
	assert.Nil(t, enm.Commit())

	// a second object binds to the stored record
	other, err := NewEnm(store, "vpn0", false, "", "", "")
	require.Nil(t, err)
	assert.Equal(t, "/usr/bin/vpnstop", other.StopCommand())
	assert.Equal(t, libnwam.ActivationModeManual, other.ActivationMode())
	assert.False(t, other.Active())

	// committed names are fixed
	assert.Equal(t, libnwam.ErrEntityNotModifiable, other.SetName("vpn1"))
	assert.Equal(t, "vpn0", other.Name())
}

func TestEnm_setActiveRollback(t *testing.T) {
	store := newFakeStore()
	h := newFakeEnmHandle("vpn0")
	h.committed = true
	h.enableErr = errors.New("enable failed")
	store.enms["vpn0"] = h

	enm, err := NewEnm(store, "vpn0", false, "", "", "")
	require.Nil(t, err)

	var notified []string
	enm.Connect(func(prop string) {
		notified = append(notified, prop)
	})
	err = enm.SetActive(true)
	assert.Equal(t, h.enableErr, err)
	assert.False(t, enm.Active())
	assert.Equal(t, 1, h.enableCall)
	assert.Equal(t, []string{EnmPropActive}, notified)

	h.enableErr = nil
	assert.Nil(t, enm.SetActive(true))
	assert.True(t, enm.Active())
}

func TestEnm_pendingActive(t *testing.T) {
	store := newFakeStore()
	enm, err := NewEnm(store, "vpn0", true, "", "/bin/vpn", "")
	require.Nil(t, err)
	h := store.enms["vpn0"]
	assert.Equal(t, 0, h.enableCall)
	assert.True(t, enm.Active())

	assert.Nil(t, enm.Commit())
	assert.Equal(t, 1, h.enableCall)
	assert.True(t, h.Enabled())
	assert.True(t, enm.Active())
}

func TestEnm_pendingActiveEnableFailure(t *testing.T) {
	store := newFakeStore()
	enm, err := NewEnm(store, "vpn0", true, "", "/bin/vpn", "")
	require.Nil(t, err)
	h := store.enms["vpn0"]
	h.enableErr = errors.New("enable failed")

	var notified []string
	enm.Connect(func(prop string) {
		notified = append(notified, prop)
	})
	assert.Nil(t, enm.Commit())
	assert.True(t, h.IsCommitted())
	assert.Equal(t, 1, h.enableCall)
	assert.False(t, h.Enabled())
	assert.Equal(t, []string{EnmPropActive}, notified)
	assert.False(t, enm.Active())

	// later requests go straight to the system
	h.enableErr = nil
	assert.Nil(t, enm.SetActive(true))
	assert.Equal(t, 2, h.enableCall)
	assert.True(t, enm.Active())
}

func TestEnm_commitFailure(t *testing.T) {
	store := newFakeStore()
	enm, err := NewEnm(store, "vpn0", false, "", "/bin/vpn", "")
	require.Nil(t, err)
	h := store.enms["vpn0"]
	h.commitErr = libnwam.ErrEntityMissingMember
	assert.Equal(t, libnwam.ErrEntityMissingMember, enm.Commit())

	unbound := &Enm{}
	assert.Equal(t, ErrNotBound, unbound.Commit())
}

func TestEnm_bindOnce(t *testing.T) {
	enm := NewEnmWithHandle(nil, newFakeEnmHandle("vpn0"))
	assert.Panics(t, func() {
		enm.Bind(newFakeEnmHandle("vpn1"))
	})
	assert.Equal(t, "vpn0", enm.Name())
}

func TestEnm_unbound(t *testing.T) {
	enm := &Enm{}
	assert.False(t, enm.IsBound())
	assert.Nil(t, enm.SetName("vpn0"))
	assert.Nil(t, enm.SetStartCommand("/bin/start"))
	assert.Nil(t, enm.SetActivationMode(libnwam.ActivationModeConditionalAny))
	cond := NewObjectCondition(ObjectNcu, "net0", OpIs)
	assert.Nil(t, enm.SetConditions([]*Condition{cond}))
	assert.Equal(t, "/bin/start", enm.StartCommand())

	// binding to a new handle hands over the cached values
	h := newFakeEnmHandle("vpn0")
	enm.Bind(h)
	assert.Equal(t, "/bin/start", getStringProp(h, libnwam.ENMPropStart))
	assert.Equal(t, uint64(libnwam.ActivationModeConditionalAny), getUint64Prop(h, libnwam.ENMPropActivationMode))
	assert.Equal(t, []string{"ncu net0 is active"}, getStringArrayProp(h, libnwam.ENMPropConditions))
}

func TestEnm_bindCommitted(t *testing.T) {
	h := newFakeEnmHandle("vpn0")
	h.committed = true
	setStringProp(h, libnwam.ENMPropFMRI, "svc:/network/vpn:default")
	h.props[libnwam.ENMPropEnabled] = libnwam.NewBooleanValue(true)

	enm := &Enm{}
	assert.Nil(t, enm.SetStartCommand("/bin/ignored"))
	enm.Bind(h)
	assert.Equal(t, "svc:/network/vpn:default", enm.SmfFmri())
	assert.Equal(t, "", enm.StartCommand())
	assert.True(t, enm.Active())
}

func TestEnm_getterNotifiesOnChange(t *testing.T) {
	h := newFakeEnmHandle("vpn0")
	h.committed = true
	enm := NewEnmWithHandle(nil, h)

	var notified []string
	id := enm.Connect(func(prop string) {
		notified = append(notified, prop)
	})
	setStringProp(h, libnwam.ENMPropStop, "/bin/stop")
	assert.Equal(t, "/bin/stop", enm.StopCommand())
	assert.Equal(t, "/bin/stop", enm.StopCommand())
	assert.Equal(t, []string{EnmPropStopCommand}, notified)

	enm.Disconnect(id)
	assert.Nil(t, enm.SetStopCommand(""))
	assert.Len(t, notified, 1)
	assert.NotContains(t, h.props, libnwam.ENMPropStop)
}

func TestEnm_propTable(t *testing.T) {
	tests := []struct {
		prop string
		set  interface{}
		want interface{}
	}{
		{EnmPropStartCommand, "/usr/bin/vpnstart", "/usr/bin/vpnstart"},
		{EnmPropStopCommand, "/usr/bin/vpnstop", "/usr/bin/vpnstop"},
		{EnmPropSmfFmri, "svc:/network/vpn:default", "svc:/network/vpn:default"},
		{EnmPropActivationMode, libnwam.ActivationModeConditionalAll, libnwam.ActivationModeConditionalAll},
		{EnmPropActivationMode, uint64(libnwam.ActivationModeManual), libnwam.ActivationModeManual},
		{EnmPropConditions, []string{"essid is home"}, []*Condition{{Object: ObjectEssid, Op: OpIs, Value: "home"}}},
		{EnmPropActive, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.prop, func(t *testing.T) {
			h := newFakeEnmHandle("vpn0")
			h.committed = true
			enm := NewEnmWithHandle(nil, h)
			require.Nil(t, enm.Set(tt.prop, tt.set))
			got, err := enm.Get(tt.prop)
			require.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	enm := NewEnmWithHandle(nil, newFakeEnmHandle("vpn0"))
	assert.Equal(t, libnwam.ErrEntityTypeMismatch, enm.Set(EnmPropStartCommand, 5))
	assert.Equal(t, libnwam.ErrEntityTypeMismatch, enm.Set(EnmPropActive, "yes"))
	assert.Equal(t, libnwam.ErrInvalidArg, enm.Set("bogus", 1))
	_, err := enm.Get("bogus")
	assert.Equal(t, libnwam.ErrInvalidArg, err)

	assert.Len(t, EnmProps(), 7)
}

func TestEnm_destroy(t *testing.T) {
	h := newFakeEnmHandle("vpn0")
	enm := NewEnmWithHandle(nil, h)
	assert.Nil(t, enm.Destroy())
	assert.True(t, h.destroyed)
	assert.True(t, h.freed)
	assert.False(t, enm.IsBound())
	assert.Equal(t, ErrNotBound, enm.Destroy())
}
