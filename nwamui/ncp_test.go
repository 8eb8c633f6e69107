// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwamui

import (
	"errors"
	"fmt"
	"testing"

	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/linkstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	events []string
}

func (l *recordingListener) NcuInserted(index int, ncu *Ncu) {
	l.events = append(l.events, fmt.Sprintf("inserted %d %s", index, ncu.DeviceName()))
}

func (l *recordingListener) NcuRemoved(index int, ncu *Ncu) {
	l.events = append(l.events, fmt.Sprintf("removed %d %s", index, ncu.DeviceName()))
}

func (l *recordingListener) NcusReordered() {
	l.events = append(l.events, "reordered")
}

func newTestNcp(t *testing.T, names ...string) (*Ncp, *fakeStore) {
	store := newFakeStore()
	for i, name := range names {
		h := newFakeNcuHandle(libnwam.DefaultNCP, name)
		h.props[libnwam.NCUPropPriorityGroup] = libnwam.NewUint64Value(uint64(len(names) - i))
		store.addNcu(h)
	}
	ncp, err := LoadNcp(store, libnwam.DefaultNCP, nil)
	require.Nil(t, err)
	return ncp, store
}

func deviceNames(ncp *Ncp) []string {
	var names []string
	for _, ncu := range ncp.Ncus() {
		names = append(names, ncu.DeviceName())
	}
	return names
}

func TestLoadNcp_order(t *testing.T) {
	ncp, _ := newTestNcp(t, "net0", "net1", "net2")
	assert.Equal(t, []string{"net2", "net1", "net0"}, deviceNames(ncp))
	assert.Equal(t, libnwam.DefaultNCP, ncp.Name())
	assert.Nil(t, ncp.At(3))
	assert.Nil(t, ncp.At(-1))
	assert.Equal(t, "net1", ncp.Find("net1").DeviceName())
	assert.Nil(t, ncp.Find("net9"))
}

func TestNcp_move(t *testing.T) {
	ncp, _ := newTestNcp(t, "c", "b", "a")
	l := &recordingListener{}
	ncp.AddListener(l)
	a, b, c := ncp.At(0), ncp.At(1), ncp.At(2)
	require.Equal(t, []string{"a", "b", "c"}, deviceNames(ncp))

	assert.True(t, ncp.MoveBefore(c, a))
	assert.Equal(t, []string{"c", "a", "b"}, deviceNames(ncp))

	assert.True(t, ncp.MoveAfter(c, b))
	assert.Equal(t, []string{"a", "b", "c"}, deviceNames(ncp))

	assert.True(t, ncp.MoveAfter(a, b))
	assert.Equal(t, []string{"b", "a", "c"}, deviceNames(ncp))

	assert.False(t, ncp.MoveAfter(a, a))
	assert.False(t, ncp.MoveBefore(a, &Ncu{}))
	assert.Equal(t, []string{"reordered", "reordered", "reordered"}, l.events)

	ncp.RemoveListener(l)
	ncp.MoveBefore(c, b)
	assert.Len(t, l.events, 3)
}

func TestNcp_addRemove(t *testing.T) {
	ncp, store := newTestNcp(t, "net0")
	l := &recordingListener{}
	ncp.AddListener(l)

	h := newFakeNcuHandle(libnwam.DefaultNCP, "net1")
	store.addNcu(h)
	ncu := NewNcu(h, nil)
	ncp.Add(ncu)
	assert.Equal(t, 1, ncp.Index(ncu))
	assert.True(t, ncp.Remove(ncu))
	assert.False(t, ncp.Remove(ncu))
	assert.Equal(t, []string{"inserted 1 net1", "removed 1 net1"}, l.events)
}

func TestNcp_commit(t *testing.T) {
	ncp, store := newTestNcp(t, "net0", "net1")
	require.Equal(t, []string{"net1", "net0"}, deviceNames(ncp))
	ncp.MoveBefore(ncp.At(1), ncp.At(0))

	assert.Nil(t, ncp.Commit())
	assert.Equal(t, uint64(0), getUint64Prop(store.ncus["net0"], libnwam.NCUPropPriorityGroup))
	assert.Equal(t, uint64(1), getUint64Prop(store.ncus["net1"], libnwam.NCUPropPriorityGroup))
	assert.Equal(t, 1, store.ncus["net0"].commits)

	store.ncus["net1"].commitErr = libnwam.ErrBindFailed
	err := ncp.Commit()
	assert.True(t, errors.Is(err, libnwam.ErrBindFailed))
	assert.Equal(t, 2, store.ncus["net0"].commits)
}

func TestNcu_names(t *testing.T) {
	h := newFakeNcuHandle(libnwam.DefaultNCP, "net0")
	ncu := NewNcu(h, nil)
	assert.Equal(t, "net0", ncu.DisplayName())
	assert.Equal(t, "", ncu.VanityName())

	assert.Nil(t, ncu.SetVanityName("Office LAN"))
	assert.Equal(t, "Office LAN", ncu.DisplayName())
	assert.Nil(t, ncu.SetVanityName(""))
	assert.Equal(t, "net0", ncu.DisplayName())
}

func TestNcu_addresses(t *testing.T) {
	links := linkstate.Static{
		"net0": {Name: "net0", HardwareAddr: "00:11:22:33:44:55", IPv4: []string{"192.168.1.5/24"}, Up: true},
		"net1": {Name: "net1", HardwareAddr: "66:77:88:99:aa:bb"},
	}
	ncu0 := NewNcu(newFakeNcuHandle(libnwam.DefaultNCP, "net0"), links)
	assert.True(t, ncu0.IPv4AutoConf())
	assert.Equal(t, "192.168.1.5", ncu0.IPv4Address())
	assert.Equal(t, "00:11:22:33:44:55", ncu0.PhyAddress())

	ncu1 := NewNcu(newFakeNcuHandle(libnwam.DefaultNCP, "net1"), links)
	assert.Nil(t, ncu1.SetIPv4AutoConf(false))
	assert.False(t, ncu1.IPv4AutoConf())
	assert.Equal(t, "", ncu1.IPv4Address())
	assert.NotNil(t, ncu1.SetIPv4Address("10.0.0.7"))
	assert.Nil(t, ncu1.SetIPv4Address("10.0.0.7/24"))
	assert.Equal(t, "10.0.0.7", ncu1.IPv4Address())
	assert.Equal(t, "10.0.0.7", ncu1.StaticIPv4Address())

	// a configured MAC address wins over the link
	h := newFakeNcuHandle(libnwam.DefaultNCP, "net9")
	setStringProp(h, libnwam.NCUPropLinkMACAddr, "de:ad:be:ef:00:01")
	assert.Equal(t, "de:ad:be:ef:00:01", NewNcu(h, links).PhyAddress())
	assert.Equal(t, "", NewNcu(newFakeNcuHandle(libnwam.DefaultNCP, "net8"), links).PhyAddress())
}

func TestNcu_setActiveRollback(t *testing.T) {
	h := newFakeNcuHandle(libnwam.DefaultNCP, "net0")
	ncu := NewNcu(h, nil)
	h.enableErr = errors.New("link down")

	assert.NotNil(t, ncu.SetActive(true))
	assert.False(t, ncu.Active())

	h.enableErr = nil
	assert.Nil(t, ncu.SetActive(true))
	assert.True(t, ncu.Active())
	assert.Nil(t, ncu.SetActive(false))
	assert.False(t, ncu.Active())
}
