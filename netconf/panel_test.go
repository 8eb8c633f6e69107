// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netconf

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/linkstate"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingController struct {
	err error
}

func (c *failingController) EnableENM(*libnwam.ENMHandle) error  { return nil }
func (c *failingController) DisableENM(*libnwam.ENMHandle) error { return nil }
func (c *failingController) EnableNCU(*libnwam.NCUHandle) error  { return c.err }
func (c *failingController) DisableNCU(*libnwam.NCUHandle) error { return c.err }

type recordingCoordinator struct {
	selected []string
}

func (c *recordingCoordinator) SelectNcu(ncu *nwamui.Ncu) {
	c.selected = append(c.selected, ncu.DeviceName())
}

var testLinks = linkstate.Static{
	"net0": {Name: "net0", HardwareAddr: "00:11:22:33:44:55", IPv4: []string{"192.168.1.5/24"}, Up: true},
	"net1": {Name: "net1", HardwareAddr: "66:77:88:99:aa:bb"},
}

// newTestRepo stores the NCUs in the order given.
func newTestRepo(t *testing.T, ctl libnwam.Controller, names ...string) *libnwam.Repository {
	repo, err := libnwam.Open(filepath.Join(t.TempDir(), "nwam.db"), &libnwam.Options{Controller: ctl})
	require.Nil(t, err)
	for i, name := range names {
		class := libnwam.NCUClassIP
		if name == "wlan0" {
			class = libnwam.NCUClassWireless
		}
		h, err := repo.CreateNCU(libnwam.DefaultNCP, name, libnwam.NCUTypeInterface, class)
		require.Nil(t, err)
		require.Nil(t, h.SetPropValue(libnwam.NCUPropPriorityGroup, libnwam.NewUint64Value(uint64(i))))
		require.Nil(t, h.Commit())
	}
	return repo
}

func newTestPanel(t *testing.T, ctl libnwam.Controller, names ...string) (*Panel, *recordingCoordinator, *libnwam.Repository) {
	repo := newTestRepo(t, ctl, names...)
	ncp, err := nwamui.LoadNcp(nwamui.NewStore(repo), libnwam.DefaultNCP, testLinks)
	require.Nil(t, err)
	coord := &recordingCoordinator{}
	return NewPanel(ncp, coord), coord, repo
}

func rowNames(p *Panel) []string {
	var names []string
	for i := 0; i < p.Len(); i++ {
		row, _ := p.Row(i)
		names = append(names, row.Name)
	}
	return names
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		active bool
		dhcp   bool
		addr   string
		want   string
	}{
		{false, true, "10.0.0.1", "DHCP"},
		{false, false, "10.0.0.1", "Static: 10.0.0.1"},
		{false, false, "", "Static: <i>No IP Address</i>"},
		{true, true, "10.0.0.1", "DHCP, 10.0.0.1"},
		{true, true, "", "DHCP, <i>No IP Address</i>"},
		{true, false, "10.0.0.1", "10.0.0.1"},
		{true, false, "", "<i>No IP Address</i>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, infoString(tt.active, tt.dhcp, tt.addr))
	}
}

func TestRow_markup(t *testing.T) {
	row := Row{Name: "Office <LAN>", Info: "DHCP"}
	assert.Equal(t, "<b>Office &lt;LAN&gt;</b>\n<small>DHCP</small>", row.Markup())
	row.Phy = "00:11:22:33:44:55"
	assert.Equal(t, "<b>Office &lt;LAN&gt;</b>\n<small>DHCP, 00:11:22:33:44:55</small>", row.Markup())
}

func TestPanel_rows(t *testing.T) {
	p, _, _ := newTestPanel(t, nil, "net0", "net1", "wlan0")
	require.Equal(t, 3, p.Len())

	row, ok := p.Row(0)
	require.True(t, ok)
	assert.Equal(t, Row{
		Icon:   "network-wired-disconnected",
		Name:   "net0",
		Info:   "DHCP",
		Phy:    "00:11:22:33:44:55",
		Status: "Disabled",
	}, row)

	require.Nil(t, p.ToggleEnabled(0))
	row, _ = p.Row(0)
	assert.True(t, row.Enabled)
	assert.Equal(t, "Enabled", row.Status)
	assert.Equal(t, "network-wired", row.Icon)
	assert.Equal(t, "DHCP, 192.168.1.5", row.Info)

	row, _ = p.Row(2)
	assert.Equal(t, "network-wireless-disconnected", row.Icon)
	assert.Equal(t, "", row.Phy)

	_, ok = p.Row(3)
	assert.False(t, ok)
}

func TestPanel_toggle(t *testing.T) {
	ctl := &failingController{}
	p, _, repo := newTestPanel(t, ctl, "net0")

	assert.Nil(t, p.ToggleEnabled(0))
	assert.True(t, p.Selected().Active())
	h, err := repo.ReadNCU(libnwam.DefaultNCP, "net0")
	require.Nil(t, err)
	assert.True(t, h.Enabled())

	assert.Nil(t, p.ToggleEnabled(0))
	assert.False(t, p.Selected().Active())

	ctl.err = errors.New("link busy")
	assert.Equal(t, ctl.err, p.ToggleEnabled(0))
	row, _ := p.Row(0)
	assert.False(t, row.Enabled)

	assert.Equal(t, errNoSelection, p.ToggleEnabled(5))
}

func TestPanel_move(t *testing.T) {
	p, _, repo := newTestPanel(t, nil, "net0", "net1", "net2")
	changes := 0
	p.OnChanged = func() { changes++ }

	// first row selected initially
	assert.Equal(t, 0, p.SelectedIndex())
	assert.False(t, p.MoveUp())
	assert.True(t, p.MoveDown())
	assert.Equal(t, []string{"net1", "net0", "net2"}, rowNames(p))
	assert.Equal(t, 1, p.SelectedIndex())
	assert.True(t, p.MoveDown())
	assert.False(t, p.MoveDown())
	assert.Equal(t, []string{"net1", "net2", "net0"}, rowNames(p))

	require.True(t, p.SelectRow(1))
	assert.True(t, p.MoveUp())
	assert.Equal(t, []string{"net2", "net1", "net0"}, rowNames(p))
	assert.Equal(t, 3, changes)

	require.Nil(t, p.Apply())
	ncp, err := nwamui.LoadNcp(nwamui.NewStore(repo), libnwam.DefaultNCP, nil)
	require.Nil(t, err)
	var stored []string
	for _, ncu := range ncp.Ncus() {
		stored = append(stored, ncu.DeviceName())
	}
	assert.Equal(t, []string{"net2", "net1", "net0"}, stored)
}

func TestPanel_rename(t *testing.T) {
	p, _, repo := newTestPanel(t, nil, "net0", "net1")

	assert.Equal(t, errNotRenaming, p.FinishRename("x"))
	_, ok := p.StartRename(7)
	assert.False(t, ok)

	text, ok := p.StartRename(1)
	require.True(t, ok)
	assert.Equal(t, "", text)
	assert.True(t, p.Renaming())
	require.Nil(t, p.FinishRename("Office LAN"))
	assert.False(t, p.Renaming())
	assert.Equal(t, []string{"net0", "Office LAN"}, rowNames(p))

	text, _ = p.StartRename(1)
	assert.Equal(t, "Office LAN", text)
	p.CancelRename()
	assert.False(t, p.Renaming())

	require.Nil(t, p.Apply())
	h, err := repo.ReadNCU(libnwam.DefaultNCP, "net1")
	require.Nil(t, err)
	v, err := h.GetPropValue(libnwam.NCUPropVanityName)
	require.Nil(t, err)
	name, _ := v.String()
	assert.Equal(t, "Office LAN", name)
}

func TestPanel_rowActivated(t *testing.T) {
	p, coord, _ := newTestPanel(t, nil, "net0", "net1")
	assert.False(t, p.RowActivated(1, ColumnCondInfo))
	assert.True(t, p.RowActivated(1, ColumnInfo))
	assert.True(t, p.RowActivated(0, ColumnStatus))
	assert.False(t, p.RowActivated(2, ColumnInfo))
	assert.Equal(t, []string{"net1", "net0"}, coord.selected)
}

func TestPanel_selection(t *testing.T) {
	p, _, _ := newTestPanel(t, nil, "net0", "net1")
	var states []ActivationState
	p.OnActivationChanged = func(s ActivationState) {
		states = append(states, s)
	}

	assert.Equal(t, "Then set status of 'net0' to: ", p.StatusPrompt())
	assert.True(t, p.SelectRow(1))
	// selecting the selected row again does nothing
	assert.True(t, p.SelectRow(1))
	assert.False(t, p.SelectRow(-1))
	require.Len(t, states, 1)
	assert.True(t, states[0].Sensitive)
	assert.Equal(t, "Then set status of 'net1' to: ", states[0].Prompt)

	// renaming the selected connection updates the prompt
	require.Nil(t, p.Selected().SetVanityName("Uplink"))
	assert.Equal(t, "Then set status of 'Uplink' to: ", p.Activation().Prompt)

	p.SetStatus(1)
	assert.Equal(t, 1, p.Activation().Status)
	p.SetStatus(9)
	assert.Equal(t, 1, p.Activation().Status)
}

func TestPanel_reentrancy(t *testing.T) {
	p, _, _ := newTestPanel(t, nil, "net0", "net1", "net2")
	calls := 0
	p.OnActivationChanged = func(s ActivationState) {
		calls++
		// widget updates fire change handlers again
		p.SetRulesEnabled(!s.RulesEnabled)
		p.SetStatus(1)
		p.SelectRow(2)
	}

	p.SelectRow(1)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, p.SelectedIndex())
	assert.Equal(t, 0, p.Activation().Status)
	assert.False(t, p.Activation().RulesEnabled)

	p.OnActivationChanged = func(ActivationState) { calls++ }
	p.SetRulesEnabled(true)
	assert.Equal(t, 2, calls)
	assert.True(t, p.Activation().RulesEnabled)
}

func TestPanel_refresh(t *testing.T) {
	p, _, _ := newTestPanel(t, nil, "net0", "net1")
	require.True(t, p.SelectRow(1))
	selected := p.Selected()

	changes := 0
	p.OnChanged = func() { changes++ }
	p.Refresh(nil, false)
	assert.Equal(t, 0, changes)
	p.Refresh(nil, true)
	assert.Equal(t, 1, changes)
	assert.Equal(t, selected, p.Selected())

	// the selection does not survive a different NCP
	other := nwamui.NewNcp("User")
	p.Refresh(other, false)
	assert.Nil(t, p.Selected())
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.Activation().Sensitive)
	assert.False(t, p.MoveUp())
	assert.False(t, p.MoveDown())

	p.Close()
	p.Refresh(nil, false)
	assert.Equal(t, 2, changes)
}

func TestPanel_ncuRemoved(t *testing.T) {
	p, _, _ := newTestPanel(t, nil, "net0", "net1")
	selected := p.Selected()
	_, ok := p.StartRename(0)
	require.True(t, ok)

	assert.True(t, p.Ncp().Remove(selected))
	assert.Nil(t, p.Selected())
	assert.False(t, p.Renaming())
	assert.Equal(t, []string{"net1"}, rowNames(p))
}

func TestChoices(t *testing.T) {
	assert.Len(t, ActivationModes(), 3)
	assert.Len(t, ProfileModes(), 3)
	assert.Equal(t, []string{"Enabled", "Disabled"}, StatusChoices())
}
