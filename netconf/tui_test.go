// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netconf

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, events <-chan string, names ...string) *tuiModel {
	repo := newTestRepo(t, nil, names...)
	ncp, err := nwamui.LoadNcp(nwamui.NewStore(repo), libnwam.DefaultNCP, testLinks)
	require.Nil(t, err)
	return newTUIModel(ncp, events)
}

func send(m *tuiModel, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestTUI_navigation(t *testing.T) {
	m := newTestModel(t, nil, "net0", "net1", "net2")
	send(m, tea.KeyMsg{Type: tea.KeyDown}, runes("j"))
	assert.Equal(t, 2, m.panel.SelectedIndex())
	send(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.panel.SelectedIndex())
	send(m, runes("k"))
	assert.Equal(t, 1, m.panel.SelectedIndex())

	send(m, runes("K"))
	assert.Equal(t, []string{"net1", "net0", "net2"}, rowNames(m.panel))
	send(m, runes("J"), runes("J"))
	assert.Equal(t, []string{"net0", "net2", "net1"}, rowNames(m.panel))
	assert.Equal(t, 2, m.panel.SelectedIndex())
}

func TestTUI_toggleAndApply(t *testing.T) {
	m := newTestModel(t, nil, "net0")
	send(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.panel.Selected().Active())
	assert.Nil(t, m.err)

	send(m, runes("a"))
	assert.Nil(t, m.err)
	assert.Equal(t, "Changes applied", m.status)
	assert.Contains(t, m.View(), "Enabled")
}

func TestTUI_rename(t *testing.T) {
	m := newTestModel(t, nil, "net0", "net1")
	send(m, runes("r"))
	require.True(t, m.panel.Renaming())
	// list keys go to the input while renaming
	send(m, runes("j"))
	assert.Equal(t, 0, m.panel.SelectedIndex())
	send(m, tea.KeyMsg{Type: tea.KeyBackspace}, runes("Uplink"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.panel.Renaming())
	assert.Equal(t, []string{"Uplink", "net1"}, rowNames(m.panel))

	send(m, runes("r"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.panel.Renaming())
	assert.Equal(t, "Uplink", m.panel.Selected().DisplayName())
}

func TestTUI_detail(t *testing.T) {
	m := newTestModel(t, nil, "net0")
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.detail)
	view := m.View()
	assert.Contains(t, view, "00:11:22:33:44:55")
	assert.Contains(t, view, "192.168.1.5")

	// q leaves the detail view, not the program
	cmd := send(m, runes("q"))
	assert.Nil(t, cmd)
	assert.Nil(t, m.detail)

	cmd = send(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTUI_linkEvents(t *testing.T) {
	events := make(chan string, 1)
	m := newTestModel(t, events, "net0")
	var props []string
	m.panel.Selected().Connect(func(prop string) {
		props = append(props, prop)
	})

	cmd := m.Init()
	require.NotNil(t, cmd)
	events <- "net0"
	msg := cmd()
	assert.Equal(t, linkEventMsg("net0"), msg)
	next := send(m, msg)
	assert.NotNil(t, next)
	assert.Contains(t, props, nwamui.NcuPropIPv4Address)

	close(events)
	assert.Nil(t, next())
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Static: No IP Address", plainText("Static: <i>No IP Address</i>"))
	assert.Equal(t, "a <b>", plainText("a &lt;b&gt;"))
}
