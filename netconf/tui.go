// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netconf

import (
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/linuxdeepin/go-lib/gettext"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Toggle   key.Binding
	Rename   key.Binding
	Open     key.Binding
	Apply    key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "select previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "select next"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "enable/disable"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Apply: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "apply"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	nameStyle     = lipgloss.NewStyle().Bold(true)
	infoStyle     = lipgloss.NewStyle().Faint(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	enabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

type linkEventMsg string

type tuiModel struct {
	panel  *Panel
	keys   keyMap
	input  textinput.Model
	events <-chan string

	detail *nwamui.Ncu
	status string
	err    error
}

var _ Coordinator = (*tuiModel)(nil)

func newTUIModel(ncp *nwamui.Ncp, events <-chan string) *tuiModel {
	ti := textinput.New()
	ti.Placeholder = gettext.Tr("Connection name")
	ti.CharLimit = 64
	ti.Width = 40

	m := &tuiModel{
		keys:   defaultKeyMap(),
		input:  ti,
		events: events,
	}
	m.panel = NewPanel(ncp, m)
	return m
}

// SelectNcu opens the detail view of ncu.
func (m *tuiModel) SelectNcu(ncu *nwamui.Ncu) {
	m.detail = ncu
}

func waitForLinkEvent(events <-chan string) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		name, ok := <-events
		if !ok {
			return nil
		}
		return linkEventMsg(name)
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return waitForLinkEvent(m.events)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case linkEventMsg:
		if ncp := m.panel.Ncp(); ncp != nil {
			if ncu := ncp.Find(string(msg)); ncu != nil {
				ncu.LinkChanged()
			}
		}
		return m, waitForLinkEvent(m.events)
	case tea.KeyMsg:
		if m.panel.Renaming() {
			return m.updateRename(msg)
		}
		if m.detail != nil {
			if key.Matches(msg, m.keys.Back, m.keys.Open, m.keys.Quit) {
				m.detail = nil
			}
			return m, nil
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *tuiModel) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.setResult(m.panel.FinishRename(m.input.Value()), gettext.Tr("Renamed"))
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case tea.KeyEsc:
		m.panel.CancelRename()
		m.input.Blur()
		m.input.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := m.panel.SelectedIndex()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.panel.SelectRow(idx - 1)
	case key.Matches(msg, m.keys.Down):
		m.panel.SelectRow(idx + 1)
	case key.Matches(msg, m.keys.MoveUp):
		m.panel.MoveUp()
	case key.Matches(msg, m.keys.MoveDown):
		m.panel.MoveDown()
	case key.Matches(msg, m.keys.Toggle):
		m.setResult(m.panel.ToggleEnabled(idx), "")
	case key.Matches(msg, m.keys.Rename):
		name, ok := m.panel.StartRename(idx)
		if ok {
			m.input.SetValue(name)
			return m, m.input.Focus()
		}
	case key.Matches(msg, m.keys.Open):
		m.panel.RowActivated(idx, ColumnInfo)
	case key.Matches(msg, m.keys.Apply):
		m.setResult(m.panel.Apply(), gettext.Tr("Changes applied"))
	}
	return m, nil
}

func (m *tuiModel) setResult(err error, ok string) {
	m.err = err
	if err == nil {
		m.status = ok
	} else {
		m.status = ""
	}
}

func (m *tuiModel) View() string {
	if m.detail != nil {
		return m.detailView()
	}
	var sb strings.Builder
	title := gettext.Tr("Connections")
	if ncp := m.panel.Ncp(); ncp != nil {
		title = fmt.Sprintf("%s (%s)", title, ncp.Name())
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	selected := m.panel.SelectedIndex()
	for i := 0; i < m.panel.Len(); i++ {
		row, _ := m.panel.Row(i)
		cursor := "  "
		if i == selected {
			cursor = cursorStyle.Render("> ")
		}
		status := disabledStyle.Render(row.Status)
		if row.Enabled {
			status = enabledStyle.Render(row.Status)
		}
		info := plainText(row.Info)
		if row.Phy != "" {
			info += ", " + row.Phy
		}
		fmt.Fprintf(&sb, "%s%s  %s\n    %s\n", cursor, nameStyle.Render(row.Name), status,
			infoStyle.Render(info))
	}
	if m.panel.Len() == 0 {
		sb.WriteString(infoStyle.Render(gettext.Tr("No connections")))
		sb.WriteString("\n")
	}

	if act := m.panel.Activation(); act.Sensitive {
		sb.WriteString("\n")
		sb.WriteString(act.Prompt)
		sb.WriteString(StatusChoices()[act.Status])
		sb.WriteString("\n")
	}
	if m.panel.Renaming() {
		sb.WriteString("\n")
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
	}
	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.err.Error()))
		sb.WriteString("\n")
	} else if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(m.status)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(m.helpLine()))
	return sb.String()
}

func (m *tuiModel) helpLine() string {
	bindings := []key.Binding{m.keys.Up, m.keys.Down, m.keys.MoveUp, m.keys.MoveDown,
		m.keys.Toggle, m.keys.Rename, m.keys.Open, m.keys.Apply, m.keys.Quit}
	var parts []string
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (m *tuiModel) detailView() string {
	ncu := m.detail
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(ncu.DisplayName()))
	sb.WriteString("\n\n")
	lines := [][2]string{
		{gettext.Tr("Device"), ncu.DeviceName()},
		{gettext.Tr("Class"), ncu.NCUClass().String()},
		{gettext.Tr("Status"), statusString(ncu.Active())},
		{gettext.Tr("DHCP"), fmt.Sprint(ncu.IPv4AutoConf())},
		{gettext.Tr("IPv4 address"), ncu.IPv4Address()},
		{gettext.Tr("Hardware address"), ncu.PhyAddress()},
		{gettext.Tr("Priority"), fmt.Sprint(ncu.PriorityGroup())},
	}
	for _, l := range lines {
		fmt.Fprintf(&sb, "%-18s %s\n", l[0]+":", l[1])
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(m.keys.Back.Help().Key + " " + m.keys.Back.Help().Desc))
	return sb.String()
}

// plainText drops the tags of a markup string.
func plainText(markup string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return html.UnescapeString(sb.String())
}

// RunTUI shows the connections of ncp in the terminal until the user
// quits. Device names received from linkEvents refresh their rows.
func RunTUI(ncp *nwamui.Ncp, linkEvents <-chan string) error {
	m := newTUIModel(ncp, linkEvents)
	defer m.panel.Close()
	_, err := tea.NewProgram(m).Run()
	return err
}
