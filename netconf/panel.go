// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netconf

import (
	"errors"
	"fmt"

	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/linuxdeepin/go-lib/gettext"
	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("daemon/netconf")

var (
	errNoSelection = errors.New("no connection selected")
	errNotRenaming = errors.New("no rename in progress")
)

// Coordinator is the owner of the panel. It shows the details of a
// connection chosen from the list.
type Coordinator interface {
	SelectNcu(ncu *nwamui.Ncu)
}

// ActivationState is the state of the widgets describing what happens to
// the selected connection.
type ActivationState struct {
	Sensitive    bool
	RulesEnabled bool
	Prompt       string
	// index into StatusChoices
	Status int
}

// StatusChoices are the entries of the status menu following the prompt.
func StatusChoices() []string {
	return []string{statusString(true), statusString(false)}
}

// Panel is the view-controller of the connection list of one NCP. It is
// not safe for concurrent use; callers drive it from one goroutine.
type Panel struct {
	ncp         *nwamui.Ncp
	coordinator Coordinator

	selected        *nwamui.Ncu
	selectedHandler nwamui.HandlerID
	renaming        *nwamui.Ncu

	activation       ActivationState
	updateInProgress bool

	// OnChanged is called when rows need to be drawn again.
	OnChanged func()
	// OnActivationChanged is called after the activation widgets were
	// updated for the selected connection.
	OnActivationChanged func(ActivationState)
}

var _ nwamui.NcpListener = (*Panel)(nil)

func NewPanel(ncp *nwamui.Ncp, coordinator Coordinator) *Panel {
	p := &Panel{coordinator: coordinator}
	p.Refresh(ncp, true)
	return p
}

func (p *Panel) Ncp() *nwamui.Ncp {
	return p.ncp
}

// Refresh shows ncp. Passing nil keeps the current NCP. Nothing happens
// unless the NCP differs or force is set.
func (p *Panel) Refresh(ncp *nwamui.Ncp, force bool) {
	if ncp == nil {
		ncp = p.ncp
	}
	if ncp == p.ncp && !force {
		return
	}
	if p.ncp != nil && p.ncp != ncp {
		p.ncp.RemoveListener(p)
	}
	if ncp != nil && ncp != p.ncp {
		ncp.AddListener(p)
	}
	p.ncp = ncp
	p.renaming = nil

	selected := p.selected
	if p.ncp == nil || p.ncp.Index(selected) < 0 {
		selected = nil
		if p.ncp != nil {
			selected = p.ncp.At(0)
		}
	}
	p.setSelected(selected)
	p.updateRulesFromNcu()
	p.changed()
}

func (p *Panel) changed() {
	if p.OnChanged != nil {
		p.OnChanged()
	}
}

func (p *Panel) Len() int {
	if p.ncp == nil {
		return 0
	}
	return p.ncp.Len()
}

// Row renders the connection at position i.
func (p *Panel) Row(i int) (Row, bool) {
	ncu := p.at(i)
	if ncu == nil {
		return Row{}, false
	}
	return renderRow(ncu), true
}

func (p *Panel) at(i int) *nwamui.Ncu {
	if p.ncp == nil {
		return nil
	}
	return p.ncp.At(i)
}

func (p *Panel) Selected() *nwamui.Ncu {
	return p.selected
}

// SelectedIndex returns -1 when nothing is selected.
func (p *Panel) SelectedIndex() int {
	if p.ncp == nil || p.selected == nil {
		return -1
	}
	return p.ncp.Index(p.selected)
}

// SelectRow makes the connection at i the selected one and updates the
// activation widgets for it. Selections made while those widgets are
// being updated are ignored.
func (p *Panel) SelectRow(i int) bool {
	ncu := p.at(i)
	if ncu == nil || p.updateInProgress {
		return false
	}
	if ncu != p.selected {
		p.setSelected(ncu)
		p.updateRulesFromNcu()
	}
	return true
}

func (p *Panel) setSelected(ncu *nwamui.Ncu) {
	if p.selected == ncu {
		return
	}
	if p.selected != nil {
		p.selected.Disconnect(p.selectedHandler)
	}
	p.selected = ncu
	if ncu != nil {
		p.selectedHandler = ncu.Connect(func(prop string) {
			p.ncuNotify(ncu, prop)
		})
	}
}

// RowActivated hands the connection at i to the coordinator. Activating
// the condition column does nothing.
func (p *Panel) RowActivated(i int, column Column) bool {
	if column == ColumnCondInfo {
		return false
	}
	ncu := p.at(i)
	if ncu == nil {
		return false
	}
	if p.coordinator != nil {
		p.coordinator.SelectNcu(ncu)
	}
	return true
}

// ToggleEnabled enables a disabled connection and disables an enabled one.
func (p *Panel) ToggleEnabled(i int) error {
	ncu := p.at(i)
	if ncu == nil {
		return errNoSelection
	}
	err := ncu.SetActive(!ncu.Active())
	p.changed()
	return err
}

// StartRename begins editing the name of the connection at i and returns
// the text to edit.
func (p *Panel) StartRename(i int) (string, bool) {
	ncu := p.at(i)
	if ncu == nil {
		return "", false
	}
	logger.Debug("editing started", ncu.DeviceName())
	p.renaming = ncu
	return ncu.VanityName(), true
}

func (p *Panel) Renaming() bool {
	return p.renaming != nil
}

// FinishRename stores text as the vanity name of the connection being
// renamed.
func (p *Panel) FinishRename(text string) error {
	ncu := p.renaming
	if ncu == nil {
		return errNotRenaming
	}
	p.renaming = nil
	err := ncu.SetVanityName(text)
	p.changed()
	return err
}

func (p *Panel) CancelRename() {
	p.renaming = nil
}

// MoveUp swaps the selected connection with the one before it.
func (p *Panel) MoveUp() bool {
	idx := p.SelectedIndex()
	if idx <= 0 {
		return false
	}
	return p.ncp.MoveBefore(p.selected, p.ncp.At(idx-1))
}

// MoveDown swaps the selected connection with the one after it.
func (p *Panel) MoveDown() bool {
	idx := p.SelectedIndex()
	if idx < 0 {
		return false
	}
	next := p.ncp.At(idx + 1)
	if next == nil {
		return false
	}
	return p.ncp.MoveAfter(p.selected, next)
}

// Apply commits order, names and settings of all connections.
func (p *Panel) Apply() error {
	if p.ncp == nil {
		return nil
	}
	err := p.ncp.Commit()
	if err != nil {
		logger.Warning("apply:", err)
	}
	return err
}

func (p *Panel) Activation() ActivationState {
	return p.activation
}

// SetRulesEnabled switches the activation rules of the selected connection.
func (p *Panel) SetRulesEnabled(enabled bool) {
	if p.selected == nil || p.updateInProgress {
		return
	}
	p.activation.RulesEnabled = enabled
	p.updateRulesFromNcu()
}

// SetStatus picks the status the selected connection gets when its rules
// match.
func (p *Panel) SetStatus(status int) {
	if p.selected == nil || p.updateInProgress {
		return
	}
	if status < 0 || status >= len(StatusChoices()) {
		logger.Warning("invalid status", status)
		return
	}
	p.activation.Status = status
}

// updateRulesFromNcu refreshes the activation widgets. Listeners of
// OnActivationChanged may call back into the panel; such nested updates
// are dropped.
func (p *Panel) updateRulesFromNcu() {
	if p.updateInProgress {
		return
	}
	p.updateInProgress = true
	defer func() {
		p.updateInProgress = false
	}()

	p.ncuNotify(p.selected, "")
	if p.selected != nil {
		p.activation.Sensitive = true
		p.activation.Status = 0
	} else {
		p.activation.Sensitive = false
	}
	if p.OnActivationChanged != nil {
		p.OnActivationChanged(p.activation)
	}
}

func (p *Panel) ncuNotify(ncu *nwamui.Ncu, prop string) {
	if ncu != p.selected {
		return
	}
	p.activation.Prompt = p.StatusPrompt()
	if prop != "" {
		p.changed()
	}
}

// StatusPrompt is the label in front of the status menu.
func (p *Panel) StatusPrompt() string {
	name := ""
	if p.selected != nil {
		name = p.selected.DisplayName()
	}
	return fmt.Sprintf(gettext.Tr("Then set status of '%s' to: "), name)
}

func (p *Panel) NcuInserted(index int, ncu *nwamui.Ncu) {
	p.changed()
}

func (p *Panel) NcuRemoved(index int, ncu *nwamui.Ncu) {
	if ncu == p.renaming {
		p.renaming = nil
	}
	if ncu == p.selected {
		p.setSelected(nil)
		p.updateRulesFromNcu()
	}
	p.changed()
}

func (p *Panel) NcusReordered() {
	p.changed()
}

// Close detaches the panel from its NCP and the selected connection.
func (p *Panel) Close() {
	p.setSelected(nil)
	if p.ncp != nil {
		p.ncp.RemoveListener(p)
	}
}
