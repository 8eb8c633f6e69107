// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwamui

import (
	"sort"

	"github.com/linuxdeepin/dde-nwam/linkstate"
	"golang.org/x/xerrors"
)

// NcpListener follows changes of the order and membership of an Ncp.
type NcpListener interface {
	NcuInserted(index int, ncu *Ncu)
	NcuRemoved(index int, ncu *Ncu)
	NcusReordered()
}

// Ncp is the ordered collection of the connections of one profile. The
// position of a connection is its priority.
type Ncp struct {
	name      string
	ncus      []*Ncu
	listeners []NcpListener
}

func NewNcp(name string) *Ncp {
	return &Ncp{name: name}
}

// LoadNcp reads all NCUs of the profile name, ordered by priority group
// and then by name.
func LoadNcp(store Store, name string, links linkstate.Provider) (*Ncp, error) {
	names, err := store.NcuNames(name)
	if err != nil {
		return nil, xerrors.Errorf("list ncus of %s: %w", name, err)
	}
	ncp := NewNcp(name)
	for _, ncuName := range names {
		h, err := store.ReadNcu(name, ncuName)
		if err != nil {
			logger.Warningf("read ncu %s/%s: %v", name, ncuName, err)
			continue
		}
		ncp.ncus = append(ncp.ncus, NewNcu(h, links))
	}
	sort.SliceStable(ncp.ncus, func(i, j int) bool {
		a, b := ncp.ncus[i], ncp.ncus[j]
		if a.PriorityGroup() != b.PriorityGroup() {
			return a.PriorityGroup() < b.PriorityGroup()
		}
		return a.DeviceName() < b.DeviceName()
	})
	return ncp, nil
}

func (p *Ncp) Name() string {
	return p.name
}

func (p *Ncp) Len() int {
	return len(p.ncus)
}

// At returns nil for an index out of range.
func (p *Ncp) At(i int) *Ncu {
	if i < 0 || i >= len(p.ncus) {
		return nil
	}
	return p.ncus[i]
}

func (p *Ncp) Index(ncu *Ncu) int {
	for i, n := range p.ncus {
		if n == ncu {
			return i
		}
	}
	return -1
}

func (p *Ncp) Find(deviceName string) *Ncu {
	for _, n := range p.ncus {
		if n.DeviceName() == deviceName {
			return n
		}
	}
	return nil
}

func (p *Ncp) Ncus() []*Ncu {
	result := make([]*Ncu, len(p.ncus))
	copy(result, p.ncus)
	return result
}

func (p *Ncp) AddListener(l NcpListener) {
	p.listeners = append(p.listeners, l)
}

func (p *Ncp) RemoveListener(l NcpListener) {
	for i, item := range p.listeners {
		if item == l {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return
		}
	}
}

func (p *Ncp) Add(ncu *Ncu) {
	p.ncus = append(p.ncus, ncu)
	idx := len(p.ncus) - 1
	for _, l := range p.listeners {
		l.NcuInserted(idx, ncu)
	}
}

func (p *Ncp) Remove(ncu *Ncu) bool {
	idx := p.Index(ncu)
	if idx < 0 {
		return false
	}
	p.ncus = append(p.ncus[:idx], p.ncus[idx+1:]...)
	for _, l := range p.listeners {
		l.NcuRemoved(idx, ncu)
	}
	return true
}

func (p *Ncp) move(ncu, sibling *Ncu, after bool) bool {
	from := p.Index(ncu)
	to := p.Index(sibling)
	if from < 0 || to < 0 || ncu == sibling {
		return false
	}
	p.ncus = append(p.ncus[:from], p.ncus[from+1:]...)
	if from < to {
		to--
	}
	if after {
		to++
	}
	p.ncus = append(p.ncus, nil)
	copy(p.ncus[to+1:], p.ncus[to:])
	p.ncus[to] = ncu
	for _, l := range p.listeners {
		l.NcusReordered()
	}
	return true
}

// MoveBefore places ncu right before sibling.
func (p *Ncp) MoveBefore(ncu, sibling *Ncu) bool {
	return p.move(ncu, sibling, false)
}

// MoveAfter places ncu right after sibling.
func (p *Ncp) MoveAfter(ncu, sibling *Ncu) bool {
	return p.move(ncu, sibling, true)
}

// Commit stores the position of every NCU as its priority group and
// commits them. It returns the first error but tries all NCUs.
func (p *Ncp) Commit() error {
	var firstErr error
	for i, ncu := range p.ncus {
		err := ncu.SetPriorityGroup(uint64(i))
		if err == nil {
			err = ncu.Commit()
		}
		if err != nil && firstErr == nil {
			firstErr = xerrors.Errorf("commit ncu %s: %w", ncu.DeviceName(), err)
		}
	}
	return firstErr
}

func (p *Ncp) Free() {
	for _, ncu := range p.ncus {
		ncu.Free()
	}
	p.ncus = nil
}
