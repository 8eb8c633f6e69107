// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwamui

import (
	"sort"
	"sync"

	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("daemon/nwamui")

func SetLogLevel(pri log.Priority) {
	logger.SetLogLevel(pri)
}

// NotifyFunc receives the name of the property that changed.
type NotifyFunc func(prop string)

type HandlerID uint

// Notifier dispatches property change notifications to connected
// handlers. The zero value is ready to use.
type Notifier struct {
	mu       sync.Mutex
	nextID   HandlerID
	handlers map[HandlerID]NotifyFunc
}

func (n *Notifier) Connect(fn NotifyFunc) HandlerID {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.handlers == nil {
		n.handlers = make(map[HandlerID]NotifyFunc)
	}
	n.nextID++
	n.handlers[n.nextID] = fn
	return n.nextID
}

func (n *Notifier) Disconnect(id HandlerID) {
	n.mu.Lock()
	delete(n.handlers, id)
	n.mu.Unlock()
}

func (n *Notifier) notify(prop string) {
	n.mu.Lock()
	ids := make([]HandlerID, 0, len(n.handlers))
	for id := range n.handlers {
		ids = append(ids, id)
	}
	handlers := make([]NotifyFunc, 0, len(ids))
	// connection order
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		handlers = append(handlers, n.handlers[id])
	}
	n.mu.Unlock()

	// handlers may connect or disconnect, call them unlocked
	for _, fn := range handlers {
		fn(prop)
	}
}
