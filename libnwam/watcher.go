// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package libnwam

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/xerrors"
	"gopkg.in/tomb.v2"
)

const watchSettleDelay = 200 * time.Millisecond

// Watcher reports changes of the repository file made by any process.
// Bursts of writes are folded into one event.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	file      string
	events    chan struct{}
	tomb      tomb.Tomb
}

func NewWatcher(repoPath string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, xerrors.Errorf("new fsnotify watcher: %w", err)
	}
	// watch the directory, the file may be replaced
	err = fsWatcher.Add(filepath.Dir(repoPath))
	if err != nil {
		_ = fsWatcher.Close()
		return nil, xerrors.Errorf("watch %s: %w", filepath.Dir(repoPath), err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		file:      filepath.Clean(repoPath),
		events:    make(chan struct{}, 1),
	}
	w.tomb.Go(w.loop)
	return w, nil
}

// Events fires after the repository file has been written, created,
// renamed or removed.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

func (w *Watcher) Stop() error {
	w.tomb.Kill(nil)
	err := w.tomb.Wait()
	closeErr := w.fsWatcher.Close()
	if err != nil {
		return err
	}
	return closeErr
}

func (w *Watcher) loop() error {
	var settle <-chan time.Time
	for {
		select {
		case <-w.tomb.Dying():
			return nil

		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.file {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("repository event:", ev)
			if settle == nil {
				settle = time.After(watchSettleDelay)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			logger.Warning("repository watcher:", err)

		case <-settle:
			settle = nil
			select {
			case w.events <- struct{}{}:
			default:
				// an event is already pending
			}
		}
	}
}
