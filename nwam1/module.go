// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwam1

import (
	"sync"

	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/linkstate"
	"github.com/linuxdeepin/dde-nwam/loader"
	"github.com/linuxdeepin/dde-nwam/smf"
	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("daemon/nwam")

var (
	configMu     sync.Mutex
	moduleConfig = DefaultConfig()
)

func init() {
	loader.Register(newModule(logger))
}

// SetConfig sets the configuration used when the module starts.
func SetConfig(cfg *Config) {
	configMu.Lock()
	moduleConfig = cfg
	configMu.Unlock()
}

func getConfig() *Config {
	configMu.Lock()
	defer configMu.Unlock()
	return moduleConfig
}

type Module struct {
	*loader.ModuleBase
	manager *Manager
	watcher *libnwam.Watcher
	done    chan struct{}
}

func newModule(logger *log.Logger) *Module {
	module := new(Module)
	module.ModuleBase = loader.NewModuleBase("nwam", module, logger)
	return module
}

func (d *Module) GetDependencies() []string {
	return []string{}
}

func (d *Module) Start() error {
	if d.manager != nil {
		return nil
	}
	cfg := getConfig()
	service := loader.GetService()

	ctl := smf.NewController(service.Conn(), cfg.UnitPrefix)
	repo, err := libnwam.Open(cfg.Repository, &libnwam.Options{Controller: ctl})
	if err != nil {
		return err
	}
	links := linkstate.NewNetlinkProvider()
	manager := newManager(service, repo, links, cfg)
	if cfg.Authorization {
		manager.checkAuth = newPolkitCheck(service.Conn())
	}
	err = manager.load()
	if err != nil {
		return err
	}

	err = service.Export(dbusPath, manager)
	if err != nil {
		manager.destroy()
		return err
	}
	err = service.RequestName(dbusServiceName)
	if err != nil {
		_ = service.StopExport(manager)
		manager.destroy()
		return err
	}

	var repoEvents <-chan struct{}
	if cfg.Watch {
		d.watcher, err = libnwam.NewWatcher(repo.Path())
		if err != nil {
			logger.Warning("watch repository:", err)
		} else {
			repoEvents = d.watcher.Events()
		}
	}
	d.done = make(chan struct{})
	linkEvents, err := links.Subscribe(d.done)
	if err != nil {
		logger.Warning("subscribe link updates:", err)
	}
	manager.watch(repoEvents, linkEvents)

	d.manager = manager
	return nil
}

func (d *Module) Stop() error {
	if d.manager == nil {
		return nil
	}
	service := loader.GetService()
	err := service.ReleaseName(dbusServiceName)
	if err != nil {
		logger.Warning(err)
	}

	close(d.done)
	if d.watcher != nil {
		err = d.watcher.Stop()
		if err != nil {
			logger.Warning(err)
		}
		d.watcher = nil
	}
	d.manager.destroy()
	err = service.StopExport(d.manager)
	if err != nil {
		logger.Warning(err)
	}
	d.manager = nil
	return nil
}
