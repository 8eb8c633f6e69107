// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/linkstate"
	"github.com/linuxdeepin/dde-nwam/loader"
	"github.com/linuxdeepin/dde-nwam/nwam1"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/linuxdeepin/dde-nwam/smf"
	"github.com/linuxdeepin/go-lib/dbusutil"
	. "github.com/linuxdeepin/go-lib/gettext"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
)

const dbusServiceName = "org.deepin.dde.Nwam1"

var logger = log.NewLogger("daemon/dde-nwam-daemon")

type options struct {
	Config   string `short:"c" long:"config" description:"Configuration file" default:"/etc/dde-nwam/nwam.yaml"`
	Verbose  bool   `short:"v" long:"verbose" description:"Show debug messages"`
	LogLevel string `short:"l" long:"loglevel" description:"Log level: debug, info, warning or error"`
}

// logLevel picks the level from the command line over the configuration.
func logLevel(opts *options, cfg *nwam1.Config) (log.Priority, error) {
	if opts.Verbose {
		return log.LevelDebug, nil
	}
	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	pri, ok := nwam1.ParseLogLevel(level)
	if !ok {
		return pri, xerrors.Errorf("invalid log level %q", level)
	}
	return pri, nil
}

func setLogLevel(pri log.Priority) {
	logger.SetLogLevel(pri)
	loader.SetLogLevel(pri)
	libnwam.SetLogLevel(pri)
	nwamui.SetLogLevel(pri)
	smf.SetLogLevel(pri)
	linkstate.SetLogLevel(pri)
}

func main() {
	var opts options
	_, err := flags.Parse(&opts)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := nwam1.LoadConfig(opts.Config)
	if err != nil {
		logger.Fatal(err)
	}
	pri, err := logLevel(&opts, cfg)
	if err != nil {
		logger.Fatal(err)
	}
	setLogLevel(pri)

	service, err := dbusutil.NewSystemService()
	if err != nil {
		logger.Fatal("failed to new system service", err)
	}
	hasOwner, err := service.NameHasOwner(dbusServiceName)
	if err != nil {
		logger.Fatal("failed to call NameHasOwner:", err)
	}
	if hasOwner {
		logger.Warningf("name %q already has the owner", dbusServiceName)
		os.Exit(1)
	}

	InitI18n()
	BindTextdomainCodeset("dde-nwam", "UTF-8")
	Textdomain("dde-nwam")

	nwam1.SetConfig(cfg)
	loader.SetService(service)
	err = loader.StartAll()
	if err != nil {
		loader.StopAll()
		logger.Fatal(err)
	}
	defer loader.StopAll()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal", sig)
		service.Quit()
	}()
	service.Wait()
}
