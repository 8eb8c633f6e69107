// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/linkstate"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/linuxdeepin/dde-nwam/smf"
	. "github.com/linuxdeepin/go-lib/gettext"
	"github.com/linuxdeepin/go-lib/log"
	"github.com/spf13/cobra"
)

var logger = log.NewLogger("nwamcfg")

// app holds the global flags shared by all commands.
type app struct {
	repoPath   string
	ncp        string
	unitPrefix string
	offline    bool
	verbose    bool

	links linkstate.Provider
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nwamcfg",
		Short: "Manage the network profile repository",
		Long: `nwamcfg reads and changes the connections (NCUs) of a network
profile and the external network modifiers (ENMs) stored in the
repository shared with dde-nwam-daemon.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.verbose {
				logger.SetLogLevel(log.LevelDebug)
				libnwam.SetLogLevel(log.LevelDebug)
				nwamui.SetLogLevel(log.LevelDebug)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.repoPath, "repository", "r", libnwam.DefaultRepositoryPath, "Repository file")
	flags.StringVarP(&a.ncp, "ncp", "p", libnwam.DefaultNCP, "Network profile")
	flags.StringVar(&a.unitPrefix, "unit-prefix", smf.DefaultUnitPrefix, "Prefix of transient ENM units")
	flags.BoolVar(&a.offline, "offline", false, "Only record enable state, do not start or stop services")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Show debug messages")

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newSetCmd(a))
	rootCmd.AddCommand(newCreateEnmCmd(a))
	rootCmd.AddCommand(newDestroyEnmCmd(a))
	rootCmd.AddCommand(newCreateNcuCmd(a))
	rootCmd.AddCommand(newEnableCmd(a, true))
	rootCmd.AddCommand(newEnableCmd(a, false))
	rootCmd.AddCommand(newPanelCmd(a))
	return rootCmd
}

// openRepo opens the repository. Unless offline, enable requests go to
// systemd on the system bus.
func (a *app) openRepo() (*libnwam.Repository, error) {
	opts := &libnwam.Options{}
	if !a.offline {
		conn, err := dbus.SystemBus()
		if err != nil {
			logger.Warning("connect to system bus, only record state:", err)
		} else {
			opts.Controller = smf.NewController(conn, a.unitPrefix)
		}
	}
	return libnwam.Open(a.repoPath, opts)
}

func (a *app) loadNcp(repo *libnwam.Repository) (*nwamui.Ncp, error) {
	return nwamui.LoadNcp(nwamui.NewStore(repo), a.ncp, a.links)
}

func main() {
	InitI18n()
	Textdomain("dde-nwam")

	a := &app{links: linkstate.NewNetlinkProvider()}
	err := newRootCmd(a).Execute()
	if err != nil {
		os.Exit(1)
	}
}
