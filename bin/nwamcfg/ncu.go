// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/netconf"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the NCUs of the profile and the ENMs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			ncp, err := a.loadNcp(repo)
			if err != nil && !xerrors.Is(err, libnwam.ErrEntityNotFound) {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "NCU\tNAME\tSTATE\tDHCP\tADDRESS\tPRIORITY\n")
			if ncp != nil {
				for _, ncu := range ncp.Ncus() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%d\n", ncu.DeviceName(), ncu.DisplayName(),
						enabledString(ncu.Active()), ncu.IPv4AutoConf(), ncu.IPv4Address(), ncu.PriorityGroup())
				}
				ncp.Free()
			}
			fmt.Fprintln(w)

			store := nwamui.NewStore(repo)
			names, err := store.EnmNames()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "ENM\tSTATE\tMODE\tFMRI\tSTART\n")
			for _, name := range names {
				h, err := store.ReadEnm(name)
				if err != nil {
					logger.Warningf("read enm %s: %v", name, err)
					continue
				}
				enm := nwamui.NewEnmWithHandle(store, h)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, enabledString(enm.Active()),
					enm.ActivationMode(), enm.SmfFmri(), enm.StartCommand())
				enm.Free()
			}
			return w.Flush()
		},
	}
}

func newCreateNcuCmd(a *app) *cobra.Command {
	var wireless bool
	var address string
	var priority uint64
	cmd := &cobra.Command{
		Use:   "create-ncu <device>",
		Short: "Add a connection to the profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			class := libnwam.NCUClassIP
			if wireless {
				class = libnwam.NCUClassWireless
			}
			h, err := repo.CreateNCU(a.ncp, args[0], libnwam.NCUTypeInterface, class)
			if err != nil {
				return xerrors.Errorf("ncu %s: %w", args[0], err)
			}
			ncu := nwamui.NewNcu(h, a.links)
			defer ncu.Free()
			err = ncu.SetPriorityGroup(priority)
			if err == nil && address != "" {
				err = ncu.SetIPv4AutoConf(false)
				if err == nil {
					err = ncu.SetIPv4Address(address)
				}
			}
			if err == nil {
				err = ncu.Commit()
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created ncu %s in %s\n", args[0], a.ncp)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&wireless, "wireless", false, "The device is a wireless link")
	flags.StringVar(&address, "static", "", "Static IPv4 address in CIDR notation instead of DHCP")
	flags.Uint64Var(&priority, "priority", 0, "Priority group, lower is preferred")
	return cmd
}

func newEnableCmd(a *app, enable bool) *cobra.Command {
	var isNcu bool
	use, short := "enable <name>", "Enable an ENM or NCU"
	if !enable {
		use, short = "disable <name>", "Disable an ENM or NCU"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			if isNcu {
				ncp, err := a.loadNcp(repo)
				if err != nil {
					return err
				}
				defer ncp.Free()
				ncu := ncp.Find(args[0])
				if ncu == nil {
					return xerrors.Errorf("ncu %s: %w", args[0], libnwam.ErrEntityNotFound)
				}
				return ncu.SetActive(enable)
			}
			enm, err := readEnm(repo, args[0])
			if err != nil {
				return err
			}
			defer enm.Free()
			return enm.SetActive(enable)
		},
	}
	cmd.Flags().BoolVar(&isNcu, "ncu", false, "The name is an NCU of the profile")
	return cmd
}

// linkSubscriber is implemented by providers that report link changes.
type linkSubscriber interface {
	Subscribe(done <-chan struct{}) (<-chan string, error)
}

func newPanelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Arrange the connections of the profile interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			ncp, err := a.loadNcp(repo)
			if err != nil {
				return err
			}
			defer ncp.Free()

			var events <-chan string
			done := make(chan struct{})
			defer close(done)
			if sub, ok := a.links.(linkSubscriber); ok {
				events, err = sub.Subscribe(done)
				if err != nil {
					logger.Warning("subscribe link updates:", err)
				}
			}
			return netconf.RunTUI(ncp, events)
		},
	}
}
