// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func readEnm(repo *libnwam.Repository, name string) (*nwamui.Enm, error) {
	store := nwamui.NewStore(repo)
	h, err := store.ReadEnm(name)
	if err != nil {
		return nil, xerrors.Errorf("enm %s: %w", name, err)
	}
	return nwamui.NewEnmWithHandle(store, h), nil
}

func parseActivationMode(s string) (libnwam.ActivationMode, error) {
	for mode := libnwam.ActivationModeManual; mode.IsValid(); mode++ {
		if mode.String() == s {
			return mode, nil
		}
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil || !libnwam.ActivationMode(u).IsValid() {
		return 0, xerrors.Errorf("invalid activation mode %q", s)
	}
	return libnwam.ActivationMode(u), nil
}

// parseEnmValue converts command line arguments to the value Enm.Set
// expects for prop.
func parseEnmValue(prop string, args []string) (interface{}, error) {
	if len(args) == 0 {
		return nil, xerrors.Errorf("%s: missing value", prop)
	}
	switch prop {
	case nwamui.EnmPropActive:
		if len(args) != 1 {
			return nil, xerrors.Errorf("%s: %w", prop, libnwam.ErrEntityMultipleValues)
		}
		b, err := strconv.ParseBool(args[0])
		if err != nil {
			return nil, xerrors.Errorf("%s: %w", prop, libnwam.ErrEntityInvalidValue)
		}
		return b, nil
	case nwamui.EnmPropActivationMode:
		if len(args) != 1 {
			return nil, xerrors.Errorf("%s: %w", prop, libnwam.ErrEntityMultipleValues)
		}
		return parseActivationMode(args[0])
	case nwamui.EnmPropConditions:
		return args, nil
	}
	return strings.Join(args, " "), nil
}

func formatEnmValue(v interface{}) string {
	switch v := v.(type) {
	case []*nwamui.Condition:
		return strings.Join(nwamui.ConditionsToStrings(v), "; ")
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

func newShowCmd(a *app) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "show <enm>",
		Short: "Show the properties of an ENM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			enm, err := readEnm(repo, args[0])
			if err != nil {
				return err
			}
			defer enm.Free()

			out := cmd.OutOrStdout()
			values := make(map[string]interface{})
			for _, prop := range nwamui.EnmProps() {
				v, err := enm.Get(prop)
				if err != nil {
					return err
				}
				values[prop] = v
				fmt.Fprintf(out, "%-16s %s\n", prop+":", formatEnmValue(v))
			}
			if dump {
				spew.Fdump(out, values)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "Also dump the values with their types")
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <enm> <property> <value>...",
		Short: "Change a property of an ENM",
		Long: `Change a property of an ENM and commit it.

Properties: ` + strings.Join(nwamui.EnmProps(), ", ") + `.
Several values give several conditions, e.g.
  nwamcfg set vpn conditions "ncu net0 is active" "essid contains office"`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseEnmValue(args[1], args[2:])
			if err != nil {
				return err
			}
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			enm, err := readEnm(repo, args[0])
			if err != nil {
				return err
			}
			defer enm.Free()

			err = enm.Set(args[1], value)
			if err != nil {
				return xerrors.Errorf("set %s: %w", args[1], err)
			}
			if args[1] == nwamui.EnmPropActive {
				return nil
			}
			return enm.Commit()
		},
	}
}

func newCreateEnmCmd(a *app) *cobra.Command {
	var fmri, start, stop string
	var activate bool
	cmd := &cobra.Command{
		Use:   "create-enm <name>",
		Short: "Create an ENM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			store := nwamui.NewStore(repo)
			if h, err := store.ReadEnm(name); err == nil {
				h.Free()
				return xerrors.Errorf("enm %s: %w", name, libnwam.ErrEntityExists)
			}
			enm, err := nwamui.NewEnm(store, name, activate, fmri, start, stop)
			if err != nil {
				return err
			}
			defer enm.Free()
			err = enm.Commit()
			if err != nil {
				return xerrors.Errorf("commit enm %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created enm %s\n", name)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&fmri, "fmri", "", "Service that implements the ENM")
	flags.StringVar(&start, "start", "", "Command that starts the ENM")
	flags.StringVar(&stop, "stop", "", "Command that stops the ENM")
	flags.BoolVar(&activate, "activate", false, "Enable the ENM once created")
	return cmd
}

func newDestroyEnmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy-enm <name>",
		Short: "Disable and remove an ENM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			enm, err := readEnm(repo, args[0])
			if err != nil {
				return err
			}
			if enm.Active() {
				err = enm.SetActive(false)
				if err != nil {
					enm.Free()
					return err
				}
			}
			err = enm.Destroy()
			if err != nil {
				enm.Free()
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "destroyed enm %s\n", args[0])
			return nil
		},
	}
}
