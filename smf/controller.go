// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package smf

import (
	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-nwam/libnwam"
	systemd1 "github.com/linuxdeepin/go-dbus-factory/system/org.freedesktop.systemd1"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
)

var logger = log.NewLogger("daemon/smf")

func SetLogLevel(pri log.Priority) {
	logger.SetLogLevel(pri)
}

const (
	DefaultUnitPrefix = "dde-nwam-enm-"

	shellPath = "/bin/sh"
)

// unitManager is the part of the systemd manager the controller uses.
type unitManager interface {
	GetUnit(flags dbus.Flags, name string) (dbus.ObjectPath, error)
	StartUnit(flags dbus.Flags, name string, mode string) (dbus.ObjectPath, error)
	StopUnit(flags dbus.Flags, name string, mode string) (dbus.ObjectPath, error)
	ResetFailedUnit(flags dbus.Flags, name string) error
	StartTransientUnit(flags dbus.Flags, name string, mode string,
		properties []systemd1.Property, aux []systemd1.PropertyCollection) (dbus.ObjectPath, error)
}

type execStart struct {
	Path             string   // the binary path to execute
	Args             []string // all arguments, starting with argument 0
	UncleanIsFailure bool     // whether an unclean exit counts as failure
}

// Controller starts and stops ENMs through systemd. An ENM bound to a
// service FMRI controls the matching unit; an ENM with a start command runs
// it in a transient unit whose stop command is run on disable.
type Controller struct {
	systemd unitManager
	prefix  string
}

var _ libnwam.Controller = (*Controller)(nil)

func NewController(conn *dbus.Conn, unitPrefix string) *Controller {
	return newController(systemd1.NewManager(conn), unitPrefix)
}

func newController(m unitManager, unitPrefix string) *Controller {
	if unitPrefix == "" {
		unitPrefix = DefaultUnitPrefix
	}
	return &Controller{
		systemd: m,
		prefix:  unitPrefix,
	}
}

type enmService struct {
	name  string
	fmri  string
	start string
	stop  string
}

func handleString(h *libnwam.ENMHandle, prop string) string {
	v, err := h.GetPropValue(prop)
	if err != nil {
		return ""
	}
	s, err := v.String()
	if err != nil {
		logger.Warningf("property %s: %v", prop, err)
		return ""
	}
	return s
}

func serviceOf(h *libnwam.ENMHandle) (*enmService, error) {
	name, err := h.Name()
	if err != nil {
		return nil, err
	}
	return &enmService{
		name:  name,
		fmri:  handleString(h, libnwam.ENMPropFMRI),
		start: handleString(h, libnwam.ENMPropStart),
		stop:  handleString(h, libnwam.ENMPropStop),
	}, nil
}

func (c *Controller) EnableENM(h *libnwam.ENMHandle) error {
	svc, err := serviceOf(h)
	if err != nil {
		return err
	}
	return c.enable(svc)
}

func (c *Controller) DisableENM(h *libnwam.ENMHandle) error {
	svc, err := serviceOf(h)
	if err != nil {
		return err
	}
	return c.disable(svc)
}

// EnableNCU has no service side, links are configured by the network
// backend.
func (c *Controller) EnableNCU(h *libnwam.NCUHandle) error {
	name, _ := h.Name()
	logger.Debug("enable ncu", name)
	return nil
}

func (c *Controller) DisableNCU(h *libnwam.NCUHandle) error {
	name, _ := h.Name()
	logger.Debug("disable ncu", name)
	return nil
}

func (c *Controller) unitExists(name string) bool {
	_, err := c.systemd.GetUnit(0, name)
	return err == nil
}

func (c *Controller) enable(svc *enmService) error {
	if svc.fmri != "" {
		unit, err := UnitName(svc.fmri)
		if err != nil {
			return err
		}
		logger.Infof("enm %s: start %s", svc.name, unit)
		_, err = c.systemd.StartUnit(0, unit, "replace")
		if err != nil {
			return xerrors.Errorf("start unit %s: %w", unit, err)
		}
		return nil
	}
	if svc.start == "" {
		return libnwam.ErrEntityMissingMember
	}
	return c.startTransient(svc)
}

func (c *Controller) startTransient(svc *enmService) error {
	unit := TransientUnitName(c.prefix, svc.name)
	if c.unitExists(unit) {
		err := c.systemd.ResetFailedUnit(0, unit)
		if err != nil {
			logger.Debugf("reset failed unit %s: %v", unit, err)
		}
	}

	var properties []systemd1.Property
	var aux []systemd1.PropertyCollection
	properties = append(properties, systemd1.Property{"Type", dbus.MakeVariant("oneshot")})
	properties = append(properties, systemd1.Property{"RemainAfterExit", dbus.MakeVariant(true)})
	properties = append(properties, systemd1.Property{"Description", dbus.MakeVariant("Network modifier " + svc.name)})
	properties = append(properties, systemd1.Property{"ExecStart", dbus.MakeVariant([]execStart{shellCommand(svc.start)})})
	if svc.stop != "" {
		properties = append(properties, systemd1.Property{"ExecStop", dbus.MakeVariant([]execStart{shellCommand(svc.stop)})})
	}

	logger.Infof("enm %s: start transient unit %s", svc.name, unit)
	_, err := c.systemd.StartTransientUnit(0, unit, "replace", properties, aux)
	if err != nil {
		return xerrors.Errorf("start transient unit %s: %w", unit, err)
	}
	return nil
}

func shellCommand(cmd string) execStart {
	return execStart{
		Path:             shellPath,
		Args:             []string{shellPath, "-c", cmd},
		UncleanIsFailure: true,
	}
}

func (c *Controller) disable(svc *enmService) error {
	var unit string
	if svc.fmri != "" {
		var err error
		unit, err = UnitName(svc.fmri)
		if err != nil {
			return err
		}
	} else {
		unit = TransientUnitName(c.prefix, svc.name)
	}
	if !c.unitExists(unit) {
		logger.Debugf("enm %s: unit %s not loaded", svc.name, unit)
		return nil
	}
	logger.Infof("enm %s: stop %s", svc.name, unit)
	_, err := c.systemd.StopUnit(0, unit, "replace")
	if err != nil {
		return xerrors.Errorf("stop unit %s: %w", unit, err)
	}
	return nil
}
