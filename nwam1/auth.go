// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwam1

import (
	"errors"

	"github.com/godbus/dbus/v5"
	polkit "github.com/linuxdeepin/go-dbus-factory/system/org.freedesktop.policykit1"
)

const polkitActionModify = "org.deepin.dde.nwam1.modify"

var errAuthFailed = errors.New("authentication failed")

// newPolkitCheck returns an authorization check of the modify action for
// the sender of a call.
func newPolkitCheck(systemBus *dbus.Conn) func(sender dbus.Sender) error {
	authority := polkit.NewAuthority(systemBus)
	return func(sender dbus.Sender) error {
		subject := polkit.MakeSubject(polkit.SubjectKindSystemBusName)
		subject.SetDetail("name", string(sender))

		ret, err := authority.CheckAuthorization(0, subject, polkitActionModify, nil,
			polkit.CheckAuthorizationFlagsAllowUserInteraction, "")
		if err != nil {
			logger.Warningf("check authorization of %s failed: %v", sender, err)
			return err
		}
		if !ret.IsAuthorized {
			logger.Infof("%s is not authorized for %s", sender, polkitActionModify)
			return errAuthFailed
		}
		return nil
	}
}
