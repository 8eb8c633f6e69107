// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package smf

import (
	"fmt"
	"strings"
)

const (
	fmriScheme      = "svc:"
	defaultInstance = "default"
	serviceSuffix   = ".service"
)

// UnitName maps a service FMRI to the systemd unit implementing it:
// svc:/network/foo:default is foo.service, svc:/network/foo:bar is
// foo@bar.service. Unit names are accepted as they are.
func UnitName(fmri string) (string, error) {
	if strings.HasSuffix(fmri, serviceSuffix) && !strings.Contains(fmri, "/") {
		return fmri, nil
	}
	if !strings.HasPrefix(fmri, fmriScheme) {
		return "", fmt.Errorf("invalid fmri %q", fmri)
	}
	path := strings.TrimLeft(strings.TrimPrefix(fmri, fmriScheme), "/")
	service, instance := path, ""
	if idx := strings.LastIndexByte(path, ':'); idx >= 0 {
		service, instance = path[:idx], path[idx+1:]
	}
	if idx := strings.LastIndexByte(service, '/'); idx >= 0 {
		service = service[idx+1:]
	}
	if service == "" {
		return "", fmt.Errorf("invalid fmri %q", fmri)
	}
	if instance == "" || instance == defaultInstance {
		return service + serviceSuffix, nil
	}
	return service + "@" + instance + serviceSuffix, nil
}

// TransientUnitName is the unit running the start command of a script ENM.
func TransientUnitName(prefix, enm string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	// escape bytes not valid in unit names
	for i := 0; i < len(enm); i++ {
		b := enm[i]
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9',
			b == '-', b == '_', b == '.':
			sb.WriteByte(b)
		default:
			fmt.Fprintf(&sb, "\\x%02x", b)
		}
	}
	sb.WriteString(serviceSuffix)
	return sb.String()
}
