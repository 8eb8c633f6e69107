// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwam

//go:generate go build -o target/ github.com/linuxdeepin/dde-nwam/bin/dde-nwam-daemon
//go:generate go build -o target/ github.com/linuxdeepin/dde-nwam/bin/nwamcfg
