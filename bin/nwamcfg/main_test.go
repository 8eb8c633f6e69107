// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/linkstate"
	"github.com/linuxdeepin/dde-nwam/nwamui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, repoPath string, args ...string) (string, error) {
	a := &app{links: linkstate.Static{
		"net0": {Name: "net0", IPv4: []string{"192.168.1.5/24"}},
	}}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--offline", "-r", repoPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestParseEnmValue(t *testing.T) {
	v, err := parseEnmValue(nwamui.EnmPropActive, []string{"true"})
	require.Nil(t, err)
	assert.Equal(t, true, v)

	_, err = parseEnmValue(nwamui.EnmPropActive, []string{"yes please"})
	assert.NotNil(t, err)

	v, err = parseEnmValue(nwamui.EnmPropActivationMode, []string{"conditional-all"})
	require.Nil(t, err)
	assert.Equal(t, libnwam.ActivationModeConditionalAll, v)

	v, err = parseEnmValue(nwamui.EnmPropActivationMode, []string{"1"})
	require.Nil(t, err)
	assert.Equal(t, libnwam.ActivationModeSystem, v)

	_, err = parseEnmValue(nwamui.EnmPropActivationMode, []string{"9"})
	assert.NotNil(t, err)

	v, err = parseEnmValue(nwamui.EnmPropConditions, []string{"ncu net0 is active", "essid is office"})
	require.Nil(t, err)
	assert.Equal(t, []string{"ncu net0 is active", "essid is office"}, v)

	v, err = parseEnmValue(nwamui.EnmPropStartCommand, []string{"/usr/bin/vpn", "-v"})
	require.Nil(t, err)
	assert.Equal(t, "/usr/bin/vpn -v", v)

	_, err = parseEnmValue(nwamui.EnmPropStartCommand, nil)
	assert.NotNil(t, err)
}

func TestEnmCommands(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "nwam.db")

	out, err := runCmd(t, repoPath, "create-enm", "vpn", "--start", "/usr/bin/vpn-up")
	require.Nil(t, err)
	assert.Contains(t, out, "created enm vpn")

	_, err = runCmd(t, repoPath, "create-enm", "vpn", "--start", "/bin/true")
	assert.NotNil(t, err)

	// needs a start command or fmri
	_, err = runCmd(t, repoPath, "create-enm", "empty")
	assert.NotNil(t, err)

	_, err = runCmd(t, repoPath, "set", "vpn", "stop-command", "/usr/bin/vpn-down")
	require.Nil(t, err)
	_, err = runCmd(t, repoPath, "set", "vpn", "activation-mode", "conditional-any")
	assert.NotNil(t, err)
	_, err = runCmd(t, repoPath, "set", "vpn", "conditions", "ncu net0 is active")
	require.Nil(t, err)

	out, err = runCmd(t, repoPath, "show", "vpn")
	require.Nil(t, err)
	assert.Contains(t, out, "/usr/bin/vpn-down")
	assert.Contains(t, out, "ncu net0 is active")
	assert.Contains(t, out, "manual")

	out, err = runCmd(t, repoPath, "show", "vpn", "--dump")
	require.Nil(t, err)
	assert.Contains(t, out, "(string)")

	_, err = runCmd(t, repoPath, "enable", "vpn")
	require.Nil(t, err)
	out, err = runCmd(t, repoPath, "list")
	require.Nil(t, err)
	assert.Contains(t, out, "enabled")

	out, err = runCmd(t, repoPath, "destroy-enm", "vpn")
	require.Nil(t, err)
	assert.Contains(t, out, "destroyed enm vpn")

	_, err = runCmd(t, repoPath, "show", "vpn")
	assert.NotNil(t, err)
}

func TestNcuCommands(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "nwam.db")

	_, err := runCmd(t, repoPath, "create-ncu", "net0")
	require.Nil(t, err)
	_, err = runCmd(t, repoPath, "create-ncu", "wlan0", "--wireless", "--priority", "1",
		"--static", "10.0.0.7/24")
	require.Nil(t, err)
	_, err = runCmd(t, repoPath, "create-ncu", "net0")
	assert.NotNil(t, err)

	_, err = runCmd(t, repoPath, "enable", "--ncu", "net0")
	require.Nil(t, err)
	_, err = runCmd(t, repoPath, "enable", "--ncu", "eth9")
	assert.NotNil(t, err)

	out, err := runCmd(t, repoPath, "list")
	require.Nil(t, err)
	assert.Contains(t, out, "192.168.1.5")
	assert.Contains(t, out, "10.0.0.7")

	repo, err := libnwam.Open(repoPath, nil)
	require.Nil(t, err)
	ncp, err := nwamui.LoadNcp(nwamui.NewStore(repo), libnwam.DefaultNCP, nil)
	require.Nil(t, err)
	defer ncp.Free()
	require.Equal(t, 2, ncp.Len())
	assert.True(t, ncp.At(0).Active())
	assert.Equal(t, "wlan0", ncp.At(1).DeviceName())
	assert.False(t, ncp.At(1).IPv4AutoConf())
}
