// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwam1

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/go-lib/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "nwam.yaml")
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Nil(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	path := writeConfig(t, `
repository: /tmp/nwam.db
ncp: User
authorization: false
logLevel: debug
`)
	cfg, err = LoadConfig(path)
	require.Nil(t, err)
	assert.Equal(t, "/tmp/nwam.db", cfg.Repository)
	assert.Equal(t, "User", cfg.Ncp)
	assert.False(t, cfg.Authorization)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "dde-nwam-enm-", cfg.UnitPrefix)

	cfg, err = LoadConfig(writeConfig(t, "ncp: \"\"\n"))
	require.Nil(t, err)
	assert.Equal(t, libnwam.DefaultNCP, cfg.Ncp)

	_, err = LoadConfig(writeConfig(t, "repository: [unclosed\n"))
	assert.NotNil(t, err)
	_, err = LoadConfig(writeConfig(t, "logLevel: loud\n"))
	assert.NotNil(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  log.Priority
		ok    bool
	}{
		{"debug", log.LevelDebug, true},
		{"", log.LevelInfo, true},
		{"info", log.LevelInfo, true},
		{"warning", log.LevelWarning, true},
		{"error", log.LevelError, true},
		{"verbose", log.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLogLevel(tt.level)
		assert.Equal(t, tt.want, got, tt.level)
		assert.Equal(t, tt.ok, ok, tt.level)
	}
}
