// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwam1

import (
	"os"

	"github.com/linuxdeepin/dde-nwam/libnwam"
	"github.com/linuxdeepin/dde-nwam/smf"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "/etc/dde-nwam/nwam.yaml"

type Config struct {
	Repository    string `yaml:"repository"`
	Ncp           string `yaml:"ncp"`
	UnitPrefix    string `yaml:"unitPrefix"`
	LogLevel      string `yaml:"logLevel"`
	Authorization bool   `yaml:"authorization"`
	Watch         bool   `yaml:"watch"`
}

func DefaultConfig() *Config {
	return &Config{
		Repository:    libnwam.DefaultRepositoryPath,
		Ncp:           libnwam.DefaultNCP,
		UnitPrefix:    smf.DefaultUnitPrefix,
		LogLevel:      "info",
		Authorization: true,
		Watch:         true,
	}
}

// LoadConfig reads the configuration at path over the defaults. A missing
// file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("config %s not found, use defaults", path)
			return cfg, nil
		}
		return nil, xerrors.Errorf("read config: %w", err)
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, xerrors.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Repository == "" {
		cfg.Repository = libnwam.DefaultRepositoryPath
	}
	if cfg.Ncp == "" {
		cfg.Ncp = libnwam.DefaultNCP
	}
	if _, ok := ParseLogLevel(cfg.LogLevel); !ok {
		return nil, xerrors.Errorf("config %s: invalid log level %q", path, cfg.LogLevel)
	}
	return cfg, nil
}

// ParseLogLevel maps a level name to a log priority. "" means info.
func ParseLogLevel(level string) (log.Priority, bool) {
	switch level {
	case "debug":
		return log.LevelDebug, true
	case "", "info":
		return log.LevelInfo, true
	case "warning":
		return log.LevelWarning, true
	case "error":
		return log.LevelError, true
	}
	return log.LevelInfo, false
}
