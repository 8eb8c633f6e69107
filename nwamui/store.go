// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package nwamui

import (
	"github.com/linuxdeepin/dde-nwam/libnwam"
)

// EnmHandle is the system configuration handle of one ENM.
type EnmHandle interface {
	propHandle
	Name() (string, error)
	SetName(name string) error
	IsCommitted() bool
	Enabled() bool
	Enable() error
	Disable() error
	Commit() error
	Destroy() error
	Free()
}

// NcuHandle is the system configuration handle of one NCU.
type NcuHandle interface {
	propHandle
	Name() (string, error)
	NCP() string
	NCUType() libnwam.NCUType
	NCUClass() libnwam.NCUClass
	Enabled() bool
	Enable() error
	Disable() error
	Commit() error
	Free()
}

// Store opens handles of the configuration service. Objects get it
// injected at construction.
type Store interface {
	ReadEnm(name string) (EnmHandle, error)
	CreateEnm(name string) (EnmHandle, error)
	EnmNames() ([]string, error)
	ReadNcu(ncp, name string) (NcuHandle, error)
	NcuNames(ncp string) ([]string, error)
}

type repoStore struct {
	repo *libnwam.Repository
}

// NewStore serves handles from a repository.
func NewStore(repo *libnwam.Repository) Store {
	return repoStore{repo: repo}
}

func (s repoStore) ReadEnm(name string) (EnmHandle, error) {
	h, err := s.repo.ReadENM(name)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s repoStore) CreateEnm(name string) (EnmHandle, error) {
	h, err := s.repo.CreateENM(name)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s repoStore) EnmNames() ([]string, error) {
	return s.repo.ENMNames()
}

func (s repoStore) ReadNcu(ncp, name string) (NcuHandle, error) {
	h, err := s.repo.ReadNCU(ncp, name)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s repoStore) NcuNames(ncp string) ([]string, error) {
	return s.repo.NCUNames(ncp)
}
