// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package libnwam

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
	"golang.org/x/xerrors"
)

const (
	DefaultRepositoryPath = "/var/lib/dde-nwam/nwam.db"
	DefaultNCP            = "Automatic"

	defaultLockTimeout = time.Second
)

var (
	bucketENMs = []byte("enms")
	bucketNCPs = []byte("ncps")
)

// Controller carries out enable and disable requests on the running
// system. The repository only records the outcome.
type Controller interface {
	EnableENM(h *ENMHandle) error
	DisableENM(h *ENMHandle) error
	EnableNCU(h *NCUHandle) error
	DisableNCU(h *NCUHandle) error
}

type nopController struct{}

func (nopController) EnableENM(*ENMHandle) error  { return nil }
func (nopController) DisableENM(*ENMHandle) error { return nil }
func (nopController) EnableNCU(*NCUHandle) error  { return nil }
func (nopController) DisableNCU(*NCUHandle) error { return nil }

type Options struct {
	// Controller defaults to one that only records state.
	Controller Controller
	// LockTimeout bounds the wait for another process holding the
	// repository.
	LockTimeout time.Duration
}

// Repository is the on-disk store of NCPs, NCUs and ENMs. The database is
// opened for the duration of each operation so that the daemon and command
// line tools can share it.
type Repository struct {
	path    string
	timeout time.Duration

	mu  sync.Mutex
	ctl Controller
}

type record struct {
	Props map[string]Value `json:"props"`
}

func Open(path string, opts *Options) (*Repository, error) {
	if opts == nil {
		opts = &Options{}
	}
	r := &Repository{
		path:    path,
		timeout: opts.LockTimeout,
		ctl:     opts.Controller,
	}
	if r.timeout <= 0 {
		r.timeout = defaultLockTimeout
	}
	if r.ctl == nil {
		r.ctl = nopController{}
	}

	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return nil, xerrors.Errorf("create repository dir: %w", err)
	}
	err = r.update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketENMs)
		if err != nil {
			return err
		}
		_, err = tx.CreateBucketIfNotExists(bucketNCPs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) Path() string {
	return r.path
}

// SetController replaces the service controller, e.g. once the system bus
// is available.
func (r *Repository) SetController(ctl Controller) {
	r.mu.Lock()
	if ctl == nil {
		ctl = nopController{}
	}
	r.ctl = ctl
	r.mu.Unlock()
}

func (r *Repository) controller() Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctl
}

func (r *Repository) open() (*bolt.DB, error) {
	db, err := bolt.Open(r.path, 0644, &bolt.Options{Timeout: r.timeout})
	if err != nil {
		logger.Debug("open repository failed:", err)
		return nil, xerrors.Errorf("open repository %s: %w", r.path, ErrBindFailed)
	}
	return db, nil
}

func (r *Repository) view(fn func(tx *bolt.Tx) error) error {
	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.View(fn)
}

func (r *Repository) update(fn func(tx *bolt.Tx) error) error {
	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Update(fn)
}

func recordBucket(tx *bolt.Tx, bucket, sub []byte, create bool) (*bolt.Bucket, error) {
	b := tx.Bucket(bucket)
	if b == nil {
		if !create {
			return nil, ErrEntityNotFound
		}
		var err error
		b, err = tx.CreateBucket(bucket)
		if err != nil {
			return nil, err
		}
	}
	if sub == nil {
		return b, nil
	}
	sb := b.Bucket(sub)
	if sb == nil {
		if !create {
			return nil, ErrEntityNotFound
		}
		return b.CreateBucket(sub)
	}
	return sb, nil
}

func decodeRecord(data []byte) (*record, error) {
	var rec record
	err := json.Unmarshal(data, &rec)
	if err != nil {
		return nil, xerrors.Errorf("decode record: %w", err)
	}
	if rec.Props == nil {
		rec.Props = make(map[string]Value)
	}
	return &rec, nil
}

func (r *Repository) readRecord(bucket, sub []byte, name string) (*record, error) {
	var rec *record
	err := r.view(func(tx *bolt.Tx) error {
		b, err := recordBucket(tx, bucket, sub, false)
		if err != nil {
			return err
		}
		data := b.Get([]byte(name))
		if data == nil {
			return ErrEntityNotFound
		}
		rec, err = decodeRecord(data)
		return err
	})
	return rec, err
}

// writeRecord stores props under name and returns the enabled flag kept
// from the previous record. create selects between creating a new record
// and replacing an existing one.
func (r *Repository) writeRecord(bucket, sub []byte, name string, props map[string]Value,
	enabledProp string, create bool) (enabled bool, err error) {
	err = r.update(func(tx *bolt.Tx) error {
		b, err := recordBucket(tx, bucket, sub, true)
		if err != nil {
			return err
		}
		old := b.Get([]byte(name))
		if create && old != nil {
			return ErrEntityExists
		}
		if !create && old == nil {
			return ErrEntityNotFound
		}
		if old != nil {
			oldRec, err := decodeRecord(old)
			if err != nil {
				return err
			}
			if v, ok := oldRec.Props[enabledProp]; ok {
				enabled, _ = v.Boolean()
			}
		}
		props[enabledProp] = NewBooleanValue(enabled)
		data, err := json.Marshal(record{Props: props})
		if err != nil {
			return err
		}
		return b.Put([]byte(name), data)
	})
	return
}

func (r *Repository) storeEnabled(bucket, sub []byte, name, enabledProp string, enabled bool) error {
	return r.update(func(tx *bolt.Tx) error {
		b, err := recordBucket(tx, bucket, sub, false)
		if err != nil {
			return err
		}
		data := b.Get([]byte(name))
		if data == nil {
			return ErrEntityNotFound
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return err
		}
		rec.Props[enabledProp] = NewBooleanValue(enabled)
		data, err = json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), data)
	})
}

func (r *Repository) deleteRecord(bucket, sub []byte, name string) error {
	return r.update(func(tx *bolt.Tx) error {
		b, err := recordBucket(tx, bucket, sub, false)
		if err != nil {
			return err
		}
		if b.Get([]byte(name)) == nil {
			return ErrEntityNotFound
		}
		return b.Delete([]byte(name))
	})
}

func (r *Repository) names(bucket, sub []byte) ([]string, error) {
	var names []string
	err := r.view(func(tx *bolt.Tx) error {
		b, err := recordBucket(tx, bucket, sub, false)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			// nested buckets have a nil value
			if v != nil {
				names = append(names, string(k))
			}
			return nil
		})
	})
	sort.Strings(names)
	return names, err
}

// ReadENM returns a private handle of a committed ENM.
func (r *Repository) ReadENM(name string) (*ENMHandle, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	rec, err := r.readRecord(bucketENMs, nil, name)
	if err != nil {
		return nil, err
	}
	h := newENMHandle(r, name)
	h.props = rec.Props
	h.committed = true
	return h, nil
}

// CreateENM returns a new, uncommitted handle. It fails if an ENM of that
// name already exists.
func (r *Repository) CreateENM(name string) (*ENMHandle, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	_, err := r.readRecord(bucketENMs, nil, name)
	if err == nil {
		return nil, ErrEntityExists
	}
	if !xerrors.Is(err, ErrEntityNotFound) {
		return nil, err
	}
	h := newENMHandle(r, name)
	h.setSystemProp(ENMPropEnabled, NewBooleanValue(false))
	h.setSystemProp(ENMPropActivationMode, NewUint64Value(uint64(ActivationModeManual)))
	return h, nil
}

func (r *Repository) commitENM(h *ENMHandle) (bool, error) {
	return r.writeRecord(bucketENMs, nil, h.name, h.copyProps(), ENMPropEnabled, !h.committed)
}

func (r *Repository) ENMNames() ([]string, error) {
	return r.names(bucketENMs, nil)
}

// WalkENMs reads every ENM and calls fn with its handle. Walking stops at
// the first error returned by fn.
func (r *Repository) WalkENMs(fn func(h *ENMHandle) error) error {
	names, err := r.ENMNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		h, err := r.ReadENM(name)
		if err != nil {
			if xerrors.Is(err, ErrEntityNotFound) {
				// removed in the meantime
				continue
			}
			return err
		}
		err = fn(h)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) CreateNCP(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	return r.update(func(tx *bolt.Tx) error {
		b, err := recordBucket(tx, bucketNCPs, nil, true)
		if err != nil {
			return err
		}
		if b.Bucket([]byte(name)) != nil {
			return ErrEntityExists
		}
		_, err = b.CreateBucket([]byte(name))
		return err
	})
}

func (r *Repository) NCPNames() ([]string, error) {
	var names []string
	err := r.view(func(tx *bolt.Tx) error {
		b, err := recordBucket(tx, bucketNCPs, nil, false)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			if v == nil {
				names = append(names, string(k))
			}
			return nil
		})
	})
	sort.Strings(names)
	return names, err
}

func (r *Repository) ReadNCU(ncp, name string) (*NCUHandle, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	rec, err := r.readRecord(bucketNCPs, []byte(ncp), name)
	if err != nil {
		return nil, err
	}
	h := newNCUHandle(r, ncp, name)
	h.props = rec.Props
	h.committed = true
	return h, nil
}

// CreateNCU returns a new, uncommitted NCU of the given NCP. The NCP is
// created on commit if needed.
func (r *Repository) CreateNCU(ncp, name string, typ NCUType, class NCUClass) (*NCUHandle, error) {
	if err := validateName(ncp); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	_, err := r.readRecord(bucketNCPs, []byte(ncp), name)
	if err == nil {
		return nil, ErrEntityExists
	}
	if !xerrors.Is(err, ErrEntityNotFound) {
		return nil, err
	}
	h := newNCUHandle(r, ncp, name)
	h.setSystemProp(NCUPropNCUType, NewUint64Value(uint64(typ)))
	h.setSystemProp(NCUPropNCUClass, NewUint64Value(uint64(class)))
	h.setSystemProp(NCUPropEnabled, NewBooleanValue(false))
	return h, nil
}

func (r *Repository) commitNCU(h *NCUHandle) (bool, error) {
	return r.writeRecord(bucketNCPs, []byte(h.ncp), h.name, h.copyProps(), NCUPropEnabled, !h.committed)
}

func (r *Repository) NCUNames(ncp string) ([]string, error) {
	return r.names(bucketNCPs, []byte(ncp))
}

func (r *Repository) WalkNCUs(ncp string, fn func(h *NCUHandle) error) error {
	names, err := r.NCUNames(ncp)
	if err != nil {
		return err
	}
	for _, name := range names {
		h, err := r.ReadNCU(ncp, name)
		if err != nil {
			if xerrors.Is(err, ErrEntityNotFound) {
				continue
			}
			return err
		}
		err = fn(h)
		if err != nil {
			return err
		}
	}
	return nil
}
