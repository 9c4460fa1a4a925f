// Package local is the client-side persistent key-value storage backing sessions and the mock store.
package local

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("venz-edu")

// Storage is a string-keyed byte store. Missing keys are reported with ok == false.
type Storage interface {
	GetItem(key string) (value []byte, ok bool, err error)
	SetItem(key string, value []byte) error
	RemoveItem(key string) error
	Close() error
}

// Bolt stores items in a single bucket of a bbolt file.
type Bolt struct {
	db *bbolt.DB
}

var _ Storage = (*Bolt)(nil)

// Open opens (or creates) the storage file at path.
func Open(path string) (*Bolt, error) {
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(path, "path"),
	).Check(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating storage dir")
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating bucket")
	}
	return &Bolt{db: db}, nil
}

func (s *Bolt) GetItem(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			// v is only valid for the life of the transaction
			value = append([]byte{}, v...)
		}
		return nil
	})
	return value, value != nil, err
}

func (s *Bolt) SetItem(key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	})
}

func (s *Bolt) RemoveItem(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

func (s *Bolt) Close() error { return s.db.Close() }

// Memory is a Storage kept in process memory, used by tests.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ Storage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

func (s *Memory) GetItem(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, v...), true, nil
}

func (s *Memory) SetItem(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = append([]byte{}, value...)
	return nil
}

func (s *Memory) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

func (s *Memory) Close() error { return nil }
