// Package dummydb is an in-memory core.DocumentStore used by tests and the "memory" engine.
package dummydb

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/omi-1602/Venz-edu/core"
)

var nowFunc = func() time.Time { return time.Now().UTC() } // mockable

type (
	DB struct {
		sync.RWMutex
		collections map[string]*collection
	}

	collection struct {
		table map[string]core.Document
	}
)

var _ core.DocumentStore = (*DB)(nil) // interface compliance check

func Open() (*DB, error) {
	return &DB{collections: make(map[string]*collection)}, nil
}

func (db *DB) coll(name string) *collection {
	c, ok := db.collections[name]
	if !ok {
		c = &collection{table: make(map[string]core.Document)}
		db.collections[name] = c
	}
	return c
}

func copyDoc(doc core.Document) core.Document {
	out := make(core.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func (db *DB) Get(_ context.Context, collection, id string) (core.Document, error) {
	db.RLock()
	defer db.RUnlock()

	if c, ok := db.collections[collection]; ok {
		if doc, ok := c.table[id]; ok {
			return copyDoc(doc), nil
		}
	}
	return nil, core.ErrDocNotFound
}

func (db *DB) Set(_ context.Context, collection, id string, doc core.Document) error {
	db.Lock()
	defer db.Unlock()

	db.coll(collection).table[id] = core.ResolveTimestamps(doc, nowFunc())
	return nil
}

func (db *DB) Merge(_ context.Context, collection, id string, doc core.Document) error {
	db.Lock()
	defer db.Unlock()

	c := db.coll(collection)
	existing, ok := c.table[id]
	if !ok {
		existing = make(core.Document, len(doc))
	}
	for k, v := range core.ResolveTimestamps(doc, nowFunc()) {
		existing[k] = v
	}
	c.table[id] = existing
	return nil
}

func (db *DB) Update(_ context.Context, collection, id string, fields core.Document) error {
	db.Lock()
	defer db.Unlock()

	c, ok := db.collections[collection]
	if !ok {
		return core.ErrDocNotFound
	}
	existing, ok := c.table[id]
	if !ok {
		return core.ErrDocNotFound
	}
	for k, v := range core.ResolveTimestamps(fields, nowFunc()) {
		existing[k] = v
	}
	return nil
}

func (db *DB) FindOne(_ context.Context, collection, field string, value interface{}) (string, core.Document, error) {
	db.RLock()
	defer db.RUnlock()

	c, ok := db.collections[collection]
	if !ok {
		return "", nil, core.ErrDocNotFound
	}
	// iterate in id order so results are deterministic
	ids := make([]string, 0, len(c.table))
	for id := range c.table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		doc := c.table[id]
		if v, ok := doc[field]; ok && reflect.DeepEqual(v, value) {
			return id, copyDoc(doc), nil
		}
	}
	return "", nil, core.ErrDocNotFound
}

// Count returns the number of documents in collection.
func (db *DB) Count(collection string) int {
	db.RLock()
	defer db.RUnlock()

	if c, ok := db.collections[collection]; ok {
		return len(c.table)
	}
	return 0
}

func (db *DB) Close() error { return nil }
