// Package sqlxdb implements core.DocumentStore on a postgres JSONB table (see fs/migrations).
package sqlxdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core"
)

var nowFunc = func() time.Time { return time.Now().UTC() } // mockable

const (
	getQuery = `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	setQuery = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	mergeQuery = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
ON CONFLICT (collection, id) DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = now()`

	updateQuery = `UPDATE documents SET data = data || $3, updated_at = now() WHERE collection = $1 AND id = $2`

	findOneQuery = `SELECT id, data FROM documents WHERE collection = $1 AND data->>$2 = $3 ORDER BY id LIMIT 1`
)

type DB struct {
	db *sqlx.DB
}

var _ core.DocumentStore = (*DB)(nil)

// New wraps an open postgres handle (see database.Open).
func New(db *sql.DB) *DB {
	return &DB{db: sqlx.NewDb(db, "postgres")}
}

type row struct {
	ID   string          `db:"id"`
	Data types.JSONText `db:"data"`
}

func encode(doc core.Document) (types.JSONText, error) {
	data, err := json.Marshal(core.ResolveTimestamps(doc, nowFunc()))
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	return types.JSONText(data), nil
}

func decode(data types.JSONText) (core.Document, error) {
	var doc core.Document
	if err := data.Unmarshal(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding document")
	}
	return doc, nil
}

// textValue mirrors how postgres renders a JSONB scalar with the ->> operator.
func textValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func (db *DB) Get(ctx context.Context, collection, id string) (core.Document, error) {
	var data types.JSONText
	if err := db.db.GetContext(ctx, &data, getQuery, collection, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrDocNotFound
		}
		return nil, errors.Wrapf(err, "getting %s/%s", collection, id)
	}
	return decode(data)
}

func (db *DB) write(ctx context.Context, query, collection, id string, doc core.Document) (sql.Result, error) {
	data, err := encode(doc)
	if err != nil {
		return nil, err
	}
	return db.db.ExecContext(ctx, query, collection, id, data)
}

func (db *DB) Set(ctx context.Context, collection, id string, doc core.Document) error {
	_, err := db.write(ctx, setQuery, collection, id, doc)
	return errors.Wrapf(err, "setting %s/%s", collection, id)
}

func (db *DB) Merge(ctx context.Context, collection, id string, doc core.Document) error {
	_, err := db.write(ctx, mergeQuery, collection, id, doc)
	return errors.Wrapf(err, "merging %s/%s", collection, id)
}

func (db *DB) Update(ctx context.Context, collection, id string, fields core.Document) error {
	res, err := db.write(ctx, updateQuery, collection, id, fields)
	if err != nil {
		return errors.Wrapf(err, "updating %s/%s", collection, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting updated rows")
	}
	if n == 0 {
		return core.ErrDocNotFound
	}
	return nil
}

func (db *DB) FindOne(ctx context.Context, collection, field string, value interface{}) (string, core.Document, error) {
	var r row
	if err := db.db.GetContext(ctx, &r, findOneQuery, collection, field, textValue(value)); err != nil {
		if err == sql.ErrNoRows {
			return "", nil, core.ErrDocNotFound
		}
		return "", nil, errors.Wrap(err, fmt.Sprintf("querying %s by %s", collection, field))
	}
	doc, err := decode(r.Data)
	if err != nil {
		return "", nil, err
	}
	return r.ID, doc, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}
