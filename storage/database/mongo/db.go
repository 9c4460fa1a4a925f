// Package mongodb implements core.DocumentStore on MongoDB, one collection per document collection.
package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/omi-1602/Venz-edu/core"
)

var nowFunc = func() time.Time { return time.Now().UTC() } // mockable

type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ core.DocumentStore = (*DB)(nil)

func Open(ctx context.Context, conf *core.Config) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Mongo.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo")
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "pinging mongo")
	}
	return &DB{client: client, db: client.Database(conf.Mongo.Database)}, nil
}

func byID(id string) bson.M { return bson.M{"_id": id} }

// toBSON resolves server timestamps; mongo has no write-time sentinel usable inside $set documents.
func toBSON(doc core.Document) bson.M {
	return bson.M(core.ResolveTimestamps(doc, nowFunc()))
}

// fromBSON drops the _id and converts driver types back to plain Go values.
func fromBSON(m bson.M) core.Document {
	doc := make(core.Document, len(m))
	for k, v := range m {
		if k == "_id" {
			continue
		}
		doc[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case bson.M:
		return map[string]interface{}(fromBSON(val))
	case bson.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = fromBSONValue(item)
		}
		return out
	default:
		return v
	}
}

func (db *DB) Get(ctx context.Context, collection, id string) (core.Document, error) {
	var m bson.M
	err := db.db.Collection(collection).FindOne(ctx, byID(id)).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, core.ErrDocNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting %s/%s", collection, id)
	}
	return fromBSON(m), nil
}

func (db *DB) Set(ctx context.Context, collection, id string, doc core.Document) error {
	_, err := db.db.Collection(collection).ReplaceOne(ctx, byID(id), toBSON(doc), options.Replace().SetUpsert(true))
	return errors.Wrapf(err, "setting %s/%s", collection, id)
}

func (db *DB) Merge(ctx context.Context, collection, id string, doc core.Document) error {
	_, err := db.db.Collection(collection).UpdateOne(ctx, byID(id), bson.M{"$set": toBSON(doc)}, options.Update().SetUpsert(true))
	return errors.Wrapf(err, "merging %s/%s", collection, id)
}

func (db *DB) Update(ctx context.Context, collection, id string, fields core.Document) error {
	res, err := db.db.Collection(collection).UpdateOne(ctx, byID(id), bson.M{"$set": toBSON(fields)})
	if err != nil {
		return errors.Wrapf(err, "updating %s/%s", collection, id)
	}
	if res.MatchedCount == 0 {
		return core.ErrDocNotFound
	}
	return nil
}

func (db *DB) FindOne(ctx context.Context, collection, field string, value interface{}) (string, core.Document, error) {
	var m bson.M
	err := db.db.Collection(collection).FindOne(ctx, bson.M{field: value}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return "", nil, core.ErrDocNotFound
	}
	if err != nil {
		return "", nil, errors.Wrapf(err, "querying %s by %s", collection, field)
	}
	id, _ := m["_id"].(string)
	return id, fromBSON(m), nil
}

func (db *DB) Close() error {
	return db.client.Disconnect(context.Background())
}
