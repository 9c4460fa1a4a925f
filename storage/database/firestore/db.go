// Package firestoredb implements core.DocumentStore on Cloud Firestore.
package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/omi-1602/Venz-edu/core"
)

type DB struct {
	client *firestore.Client
}

var _ core.DocumentStore = (*DB)(nil)

// NewFirebaseApp initializes the firebase app shared by the document store and the identity provider.
func NewFirebaseApp(ctx context.Context, conf *core.Config) (*firebase.App, error) {
	var opts []option.ClientOption
	if conf.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(conf.Firebase.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: conf.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "initializing firebase app")
	}
	return app, nil
}

func Open(ctx context.Context, app *firebase.App) (*DB, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "opening firestore")
	}
	return &DB{client: client}, nil
}

// toFirestore swaps the ServerTimestamp sentinel for firestore's own.
func toFirestore(doc core.Document) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if core.IsServerTimestamp(v) {
			out[k] = firestore.ServerTimestamp
		} else {
			out[k] = v
		}
	}
	return out
}

func mapErr(err error) error {
	if status.Code(err) == codes.NotFound {
		return core.ErrDocNotFound
	}
	return err
}

func (db *DB) Get(ctx context.Context, collection, id string) (core.Document, error) {
	snap, err := db.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	return snap.Data(), nil
}

func (db *DB) Set(ctx context.Context, collection, id string, doc core.Document) error {
	_, err := db.client.Collection(collection).Doc(id).Set(ctx, toFirestore(doc))
	return errors.Wrapf(err, "setting %s/%s", collection, id)
}

func (db *DB) Merge(ctx context.Context, collection, id string, doc core.Document) error {
	_, err := db.client.Collection(collection).Doc(id).Set(ctx, toFirestore(doc), firestore.MergeAll)
	return errors.Wrapf(err, "merging %s/%s", collection, id)
}

func (db *DB) Update(ctx context.Context, collection, id string, fields core.Document) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range toFirestore(fields) {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if _, err := db.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		return mapErr(err)
	}
	return nil
}

func (db *DB) FindOne(ctx context.Context, collection, field string, value interface{}) (string, core.Document, error) {
	iter := db.client.Collection(collection).Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return "", nil, core.ErrDocNotFound
	}
	if err != nil {
		return "", nil, errors.Wrapf(err, "querying %s by %s", collection, field)
	}
	return snap.Ref.ID, snap.Data(), nil
}

func (db *DB) Close() error {
	return db.client.Close()
}
