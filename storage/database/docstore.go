package database

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core"
	dummydb "github.com/omi-1602/Venz-edu/storage/database/dummy"
	firestoredb "github.com/omi-1602/Venz-edu/storage/database/firestore"
	mongodb "github.com/omi-1602/Venz-edu/storage/database/mongo"
	sqlxdb "github.com/omi-1602/Venz-edu/storage/database/sqlx"
)

// OpenDocumentStore opens the document store selected by conf.Database.Engine.
// firebaseApp is only called for the firestore engine.
func OpenDocumentStore(ctx context.Context, conf *core.Config, firebaseApp func() (*firebase.App, error)) (core.DocumentStore, error) {
	switch conf.Database.Engine {
	case core.EngineMemory:
		return dummydb.Open()
	case core.EngineFirestore:
		app, err := firebaseApp()
		if err != nil {
			return nil, err
		}
		return firestoredb.Open(ctx, app)
	case core.EngineMongo:
		return mongodb.Open(ctx, conf)
	case core.EnginePostgres:
		if err := CreateIfNotExist(conf); err != nil {
			return nil, err
		}
		db, err := Open(conf)
		if err != nil {
			return nil, err
		}
		if err = Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlxdb.New(db), nil
	default:
		return nil, errors.Errorf("unknown document store engine %q", conf.Database.Engine)
	}
}
