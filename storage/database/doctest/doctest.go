// Package doctest checks that a core.DocumentStore honours the store contract:
// not-found errors, replace on Set, merge upserts and field updates.
package doctest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omi-1602/Venz-edu/core"
)

// Collection returns a fresh collection name so runs against shared servers do not collide.
func Collection() string {
	return "doctest_" + strings.ToLower(core.RandomString(8))
}

func Run(t *testing.T, store core.DocumentStore, collection string) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get(ctx, collection, "nope")
		assert.Equal(t, core.ErrDocNotFound, err)
	})

	t.Run("update missing", func(t *testing.T) {
		err := store.Update(ctx, collection, "nope", core.Document{"verified": true})
		assert.Equal(t, core.ErrDocNotFound, err)

		_, err = store.Get(ctx, collection, "nope")
		assert.Equal(t, core.ErrDocNotFound, err, "update must not create documents")
	})

	t.Run("set", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, collection, "u1", core.Document{
			"email":     "a@x.com",
			"bio":       "hi",
			"verified":  false,
			"createdAt": core.ServerTimestamp,
		}))
		doc, err := store.Get(ctx, collection, "u1")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", doc["email"])
		assert.Equal(t, false, doc["verified"])

		var out struct {
			CreatedAt time.Time `mapstructure:"createdAt"`
		}
		require.NoError(t, core.DecodeDocument(doc, &out))
		assert.False(t, out.CreatedAt.IsZero(), "server timestamp must resolve")
	})

	t.Run("merge keeps absent fields", func(t *testing.T) {
		require.NoError(t, store.Merge(ctx, collection, "u1", core.Document{"verified": true, "role": "student"}))
		doc, err := store.Get(ctx, collection, "u1")
		require.NoError(t, err)
		assert.Equal(t, true, doc["verified"])
		assert.Equal(t, "student", doc["role"])
		assert.Equal(t, "a@x.com", doc["email"])
		assert.Equal(t, "hi", doc["bio"])
	})

	t.Run("merge creates", func(t *testing.T) {
		require.NoError(t, store.Merge(ctx, collection, "u2", core.Document{"email": "b@x.com"}))
		doc, err := store.Get(ctx, collection, "u2")
		require.NoError(t, err)
		assert.Equal(t, "b@x.com", doc["email"])
	})

	t.Run("update existing", func(t *testing.T) {
		require.NoError(t, store.Update(ctx, collection, "u2", core.Document{"status": "suspended"}))
		doc, err := store.Get(ctx, collection, "u2")
		require.NoError(t, err)
		assert.Equal(t, "suspended", doc["status"])
		assert.Equal(t, "b@x.com", doc["email"])
	})

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, collection, "u2", core.Document{"email": "b@x.com"}))
		doc, err := store.Get(ctx, collection, "u2")
		require.NoError(t, err)
		_, ok := doc["status"]
		assert.False(t, ok, "set must drop fields absent from the new document")
	})

	t.Run("find one", func(t *testing.T) {
		id, doc, err := store.FindOne(ctx, collection, "email", "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", id)
		assert.Equal(t, "hi", doc["bio"])

		id, _, err = store.FindOne(ctx, collection, "verified", true)
		require.NoError(t, err)
		assert.Equal(t, "u1", id)

		_, _, err = store.FindOne(ctx, collection, "email", "nobody@x.com")
		assert.Equal(t, core.ErrDocNotFound, err)
	})
}
