package core

import (
	"context"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Collections
const (
	UsersCollection       = "users"
	CoursesCollection     = "courses"
	AssignmentsCollection = "assignments"
	EnrollmentsCollection = "enrollments"
	SubmissionsCollection = "submissions"
	CredentialsCollection = "credentials"
)

// ErrDocNotFound is returned by DocumentStore reads and updates of missing documents.
var ErrDocNotFound = errors.New("document not found")

type serverTimestamp struct{}

// ServerTimestamp is a Document value replaced by the store with its own current time on write.
var ServerTimestamp interface{} = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v interface{}) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// Document is a schemaless record keyed by field name.
type Document map[string]interface{}

// DocumentStore is a keyed document database: documents live in named collections under string ids.
type DocumentStore interface {
	// Get returns ErrDocNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set creates or fully replaces a document.
	Set(ctx context.Context, collection, id string, doc Document) error
	// Merge creates a document or overwrites only the given fields of an existing one.
	Merge(ctx context.Context, collection, id string, doc Document) error
	// Update overwrites the given fields; ErrDocNotFound when the document does not exist.
	Update(ctx context.Context, collection, id string, fields Document) error
	// FindOne returns the first document whose field equals value, ErrDocNotFound if none.
	FindOne(ctx context.Context, collection, field string, value interface{}) (string, Document, error)
	Close() error
}

// ResolveTimestamps returns a copy of doc with every ServerTimestamp replaced by now.
// Stores without native server timestamps use it before writing.
func ResolveTimestamps(doc Document, now time.Time) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if IsServerTimestamp(v) {
			out[k] = now
		} else {
			out[k] = v
		}
	}
	return out
}

var timeType = reflect.TypeOf(time.Time{})

// stringToTimeHook decodes RFC3339 strings (JSON backed stores) into time.Time.
func stringToTimeHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != timeType || from.Kind() != reflect.String {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// DecodeDocument decodes doc into out (a pointer to a struct with `mapstructure` tags).
func DecodeDocument(doc Document, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToTimeHook,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "creating document decoder")
	}
	return errors.Wrap(dec.Decode(map[string]interface{}(doc)), "decoding document")
}
