package client

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core/account"
	"github.com/omi-1602/Venz-edu/storage/local"
)

const sessionKey = "user"

// Session is the signed in user. It is persisted as the user's public projection
// plus the backend that signed them in.
type Session struct {
	account.PublicUser
	Backend string `json:"backend"`
	Token   string `json:"token,omitempty"`
}

// SessionStore persists the current Session in local storage.
type SessionStore struct {
	storage local.Storage
}

func NewSessionStore(storage local.Storage) *SessionStore {
	return &SessionStore{storage: storage}
}

func (s *SessionStore) Save(sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	return errors.Wrap(s.storage.SetItem(sessionKey, raw), "saving session")
}

// Load returns the current session; ok is false when nobody is signed in.
func (s *SessionStore) Load() (sess Session, ok bool, err error) {
	raw, ok, err := s.storage.GetItem(sessionKey)
	if err != nil || !ok {
		return Session{}, false, errors.Wrap(err, "reading session")
	}
	if err = json.Unmarshal(raw, &sess); err != nil {
		return Session{}, false, errors.Wrap(err, "decoding session")
	}
	return sess, true, nil
}

func (s *SessionStore) Clear() error {
	return errors.Wrap(s.storage.RemoveItem(sessionKey), "clearing session")
}
