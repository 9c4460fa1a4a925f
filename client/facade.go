package client

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
)

// Views
const (
	DashboardView = "dash.html"
	EntryView     = "index.html"
)

type SignupOutcome struct {
	Backend string
	UID     string
	Message string
	// Session is set when the backend signed the new user in.
	Session *Session
}

type LoginOutcome struct {
	Session  Session
	Redirect string
}

type ResetOutcome struct {
	Backend string
	account.MessageResponse
}

// Facade runs each operation against its backends in order; the first success wins.
// When every backend fails the last error is returned.
type Facade struct {
	backends []Backend
	sessions *SessionStore
	logger   core.Logger
}

func NewFacade(sessions *SessionStore, logger core.Logger, backends ...Backend) (*Facade, error) {
	if len(backends) == 0 {
		return nil, errors.New("at least one backend is required")
	}
	return &Facade{backends: backends, sessions: sessions, logger: logger}, nil
}

func (f *Facade) try(op string, fn func(Backend) error) (Backend, error) {
	var err error
	for _, b := range f.backends {
		if err = fn(b); err == nil {
			return b, nil
		}
		f.logger.Warn(fmt.Sprintf("%s: %s backend failed: %v", op, b.Name(), err))
	}
	return nil, err
}

func (f *Facade) signIn(b Backend, res LoginResult) (LoginOutcome, error) {
	sess := Session{PublicUser: res.User, Backend: b.Name(), Token: res.Token}
	if err := f.sessions.Save(sess); err != nil {
		return LoginOutcome{}, err
	}
	return LoginOutcome{Session: sess, Redirect: DashboardView}, nil
}

func (f *Facade) Signup(ctx context.Context, req account.SignupRequest) (SignupOutcome, error) {
	var res SignupResult
	b, err := f.try("signup", func(b Backend) (err error) {
		res, err = b.Signup(ctx, req)
		return err
	})
	if err != nil {
		return SignupOutcome{}, err
	}

	out := SignupOutcome{Backend: b.Name(), UID: res.UID, Message: res.Message}
	if res.User != nil {
		sess := Session{PublicUser: *res.User, Backend: b.Name()}
		if err = f.sessions.Save(sess); err != nil {
			return SignupOutcome{}, err
		}
		out.Session = &sess
	}
	return out, nil
}

func (f *Facade) Login(ctx context.Context, email, password string) (LoginOutcome, error) {
	var res LoginResult
	b, err := f.try("login", func(b Backend) (err error) {
		res, err = b.Login(ctx, email, password)
		return err
	})
	if err != nil {
		return LoginOutcome{}, err
	}
	return f.signIn(b, res)
}

func (f *Facade) FederatedLogin(ctx context.Context, idToken string) (LoginOutcome, error) {
	var res LoginResult
	b, err := f.try("federated login", func(b Backend) (err error) {
		res, err = b.FederatedLogin(ctx, idToken)
		return err
	})
	if err != nil {
		return LoginOutcome{}, err
	}
	return f.signIn(b, res)
}

func (f *Facade) RequestPasswordReset(ctx context.Context, email string) (ResetOutcome, error) {
	var res account.MessageResponse
	b, err := f.try("password reset", func(b Backend) (err error) {
		res, err = b.RequestPasswordReset(ctx, email)
		return err
	})
	if err != nil {
		return ResetOutcome{}, err
	}
	return ResetOutcome{Backend: b.Name(), MessageResponse: res}, nil
}

// Logout clears the session and returns the view to show next.
func (f *Facade) Logout() (string, error) {
	if err := f.sessions.Clear(); err != nil {
		return "", err
	}
	return EntryView, nil
}

// Current returns the signed in session, if any.
func (f *Facade) Current() (Session, bool, error) {
	return f.sessions.Load()
}
