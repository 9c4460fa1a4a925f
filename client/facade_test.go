package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omi-1602/Venz-edu/client/mockstore"
	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
	logsvc "github.com/omi-1602/Venz-edu/services/logger"
	"github.com/omi-1602/Venz-edu/storage/local"
)

// downBackend fails every call like an unreachable API.
type downBackend struct {
	calls int
}

var errUnreachable = core.Internal(errors.New("dial tcp: connection refused"))

func (d *downBackend) Name() string { return RemoteBackendName }

func (d *downBackend) Signup(context.Context, account.SignupRequest) (SignupResult, error) {
	d.calls++
	return SignupResult{}, errUnreachable
}

func (d *downBackend) Login(context.Context, string, string) (LoginResult, error) {
	d.calls++
	return LoginResult{}, errUnreachable
}

func (d *downBackend) FederatedLogin(context.Context, string) (LoginResult, error) {
	d.calls++
	return LoginResult{}, errUnreachable
}

func (d *downBackend) RequestPasswordReset(context.Context, string) (account.MessageResponse, error) {
	d.calls++
	return account.MessageResponse{}, errUnreachable
}

// upBackend answers like a healthy API.
type upBackend struct {
	downBackend
}

func (u *upBackend) Login(_ context.Context, email, _ string) (LoginResult, error) {
	u.calls++
	return LoginResult{User: account.PublicUser{UID: "u1", Email: email, DisplayName: "A", Role: "student"}, Token: "jwt"}, nil
}

type facadeTest struct {
	facade   *Facade
	storage  *local.Memory
	sessions *SessionStore
	remote   *downBackend
}

func setupFacade(t *testing.T) facadeTest {
	storage := local.NewMemory()
	store, err := mockstore.New(storage)
	require.NoError(t, err)

	remote := &downBackend{}
	sessions := NewSessionStore(storage)
	facade, err := NewFacade(sessions, logsvc.NewTestLogger(), remote, NewMock(store))
	require.NoError(t, err)
	return facadeTest{facade: facade, storage: storage, sessions: sessions, remote: remote}
}

func TestNewFacade_NoBackends(t *testing.T) {
	_, err := NewFacade(NewSessionStore(local.NewMemory()), logsvc.NewTestLogger())
	assert.Error(t, err)
}

func TestFacade_FallsBackToMock(t *testing.T) {
	ctx := context.Background()
	ft := setupFacade(t)

	signup, err := ft.facade.Signup(ctx, account.SignupRequest{Email: "a@x.com", Password: "pw", DisplayName: "A", Role: "student"})
	require.NoError(t, err)
	assert.Equal(t, MockBackendName, signup.Backend)
	require.NotNil(t, signup.Session)
	assert.Equal(t, signup.UID, signup.Session.UID)

	_, err = ft.facade.Signup(ctx, account.SignupRequest{Email: "a@x.com", Password: "pw", DisplayName: "A", Role: "student"})
	assert.True(t, core.IsKind(err, core.KindAlreadyExists), "last backend error is surfaced, got %v", err)

	login, err := ft.facade.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, DashboardView, login.Redirect)
	assert.Equal(t, MockBackendName, login.Session.Backend)
	assert.Equal(t, "a@x.com", login.Session.Email)
	assert.Empty(t, login.Session.Token)

	cur, ok, err := ft.facade.Current()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, login.Session, cur)

	_, err = ft.facade.Login(ctx, "a@x.com", "wrong")
	assert.True(t, core.IsKind(err, core.KindInvalidCredentials), "got %v", err)

	fed, err := ft.facade.FederatedLogin(ctx, "any-token")
	require.NoError(t, err)
	assert.Equal(t, "student", fed.Session.Role)
	assert.Equal(t, DashboardView, fed.Redirect)

	reset, err := ft.facade.RequestPasswordReset(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, MockBackendName, reset.Backend)
	assert.Equal(t, mockstore.MsgResetLinkMocked, reset.Message)

	_, err = ft.facade.RequestPasswordReset(ctx, "ghost@x.com")
	assert.True(t, core.IsKind(err, core.KindNotFound), "got %v", err)

	// every operation tried the remote backend first
	assert.Equal(t, 7, ft.remote.calls)
}

func TestFacade_RemoteFirst(t *testing.T) {
	ctx := context.Background()
	storage := local.NewMemory()
	store, err := mockstore.New(storage)
	require.NoError(t, err)

	remote := &upBackend{}
	facade, err := NewFacade(NewSessionStore(storage), logsvc.NewTestLogger(), remote, NewMock(store))
	require.NoError(t, err)

	out, err := facade.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, RemoteBackendName, out.Session.Backend)
	assert.Equal(t, "jwt", out.Session.Token)

	// the mock store was never touched
	usrs, err := store.Users()
	require.NoError(t, err)
	assert.Empty(t, usrs)
}

func TestFacade_Logout(t *testing.T) {
	ctx := context.Background()
	ft := setupFacade(t)

	_, err := ft.facade.FederatedLogin(ctx, "")
	require.NoError(t, err)

	view, err := ft.facade.Logout()
	require.NoError(t, err)
	assert.Equal(t, EntryView, view)

	_, ok, err := ft.facade.Current()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore(t *testing.T) {
	storage := local.NewMemory()
	sessions := NewSessionStore(storage)

	sess := Session{
		PublicUser: account.PublicUser{UID: "u1", Email: "a@x.com", DisplayName: "A", Role: "mentor"},
		Backend:    RemoteBackendName,
		Token:      "jwt",
	}
	require.NoError(t, sessions.Save(sess))

	raw, ok, err := storage.GetItem("user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"uid":"u1","email":"a@x.com","displayName":"A","role":"mentor","backend":"remote","token":"jwt"}`, string(raw))

	got, ok, err := sessions.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sess, got)

	require.NoError(t, storage.SetItem("user", []byte("not json")))
	_, _, err = sessions.Load()
	assert.Error(t, err)
}
