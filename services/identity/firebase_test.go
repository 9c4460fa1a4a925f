package identitysvc

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omi-1602/Venz-edu/core"
)

type fakeAuthClient struct {
	createErr error
	token     *auth.Token
	link      string
}

func (c *fakeAuthClient) CreateUser(_ context.Context, _ *auth.UserToCreate) (*auth.UserRecord, error) {
	if c.createErr != nil {
		return nil, c.createErr
	}
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: "fb-uid"}}, nil
}

func (c *fakeAuthClient) VerifyIDToken(_ context.Context, _ string) (*auth.Token, error) {
	if c.token == nil {
		return nil, errors.New("ID token has invalid signature")
	}
	return c.token, nil
}

func (c *fakeAuthClient) PasswordResetLink(_ context.Context, _ string) (string, error) {
	return c.link, nil
}

func TestFirebase_CreateAccount(t *testing.T) {
	p := &Firebase{client: &fakeAuthClient{}}
	uid, err := p.CreateAccount(context.Background(), "a@x.com", "pw", "A")
	require.NoError(t, err)
	assert.Equal(t, "fb-uid", uid)

	p = &Firebase{client: &fakeAuthClient{createErr: errors.New("boom")}}
	_, err = p.CreateAccount(context.Background(), "a@x.com", "pw", "A")
	assert.Equal(t, core.KindInternal, core.KindOf(err))
}

func TestFirebase_VerifyToken(t *testing.T) {
	p := &Firebase{client: &fakeAuthClient{token: &auth.Token{
		UID:    "fb-uid",
		Claims: map[string]interface{}{"email": "a@x.com", "name": "A", "picture": "https://pics.test/a.png"},
	}}}
	claims, err := p.VerifyToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, core.TokenClaims{UID: "fb-uid", Email: "a@x.com", Name: "A", Picture: "https://pics.test/a.png"}, claims)

	p = &Firebase{client: &fakeAuthClient{}}
	_, err = p.VerifyToken(context.Background(), "tok")
	assert.Error(t, err)
}

func TestFirebase_SignInWithPassword(t *testing.T) {
	defer func() { restSend = rest.SendWithContext }()

	tests := []struct {
		name     string
		key      string
		status   int
		body     string
		wantUID  string
		wantKind core.ErrorKind
	}{
		{name: "no api key", wantKind: core.KindInternal},
		{name: "ok", key: "k", status: http.StatusOK, body: `{"localId":"fb-uid"}`, wantUID: "fb-uid"},
		{name: "bad password", key: "k", status: http.StatusBadRequest, body: `{"error":{"message":"INVALID_PASSWORD"}}`, wantKind: core.KindInvalidCredentials},
		{name: "server error", key: "k", status: http.StatusInternalServerError, body: `{}`, wantKind: core.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restSend = func(_ context.Context, req rest.Request) (*rest.Response, error) {
				assert.Equal(t, tt.key, req.QueryParams["key"])
				return &rest.Response{StatusCode: tt.status, Body: tt.body}, nil
			}
			p := &Firebase{client: &fakeAuthClient{}, webAPIKey: tt.key}
			uid, err := p.SignInWithPassword(context.Background(), "a@x.com", "pw")
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, core.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUID, uid)
		})
	}
}
