package identitysvc

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"

	"github.com/omi-1602/Venz-edu/core"
	dummydb "github.com/omi-1602/Venz-edu/storage/database/dummy"
)

func setupLocal(t *testing.T) *Local {
	bcryptCost = bcrypt.MinCost
	docs, err := dummydb.Open()
	require.NoError(t, err)
	return NewLocal(core.NewTestConfig(), docs)
}

func TestLocal_CreateAccountAndSignIn(t *testing.T) {
	ctx := context.Background()
	p := setupLocal(t)

	uid, err := p.CreateAccount(ctx, "A@X.com ", "pw", "A")
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	_, err = p.CreateAccount(ctx, "a@x.com", "other", "A again")
	assert.True(t, core.IsKind(err, core.KindAlreadyExists), "got %v", err)

	tests := []struct {
		name     string
		email    string
		pwd      string
		wantKind core.ErrorKind
	}{
		{name: "unknown email", email: "b@x.com", pwd: "pw", wantKind: core.KindInvalidCredentials},
		{name: "wrong password", email: "a@x.com", pwd: "nope", wantKind: core.KindInvalidCredentials},
		{name: "ok", email: "a@x.com", pwd: "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.SignInWithPassword(ctx, tt.email, tt.pwd)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, core.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uid, got)
		})
	}
}

func TestLocal_VerifyToken(t *testing.T) {
	ctx := context.Background()
	p := setupLocal(t)
	existingUID, err := p.CreateAccount(ctx, "a@x.com", "pw", "A")
	require.NoError(t, err)

	validateIDToken = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		switch token {
		case "google-a":
			return &idtoken.Payload{Subject: "g-1", Claims: map[string]interface{}{"email": "a@x.com", "name": "A"}}, nil
		case "google-b":
			return &idtoken.Payload{Subject: "g-2", Claims: map[string]interface{}{
				"email": "b@x.com", "name": "B", "picture": "https://pics.test/b.png",
			}}, nil
		default:
			return nil, errors.New("idtoken: invalid token")
		}
	}
	defer func() { validateIDToken = idtoken.Validate }()

	t.Run("invalid token", func(t *testing.T) {
		_, err := p.VerifyToken(ctx, "garbage")
		assert.Error(t, err)
	})

	t.Run("links to existing email", func(t *testing.T) {
		claims, err := p.VerifyToken(ctx, "google-a")
		require.NoError(t, err)
		assert.Equal(t, existingUID, claims.UID)
	})

	t.Run("new identity keeps subject", func(t *testing.T) {
		claims, err := p.VerifyToken(ctx, "google-b")
		require.NoError(t, err)
		assert.Equal(t, core.TokenClaims{UID: "g-2", Email: "b@x.com", Name: "B", Picture: "https://pics.test/b.png"}, claims)

		// the email is now taken
		_, err = p.CreateAccount(ctx, "b@x.com", "pw", "B")
		assert.True(t, core.IsKind(err, core.KindAlreadyExists))

		// and federated-only accounts cannot sign in with a password
		_, err = p.SignInWithPassword(ctx, "b@x.com", "")
		assert.True(t, core.IsKind(err, core.KindInvalidCredentials))
	})
}

func TestLocal_PasswordReset(t *testing.T) {
	ctx := context.Background()
	p := setupLocal(t)
	uid, err := p.CreateAccount(ctx, "a@x.com", "pw", "A")
	require.NoError(t, err)

	_, err = p.PasswordResetLink(ctx, "nobody@x.com")
	assert.Equal(t, errNoUserForEmail, err)

	link, err := p.PasswordResetLink(ctx, "a@x.com")
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/reset-password", u.Path)
	encUID, token := u.Query().Get("uid"), u.Query().Get("token")
	assert.Equal(t, encodeUID(uid), encUID)

	err = p.ConfirmPasswordReset(ctx, encUID, "bad-token", "new-pw")
	assert.True(t, core.IsKind(err, core.KindInvalidArgument))

	require.NoError(t, p.ConfirmPasswordReset(ctx, encUID, token, "new-pw"))

	_, err = p.SignInWithPassword(ctx, "a@x.com", "pw")
	assert.True(t, core.IsKind(err, core.KindInvalidCredentials))
	got, err := p.SignInWithPassword(ctx, "a@x.com", "new-pw")
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	// the link is single use
	err = p.ConfirmPasswordReset(ctx, encUID, token, "again")
	assert.True(t, core.IsKind(err, core.KindInvalidArgument))
}
