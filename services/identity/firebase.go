package identitysvc

import (
	"context"
	"encoding/json"
	"net/http"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/omi-1602/Venz-edu/core"
)

var (
	identityToolkitURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"
	restSend           = rest.SendWithContext // mockable
)

// authClient is the part of *auth.Client used here.
type authClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

// Firebase delegates identity to Firebase Authentication.
// Password sign-in goes through the Identity Toolkit REST API with the project's web API key.
type Firebase struct {
	client    authClient
	webAPIKey string
}

var _ core.IdentityProvider = (*Firebase)(nil)

func NewFirebase(ctx context.Context, conf *core.Config, app *firebase.App) (*Firebase, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "initializing firebase auth")
	}
	return &Firebase{client: client, webAPIKey: conf.Firebase.WebAPIKey}, nil
}

func (p *Firebase) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName).
		EmailVerified(false)
	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", core.AlreadyExists(msgEmailExists)
		}
		return "", err
	}
	return rec.UID, nil
}

func (p *Firebase) VerifyToken(ctx context.Context, idToken string) (core.TokenClaims, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return core.TokenClaims{}, err
	}
	claim := func(name string) string {
		s, _ := token.Claims[name].(string)
		return s
	}
	return core.TokenClaims{
		UID:     token.UID,
		Email:   claim("email"),
		Name:    claim("name"),
		Picture: claim("picture"),
	}, nil
}

func (p *Firebase) PasswordResetLink(ctx context.Context, email string) (string, error) {
	return p.client.PasswordResetLink(ctx, email)
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Firebase) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	if p.webAPIKey == "" {
		return "", errors.New("firebase web API key not configured")
	}
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return "", err
	}
	res, err := restSend(ctx, rest.Request{
		Method:      rest.Post,
		BaseURL:     identityToolkitURL,
		Headers:     map[string]string{"Content-Type": "application/json"},
		QueryParams: map[string]string{"key": p.webAPIKey},
		Body:        body,
	})
	if err != nil {
		return "", errors.Wrap(err, "calling identity toolkit")
	}

	var out signInResponse
	if err = json.Unmarshal([]byte(res.Body), &out); err != nil {
		return "", errors.Wrap(err, "decoding identity toolkit response")
	}
	if res.StatusCode == http.StatusBadRequest && out.Error != nil {
		// EMAIL_NOT_FOUND, INVALID_PASSWORD, INVALID_LOGIN_CREDENTIALS, USER_DISABLED...
		return "", core.InvalidCredentials(msgInvalidCredentials)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return "", errors.Errorf("identity toolkit: status %d: %s", res.StatusCode, res.Body)
	}
	return out.LocalID, nil
}
