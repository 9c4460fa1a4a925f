package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
)

var restSend = rest.SendWithContext // mockable

// apiError is the error body written by the API.
type apiError struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool               `json:"success"`
	User    account.PublicUser `json:"user"`
	Token   string             `json:"token"`
}

// Remote calls the account HTTP API.
type Remote struct {
	baseURL string
}

var _ Backend = (*Remote)(nil)

func NewRemote(baseURL string) (*Remote, error) {
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(baseURL, "baseURL"),
	).Check(); err != nil {
		return nil, err
	}
	return &Remote{baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (r *Remote) Name() string { return RemoteBackendName }

func (r *Remote) do(ctx context.Context, method rest.Method, path, token string, in, out interface{}) error {
	req := rest.Request{
		Method:  method,
		BaseURL: r.baseURL + path,
		Headers: map[string]string{"Accept": "application/json"},
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}
	if token != "" {
		req.Headers["Authorization"] = "Bearer " + token
	}

	res, err := restSend(ctx, req)
	if err != nil {
		return core.Internal(errors.Wrapf(err, "calling %s", path))
	}
	if res.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if json.Unmarshal([]byte(res.Body), &apiErr) == nil && apiErr.Code != "" {
			return core.NewError(core.ErrorKind(apiErr.Code), apiErr.Error)
		}
		return core.Internal(errors.Errorf("%s: status %d", path, res.StatusCode))
	}
	return errors.Wrap(json.Unmarshal([]byte(res.Body), out), "decoding response")
}

func (r *Remote) post(ctx context.Context, path string, in, out interface{}) error {
	return r.do(ctx, rest.Post, path, "", in, out)
}

func (r *Remote) Signup(ctx context.Context, req account.SignupRequest) (SignupResult, error) {
	var res account.SignupResponse
	if err := r.post(ctx, "/v1/accounts/signup", req, &res); err != nil {
		return SignupResult{}, err
	}
	return SignupResult{UID: res.UID, Message: res.Message}, nil
}

func (r *Remote) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res loginResponse
	if err := r.post(ctx, "/v1/accounts/login", loginBody{Email: email, Password: password}, &res); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: res.User, Token: res.Token}, nil
}

func (r *Remote) FederatedLogin(ctx context.Context, idToken string) (LoginResult, error) {
	var res loginResponse
	if err := r.post(ctx, "/v1/accounts/federated-login", account.FederatedLoginRequest{IDToken: idToken}, &res); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: res.User, Token: res.Token}, nil
}

func (r *Remote) RequestPasswordReset(ctx context.Context, email string) (account.MessageResponse, error) {
	var res account.MessageResponse
	err := r.post(ctx, "/v1/accounts/password-reset", account.PasswordResetRequest{Email: email}, &res)
	return res, err
}

// Me returns the profile of the user the token was issued to.
func (r *Remote) Me(ctx context.Context, token string) (account.PublicUser, error) {
	var usr account.PublicUser
	err := r.do(ctx, rest.Get, "/v1/accounts/me", token, nil, &usr)
	return usr, err
}
