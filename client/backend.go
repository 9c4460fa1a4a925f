// Package client is the client-side entry point: it calls the account API and falls back
// to the local mock store when the API fails.
package client

import (
	"context"

	"github.com/omi-1602/Venz-edu/core/account"
)

// Backend names
const (
	RemoteBackendName = "remote"
	MockBackendName   = "mock"
)

// SignupResult is what a backend returns on signup. User is set when the backend signs the new user in.
type SignupResult struct {
	UID     string
	Message string
	User    *account.PublicUser
}

type LoginResult struct {
	User  account.PublicUser
	Token string
}

// Backend is one implementation of the client-facing account operations.
type Backend interface {
	Name() string
	Signup(ctx context.Context, req account.SignupRequest) (SignupResult, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
	FederatedLogin(ctx context.Context, idToken string) (LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) (account.MessageResponse, error)
}
