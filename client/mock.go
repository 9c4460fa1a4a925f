package client

import (
	"context"

	"github.com/omi-1602/Venz-edu/client/mockstore"
	"github.com/omi-1602/Venz-edu/core/account"
)

// Mock serves the account operations from the local mock store.
type Mock struct {
	store *mockstore.Store
}

var _ Backend = (*Mock)(nil)

func NewMock(store *mockstore.Store) *Mock {
	return &Mock{store: store}
}

func (m *Mock) Name() string { return MockBackendName }

func (m *Mock) Signup(_ context.Context, req account.SignupRequest) (SignupResult, error) {
	usr, err := m.store.SignUp(mockstore.SignUpRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		return SignupResult{}, err
	}
	pub := usr.Public()
	return SignupResult{UID: usr.UID, Message: account.MsgSignupSuccess, User: &pub}, nil
}

func (m *Mock) Login(_ context.Context, email, password string) (LoginResult, error) {
	usr, err := m.store.Login(email, password)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: usr.Public()}, nil
}

// FederatedLogin ignores idToken: tokens cannot be verified offline.
func (m *Mock) FederatedLogin(_ context.Context, _ string) (LoginResult, error) {
	usr, err := m.store.FederatedLoginStub()
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: usr.Public()}, nil
}

func (m *Mock) RequestPasswordReset(_ context.Context, email string) (account.MessageResponse, error) {
	return m.store.RequestPasswordResetStub(email)
}
