package core

import "context"

// TokenClaims is what an identity provider vouches for after verifying a federated ID token.
type TokenClaims struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// IdentityProvider manages credentials and tokens.
// Implementations return AlreadyExists errors for duplicate emails
// and InvalidCredentials errors for failed password sign-ins.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (uid string, err error)
	VerifyToken(ctx context.Context, idToken string) (TokenClaims, error)
	PasswordResetLink(ctx context.Context, email string) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) (uid string, err error)
}

// PasswordResetConfirmer is implemented by identity providers that host the password reset flow themselves.
type PasswordResetConfirmer interface {
	ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error
}
