// Package identitysvc holds the core.IdentityProvider implementations.
package identitysvc

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"

	"github.com/omi-1602/Venz-edu/core"
)

const (
	providerPassword = "password"
	providerGoogle   = "google"

	msgEmailExists        = "The email address is already in use by another account."
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidResetToken  = "The password reset link is invalid or has expired."
)

var (
	validateIDToken = idtoken.Validate // mockable
	bcryptCost      = bcrypt.DefaultCost

	errNoUserForEmail = errors.New("there is no user record corresponding to the provided email")
)

// credential is the sign-in record kept in the credentials collection, keyed by uid.
type credential struct {
	UID          string    `mapstructure:"uid"`
	Email        string    `mapstructure:"email"`
	PasswordHash string    `mapstructure:"passwordHash"`
	Provider     string    `mapstructure:"provider"`
	UpdatedAt    time.Time `mapstructure:"updatedAt"`
}

func (c credential) checkPassword(pwd string) error {
	if c.PasswordHash == "" {
		return errors.New("no password set")
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(pwd))
}

func hashPassword(pwd string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcryptCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(hash), nil
}

// Local is a self-hosted identity provider storing bcrypt credentials in the document store.
// Federated ID tokens are Google ID tokens checked against the configured client ID.
type Local struct {
	docs            core.DocumentStore
	tokens          tokenGenerator
	frontendBaseURL string
	googleClientID  string
}

var (
	_ core.IdentityProvider       = (*Local)(nil)
	_ core.PasswordResetConfirmer = (*Local)(nil)
)

func NewLocal(conf *core.Config, docs core.DocumentStore) *Local {
	return &Local{
		docs:            docs,
		tokens:          tokenGenerator{secretKey: conf.SecretKey, timeout: conf.PasswordResetTimeoutDelta},
		frontendBaseURL: conf.FrontendBaseURL,
		googleClientID:  conf.Identity.GoogleClientID,
	}
}

func (p *Local) findByEmail(ctx context.Context, email string) (credential, error) {
	_, doc, err := p.docs.FindOne(ctx, core.CredentialsCollection, "email", core.CleanString(email, true /* lower */))
	if err != nil {
		return credential{}, err
	}
	var cred credential
	err = core.DecodeDocument(doc, &cred)
	return cred, err
}

func (p *Local) get(ctx context.Context, uid string) (credential, error) {
	doc, err := p.docs.Get(ctx, core.CredentialsCollection, uid)
	if err != nil {
		return credential{}, err
	}
	var cred credential
	err = core.DecodeDocument(doc, &cred)
	return cred, err
}

func (p *Local) save(ctx context.Context, cred credential) error {
	return p.docs.Set(ctx, core.CredentialsCollection, cred.UID, core.Document{
		"uid":          cred.UID,
		"email":        cred.Email,
		"passwordHash": cred.PasswordHash,
		"provider":     cred.Provider,
		"updatedAt":    cred.UpdatedAt,
	})
}

func (p *Local) CreateAccount(ctx context.Context, email, password, _ string) (string, error) {
	email = core.CleanString(email, true /* lower */)
	_, err := p.findByEmail(ctx, email)
	if err == nil {
		return "", core.AlreadyExists(msgEmailExists)
	}
	if !errors.Is(err, core.ErrDocNotFound) {
		return "", errors.Wrap(err, "checking email")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", err
	}
	cred := credential{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Provider:     providerPassword,
		UpdatedAt:    nowFunc().UTC(),
	}
	if err = p.save(ctx, cred); err != nil {
		return "", errors.Wrap(err, "saving credential")
	}
	return cred.UID, nil
}

func (p *Local) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	cred, err := p.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrDocNotFound) {
			return "", core.InvalidCredentials(msgInvalidCredentials)
		}
		return "", errors.Wrap(err, "finding credential")
	}
	if err = cred.checkPassword(password); err != nil {
		return "", core.InvalidCredentials(msgInvalidCredentials)
	}
	return cred.UID, nil
}

// VerifyToken validates a Google ID token. An existing credential with the same email keeps its uid.
func (p *Local) VerifyToken(ctx context.Context, idToken string) (core.TokenClaims, error) {
	payload, err := validateIDToken(ctx, idToken, p.googleClientID)
	if err != nil {
		return core.TokenClaims{}, errors.Wrap(err, "verifying ID token")
	}

	claim := func(name string) string {
		s, _ := payload.Claims[name].(string)
		return s
	}
	claims := core.TokenClaims{
		UID:     payload.Subject,
		Email:   core.CleanString(claim("email"), true /* lower */),
		Name:    claim("name"),
		Picture: claim("picture"),
	}
	if claims.Email == "" {
		return claims, nil
	}

	cred, err := p.findByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		claims.UID = cred.UID
	case errors.Is(err, core.ErrDocNotFound):
		cred = credential{UID: claims.UID, Email: claims.Email, Provider: providerGoogle, UpdatedAt: nowFunc().UTC()}
		if err = p.save(ctx, cred); err != nil {
			return core.TokenClaims{}, errors.Wrap(err, "saving credential")
		}
	default:
		return core.TokenClaims{}, errors.Wrap(err, "finding credential")
	}
	return claims, nil
}

func (p *Local) PasswordResetLink(ctx context.Context, email string) (string, error) {
	cred, err := p.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrDocNotFound) {
			return "", errNoUserForEmail
		}
		return "", errors.Wrap(err, "finding credential")
	}
	token, err := p.tokens.makeToken(cred)
	if err != nil {
		return "", errors.Wrap(err, "making token")
	}
	q := make(url.Values)
	q.Set("uid", encodeUID(cred.UID))
	q.Set("token", token)
	return p.frontendBaseURL + "/reset-password?" + q.Encode(), nil
}

// ConfirmPasswordReset sets a new password when token matches the link sent by PasswordResetLink.
func (p *Local) ConfirmPasswordReset(ctx context.Context, encodedUID, token, newPassword string) error {
	uid, err := decodeUID(encodedUID)
	if err != nil {
		return core.InvalidArgument(msgInvalidResetToken)
	}
	cred, err := p.get(ctx, uid)
	if err != nil {
		if errors.Is(err, core.ErrDocNotFound) {
			return core.InvalidArgument(msgInvalidResetToken)
		}
		return errors.Wrap(err, "getting credential")
	}
	if err = p.tokens.verifyToken(cred, token); err != nil {
		return core.InvalidArgument(msgInvalidResetToken)
	}

	if cred.PasswordHash, err = hashPassword(newPassword); err != nil {
		return err
	}
	cred.UpdatedAt = nowFunc().UTC()
	return errors.Wrap(p.save(ctx, cred), "saving credential")
}
