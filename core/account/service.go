// Package account implements the account lifecycle: signup, login, verification,
// federated login and password reset requests.
package account

import (
	"context"
	"net/mail"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core"
)

// Messages
const (
	MsgSignupSuccess = "User created. Check email for verification."
	MsgResetLinkSent = "Password reset link sent"
	MsgEmailVerified = "Email verified"
	MsgUserNotFound  = "User not found"
	MsgNotVerified   = "Email not verified"
	MsgNotActive     = "Account not active"
	MsgUserExists    = "A user with this email already exists"
)

const (
	federatedDisplayName = "User"
	federatedRole        = RoleStudent
)

// Notifier sends account emails. Calls must not block on delivery.
type Notifier interface {
	SendVerification(to mail.Address, uid string)
	SendPasswordReset(to mail.Address, link string)
}

type ServiceInterface interface {
	Signup(ctx context.Context, req SignupRequest) (SignupResponse, error)
	Provision(ctx context.Context, req ProvisionRequest) (User, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	RequestPasswordReset(ctx context.Context, req PasswordResetRequest) (MessageResponse, error)
	HandleFederatedLogin(ctx context.Context, req FederatedLoginRequest) (LoginResponse, error)
	VerifyEmail(ctx context.Context, req VerifyEmailRequest) (MessageResponse, error)
	GetByUID(ctx context.Context, uid string) (User, error)
}

type Service struct {
	docs       core.DocumentStore
	identity   core.IdentityProvider
	notifier   Notifier
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger
}

var _ ServiceInterface = (*Service)(nil)

func NewService(
	docs core.DocumentStore,
	identity core.IdentityProvider,
	notifier Notifier,
	validate *validator.Validate,
	translator ut.Translator,
	logger core.Logger,
) *Service {
	return &Service{
		docs:       docs,
		identity:   identity,
		notifier:   notifier,
		validate:   validate,
		translator: translator,
		logger:     logger,
	}
}

func (svc *Service) invalid(err error) error {
	return core.TranslateValidation(err, svc.translator)
}

func (svc *Service) findByEmail(ctx context.Context, email string) (User, error) {
	_, doc, err := svc.docs.FindOne(ctx, core.UsersCollection, "email", email)
	if err != nil {
		if errors.Is(err, core.ErrDocNotFound) {
			return User{}, core.NotFound(MsgUserNotFound)
		}
		return User{}, core.Internal(errors.Wrap(err, "finding user by email"))
	}
	usr, err := decodeUser(doc)
	return usr, core.Internal(err)
}

// GetByUID returns the stored profile of uid.
func (svc *Service) GetByUID(ctx context.Context, uid string) (User, error) {
	doc, err := svc.docs.Get(ctx, core.UsersCollection, uid)
	if err != nil {
		if errors.Is(err, core.ErrDocNotFound) {
			return User{}, core.NotFound(MsgUserNotFound)
		}
		return User{}, core.Internal(errors.Wrap(err, "getting user"))
	}
	usr, err := decodeUser(doc)
	return usr, core.Internal(err)
}

func (svc *Service) checkEmailAvailable(ctx context.Context, email string) error {
	_, err := svc.findByEmail(ctx, email)
	switch {
	case err == nil:
		return core.AlreadyExists(MsgUserExists)
	case core.IsKind(err, core.KindNotFound):
		return nil
	default:
		return err
	}
}

// createAccount registers credentials with the identity provider then writes the profile document.
func (svc *Service) createAccount(ctx context.Context, email, password, displayName, role string, verified bool) (string, error) {
	if err := svc.checkEmailAvailable(ctx, email); err != nil {
		return "", err
	}
	uid, err := svc.identity.CreateAccount(ctx, email, password, displayName)
	if err != nil {
		return "", core.Internal(errors.Wrap(err, "creating identity account"))
	}
	doc := newUserDocument(uid, email, displayName, role, verified)
	if err = svc.docs.Set(ctx, core.UsersCollection, uid, doc); err != nil {
		return "", core.Internal(errors.Wrap(err, "saving user"))
	}
	return uid, nil
}

// Signup creates an unverified student or mentor account and sends the verification email.
func (svc *Service) Signup(ctx context.Context, req SignupRequest) (SignupResponse, error) {
	if err := req.Validate(svc.validate); err != nil {
		return SignupResponse{}, svc.invalid(err)
	}

	uid, err := svc.createAccount(ctx, req.Email, req.Password, req.DisplayName, req.Role, false)
	if err != nil {
		return SignupResponse{}, err
	}

	svc.notifier.SendVerification(mail.Address{Name: req.DisplayName, Address: req.Email}, uid)
	return SignupResponse{Success: true, UID: uid, Message: MsgSignupSuccess}, nil
}

// Provision creates a verified account of any role without sending emails.
func (svc *Service) Provision(ctx context.Context, req ProvisionRequest) (User, error) {
	if err := req.Validate(svc.validate); err != nil {
		return User{}, svc.invalid(err)
	}
	uid, err := svc.createAccount(ctx, req.Email, req.Password, req.DisplayName, req.Role, true)
	if err != nil {
		return User{}, err
	}
	return svc.GetByUID(ctx, uid)
}

// Login gates access on verification and status then stamps lastLogin.
// Passwords are checked by the identity provider before this is called.
func (svc *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	if err := req.Validate(svc.validate); err != nil {
		return LoginResponse{}, svc.invalid(err)
	}

	usr, err := svc.findByEmail(ctx, req.Email)
	if err != nil {
		return LoginResponse{}, err
	}
	if !usr.Verified {
		return LoginResponse{}, core.PermissionDenied(MsgNotVerified)
	}
	if !usr.IsActive() {
		return LoginResponse{}, core.PermissionDenied(MsgNotActive)
	}

	err = svc.docs.Update(ctx, core.UsersCollection, usr.UID, core.Document{"lastLogin": core.ServerTimestamp})
	if err != nil {
		return LoginResponse{}, core.Internal(errors.Wrap(err, "setting lastLogin"))
	}
	return LoginResponse{Success: true, User: usr.Public()}, nil
}

// RequestPasswordReset emails a reset link. Unknown emails surface as internal errors, not "not found".
func (svc *Service) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) (MessageResponse, error) {
	if err := req.Validate(svc.validate); err != nil {
		return MessageResponse{}, svc.invalid(err)
	}

	link, err := svc.identity.PasswordResetLink(ctx, req.Email)
	if err != nil {
		return MessageResponse{}, &core.Error{Kind: core.KindInternal, Message: err.Error(), Err: err}
	}

	svc.notifier.SendPasswordReset(mail.Address{Address: req.Email}, link)
	return MessageResponse{Success: true, Message: MsgResetLinkSent}, nil
}

// HandleFederatedLogin signs in with a provider ID token, creating a verified student on first use.
// Returning users only get lastLogin refreshed.
func (svc *Service) HandleFederatedLogin(ctx context.Context, req FederatedLoginRequest) (LoginResponse, error) {
	if err := req.Validate(svc.validate); err != nil {
		return LoginResponse{}, svc.invalid(err)
	}

	claims, err := svc.identity.VerifyToken(ctx, req.IDToken)
	if err != nil {
		return LoginResponse{}, &core.Error{Kind: core.KindInternal, Message: err.Error(), Err: err}
	}

	_, err = svc.GetByUID(ctx, claims.UID)
	switch {
	case core.IsKind(err, core.KindNotFound):
		displayName := claims.Name
		if displayName == "" {
			displayName = federatedDisplayName
		}
		doc := newUserDocument(claims.UID, core.CleanString(claims.Email, true /* lower */), displayName, federatedRole, true)
		doc["profilePicture"] = claims.Picture
		doc["lastLogin"] = core.ServerTimestamp
		if err = svc.docs.Set(ctx, core.UsersCollection, claims.UID, doc); err != nil {
			return LoginResponse{}, core.Internal(errors.Wrap(err, "creating federated user"))
		}
	case err != nil:
		return LoginResponse{}, err
	default:
		err = svc.docs.Update(ctx, core.UsersCollection, claims.UID, core.Document{"lastLogin": core.ServerTimestamp})
		if err != nil {
			return LoginResponse{}, core.Internal(errors.Wrap(err, "setting lastLogin"))
		}
	}

	usr, err := svc.GetByUID(ctx, claims.UID)
	if err != nil {
		return LoginResponse{}, core.Internal(err)
	}
	return LoginResponse{Success: true, User: usr.Public()}, nil
}

// VerifyEmail marks the user verified. Repeating it is harmless.
func (svc *Service) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (MessageResponse, error) {
	if err := req.Validate(svc.validate); err != nil {
		return MessageResponse{}, svc.invalid(err)
	}

	err := svc.docs.Update(ctx, core.UsersCollection, req.UID, core.Document{
		"verified":  true,
		"updatedAt": core.ServerTimestamp,
	})
	if err != nil {
		return MessageResponse{}, core.Internal(errors.Wrap(err, "verifying email"))
	}
	return MessageResponse{Success: true, Message: MsgEmailVerified}, nil
}
