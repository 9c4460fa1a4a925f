package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
)

const msgPasswordReset = "Password has been reset with the new password."

type accountApi struct {
	svc        account.ServiceInterface
	identity   core.IdentityProvider
	auth       jwtAuth
	validate   *validator.Validate
	translator ut.Translator
}

func registerAccountAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth jwtAuth, deps ServerDeps) {
	api := accountApi{
		svc:        deps.AccountSvc,
		identity:   deps.Identity,
		auth:       auth,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ag := g.Group("/accounts")

	// un-authed endpoints
	ag.POST("/signup", api.signup)
	ag.POST("/login", api.login)
	ag.POST("/federated-login", api.federatedLogin)
	ag.POST("/verify-email", api.verifyEmail)
	ag.POST("/password-reset", api.resetPassword)
	if confirmer, ok := deps.Identity.(core.PasswordResetConfirmer); ok {
		ag.POST("/password-reset-confirm", api.confirmPasswordReset(confirmer))
	}

	// authed endpoints
	ag.GET("/me", api.me, jwt)
}

// Handlers

func (api *accountApi) signup(ctx echo.Context) error {
	var data account.SignupRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignupRequest")
	}
	res, err := api.svc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *accountApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return core.TranslateValidation(err, api.translator)
	}

	rctx := ctx.Request().Context()
	if _, err := api.identity.SignInWithPassword(rctx, data.Email, data.Password); err != nil {
		return core.Internal(err)
	}
	res, err := api.svc.Login(rctx, account.LoginRequest{Email: data.Email})
	if err != nil {
		return err
	}
	return api.respondWithToken(ctx, res)
}

func (api *accountApi) federatedLogin(ctx echo.Context) error {
	var data account.FederatedLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FederatedLoginRequest")
	}
	res, err := api.svc.HandleFederatedLogin(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return api.respondWithToken(ctx, res)
}

func (api *accountApi) respondWithToken(ctx echo.Context, res account.LoginResponse) error {
	token, err := api.auth.GenerateToken(res.User)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{LoginResponse: res, Token: token})
}

func (api *accountApi) verifyEmail(ctx echo.Context) error {
	var data account.VerifyEmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyEmailRequest")
	}
	res, err := api.svc.VerifyEmail(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *accountApi) resetPassword(ctx echo.Context) error {
	var data account.PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	res, err := api.svc.RequestPasswordReset(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *accountApi) confirmPasswordReset(confirmer core.PasswordResetConfirmer) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var data PasswordResetConfirmRequest
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to PasswordResetConfirmRequest")
		}
		if err := data.Validate(api.validate); err != nil {
			return core.TranslateValidation(err, api.translator)
		}

		if err := confirmer.ConfirmPasswordReset(ctx.Request().Context(), data.UID, data.Token, data.Password); err != nil {
			return core.Internal(err)
		}
		return ctx.JSON(http.StatusOK, account.MessageResponse{Success: true, Message: msgPasswordReset})
	}
}

func (api *accountApi) me(ctx echo.Context) error {
	claims, err := api.auth.contextClaims(ctx)
	if err != nil {
		return err
	}
	usr, err := api.svc.GetByUID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr.Public())
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		account.LoginResponse
		Token string `json:"token"`
	}

	PasswordResetConfirmRequest struct {
		UID      string `json:"uid" validate:"required"`
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetConfirmRequest) Validate(validate *validator.Validate) error {
	pr.UID = core.CleanString(pr.UID)
	pr.Token = core.CleanString(pr.Token)
	return validate.Struct(pr)
}
