package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
)

const jwtAudience = "venz-edu"

var nowFunc = time.Now // mockable

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
}

func (c Claims) person() core.Person {
	return core.Person{ID: c.Subject, Name: c.DisplayName, Email: c.Email}
}

// jwtAuth issues and checks the HS256 tokens handed out on login.
type jwtAuth struct {
	config   middleware.JWTConfig
	issuer   string
	lifetime time.Duration
}

func newJWTAuth(conf *core.Config) jwtAuth {
	return jwtAuth{
		config: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    "userToken",
			Claims:        new(Claims),
		},
		issuer:   conf.AppName,
		lifetime: conf.Server.JWTExpirationDelta,
	}
}

func (a jwtAuth) claims(usr account.PublicUser) *Claims {
	now := nowFunc()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.issuer,
			Subject:   usr.UID,
			Audience:  jwtAudience,
			ExpiresAt: now.Add(a.lifetime).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:       usr.Email,
		DisplayName: usr.DisplayName,
		Role:        usr.Role,
	}
}

// GenerateToken returns a signed JWT for usr.
func (a jwtAuth) GenerateToken(usr account.PublicUser) (string, error) {
	method := jwt.GetSigningMethod(a.config.SigningMethod)
	token := jwt.NewWithClaims(method, a.claims(usr))

	ss, err := token.SignedString(a.config.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (a jwtAuth) contextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(a.config.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
