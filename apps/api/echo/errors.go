package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core"
)

const codeUnauthenticated = "unauthenticated"

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
)

var kindStatus = map[core.ErrorKind]int{
	core.KindInvalidArgument:    http.StatusBadRequest,
	core.KindInvalidCredentials: http.StatusUnauthorized,
	core.KindPermissionDenied:   http.StatusForbidden,
	core.KindNotFound:           http.StatusNotFound,
	core.KindAlreadyExists:      http.StatusConflict,
	core.KindInternal:           http.StatusInternalServerError,
}

func statusKind(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return codeUnauthenticated
	case http.StatusForbidden:
		return string(core.KindPermissionDenied)
	case http.StatusNotFound:
		return string(core.KindNotFound)
	case http.StatusConflict:
		return string(core.KindAlreadyExists)
	}
	if code < http.StatusInternalServerError {
		return string(core.KindInvalidArgument)
	}
	return string(core.KindInternal)
}

// httpErr is the body of every error response.
type httpErr struct {
	Code   string            `json:"code"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, auth jwtAuth, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var body httpErr

		var hErr *echo.HTTPError
		var vErr *core.ValidationError
		switch {
		case errors.As(err, &hErr):
			if internal, ok := hErr.Internal.(*echo.HTTPError); ok {
				hErr = internal
			}
			code = hErr.Code
			// the JWT middleware reports missing tokens as bad requests
			if hErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
			}
			body.Code = statusKind(code)
			body.Error = fmt.Sprint(hErr.Message)

		case errors.As(err, &vErr):
			code = http.StatusBadRequest
			body.Code = string(core.KindInvalidArgument)
			body.Error = vErr.Error()
			if len(vErr.Fields) > 0 {
				body.Fields = make(map[string]string, len(vErr.Fields))
				for _, fErr := range vErr.Fields {
					body.Fields[fErr.Field] = fErr.Error
				}
			}

		default:
			kind := core.KindOf(err)
			code = kindStatus[kind]
			body.Code = string(kind)

			var cErr *core.Error
			switch {
			case errors.As(err, &cErr):
				body.Error = cErr.Error()
			case kind == core.KindInternal:
				body.Error = http.StatusText(http.StatusInternalServerError)
			default:
				body.Error = err.Error()
			}

			if kind == core.KindInternal {
				args := []interface{}{err}
				if claims, cErr := auth.contextClaims(ctx); cErr == nil {
					args = append(args, claims.person())
				}
				logger.Error(fmt.Sprintf("%s %s: %v", ctx.Request().Method, ctx.Path(), err), args...)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			body.Error = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
