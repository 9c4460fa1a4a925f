package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core/seed"
)

type seedApi struct {
	svc seed.ServiceInterface
}

func registerSeedAPI(g *echo.Group, svc seed.ServiceInterface) {
	api := seedApi{svc: svc}
	g.POST("/seed", api.seed)
}

func (api *seedApi) seed(ctx echo.Context) error {
	var data seed.Request
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to seed.Request")
	}
	res, err := api.svc.Seed(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
