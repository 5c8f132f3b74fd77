package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/predict"
)

type predictApi struct{}

func registerPredictAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	api := predictApi{}

	pg := g.Group("/predict", jwt)
	pg.POST("", api.predict)
	pg.GET("/options", api.options)
}

// Handlers

func (api *predictApi) predict(ctx echo.Context) error {
	var data predict.Input
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to predict.Input")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, predict.Predict(data))
}

// options exposes the recognized categorical levels so clients can render
// selection fields without hardcoding them.
func (api *predictApi) options(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"parental_education": predict.EducationLevels,
		"parental_support":   predict.SupportLevels,
	})
}
