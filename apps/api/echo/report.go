package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports", jwt)
	rg.GET("", api.retrieve)
	rg.GET("/export", api.export)
	rg.POST("/email", api.email, verifiedMiddleware())
}

// Handlers

func (api *reportApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	rep, err := api.svc.Compute(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "computing report")
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *reportApi) export(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	_, buf, err := api.svc.Export(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "exporting report")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="class_performance_report.xlsx"`)
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (api *reportApi) email(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data EmailReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailReportRequest")
	}
	// default to the requester's own address
	if data.Email == "" {
		data.Email = claims.Email
	}
	if err := data.Validate(); err != nil {
		return err
	}

	to := mail.Address{Name: claims.Name, Address: data.Email}
	if err := api.svc.Email(ctx.Request().Context(), claims.Subject, to); err != nil {
		return errors.Wrap(err, "emailing report")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Report sent to " + data.Email + "."})
}

type EmailReportRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (er *EmailReportRequest) Validate() error {
	er.Email = core.CleanString(er.Email, true /* lower */)
	return core.Validate.Struct(er)
}
