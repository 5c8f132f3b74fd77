package echoapi

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/roster"
	"github.com/trezcool/alama/storage/spreadsheet"
)

type rosterApi struct {
	svc *roster.Service
}

func registerRosterAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *roster.Service) {
	api := rosterApi{svc: svc}

	rg := g.Group("/rosters", jwt)
	rg.POST("", api.upload, verifiedMiddleware())
	rg.GET("", api.retrieve)
	rg.DELETE("", api.destroy, verifiedMiddleware())
}

// Handlers

// upload ingests one workbook per class, all in a single multipart request
// under the "files" field. The class label comes from the sheet's Class
// column when present, otherwise from the file name.
func (api *rosterApi) upload(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return errMissingUpload
	}
	files := form.File["files"]
	if len(files) == 0 {
		return errMissingUpload
	}

	uploads := make([]roster.ClassUpload, 0, len(files))
	for _, fh := range files {
		table, err := readUpload(fh)
		if err != nil {
			return err
		}
		uploads = append(uploads, roster.ClassUpload{
			Class: roster.ClassLabel(table, baseName(fh.Filename)),
			Table: table,
		})
	}

	ds, err := api.svc.Ingest(ctx.Request().Context(), claims.Subject, uploads)
	if err != nil {
		return errors.Wrap(err, "ingesting uploads")
	}
	return ctx.JSON(http.StatusCreated, ds)
}

func (api *rosterApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ds, err := api.svc.Current(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting current dataset")
	}
	return ctx.JSON(http.StatusOK, ds)
}

func (api *rosterApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.Clear(ctx.Request().Context(), claims.Subject); err != nil {
		return errors.Wrap(err, "clearing dataset")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func readUpload(fh *multipart.FileHeader) (roster.RawTable, error) {
	f, err := fh.Open()
	if err != nil {
		return roster.RawTable{}, errors.Wrapf(err, "opening upload %q", fh.Filename)
	}
	defer f.Close()

	table, err := spreadsheet.ReadTable(f)
	if err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return roster.RawTable{}, err
		}
		return roster.RawTable{}, core.NewValidationError(errors.Wrapf(err, "reading workbook %q", fh.Filename))
	}
	return table, nil
}

// baseName strips the directory and extension off an uploaded file name.
func baseName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
