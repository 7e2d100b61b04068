package handlers

import (
	"context"
	"io"
	"net/http"

	"venture_claims_go/services"

	"github.com/labstack/echo/v4"
)

// ImportHandler serves spreadsheet imports of clients and claims
type ImportHandler struct {
	importer *services.ImportService
}

func NewImportHandler(importer *services.ImportService) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// ImportClients loads the Clients sheet of an uploaded workbook
func (h *ImportHandler) ImportClients(c echo.Context) error {
	return h.runImport(c, h.importer.ImportClients)
}

// ImportClaims loads the Claims sheet of an uploaded workbook
func (h *ImportHandler) ImportClaims(c echo.Context) error {
	return h.runImport(c, h.importer.ImportClaims)
}

func (h *ImportHandler) runImport(c echo.Context, run func(ctx context.Context, r io.Reader) (*services.ImportResult, error)) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "file is required")
	}
	if err := services.ValidateImportFile(file.Filename); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, http.StatusBadRequest, "failed to read file")
	}
	defer src.Close()

	result, err := run(c.Request().Context(), src)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// Template streams a workbook with the expected sheets and headers
func (h *ImportHandler) Template(c echo.Context) error {
	f, err := services.GenerateImportTemplate()
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to build template")
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to build template")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="import-template.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
