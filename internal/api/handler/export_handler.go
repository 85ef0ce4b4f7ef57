package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exlity/admin-backend/internal/core/service"
)

// ExportHandler serves full data dumps for the admin data-export screen.
type ExportHandler struct {
	exporter *service.Exporter
}

func NewExportHandler(exporter *service.Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Export returns the exported entities as JSON (default) or as a SQL INSERT
// script.
//
// @Summary      Export data
// @Tags         export
// @Produce      json
// @Param        format  query     string  false  "Export format: json or sql"  Enums(json, sql)
// @Success      200     {object}  map[string][]map[string]any
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /v1/export [get]
func (h *ExportHandler) Export(c echo.Context) error {
	switch c.QueryParam("format") {
	case "", "json":
		out, err := h.exporter.ExportJSON(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, out)
	case "sql":
		script, err := h.exporter.ExportSQL(c.Request().Context())
		if err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="export.sql"`)
		return c.Blob(http.StatusOK, "application/sql", []byte(script))
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "format must be json or sql")
	}
}
