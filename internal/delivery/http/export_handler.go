package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang-shopify-warroom/internal/service"
	"golang-shopify-warroom/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ExportHandler serves the CSV intelligence reports.
type ExportHandler struct {
	exportService service.ExportService
	logger        *logger.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService, logger *logger.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, logger: logger}
}

// RegisterRoutes registers the export routes.
func (h *ExportHandler) RegisterRoutes(e *echo.Echo, competitors *echo.Group) {
	e.GET("/export/csv", h.ExportAllCSV)
	competitors.GET("/:id/export/csv", h.ExportCompetitorCSV)
}

// ExportCompetitorCSV godoc
// @Summary Export one competitor's report as CSV
// @Tags export
// @Produce  text/csv
// @Param   id  path    int true    "Competitor ID"
// @Success 200 {string} string "CSV report"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /competitors/{id}/export/csv [get]
func (h *ExportHandler) ExportCompetitorCSV(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid competitor ID"})
	}

	content, filename, err := h.exportService.ExportCompetitorCSV(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Competitor not found"})
		}
		h.logger.Error("Failed to export competitor report", logger.Field("competitor_id", id), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to export report"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", content)
}

// ExportAllCSV godoc
// @Summary Export the full intelligence report as CSV
// @Tags export
// @Produce  text/csv
// @Success 200 {string} string "CSV report"
// @Failure 500 {object} dto.ErrorResponse
// @Router /export/csv [get]
func (h *ExportHandler) ExportAllCSV(c echo.Context) error {
	content, filename, err := h.exportService.ExportAllCSV(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to export full report", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to export report"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", content)
}
