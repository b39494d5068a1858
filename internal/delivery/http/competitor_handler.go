package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/internal/service"
	"golang-shopify-warroom/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CompetitorHandler handles HTTP requests for monitored storefronts.
type CompetitorHandler struct {
	competitorService service.CompetitorService
	logger            *logger.Logger
}

// NewCompetitorHandler creates a new CompetitorHandler.
func NewCompetitorHandler(competitorService service.CompetitorService, logger *logger.Logger) *CompetitorHandler {
	return &CompetitorHandler{competitorService: competitorService, logger: logger}
}

// RegisterRoutes registers the competitor routes to the Echo group.
func (h *CompetitorHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateCompetitor)
	g.GET("", h.GetAllCompetitors)
	g.DELETE("/:id", h.DeleteCompetitor)
	g.POST("/:id/analyze", h.AnalyzeCompetitor)
}

// CreateCompetitor godoc
// @Summary Register a storefront to monitor
// @Description Register a storefront; the URL is normalized and must be unique
// @Tags competitors
// @Accept  json
// @Produce  json
// @Param   competitor  body    dto.CreateCompetitorRequest   true    "Competitor to create"
// @Success 201 {object} dto.CompetitorResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /competitors [post]
func (h *CompetitorHandler) CreateCompetitor(c echo.Context) error {
	var req dto.CreateCompetitorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.competitorService.CreateCompetitor(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrCompetitorExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			h.logger.Error("Failed to create competitor", logger.ErrorField(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create competitor"})
		}
	}

	return c.JSON(http.StatusCreated, resp)
}

// GetAllCompetitors godoc
// @Summary List monitored storefronts
// @Tags competitors
// @Produce  json
// @Success 200 {array} dto.CompetitorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /competitors [get]
func (h *CompetitorHandler) GetAllCompetitors(c echo.Context) error {
	competitors, err := h.competitorService.GetAllCompetitors(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get competitors", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get competitors"})
	}
	return c.JSON(http.StatusOK, competitors)
}

// DeleteCompetitor godoc
// @Summary Delete a monitored storefront
// @Description Delete a competitor; its price history and analyses cascade
// @Tags competitors
// @Produce  json
// @Param   id  path    int true    "Competitor ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /competitors/{id} [delete]
func (h *CompetitorHandler) DeleteCompetitor(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid competitor ID"})
	}

	if err := h.competitorService.DeleteCompetitor(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Competitor not found"})
		}
		h.logger.Error("Failed to delete competitor", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete competitor"})
	}

	return c.NoContent(http.StatusNoContent)
}

// AnalyzeCompetitor godoc
// @Summary Analyze a storefront now
// @Description Synchronously fetch the catalog, run the market analysis and persist the results
// @Tags competitors
// @Produce  json
// @Param   id    path     int     true   "Competitor ID"
// @Param   lang  query    string  false  "Language for the analysis text (en or es)"
// @Success 200 {object} dto.AnalyzeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /competitors/{id}/analyze [post]
func (h *CompetitorHandler) AnalyzeCompetitor(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid competitor ID"})
	}

	lang := c.QueryParam("lang")
	if lang == "" {
		lang = "en"
	}

	resp, err := h.competitorService.TriggerAnalysis(c.Request().Context(), uint(id), lang)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Competitor not found"})
		}
		// Fetch and reasoning failures are transient; surface them as a
		// notice, not a crash.
		h.logger.Error("Manual analysis failed", logger.Field("competitor_id", id), logger.ErrorField(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}
