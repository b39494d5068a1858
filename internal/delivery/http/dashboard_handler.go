package http

import (
	"net/http"
	"strconv"

	"golang-shopify-warroom/internal/service"
	"golang-shopify-warroom/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves read views over stored observations and
// assessments.
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *logger.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// RegisterRoutes registers the dashboard routes to the Echo group.
func (h *DashboardHandler) RegisterRoutes(e *echo.Echo, competitors *echo.Group) {
	e.GET("/dashboard", h.GetDashboard)
	competitors.GET("/:id/price-history", h.GetPriceHistoryChart)
}

// GetDashboard godoc
// @Summary Dashboard overview
// @Description Every competitor with its latest assessment, latest observations, and global totals
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.DashboardResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	resp, err := h.dashboardService.GetDashboard(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to build dashboard"})
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPriceHistoryChart godoc
// @Summary Price history chart data
// @Description Per-product price series for one competitor, shaped for Chart.js
// @Tags dashboard
// @Produce  json
// @Param   id  path    int true    "Competitor ID"
// @Success 200 {object} dto.PriceHistoryChart
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /competitors/{id}/price-history [get]
func (h *DashboardHandler) GetPriceHistoryChart(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid competitor ID"})
	}

	chart, err := h.dashboardService.GetPriceHistoryChart(c.Request().Context(), uint(id))
	if err != nil {
		h.logger.Error("Failed to build price history chart", logger.Field("competitor_id", id), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to build price history chart"})
	}
	return c.JSON(http.StatusOK, chart)
}
