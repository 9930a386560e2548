package handler

import (
	"net/http"

	"saripos/internal/apierror"
	"saripos/internal/dto"
	"saripos/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.ReportService }

func NewDashboardHandler(svc service.ReportService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats godoc
// @Summary      Dashboard snapshot
// @Description  Today's and this month's totals, catalog size, low-stock products, and the ten most recent sales.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.DashboardStatsResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SalesReport godoc
// @Summary      Revenue report bucketed by day, week, or month
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        startDate query string true  "YYYY-MM-DD"
// @Param        endDate   query string true  "YYYY-MM-DD"
// @Param        groupBy   query string false "day | week | month (default day)"
// @Success      200  {array} dto.SalesReportRow
// @Failure      400  {object} apierror.APIError
// @Router       /api/dashboard/reports/sales [get]
func (h *DashboardHandler) SalesReport(c *gin.Context) {
	var filter dto.SalesReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if filter.StartDate == "" || filter.EndDate == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Start date and end date are required"))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid date range"))
		return
	}
	rows, err := h.svc.SalesReport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// TopProducts godoc
// @Summary      Best sellers by units sold
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate   query string false "YYYY-MM-DD"
// @Param        limit     query int    false "Max rows (default 10)"
// @Success      200  {array} dto.TopProductRow
// @Router       /api/dashboard/reports/products [get]
func (h *DashboardHandler) TopProducts(c *gin.Context) {
	var filter dto.TopProductsFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	rows, err := h.svc.TopProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
