package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"upmoney/internal/services"
	"upmoney/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
}

func NewDashboardController(dashboardService services.DashboardServiceInterface) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// GetStats godoc
// @Summary Per-question answer distributions
// @Description Frequency of each answer value for every catalog question, computed over the most recent records
// @Tags Dashboard
// @Produce json
// @Param limit query int false "How many recent records to aggregate" default(2000) minimum(1) maximum(5000)
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /dashboard/stats [get]
func (d *DashboardController) GetStats(c *gin.Context) {
	limit, ok := limitQuery(c)
	if !ok {
		return
	}
	report, err := d.dashboardService.BuildDashboard(c.Request.Context(), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}

// GetInsights godoc
// @Summary Persona insights
// @Description Persona frequencies and content hooks derived from the stored answers
// @Tags Dashboard
// @Produce json
// @Param limit query int false "How many recent records to analyze" default(1500) minimum(1) maximum(5000)
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /dashboard/insights [get]
func (d *DashboardController) GetInsights(c *gin.Context) {
	limit, ok := limitQuery(c)
	if !ok {
		return
	}
	report, err := d.dashboardService.BuildInsights(c.Request.Context(), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "Insights fetched successfully")
}

func limitQuery(c *gin.Context) (int, bool) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return 0, true // service applies its default
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit parameter")
		return 0, false
	}
	return limit, true
}
