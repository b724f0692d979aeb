package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"upmoney/internal/models/request_models"
	"upmoney/internal/services"
	"upmoney/pkg/utils"
)

type OnboardingController struct {
	onboardingService services.OnboardingServiceInterface
}

func NewOnboardingController(onboardingService services.OnboardingServiceInterface) *OnboardingController {
	return &OnboardingController{onboardingService: onboardingService}
}

// Save godoc
// @Summary Save a completed questionnaire directly
// @Description Persist an answers snapshot, optionally keyed by e-mail. Re-submitting the same e-mail overwrites the stored answers.
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param request body request_models.SaveOnboardingRequest true "Answers payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /onboarding/save [post]
func (o *OnboardingController) Save(c *gin.Context) {
	var req request_models.SaveOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	rec, err := o.onboardingService.Save(c.Request.Context(), req.Email, req.Answers, req.RequireEmail)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, rec, "Respostas salvas com sucesso")
}

// Recent godoc
// @Summary List recent questionnaire records
// @Description Most recent records first, bounded by limit
// @Tags Onboarding
// @Produce json
// @Param limit query int false "Page size" default(100) minimum(1) maximum(5000)
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /onboarding/recent [get]
func (o *OnboardingController) Recent(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit parameter")
		return
	}

	rows, err := o.onboardingService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, rows, "Records fetched successfully")
}
