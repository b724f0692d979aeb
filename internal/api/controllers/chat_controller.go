package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"upmoney/internal/models/request_models"
	"upmoney/internal/services"
	"upmoney/pkg/utils"
)

type ChatController struct {
	chatService services.ChatServiceInterface
}

func NewChatController(chatService services.ChatServiceInterface) *ChatController {
	return &ChatController{chatService: chatService}
}

// Start godoc
// @Summary Start an onboarding chat session
// @Description Create a new session and return the first question
// @Tags Chat
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /chat/start [post]
func (ch *ChatController) Start(c *gin.Context) {
	step, err := ch.chatService.StartSession(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, step, "Session started")
}

// Submit godoc
// @Summary Submit an answer
// @Description Record the answer for the current question and advance the flow
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request_models.ChatSubmitRequest true "Submission payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /chat/submit [post]
func (ch *ChatController) Submit(c *gin.Context) {
	var req request_models.ChatSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.SessionToken == "" || req.QuestionID == "" {
		utils.RespondError(c, http.StatusBadRequest, "session_token and question_id are required")
		return
	}

	step, err := ch.chatService.Submit(c.Request.Context(), req.SessionToken, req.QuestionID, req.Value)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, step, "Submission processed")
}

// Restart godoc
// @Summary Restart a chat session
// @Description Reset the session back to the first question, clearing all answers
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request_models.ChatRestartRequest true "Restart payload"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /chat/restart [post]
func (ch *ChatController) Restart(c *gin.Context) {
	var req request_models.ChatRestartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionToken == "" {
		utils.RespondError(c, http.StatusBadRequest, "session_token is required")
		return
	}

	step, err := ch.chatService.Restart(c.Request.Context(), req.SessionToken)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, step, "Session restarted")
}
