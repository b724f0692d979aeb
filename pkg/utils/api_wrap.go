package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "Session not found or expired")
	case errors.Is(err, ErrInvalidEmail):
		RespondError(c, http.StatusBadRequest, "E-mail inválido. Confira e tente novamente.")
	case errors.Is(err, ErrEmailRequired):
		RespondError(c, http.StatusBadRequest, "Digite seu e-mail para continuar.")
	case errors.Is(err, ErrNoAnswers):
		RespondError(c, http.StatusBadRequest, "Não encontrei respostas para salvar.")
	case errors.Is(err, ErrDuplicateIdentity):
		RespondError(c, http.StatusConflict, "A record already exists for this identity")
	case errors.Is(err, ErrInvalidLimit):
		RespondError(c, http.StatusBadRequest, "Limit must be between 1 and 5000")
	case errors.Is(err, ErrDatabaseError):
		log.Error().Err(err).Msg("database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Error().Err(err).Msg("unknown error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
