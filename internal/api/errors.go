package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"sharkin/internal/generator"
	"sharkin/internal/llm"
	"sharkin/internal/store"
)

// Messages returned to the client. Provider and parse details stay in logs.
const (
	msgUserNotFound  = "User not found"
	msgQuotaExceeded = "Monthly credit limit reached"
	msgParseFailed   = "Failed to parse AI response"
	msgProviderError = "Failed to generate content, please try again"
	msgInternal      = "Internal server error"
	msgBadBody       = "invalid request body"
)

// bindMessage names the required fields only when the body decoded and
// failed validation. Malformed JSON and mistyped fields get msgBadBody.
func bindMessage(err error, missing string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return missing
	}
	return msgBadBody
}

// statusFor maps a pipeline error onto the HTTP status and public message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, generator.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, generator.ErrUserNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, msgUserNotFound
	case errors.Is(err, generator.ErrQuotaExceeded):
		return http.StatusTooManyRequests, msgQuotaExceeded
	case errors.Is(err, llm.ErrParse):
		return http.StatusInternalServerError, msgParseFailed
	case errors.Is(err, llm.ErrProvider):
		return http.StatusInternalServerError, msgProviderError
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": msg})
}
