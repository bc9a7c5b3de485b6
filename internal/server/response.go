package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/questmap/internal/catalog"
	"github.com/abhisek/questmap/internal/progress"
)

// APIError is the body of every failed response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// respondFailure maps a service error onto a status code. Anything not
// recognised is an internal error and its message is not exposed.
func (h *handlers) respondFailure(c *gin.Context, err error) {
	var scoreErr *progress.InvalidScoreError
	switch {
	case errors.As(err, &scoreErr):
		respondError(c, http.StatusBadRequest, "invalid_score", err)
	case errors.Is(err, progress.ErrItemNotFound):
		respondError(c, http.StatusNotFound, "item_not_found", err)
	case catalog.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err)
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "internal", errors.New("internal server error"))
	}
}
