// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"

	xerrors "cms-admin/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response defines the standard view response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error, data ...interface{}) {
	// Abort first so later handlers in the chain never write.
	c.Abort()

	response := Response{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
	}

	if len(data) > 0 {
		response.Data = data[0]
	}

	c.JSON(code, response)
}

// FromError picks the status code for a service error and writes it.
func FromError(c *gin.Context, message string, err error) {
	Error(c, StatusFor(err), message, err)
}

// StatusFor maps the shared sentinels onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, xerrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, xerrors.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}
