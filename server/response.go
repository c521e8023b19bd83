package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/userauth/errors"
	"github.com/kbukum/userauth/logger"
)

// MessageResponse is the body of operations that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondWithError writes the error envelope for err. AppErrors keep their
// status and code; anything else becomes a generic INTERNAL_ERROR. Server-side
// failures are logged with their cause, which never reaches the client.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		fields := map[string]interface{}{
			logger.FieldCode: string(appErr.Code),
			"path":           c.Request.URL.Path,
		}
		if appErr.Cause != nil {
			fields[logger.FieldError] = appErr.Cause.Error()
		}
		logger.WithComponent("server").WithContext(c.Request.Context()).Error("Request failed", fields)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 response with body as-is.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// RespondMessage sends a 200 {"message": msg} response.
func RespondMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// RespondNoContent sends a 204 with no body.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func errNoRoute(method, path string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeNotFound, fmt.Sprintf("Route %s %s not found", method, path), http.StatusNotFound)
}

func errNoMethod(method, path string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeNotFound, fmt.Sprintf("Method %s not allowed on %s", method, path), http.StatusMethodNotAllowed)
}
