package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trackly/tracker/internal/apierror"
	"github.com/trackly/tracker/internal/logging"
)

// Error writes the standard error envelope and aborts the chain.
func Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, apierror.New(code, message))
}

// ValidationError writes a 400 VALIDATION_ERROR.
func ValidationError(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, apierror.CodeValidation, message)
}

// InternalError logs err under operation and writes a 500 without leaking
// the cause to the caller.
func InternalError(c *gin.Context, operation string, err error) {
	logging.NewLogger(c.Request.Context()).LogError(operation, err)
	Error(c, http.StatusInternalServerError, apierror.CodeInternal, "Internal server error")
}

// ValidationMessage strips the "<sentinel>: " prefix that domain packages
// put on wrapped validation errors.
func ValidationMessage(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}
