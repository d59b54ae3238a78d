package middleware

import (
	"net/http"
	"runtime/debug"

	"wellnest/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Recovery converts panics into 500 responses instead of dropped
// connections.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logrus.WithFields(logrus.Fields{
					"error":  err,
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
					"stack":  string(debug.Stack()),
				}).Error("Panic recovered")

				c.JSON(http.StatusInternalServerError, models.ErrorResponse{
					Error:   "INTERNAL_ERROR",
					Message: "An unexpected error occurred",
					Code:    models.ErrCodeInternal,
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}

// ErrorHandler surfaces errors attached to the context by handlers that
// did not write a response themselves. Error detail is only echoed back
// outside production; elsewhere the client gets a generic message and
// the detail stays in the logs.
func ErrorHandler(environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last()
		logrus.Errorf("Unhandled request error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)

		message := "An unexpected error occurred"
		if environment != "production" {
			message = err.Error()
		}

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "INTERNAL_ERROR",
			Message: message,
			Code:    models.ErrCodeInternal,
		})
	}
}
