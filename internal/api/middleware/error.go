package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/ShilinYang123/PG-PMC-sub001/pkg/errors"
	"github.com/ShilinYang123/PG-PMC-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorHandlingMiddleware recovers from panics and converts errors attached
// to the gin context into the standard error envelope.
func ErrorHandlingMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.WithFields(logrus.Fields{
					"panic":      recovered,
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString(RequestIDKey),
					"stack":      string(debug.Stack()),
				}).Error("Panic recovered")

				utils.SendError(c, http.StatusInternalServerError, "Internal server error")
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := errors.GetStatusCode(err)
		message := err.Error()
		if appErr, ok := err.(*errors.AppError); ok {
			message = appErr.Message
		}

		logger.WithFields(logrus.Fields{
			"status":     status,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(RequestIDKey),
		}).WithError(err).Warn("Request failed")

		utils.SendError(c, status, message)
	}
}
